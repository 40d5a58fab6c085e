package hd

import (
	"crypto/sha512"
	"strings"

	"github.com/iov-one/cosign/errors"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

const (
	seedIterations = 2048
	// SeedSize is the length of a seed created from a mnemonic.
	SeedSize = 64
)

// ValidateMnemonic returns an error if given phrase is not a mnemonic of the
// English wordlist with a valid checksum. Words must be separated by exactly
// one space and the phrase must not contain leading or trailing whitespace.
func ValidateMnemonic(mnemonic string) error {
	if mnemonic == "" {
		return errors.Wrap(errors.ErrInvalidMnemonic, "empty")
	}
	if strings.Join(strings.Fields(mnemonic), " ") != mnemonic {
		return errors.Wrap(errors.ErrInvalidMnemonic, "words must be separated by a single space")
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return errors.Wrap(errors.ErrInvalidMnemonic, "unknown word, word count or checksum")
	}
	return nil
}

// Seed returns the 64 byte seed of given mnemonic, stretched with the optional
// passphrase. Both values are NFKD normalized before stretching.
func Seed(mnemonic, passphrase string) ([]byte, error) {
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}
	password := norm.NFKD.String(mnemonic)
	salt := norm.NFKD.String("mnemonic" + passphrase)
	return pbkdf2.Key([]byte(password), []byte(salt), seedIterations, SeedSize, sha512.New), nil
}

// NewMnemonic encodes given entropy as a mnemonic. Entropy must be between 128
// and 256 bits long and a multiple of 32 bits. Generating entropy is left to
// the caller.
func NewMnemonic(entropy []byte) (string, error) {
	bits := len(entropy) * 8
	if bits < 128 || bits > 256 || bits%32 != 0 {
		return "", errors.Wrapf(errors.ErrInput, "invalid entropy length %d bits", bits)
	}
	m, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return m, nil
}
