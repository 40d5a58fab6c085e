package crypto

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/iov-one/cosign/errors"
)

const (
	// PrivKeySize is the length of a serialized private key.
	PrivKeySize = 32
	// PubKeySize is the length of a compressed public key.
	PubKeySize = btcec.PubKeyBytesLenCompressed
	// DigestSize is the length of a signed digest.
	DigestSize = chainhash.HashSize
)

// Secp256k1 implements Provider with the btcec library. Signatures are
// deterministic (RFC6979) and use the low S form.
type Secp256k1 struct{}

var _ Provider = Secp256k1{}

// NewSecp256k1 returns the secp256k1 provider.
func NewSecp256k1() Provider {
	return Secp256k1{}
}

func (Secp256k1) SHA256(data []byte) []byte {
	return chainhash.HashB(data)
}

func (Secp256k1) Hash160(data []byte) []byte {
	return btcutil.Hash160(data)
}

func (Secp256k1) PublicKey(priv []byte) ([]byte, error) {
	key, err := privKey(priv)
	if err != nil {
		return nil, err
	}
	return key.PubKey().SerializeCompressed(), nil
}

func (Secp256k1) Sign(priv, digest []byte) ([]byte, error) {
	if len(digest) != DigestSize {
		return nil, errors.Wrapf(errors.ErrInput, "digest must be %d bytes, got %d", DigestSize, len(digest))
	}
	key, err := privKey(priv)
	if err != nil {
		return nil, err
	}
	return ecdsa.Sign(key, digest).Serialize(), nil
}

func (Secp256k1) Verify(pub, digest, sig []byte) bool {
	if len(digest) != DigestSize {
		return false
	}
	key, err := btcec.ParsePubKey(pub)
	if err != nil {
		return false
	}
	s, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	return s.Verify(digest, key)
}

func (Secp256k1) ValidatePubKey(pub []byte) error {
	if len(pub) != PubKeySize {
		return errors.Wrapf(errors.ErrInput, "public key must be %d bytes, got %d", PubKeySize, len(pub))
	}
	if _, err := btcec.ParsePubKey(pub); err != nil {
		return errors.Wrapf(errors.ErrInput, "public key: %s", err)
	}
	return nil
}

func privKey(priv []byte) (*btcec.PrivateKey, error) {
	if len(priv) != PrivKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "private key must be %d bytes, got %d", PrivKeySize, len(priv))
	}
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(priv); overflow || scalar.IsZero() {
		return nil, errors.Wrap(errors.ErrInput, "private key out of range")
	}
	key, _ := btcec.PrivKeyFromBytes(priv)
	return key, nil
}
