package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/iov-one/cosign/crypto/hd"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/wallet"
)

func cmdKeyInfo(input io.Reader, output io.Writer, args []string) error {
	c := newFlagSet(`
Print out the account public key of a participant, to be shared with the
other participants of a multisig policy.

The mnemonic is read from the -mnemonic flag or, if not given, from the
standard input.
`)
	var (
		mnemonicFl   = c.fl.String("mnemonic", "", "BIP39 mnemonic of the participant.")
		passphraseFl = c.fl.String("passphrase", "", "Optional BIP39 passphrase.")
		labelFl      = c.fl.String("label", "", "Name of the participant, printed in the output.")
		accountFl    = c.fl.String("account-path", wallet.AccountPath, "Derivation path of the account.")
		childFl      = c.fl.String("child-path", "0/0", "Path of the multisig key relative to the account key.")
	)
	net, logger, err := c.parse(args)
	if err != nil {
		return err
	}

	mnemonic, err := readMnemonic(input, *mnemonicFl)
	if err != nil {
		return err
	}
	account, err := hd.ParsePath(*accountFl)
	if err != nil {
		return errors.Field("account-path", err, "invalid path")
	}
	child, err := hd.ParsePath(*childFl)
	if err != nil {
		return errors.Field("child-path", err, "invalid path")
	}

	p, err := wallet.NewParticipant(*labelFl, mnemonic, *passphraseFl, net, account)
	if err != nil {
		return err
	}
	pub, err := p.PubKey(child)
	if err != nil {
		return err
	}
	addr, err := p.Address(0, 0)
	if err != nil {
		return err
	}
	logger.Debug("account derived", "label", p.Label, "path", account, "network", net)

	return writeFields(output, [][2]string{
		{"label", p.Label},
		{"fingerprint", fmt.Sprintf("%08x", p.MasterFingerprint())},
		{"account", account.String()},
		{"xpub", p.XPub()},
		{"pubkey", fmt.Sprintf("%x", pub)},
		{"address", addr.EncodeAddress()},
	})
}

// readMnemonic returns the mnemonic given by a flag or read from the input.
// Only the trailing new line of the input is dropped, so that a mnemonic
// with invalid spacing is still refused.
func readMnemonic(input io.Reader, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	raw, err := ioutil.ReadAll(input)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "cannot read mnemonic: %s", err)
	}
	mnemonic := strings.TrimRight(string(raw), "\r\n")
	if mnemonic == "" {
		return "", errors.Wrap(errors.ErrInvalidMnemonic, "no mnemonic given")
	}
	return mnemonic, nil
}

// writeFields writes one "name value" line per field, skipping empty
// values.
func writeFields(output io.Writer, fields [][2]string) error {
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		if _, err := fmt.Fprintf(output, "%-15s %s\n", f[0], f[1]); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	return nil
}
