package main

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/crypto/hd"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/wallet"
)

func cmdSign(input io.Reader, output io.Writer, args []string) error {
	c := newFlagSet(`
Sign a transaction read from the standard input. Every input locked by a
policy that contains the participant key is signed. The packet with the new
signatures is written to the standard output.
`)
	var (
		mnemonicFl   = c.fl.String("mnemonic", "", "BIP39 mnemonic of the participant. You can use COSIGN_MNEMONIC environment variable to set it.")
		passphraseFl = c.fl.String("passphrase", "", "Optional BIP39 passphrase.")
		accountFl    = c.fl.String("account-path", wallet.AccountPath, "Derivation path of the account.")
		childFl      = c.fl.String("child-path", "0/0", "Path of the multisig key relative to the account key.")
		sighashFl    = c.fl.String("sighash", "all", "Signature hash type: all, none or single, optionally followed by |anyonecanpay.")
	)
	net, logger, err := c.parse(args)
	if err != nil {
		return err
	}
	if *mnemonicFl == "" {
		return errors.Field("mnemonic", errors.ErrInvalidMnemonic, "mnemonic is required")
	}
	hashType, err := parseSigHashType(*sighashFl)
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

	tmpl, err := readTemplate(input, net)
	if err != nil {
		return err
	}

	p, err := wallet.NewParticipant("", *mnemonicFl, *passphraseFl, net, account)
	if err != nil {
		return err
	}
	signer, err := p.Signer(child, crypto.NewSecp256k1())
	if err != nil {
		return err
	}

	var signed int
	for i := 0; i < tmpl.NumInputs(); i++ {
		_, keys, err := tmpl.Policy(i)
		if err != nil {
			return err
		}
		if !containsKey(keys, signer.PublicKey()) {
			logger.Debug("input skipped", "input", i)
			continue
		}
		if _, err := tmpl.Sign(i, signer, hashType); err != nil {
			return errors.Wrapf(err, "input %d", i)
		}
		signed++
		logger.Debug("input signed", "input", i, "pubkey", hex.EncodeToString(signer.PublicKey()))
	}
	if signed == 0 {
		return errors.Wrapf(errors.ErrInput, "key %x is not part of any input policy", signer.PublicKey())
	}
	logger.Info("transaction signed", "txid", tmpl.TxHash(), "inputs", signed, "stage", tmpl.Stage())
	return writeTemplate(output, tmpl)
}

func containsKey(keys [][]byte, key []byte) bool {
	for _, k := range keys {
		if bytes.Equal(k, key) {
			return true
		}
	}
	return false
}
