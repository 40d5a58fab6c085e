package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/spend"
)

func cmdVerify(input io.Reader, output io.Writer, args []string) error {
	c := newFlagSet(`
Execute the scripts of a hex encoded transaction read from the standard
input. Every output spent by the transaction must be given with -prevout.
`)
	prevOuts := &outputsFlag{withScript: true}
	c.fl.Var(prevOuts, "prevout", "Spent output as txid:vout:value:pkscript, script hex encoded. Can be repeated.")
	_, logger, err := c.parse(args)
	if err != nil {
		return err
	}

	raw, err := ioutil.ReadAll(input)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot read transaction: %s", err)
	}
	tx, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "transaction: %s", err)
	}
	if len(tx) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no input data")
	}
	if err := spend.VerifyTransaction(tx, prevOuts.utxos); err != nil {
		return err
	}
	logger.Debug("transaction verified", "prevouts", len(prevOuts.utxos))
	_, err = fmt.Fprintln(output, "ok")
	return err
}
