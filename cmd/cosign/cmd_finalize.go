package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/iov-one/cosign/errors"
)

func cmdFinalize(input io.Reader, output io.Writer, args []string) error {
	c := newFlagSet(`
Finalize a fully signed transaction read from the standard input. The
witness of every input is assembled, the scripts are executed and the hex
encoded transaction, ready to broadcast, is written to the standard output.
`)
	packetFl := c.fl.Bool("psbt", false, "Write the finalized packet instead of the raw transaction.")
	net, logger, err := c.parse(args)
	if err != nil {
		return err
	}

	tmpl, err := readTemplate(input, net)
	if err != nil {
		return err
	}
	if err := tmpl.FinalizeAll(); err != nil {
		return err
	}
	if err := tmpl.Verify(); err != nil {
		return err
	}
	if *packetFl {
		return writeTemplate(output, tmpl)
	}

	raw, err := tmpl.Extract()
	if err != nil {
		return err
	}
	logger.Info("transaction finalized", "txid", tmpl.TxHash(), "size", len(raw), "fee", tmpl.Fee())
	if _, err := fmt.Fprintln(output, hex.EncodeToString(raw)); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
