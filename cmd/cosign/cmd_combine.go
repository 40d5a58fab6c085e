package main

import (
	"io"
	"os"

	"github.com/iov-one/cosign/errors"
)

func cmdCombine(input io.Reader, output io.Writer, args []string) error {
	c := newFlagSet(`
Combine signatures of several copies of the same transaction. Packets are
read one per line from the standard input, or from files given as
arguments. The packet holding all signatures is written to the standard
output.

  $ cosign combine alice.psbt bob.psbt | cosign finalize
`)
	net, logger, err := c.parse(args)
	if err != nil {
		return err
	}

	var sources []io.Reader
	if c.fl.NArg() == 0 {
		sources = append(sources, input)
	}
	for _, path := range c.fl.Args() {
		fd, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "cannot open %q: %s", path, err)
		}
		defer fd.Close()
		sources = append(sources, fd)
	}

	tmpl, err := readTemplates(io.MultiReader(sources...), net)
	if err != nil {
		return err
	}
	if len(tmpl) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no packets")
	}
	combined := tmpl[0]
	for i, t := range tmpl[1:] {
		if err := combined.Merge(t); err != nil {
			return errors.Wrapf(err, "packet %d", i+2)
		}
	}
	logger.Info("packets combined", "count", len(tmpl), "txid", combined.TxHash(), "stage", combined.Stage())
	return writeTemplate(output, combined)
}
