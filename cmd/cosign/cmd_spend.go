package main

import (
	"io"

	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/spend"
)

func cmdSpend(input io.Reader, output io.Writer, args []string) error {
	c := newFlagSet(`
Create an unsigned transaction spending outputs of a multisig policy. The
transaction is written to the standard output as a base64 encoded BIP174
packet that can be passed to the sign command.

Unless -amount is given, the whole value of spent outputs minus the fee is
sent to the destination. With -amount, the value left after the amount and
the fee goes to -change, or is added to the fee when -change is not set.
`)
	policy := addPolicyFlags(c)
	utxos := &outputsFlag{}
	c.fl.Var(utxos, "utxo", "Output to spend as txid:vout:value. Can be repeated.")
	var (
		toFl       = c.fl.String("to", "", "Destination address.")
		amountFl   = c.fl.Int64("amount", 0, "Value in satoshi sent to the destination.")
		feeFl      = c.fl.Int64("fee", 0, "Fee in satoshi. The outputs must leave at least this much.")
		changeFl   = c.fl.String("change", "", "Address receiving the remaining value when -amount is given.")
		versionFl  = c.fl.Int("tx-version", 2, "Transaction version.")
		lockTimeFl = c.fl.Uint("locktime", 0, "Transaction lock time.")
		sequenceFl = c.fl.Uint("sequence", 0xffffffff, "Sequence number of every input.")
	)
	net, logger, err := c.parse(args)
	if err != nil {
		return err
	}
	if len(utxos.utxos) == 0 {
		return errors.Field("utxo", errors.ErrEmpty, "at least one output to spend is required")
	}
	if *toFl == "" {
		return errors.Field("to", errors.ErrEmpty, "destination is required")
	}

	script, err := policy.build(net)
	if err != nil {
		return err
	}

	tmpl := spend.NewTemplate(net, int32(*versionFl), uint32(*lockTimeFl))
	var total int64
	for _, u := range utxos.utxos {
		u.PkScript = script.OutputScript
		i, err := tmpl.AddInput(u, spend.NewSpendContext(script))
		if err != nil {
			return errors.Wrapf(err, "utxo %s", u)
		}
		if err := tmpl.SetSequence(i, uint32(*sequenceFl)); err != nil {
			return err
		}
		total += u.Value
	}

	amount := *amountFl
	if amount == 0 {
		amount = total - *feeFl
	}
	if amount <= 0 {
		return errors.Wrapf(errors.ErrInvalidAmount, "nothing left to send from %d", total)
	}
	if _, err := tmpl.AddOutput(*toFl, amount); err != nil {
		return errors.Wrap(err, "destination")
	}
	if *amountFl != 0 {
		change := total - amount - *feeFl
		if change < 0 {
			return errors.Wrapf(errors.ErrInvalidAmount, "amount and fee exceed the spent value by %d", -change)
		}
		if change > 0 && *changeFl != "" {
			if _, err := tmpl.AddOutput(*changeFl, change); err != nil {
				return errors.Wrap(err, "change")
			}
		}
	}
	if fee := tmpl.Fee(); fee < 0 {
		return errors.Wrapf(errors.ErrInvalidAmount, "outputs spend %d more than available", -fee)
	}

	logger.Info("transaction created",
		"txid", tmpl.TxHash(),
		"inputs", tmpl.NumInputs(),
		"outputs", tmpl.NumOutputs(),
		"fee", tmpl.Fee())
	return writeTemplate(output, tmpl)
}
