package main

import (
	"fmt"
	"io"
)

func cmdMultisig(input io.Reader, output io.Writer, args []string) error {
	c := newFlagSet(`
Create the m of n multisig policy of given account public keys and print
its address and scripts.

Every participant must use the same account keys, in the same order, to
end up with the same address.
`)
	policy := addPolicyFlags(c)
	net, logger, err := c.parse(args)
	if err != nil {
		return err
	}

	script, err := policy.build(net)
	if err != nil {
		return err
	}
	logger.Info("multisig policy",
		"threshold", script.Threshold,
		"keys", len(script.PubKeys),
		"kind", script.Kind,
		"network", net)

	return writeFields(output, [][2]string{
		{"address", script.Address.EncodeAddress()},
		{"kind", script.Kind.String()},
		{"witness_script", fmt.Sprintf("%x", script.WitnessScript)},
		{"redeem_script", fmt.Sprintf("%x", script.RedeemScript)},
		{"output_script", fmt.Sprintf("%x", script.OutputScript)},
	})
}
