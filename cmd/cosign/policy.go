package main

import (
	"strings"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/crypto/hd"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/wallet"
	"github.com/iov-one/cosign/x/multisig"
)

// policyFlags describe the multisig policy shared by all participants.
type policyFlags struct {
	threshold *int
	xpubs     *string
	childPath *string
	nested    *bool
}

func addPolicyFlags(c *common) *policyFlags {
	return &policyFlags{
		threshold: c.fl.Int("threshold", 2, "Number of signatures required to spend."),
		xpubs: c.fl.String("xpubs", "",
			"Comma separated account public keys of all participants, in policy order."),
		childPath: c.fl.String("child-path", "0/0",
			"Path of the multisig key relative to each account key."),
		nested: c.fl.Bool("nested", false,
			"Wrap the witness script hash in a pay to script hash output."),
	}
}

// build returns the multisig script of the policy.
func (p *policyFlags) build(net cosign.Network) (*multisig.Script, error) {
	if strings.TrimSpace(*p.xpubs) == "" {
		return nil, errors.Field("xpubs", errors.ErrEmpty, "account public keys are required")
	}
	child, err := hd.ParsePath(*p.childPath)
	if err != nil {
		return nil, errors.Field("child-path", err, "invalid path")
	}
	keys, err := wallet.ChildPubKeys(strings.Split(*p.xpubs, ","), net, child)
	if err != nil {
		return nil, err
	}
	kind := multisig.WitnessScriptHash
	if *p.nested {
		kind = multisig.NestedWitnessScriptHash
	}
	return multisig.NewBuilder(crypto.NewSecp256k1()).Build(*p.threshold, keys, kind, net)
}
