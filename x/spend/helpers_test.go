package spend_test

import (
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/cosigntest"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/x/multisig"
	"github.com/iov-one/cosign/x/spend"
)

// policy is the 2 of 3 multisig of the test cosigners, spent from the test
// funding output.
type policy struct {
	script  *multisig.Script
	utxo    cosign.UTXO
	satoshi crypto.Signer
	hal     crypto.Signer
	adam    crypto.Signer
}

func newPolicy(t testing.TB, kind multisig.Kind) policy {
	t.Helper()
	net := cosign.RegTest
	keys := cosigntest.PubKeys(t, net, cosigntest.Mnemonics()...)
	script, err := multisig.NewBuilder(crypto.NewSecp256k1()).Build(2, keys, kind, net)
	if err != nil {
		t.Fatalf("multisig script: %s", err)
	}
	utxo, err := cosign.NewUTXO(cosigntest.Outpoint(), cosigntest.PrevValue, script.OutputScript)
	if err != nil {
		t.Fatalf("utxo: %s", err)
	}
	return policy{
		script:  script,
		utxo:    utxo,
		satoshi: cosigntest.Signer(t, cosigntest.SatoshiMnemonic, net),
		hal:     cosigntest.Signer(t, cosigntest.HalMnemonic, net),
		adam:    cosigntest.Signer(t, cosigntest.AdamMnemonic, net),
	}
}

// template returns an unsigned template spending the policy output to the
// test destination, minus the fee.
func (p policy) template(t testing.TB) *spend.Template {
	t.Helper()
	tmpl := spend.NewTemplate(cosign.RegTest, 2, 0)
	if _, err := tmpl.AddInput(p.utxo, spend.NewSpendContext(p.script)); err != nil {
		t.Fatalf("add input: %s", err)
	}
	if _, err := tmpl.AddOutput(cosigntest.Destination, cosigntest.PrevValue-cosigntest.Fee); err != nil {
		t.Fatalf("add output: %s", err)
	}
	return tmpl
}

func sign(t testing.TB, tmpl *spend.Template, signers ...crypto.Signer) {
	t.Helper()
	for _, s := range signers {
		for i := 0; i < tmpl.NumInputs(); i++ {
			if _, err := tmpl.Sign(i, s, txscript.SigHashAll); err != nil {
				t.Fatalf("sign input %d: %s", i, err)
			}
		}
	}
}
