package spend_test

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/cosigntest"
	"github.com/iov-one/cosign/cosigntest/assert"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/multisig"
	"github.com/iov-one/cosign/x/spend"
)

func TestFinalizeInput(t *testing.T) {
	p := newPolicy(t, multisig.WitnessScriptHash)
	outsider := cosigntest.NewSigner(t, "outsider")
	stranger := cosigntest.NewSigner(t, "stranger")

	cases := map[string]struct {
		signers     []crypto.Signer
		wantSigners []crypto.Signer
		wantErr     *errors.Error
	}{
		"no signatures": {
			wantErr: errors.ErrInsufficientSignatures,
		},
		"one signature": {
			signers: []crypto.Signer{p.hal},
			wantErr: errors.ErrInsufficientSignatures,
		},
		"first two keys": {
			signers:     []crypto.Signer{p.satoshi, p.hal},
			wantSigners: []crypto.Signer{p.satoshi, p.hal},
		},
		"signing order does not matter": {
			signers:     []crypto.Signer{p.adam, p.satoshi},
			wantSigners: []crypto.Signer{p.satoshi, p.adam},
		},
		"last two keys": {
			signers:     []crypto.Signer{p.adam, p.hal},
			wantSigners: []crypto.Signer{p.hal, p.adam},
		},
		"all keys use the first two in script order": {
			signers:     []crypto.Signer{p.adam, p.hal, p.satoshi},
			wantSigners: []crypto.Signer{p.satoshi, p.hal},
		},
		"signatures of keys outside of the policy": {
			signers: []crypto.Signer{p.satoshi, outsider},
			wantErr: errors.ErrOrderMismatch,
		},
		"only keys outside of the policy": {
			signers: []crypto.Signer{stranger, outsider},
			wantErr: errors.ErrOrderMismatch,
		},
		"outsiders are skipped": {
			signers:     []crypto.Signer{outsider, p.adam, stranger, p.satoshi},
			wantSigners: []crypto.Signer{p.satoshi, p.adam},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			tmpl := p.template(t)
			sign(t, tmpl, tc.signers...)

			err := tmpl.FinalizeInput(0)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				_, err := tmpl.Tx()
				assert.IsErr(t, errors.ErrIncompleteInputs, err)
				return
			}

			tx, err := tmpl.Tx()
			assert.Nil(t, err)
			witness := tx.TxIn[0].Witness
			assert.Equal(t, len(tc.wantSigners)+2, len(witness))
			assert.Equal(t, 0, len(witness[0]))
			assert.Equal(t, p.script.WitnessScript, []byte(witness[len(witness)-1]))
			assert.Equal(t, 0, len(tx.TxIn[0].SignatureScript))

			for k, s := range tc.wantSigners {
				// Signatures are deterministic, so a fresh template
				// gives the same bytes.
				want, err := p.template(t).Sign(0, s, txscript.SigHashAll)
				assert.Nil(t, err)
				if !bytes.Equal(want.Signature, witness[k+1]) {
					t.Fatalf("witness element %d is not the signature of key %d", k+1, k)
				}
			}
			assert.Nil(t, tmpl.Verify())
		})
	}
}

func TestFinalizeAllIsAtomic(t *testing.T) {
	p := newPolicy(t, multisig.WitnessScriptHash)
	second := p.utxo
	second.Index = 1

	tmpl := spend.NewTemplate(cosign.RegTest, 2, 0)
	_, err := tmpl.AddInput(p.utxo, spend.NewSpendContext(p.script))
	assert.Nil(t, err)
	_, err = tmpl.AddInput(second, spend.NewSpendContext(p.script))
	assert.Nil(t, err)
	_, err = tmpl.AddOutput(cosigntest.Destination, 2*cosigntest.PrevValue-cosigntest.Fee)
	assert.Nil(t, err)

	_, err = tmpl.Sign(0, p.satoshi, txscript.SigHashAll)
	assert.Nil(t, err)
	_, err = tmpl.Sign(0, p.hal, txscript.SigHashAll)
	assert.Nil(t, err)
	_, err = tmpl.Sign(1, p.hal, txscript.SigHashAll)
	assert.Nil(t, err)

	assert.IsErr(t, errors.ErrInsufficientSignatures, tmpl.FinalizeAll())
	_, err = tmpl.Tx()
	assert.IsErr(t, errors.ErrIncompleteInputs, err)

	_, err = tmpl.Sign(1, p.adam, txscript.SigHashAll)
	assert.Nil(t, err)
	assert.Nil(t, tmpl.FinalizeAll())
	assert.Nil(t, tmpl.Verify())
}

func TestFinalizeIsDeterministic(t *testing.T) {
	p := newPolicy(t, multisig.WitnessScriptHash)

	first := p.template(t)
	sign(t, first, p.satoshi, p.hal)
	assert.Nil(t, first.FinalizeAll())
	a, err := first.Extract()
	assert.Nil(t, err)

	second := p.template(t)
	sign(t, second, p.hal, p.satoshi)
	// Recording a signature again does not change the witness.
	sign(t, second, p.hal)
	assert.Nil(t, second.FinalizeAll())
	b, err := second.Extract()
	assert.Nil(t, err)

	assert.Equal(t, a, b)
}

func TestFinalizeRequiresOutputs(t *testing.T) {
	p := newPolicy(t, multisig.WitnessScriptHash)
	tmpl := p.template(t)
	assert.Nil(t, tmpl.RemoveOutput(0))
	assert.IsErr(t, errors.ErrState, tmpl.FinalizeInput(0))
	assert.IsErr(t, errors.ErrNotFound, tmpl.FinalizeInput(1))
}

func TestExtract(t *testing.T) {
	p := newPolicy(t, multisig.WitnessScriptHash)
	tmpl := p.template(t)
	sign(t, tmpl, p.satoshi, p.hal)
	assert.Nil(t, tmpl.FinalizeAll())

	raw, err := tmpl.Extract()
	assert.Nil(t, err)

	var tx wire.MsgTx
	assert.Nil(t, tx.Deserialize(bytes.NewReader(raw)))
	assert.Equal(t, int32(2), tx.Version)
	assert.Equal(t, uint32(0), tx.LockTime)
	assert.Equal(t, 1, len(tx.TxIn))
	assert.Equal(t, 1, len(tx.TxOut))
	assert.Equal(t, cosigntest.PrevValue-cosigntest.Fee, tx.TxOut[0].Value)
	assert.Equal(t, p.utxo.OutPoint(), tx.TxIn[0].PreviousOutPoint)
	assert.Equal(t, 4, len(tx.TxIn[0].Witness))
	assert.Equal(t, tmpl.TxHash(), tx.TxHash())

	// Returned bytes are a copy.
	raw[0] ^= 0xff
	again, err := tmpl.Extract()
	assert.Nil(t, err)
	if bytes.Equal(raw, again) {
		t.Fatal("extracted bytes must not be shared")
	}
}
