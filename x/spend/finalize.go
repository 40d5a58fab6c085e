package spend

import (
	"bytes"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/sigs"
)

// FinalizeInput assembles the witness of input i from the recorded
// signatures. Exactly threshold signatures are used, taken in the order of
// the public keys in the script. Signatures that no longer verify are
// ignored.
func (t *Template) FinalizeInput(i int) error {
	in, err := t.input(i)
	if err != nil {
		return err
	}
	if t.extracted != nil {
		return errors.Wrap(errors.ErrState, "transaction extracted")
	}
	witness, sigScript, err := t.finalizeInput(i, in)
	if err != nil {
		return err
	}
	in.witness = witness
	in.sigScript = sigScript
	return nil
}

// FinalizeAll finalizes all inputs. If any input cannot be finalized, no
// input is changed.
func (t *Template) FinalizeAll() error {
	if len(t.inputs) == 0 {
		return errors.Wrap(errors.ErrIncompleteInputs, "no inputs")
	}
	if t.extracted != nil {
		return errors.Wrap(errors.ErrState, "transaction extracted")
	}
	witnesses := make([]wire.TxWitness, len(t.inputs))
	sigScripts := make([][]byte, len(t.inputs))
	for i, in := range t.inputs {
		w, s, err := t.finalizeInput(i, in)
		if err != nil {
			return err
		}
		witnesses[i] = w
		sigScripts[i] = s
	}
	for i, in := range t.inputs {
		in.witness = witnesses[i]
		in.sigScript = sigScripts[i]
	}
	return nil
}

func (t *Template) finalizeInput(i int, in *input) (wire.TxWitness, []byte, error) {
	if len(t.outputs) == 0 {
		return nil, nil, errors.Wrap(errors.ErrState, "no outputs")
	}

	var valid []*sigs.PartialSignature
	for _, sig := range in.sigs.All() {
		if t.collector.Verify(t, i, sig) == nil {
			valid = append(valid, sig)
		}
	}
	if len(valid) < in.threshold {
		return nil, nil, errors.Wrapf(errors.ErrInsufficientSignatures,
			"input %d: %d of %d", i, len(valid), in.threshold)
	}

	// Walk the script keys in order and pick the signature of every key
	// that signed, until the threshold is reached.
	ordered := make([][]byte, 0, in.threshold)
	for _, pk := range in.pubKeys {
		if len(ordered) == in.threshold {
			break
		}
		for _, sig := range valid {
			if bytes.Equal(sig.PubKey, pk) {
				ordered = append(ordered, sig.Signature)
				break
			}
		}
	}
	if len(ordered) < in.threshold {
		return nil, nil, errors.Wrapf(errors.ErrOrderMismatch,
			"input %d: %d signatures match the script keys, %d required", i, len(ordered), in.threshold)
	}

	// The leading empty element is consumed by the extra stack pop of
	// OP_CHECKMULTISIG.
	witness := make(wire.TxWitness, 0, in.threshold+2)
	witness = append(witness, []byte{})
	for _, sig := range ordered {
		witness = append(witness, append([]byte(nil), sig...))
	}
	witness = append(witness, append([]byte(nil), in.ctx.WitnessScript...))

	var sigScript []byte
	if in.nested {
		s, err := txscript.NewScriptBuilder().AddData(in.ctx.RedeemScript).Script()
		if err != nil {
			return nil, nil, errors.Wrapf(errors.ErrInput, "input %d: %s", i, err)
		}
		sigScript = s
	}
	return witness, sigScript, nil
}

// Tx returns the finalized transaction. All inputs must be finalized.
func (t *Template) Tx() (*wire.MsgTx, error) {
	if len(t.inputs) == 0 {
		return nil, errors.Wrap(errors.ErrIncompleteInputs, "no inputs")
	}
	tx := t.unsignedTx()
	for i, in := range t.inputs {
		if !in.finalized() {
			return nil, errors.Wrapf(errors.ErrIncompleteInputs, "input %d", i)
		}
		tx.TxIn[i].Witness = copyWitness(in.witness)
		tx.TxIn[i].SignatureScript = append([]byte(nil), in.sigScript...)
	}
	return tx, nil
}

// Extract returns the serialized final transaction and moves the template to
// the extracted stage. Later calls return the same bytes.
func (t *Template) Extract() ([]byte, error) {
	if t.extracted != nil {
		return append([]byte(nil), t.extracted...), nil
	}
	tx, err := t.Tx()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	t.extracted = buf.Bytes()
	return append([]byte(nil), t.extracted...), nil
}

func copyWitness(w wire.TxWitness) wire.TxWitness {
	res := make(wire.TxWitness, len(w))
	for i, item := range w {
		res[i] = append([]byte{}, item...)
	}
	return res
}
