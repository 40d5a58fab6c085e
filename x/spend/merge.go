package spend

import (
	"bytes"

	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/sigs"
)

// Merge adds the signatures and finalized witnesses of other to this
// template. Both templates must describe the same unsigned transaction.
// Merging is commutative and merging the same template twice has no further
// effect. On error this template is not modified.
func (t *Template) Merge(other *Template) error {
	if t.extracted != nil {
		return errors.Wrap(errors.ErrState, "transaction extracted")
	}
	if err := t.sameTransaction(other); err != nil {
		return err
	}

	merged := make([]*sigs.Set, len(t.inputs))
	for i, in := range t.inputs {
		set := in.sigs.Clone()
		if err := set.Union(other.inputs[i].sigs); err != nil {
			return errors.Wrapf(err, "input %d", i)
		}
		merged[i] = set
	}
	for i, in := range t.inputs {
		o := other.inputs[i]
		in.sigs = merged[i]
		if !in.finalized() && !o.finalized() {
			continue
		}
		// Finalized inputs are rebuilt from the merged signatures, so
		// that the witness does not depend on the merge order.
		if w, s, err := t.finalizeInput(i, in); err == nil {
			in.witness, in.sigScript = w, s
		} else if !in.finalized() {
			in.witness = copyWitness(o.witness)
			in.sigScript = append([]byte(nil), o.sigScript...)
		}
	}
	return nil
}

func (t *Template) sameTransaction(other *Template) error {
	if t.net.Params != other.net.Params {
		return errors.Wrapf(errors.ErrInput, "network %s and %s", t.net, other.net)
	}
	if len(t.inputs) != len(other.inputs) {
		return errors.Wrap(errors.ErrInput, "different inputs")
	}
	if t.TxHash() != other.TxHash() {
		return errors.Wrap(errors.ErrInput, "different transactions")
	}
	for i, in := range t.inputs {
		o := other.inputs[i]
		if in.utxo.Value != o.utxo.Value ||
			!bytes.Equal(in.utxo.PkScript, o.utxo.PkScript) ||
			!bytes.Equal(in.ctx.WitnessScript, o.ctx.WitnessScript) {
			return errors.Wrapf(errors.ErrInput, "input %d spends a different output", i)
		}
	}
	return nil
}
