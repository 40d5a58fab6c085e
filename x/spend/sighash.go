package spend

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/sigs"
)

var _ sigs.Digester = (*Template)(nil)

// SigHash returns the digest that signers of input i sign. The digest is
// the segwit version 0 digest committing to the amount and the witness
// script of the input, all outputs, sequences and the lock time as selected
// by the hash type.
func (t *Template) SigHash(i int, hashType txscript.SigHashType) ([]byte, error) {
	in, err := t.input(i)
	if err != nil {
		return nil, err
	}
	if len(t.outputs) == 0 {
		return nil, errors.Wrap(errors.ErrState, "no outputs")
	}
	if err := validateHashType(hashType); err != nil {
		return nil, err
	}

	tx := t.unsignedTx()
	hashes := txscript.NewTxSigHashes(tx, t.prevOuts())
	digest, err := txscript.CalcWitnessSigHash(in.ctx.WitnessScript, hashes, hashType, tx, i, in.utxo.Value)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "input %d: %s", i, err)
	}
	return digest, nil
}

func validateHashType(hashType txscript.SigHashType) error {
	switch hashType &^ txscript.SigHashAnyOneCanPay {
	case txscript.SigHashAll, txscript.SigHashNone, txscript.SigHashSingle:
		return nil
	default:
		return errors.Wrapf(errors.ErrInput, "unsupported sighash type %#x", uint32(hashType))
	}
}

// Record stores a partial signature of input i after verifying it against
// the current digest. Recording the same signature twice has no effect.
func (t *Template) Record(i int, sig *sigs.PartialSignature) error {
	if sig == nil {
		return errors.Wrap(errors.ErrInput, "nil signature")
	}
	in, err := t.input(i)
	if err != nil {
		return err
	}
	switch {
	case t.extracted != nil:
		return errors.Wrap(errors.ErrState, "transaction extracted")
	case in.finalized():
		return errors.Wrapf(errors.ErrState, "input %d finalized", i)
	}
	if err := validateHashType(sig.SigHashType()); err != nil {
		return errors.Wrap(errors.ErrInvalidSignature, err.Error())
	}
	if err := t.collector.Verify(t, i, sig); err != nil {
		return err
	}
	return in.sigs.Add(sig)
}

// Sign creates the signature of input i with given signer and records it.
func (t *Template) Sign(i int, signer crypto.Signer, hashType txscript.SigHashType) (*sigs.PartialSignature, error) {
	sig, err := t.collector.Sign(t, i, signer, hashType)
	if err != nil {
		return nil, err
	}
	if err := t.Record(i, sig); err != nil {
		return nil, err
	}
	return sig, nil
}
