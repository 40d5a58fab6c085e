package spend

import (
	"bytes"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
)

// Verify executes the scripts of all inputs of the finalized transaction with
// the standard verification rules of the reference script engine.
func (t *Template) Verify() error {
	tx, err := t.Tx()
	if err != nil {
		return err
	}
	return verifyTx(tx, t.prevOuts())
}

// VerifyTransaction executes the scripts of all inputs of a serialized
// transaction. prevOuts must contain every output spent by the transaction.
func VerifyTransaction(raw []byte, prevOuts []cosign.UTXO) error {
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return errors.Wrapf(errors.ErrInput, "transaction: %s", err)
	}
	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for _, u := range prevOuts {
		fetcher.AddPrevOut(u.OutPoint(), u.TxOut())
	}
	return verifyTx(&tx, fetcher)
}

func verifyTx(tx *wire.MsgTx, fetcher *txscript.MultiPrevOutFetcher) error {
	for i, txIn := range tx.TxIn {
		if fetcher.FetchPrevOutput(txIn.PreviousOutPoint) == nil {
			return errors.Wrapf(errors.ErrNotFound, "previous output of input %d", i)
		}
	}
	hashes := txscript.NewTxSigHashes(tx, fetcher)
	for i := range tx.TxIn {
		if err := verifyInput(tx, i, hashes, fetcher); err != nil {
			return err
		}
	}
	return nil
}

// verifyInput executes the scripts of input i. The spent output of every
// input must be known to the fetcher.
func verifyInput(tx *wire.MsgTx, i int, hashes *txscript.TxSigHashes, fetcher txscript.PrevOutputFetcher) error {
	prev := fetcher.FetchPrevOutput(tx.TxIn[i].PreviousOutPoint)
	vm, err := txscript.NewEngine(prev.PkScript, tx, i, txscript.StandardVerifyFlags, nil, hashes, prev.Value, fetcher)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidSignature, "input %d: %s", i, err)
	}
	if err := vm.Execute(); err != nil {
		return errors.Wrapf(errors.ErrInvalidSignature, "input %d: %s", i, err)
	}
	return nil
}
