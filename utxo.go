package cosign

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/iov-one/cosign/errors"
)

// UTXO references a previous transaction output together with the data
// needed to sign its spend.
type UTXO struct {
	Hash     chainhash.Hash
	Index    uint32
	Value    int64
	PkScript []byte
}

// NewUTXO parses the outpoint in "txid:vout" notation and returns the UTXO
// holding given value and locking script.
func NewUTXO(outpoint string, value int64, pkScript []byte) (UTXO, error) {
	op, err := ParseOutpoint(outpoint)
	if err != nil {
		return UTXO{}, err
	}
	u := UTXO{
		Hash:     op.Hash,
		Index:    op.Index,
		Value:    value,
		PkScript: pkScript,
	}
	return u, u.Validate()
}

// OutPoint returns the wire representation of the output reference.
func (u UTXO) OutPoint() wire.OutPoint {
	return wire.OutPoint{Hash: u.Hash, Index: u.Index}
}

// TxOut returns the previous output as it was created.
func (u UTXO) TxOut() *wire.TxOut {
	return wire.NewTxOut(u.Value, u.PkScript)
}

// Validate returns all field errors of this UTXO.
func (u UTXO) Validate() error {
	var errs error
	if u.Value < 0 || u.Value > btcutil.MaxSatoshi {
		errs = errors.AppendField(errs, "Value", errors.Wrapf(errors.ErrInvalidAmount, "%d out of range", u.Value))
	}
	if len(u.PkScript) == 0 {
		errs = errors.AppendField(errs, "PkScript", errors.ErrEmpty)
	}
	return errs
}

func (u UTXO) String() string {
	return fmt.Sprintf("%s:%d", u.Hash, u.Index)
}

// ParseOutpoint parses "txid:vout" where txid is the hex encoded transaction
// id as displayed by block explorers.
func ParseOutpoint(s string) (wire.OutPoint, error) {
	chunks := strings.Split(s, ":")
	if len(chunks) != 2 {
		return wire.OutPoint{}, errors.Wrapf(errors.ErrInput, "outpoint %q: want txid:vout", s)
	}
	if len(chunks[0]) != chainhash.MaxHashStringSize {
		return wire.OutPoint{}, errors.Wrapf(errors.ErrInput, "outpoint %q: invalid txid length", s)
	}
	hash, err := chainhash.NewHashFromStr(chunks[0])
	if err != nil {
		return wire.OutPoint{}, errors.Wrapf(errors.ErrInput, "outpoint %q: txid: %s", s, err)
	}
	index, err := strconv.ParseUint(chunks[1], 10, 32)
	if err != nil {
		return wire.OutPoint{}, errors.Wrapf(errors.ErrInput, "outpoint %q: vout: %s", s, err)
	}
	return wire.OutPoint{Hash: *hash, Index: uint32(index)}, nil
}
