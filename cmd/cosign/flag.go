package main

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/txscript"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
)

// outputsFlag collects previous outputs given as "txid:vout:value" or
// "txid:vout:value:pkscript" where pkscript is hex encoded. The flag can be
// repeated. A comma separated list is accepted as well, so that the value can
// be provided by the configuration.
type outputsFlag struct {
	withScript bool
	utxos      []cosign.UTXO
}

func (f *outputsFlag) String() string {
	if f == nil {
		return ""
	}
	parts := make([]string, len(f.utxos))
	for i, u := range f.utxos {
		parts[i] = u.String() + ":" + strconv.FormatInt(u.Value, 10)
	}
	return strings.Join(parts, ",")
}

func (f *outputsFlag) Set(raw string) error {
	for _, s := range strings.Split(raw, ",") {
		u, err := parseOutput(strings.TrimSpace(s), f.withScript)
		if err != nil {
			return err
		}
		f.utxos = append(f.utxos, u)
	}
	return nil
}

func parseOutput(s string, withScript bool) (cosign.UTXO, error) {
	want := 3
	if withScript {
		want = 4
	}
	chunks := strings.Split(s, ":")
	if len(chunks) != want {
		return cosign.UTXO{}, errors.Wrapf(errors.ErrInput, "%q: want %d colon separated values", s, want)
	}
	value, err := strconv.ParseInt(chunks[2], 10, 64)
	if err != nil {
		return cosign.UTXO{}, errors.Wrapf(errors.ErrInvalidAmount, "%q: %s", chunks[2], err)
	}
	var script []byte
	if withScript {
		if script, err = hex.DecodeString(chunks[3]); err != nil {
			return cosign.UTXO{}, errors.Wrapf(errors.ErrInput, "script: %s", err)
		}
	}
	op, err := cosign.ParseOutpoint(chunks[0] + ":" + chunks[1])
	if err != nil {
		return cosign.UTXO{}, err
	}
	u := cosign.UTXO{Hash: op.Hash, Index: op.Index, Value: value, PkScript: script}
	// Without a script the locking script is provided later by the
	// policy and the output is validated when spent.
	if withScript {
		if err := u.Validate(); err != nil {
			return cosign.UTXO{}, err
		}
	}
	return u, nil
}

// parseSigHashType parses "all", "none" or "single", optionally followed by
// "|anyonecanpay".
func parseSigHashType(s string) (txscript.SigHashType, error) {
	var ht txscript.SigHashType
	base := strings.ToLower(s)
	if strings.HasSuffix(base, "|anyonecanpay") {
		ht = txscript.SigHashAnyOneCanPay
		base = strings.TrimSuffix(base, "|anyonecanpay")
	}
	switch base {
	case "all":
		ht |= txscript.SigHashAll
	case "none":
		ht |= txscript.SigHashNone
	case "single":
		ht |= txscript.SigHashSingle
	default:
		return 0, errors.Wrapf(errors.ErrInput, "unknown sighash type %q", s)
	}
	return ht, nil
}
