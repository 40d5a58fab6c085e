package multisig

import (
	"bytes"

	"github.com/btcsuite/btcd/txscript"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/errors"
)

type token struct {
	op   byte
	data []byte
}

// Parse returns the threshold and the ordered public keys of a bare multisig
// script. It is the inverse of RedeemScript.
func Parse(script []byte) (int, [][]byte, error) {
	var tokens []token
	tok := txscript.MakeScriptTokenizer(0, script)
	for tok.Next() {
		tokens = append(tokens, token{op: tok.Opcode(), data: tok.Data()})
	}
	if err := tok.Err(); err != nil {
		return 0, nil, errors.Wrapf(errors.ErrInput, "malformed script: %s", err)
	}

	if len(tokens) < 4 || tokens[len(tokens)-1].op != txscript.OP_CHECKMULTISIG {
		return 0, nil, errors.Wrap(errors.ErrInput, "not a multisig script")
	}
	m, ok := smallInt(tokens[0])
	if !ok {
		return 0, nil, errors.Wrap(errors.ErrInput, "threshold is not a number")
	}
	n, ok := smallInt(tokens[len(tokens)-2])
	if !ok {
		return 0, nil, errors.Wrap(errors.ErrInput, "key count is not a number")
	}
	if n != len(tokens)-3 {
		return 0, nil, errors.Wrapf(errors.ErrInput, "script declares %d keys and lists %d", n, len(tokens)-3)
	}
	if n < 1 || n > MaxKeys {
		return 0, nil, errors.Wrapf(errors.ErrInvalidKeyCount, "%d keys", n)
	}
	if m < 1 || m > n {
		return 0, nil, errors.Wrapf(errors.ErrInvalidThreshold, "%d of %d", m, n)
	}

	keys := make([][]byte, 0, n)
	for _, t := range tokens[1 : n+1] {
		if len(t.data) != crypto.PubKeySize || int(t.op) != crypto.PubKeySize {
			return 0, nil, errors.Wrap(errors.ErrInput, "public key must be a compressed key push")
		}
		keys = append(keys, append([]byte(nil), t.data...))
	}
	return m, keys, nil
}

// smallInt decodes a number pushed with OP_1 to OP_16, or with a single
// byte push for values above 16.
func smallInt(t token) (int, bool) {
	switch {
	case t.op >= txscript.OP_1 && t.op <= txscript.OP_16:
		return int(t.op-txscript.OP_1) + 1, true
	case t.op == txscript.OP_DATA_1 && len(t.data) == 1 && t.data[0] > 16 && t.data[0] < 0x80:
		return int(t.data[0]), true
	default:
		return 0, false
	}
}

// MatchOrder returns true if signerKeys appear in scriptKeys in the same
// relative order. Script keys that did not sign are skipped.
func MatchOrder(scriptKeys, signerKeys [][]byte) bool {
	j := 0
	for _, k := range scriptKeys {
		if j < len(signerKeys) && bytes.Equal(k, signerKeys[j]) {
			j++
		}
	}
	return j == len(signerKeys)
}
