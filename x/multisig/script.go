package multisig

import (
	"bytes"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/errors"
)

const (
	// MaxKeys is the maximum number of public keys a multisig script can
	// list.
	MaxKeys = txscript.MaxPubKeysPerMultiSig

	// MaxWitnessScriptSize is the largest witness script that is relayed
	// by standard nodes.
	MaxWitnessScriptSize = 3600
)

// Kind describes how a multisig script is committed to by an output.
type Kind uint8

const (
	// WitnessScriptHash is a native segwit output (P2WSH).
	WitnessScriptHash Kind = iota
	// NestedWitnessScriptHash is a witness program wrapped in a script
	// hash output (P2SH-P2WSH).
	NestedWitnessScriptHash
)

func (k Kind) String() string {
	switch k {
	case WitnessScriptHash:
		return "p2wsh"
	case NestedWitnessScriptHash:
		return "p2sh-p2wsh"
	default:
		return "unknown"
	}
}

// ParseKind returns the kind for its textual name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "p2wsh", "":
		return WitnessScriptHash, nil
	case "p2sh-p2wsh":
		return NestedWitnessScriptHash, nil
	default:
		return 0, errors.Wrapf(errors.ErrInput, "unknown script kind %q", s)
	}
}

// Script is a multisig policy together with the output that commits to it.
// Script values must not be modified.
type Script struct {
	Kind      Kind
	Threshold int
	PubKeys   [][]byte
	// WitnessScript is the multisig script revealed in the witness.
	WitnessScript []byte
	// RedeemScript is the witness program pushed by the signature script
	// of a nested output. It is empty for native outputs.
	RedeemScript []byte
	// OutputScript is the locking script of the output paying to this
	// policy.
	OutputScript []byte
	Address      btcutil.Address
}

// Builder creates multisig scripts. Public keys are validated with the
// crypto provider.
type Builder struct {
	provider crypto.Provider
}

// NewBuilder returns a builder that uses given provider for key validation
// and hashing.
func NewBuilder(p crypto.Provider) *Builder {
	return &Builder{provider: p}
}

var defaultBuilder = NewBuilder(crypto.NewSecp256k1())

// RedeemScript returns OP_m <pubkey 1> ... <pubkey n> OP_n OP_CHECKMULTISIG.
// It uses the secp256k1 provider.
func RedeemScript(m int, pubkeys [][]byte) ([]byte, error) {
	return defaultBuilder.RedeemScript(m, pubkeys)
}

// WrapWitness returns the native witness output committing to given script.
func WrapWitness(witnessScript []byte, net cosign.Network) (*Script, error) {
	return defaultBuilder.WrapWitness(witnessScript, net)
}

// WrapNestedWitness returns the nested witness output committing to given
// script.
func WrapNestedWitness(witnessScript []byte, net cosign.Network) (*Script, error) {
	return defaultBuilder.WrapNestedWitness(witnessScript, net)
}

// RedeemScript returns OP_m <pubkey 1> ... <pubkey n> OP_n OP_CHECKMULTISIG.
func (b *Builder) RedeemScript(m int, pubkeys [][]byte) ([]byte, error) {
	if err := b.validate(m, pubkeys); err != nil {
		return nil, err
	}
	sb := txscript.NewScriptBuilder().AddInt64(int64(m))
	for _, pk := range pubkeys {
		sb.AddData(pk)
	}
	sb.AddInt64(int64(len(pubkeys))).AddOp(txscript.OP_CHECKMULTISIG)
	script, err := sb.Script()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(script) > MaxWitnessScriptSize {
		return nil, errors.Wrapf(errors.ErrInvalidKeyCount, "script is %d bytes", len(script))
	}
	return script, nil
}

func (b *Builder) validate(m int, pubkeys [][]byte) error {
	n := len(pubkeys)
	if n == 0 || n > MaxKeys {
		return errors.Wrapf(errors.ErrInvalidKeyCount, "%d keys, want 1 to %d", n, MaxKeys)
	}
	if m < 1 || m > n {
		return errors.Wrapf(errors.ErrInvalidThreshold, "%d of %d", m, n)
	}
	for i, pk := range pubkeys {
		if err := b.provider.ValidatePubKey(pk); err != nil {
			return errors.Wrapf(err, "public key %d", i)
		}
		for j := 0; j < i; j++ {
			if bytes.Equal(pubkeys[j], pk) {
				return errors.Wrapf(errors.ErrDuplicate, "public key %d repeats key %d", i, j)
			}
		}
	}
	return nil
}

// Build returns the m-of-n policy of given keys, committed to by an output
// of given kind.
func (b *Builder) Build(m int, pubkeys [][]byte, kind Kind, net cosign.Network) (*Script, error) {
	redeem, err := b.RedeemScript(m, pubkeys)
	if err != nil {
		return nil, err
	}
	switch kind {
	case WitnessScriptHash:
		return b.WrapWitness(redeem, net)
	case NestedWitnessScriptHash:
		return b.WrapNestedWitness(redeem, net)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown script kind %d", kind)
	}
}

// WrapWitness returns the native witness output committing to given script.
// The output script is OP_0 <sha256(witnessScript)>. Multisig details are set
// when the script is a standard multisig script.
func (b *Builder) WrapWitness(witnessScript []byte, net cosign.Network) (*Script, error) {
	if err := checkWitnessScript(witnessScript, net); err != nil {
		return nil, err
	}
	addr, err := btcutil.NewAddressWitnessScriptHash(b.provider.SHA256(witnessScript), net.Params)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return newScript(WitnessScriptHash, witnessScript, nil, addr)
}

// WrapNestedWitness returns the script hash output committing to the native
// witness program of given script.
func (b *Builder) WrapNestedWitness(witnessScript []byte, net cosign.Network) (*Script, error) {
	if err := checkWitnessScript(witnessScript, net); err != nil {
		return nil, err
	}
	program, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_0).
		AddData(b.provider.SHA256(witnessScript)).
		Script()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	addr, err := btcutil.NewAddressScriptHashFromHash(b.provider.Hash160(program), net.Params)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return newScript(NestedWitnessScriptHash, witnessScript, program, addr)
}

func checkWitnessScript(witnessScript []byte, net cosign.Network) error {
	if err := net.Validate(); err != nil {
		return err
	}
	switch n := len(witnessScript); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "witness script")
	case n > MaxWitnessScriptSize:
		return errors.Wrapf(errors.ErrInput, "witness script is %d bytes", n)
	}
	return nil
}

func newScript(kind Kind, witnessScript, redeemScript []byte, addr btcutil.Address) (*Script, error) {
	out, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	s := &Script{
		Kind:          kind,
		WitnessScript: append([]byte(nil), witnessScript...),
		RedeemScript:  redeemScript,
		OutputScript:  out,
		Address:       addr,
	}
	if m, keys, err := Parse(witnessScript); err == nil {
		s.Threshold = m
		s.PubKeys = keys
	}
	return s, nil
}
