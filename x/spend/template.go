package spend

import (
	"bytes"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/crypto/bech32"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/multisig"
	"github.com/iov-one/cosign/x/sigs"
)

// Stage is the position of a template in its lifecycle.
type Stage int

const (
	Created Stage = iota
	InputsAdded
	OutputsAdded
	PartiallySigned
	ReadySigned
	Finalized
	Extracted
)

func (s Stage) String() string {
	switch s {
	case Created:
		return "created"
	case InputsAdded:
		return "inputs added"
	case OutputsAdded:
		return "outputs added"
	case PartiallySigned:
		return "partially signed"
	case ReadySigned:
		return "ready signed"
	case Finalized:
		return "finalized"
	case Extracted:
		return "extracted"
	default:
		return "unknown"
	}
}

// SpendContext is the data needed to satisfy the locking script of a
// previous output.
type SpendContext struct {
	// WitnessScript is the multisig script committed to by the witness
	// program.
	WitnessScript []byte
	// RedeemScript is the witness program, required for nested outputs
	// only.
	RedeemScript []byte
}

// NewSpendContext returns the context needed to spend an output paying to
// given script.
func NewSpendContext(s *multisig.Script) SpendContext {
	return SpendContext{
		WitnessScript: s.WitnessScript,
		RedeemScript:  s.RedeemScript,
	}
}

type input struct {
	utxo      cosign.UTXO
	ctx       SpendContext
	sequence  uint32
	nested    bool
	threshold int
	pubKeys   [][]byte
	sigs      *sigs.Set

	// Set when finalized.
	witness   wire.TxWitness
	sigScript []byte
}

func (in *input) finalized() bool {
	return len(in.witness) != 0
}

// scriptSigs returns the number of recorded signatures made by keys of the
// input script. Signatures of other keys are stored but never used.
func (in *input) scriptSigs() int {
	n := 0
	for _, pk := range in.pubKeys {
		if _, ok := in.sigs.Get(pk); ok {
			n++
		}
	}
	return n
}

// Template is a transaction being built and signed. Templates are not safe
// for concurrent use.
type Template struct {
	net       cosign.Network
	version   int32
	lockTime  uint32
	inputs    []*input
	outputs   []*wire.TxOut
	provider  crypto.Provider
	collector *sigs.Collector
	extracted []byte
}

// Option configures a template.
type Option func(*Template)

// WithProvider sets the crypto provider used to hash scripts and verify
// signatures. The secp256k1 provider is used by default.
func WithProvider(p crypto.Provider) Option {
	return func(t *Template) {
		t.provider = p
	}
}

// NewTemplate returns an empty template of a transaction with given version
// and lock time.
func NewTemplate(net cosign.Network, version int32, lockTime uint32, opts ...Option) *Template {
	t := &Template{
		net:      net,
		version:  version,
		lockTime: lockTime,
		provider: crypto.NewSecp256k1(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.collector = sigs.NewCollector(t.provider)
	return t
}

// Network returns the network the template was created for.
func (t *Template) Network() cosign.Network {
	return t.net
}

// Stage returns the current lifecycle stage.
func (t *Template) Stage() Stage {
	switch {
	case t.extracted != nil:
		return Extracted
	case len(t.inputs) == 0:
		return Created
	}

	finalized, ready, signed := true, true, false
	for _, in := range t.inputs {
		if !in.finalized() {
			finalized = false
		}
		if in.scriptSigs() < in.threshold {
			ready = false
		}
		if in.sigs.Len() > 0 {
			signed = true
		}
	}
	switch {
	case finalized:
		return Finalized
	case signed && ready:
		return ReadySigned
	case signed:
		return PartiallySigned
	case len(t.outputs) > 0:
		return OutputsAdded
	default:
		return InputsAdded
	}
}

// signed returns true if any signature was recorded.
func (t *Template) signed() bool {
	for _, in := range t.inputs {
		if in.sigs.Len() > 0 || in.finalized() {
			return true
		}
	}
	return t.extracted != nil
}

func (t *Template) checkEditable() error {
	if t.signed() {
		return errors.Wrap(errors.ErrStaleSignatures, "transaction is signed")
	}
	return nil
}

func (t *Template) input(i int) (*input, error) {
	if i < 0 || i >= len(t.inputs) {
		return nil, errors.Wrapf(errors.ErrNotFound, "input %d", i)
	}
	return t.inputs[i], nil
}

// AddInput adds a previous output to be spent and returns its index. The
// output must pay to a native or nested witness script hash of a multisig
// script given in the context.
func (t *Template) AddInput(utxo cosign.UTXO, ctx SpendContext) (int, error) {
	if err := t.checkEditable(); err != nil {
		return 0, err
	}
	if err := utxo.Validate(); err != nil {
		return 0, err
	}
	for _, in := range t.inputs {
		if in.utxo.OutPoint() == utxo.OutPoint() {
			return 0, errors.Wrapf(errors.ErrDuplicate, "outpoint %s", utxo)
		}
	}

	in := &input{
		utxo:     copyUTXO(utxo),
		sequence: wire.MaxTxInSequenceNum,
		sigs:     sigs.NewSet(),
	}
	switch class := txscript.GetScriptClass(utxo.PkScript); class {
	case txscript.WitnessV0ScriptHashTy:
		if len(ctx.WitnessScript) == 0 {
			return 0, errors.Wrap(errors.ErrMissingWitnessData, "witness script")
		}
		if !bytes.Equal(t.provider.SHA256(ctx.WitnessScript), utxo.PkScript[2:]) {
			return 0, errors.Wrap(errors.ErrInput, "witness script does not match the output")
		}
	case txscript.ScriptHashTy:
		if len(ctx.WitnessScript) == 0 || len(ctx.RedeemScript) == 0 {
			return 0, errors.Wrap(errors.ErrMissingWitnessData, "nested output needs witness and redeem script")
		}
		if !bytes.Equal(t.provider.Hash160(ctx.RedeemScript), utxo.PkScript[2:22]) {
			return 0, errors.Wrap(errors.ErrInput, "redeem script does not match the output")
		}
		program := append([]byte{txscript.OP_0, txscript.OP_DATA_32}, t.provider.SHA256(ctx.WitnessScript)...)
		if !bytes.Equal(program, ctx.RedeemScript) {
			return 0, errors.Wrap(errors.ErrInput, "redeem script is not the witness program of the witness script")
		}
		in.nested = true
	default:
		return 0, errors.Wrapf(errors.ErrInput, "unsupported output type %s", class)
	}

	m, keys, err := multisig.Parse(ctx.WitnessScript)
	if err != nil {
		return 0, errors.Wrap(err, "witness script")
	}
	in.threshold = m
	in.pubKeys = keys
	in.ctx = SpendContext{
		WitnessScript: append([]byte(nil), ctx.WitnessScript...),
		RedeemScript:  append([]byte(nil), ctx.RedeemScript...),
	}
	if !in.nested {
		in.ctx.RedeemScript = nil
	}

	t.inputs = append(t.inputs, in)
	return len(t.inputs) - 1, nil
}

// SetSequence changes the sequence number of an input.
func (t *Template) SetSequence(i int, sequence uint32) error {
	if err := t.checkEditable(); err != nil {
		return err
	}
	in, err := t.input(i)
	if err != nil {
		return err
	}
	in.sequence = sequence
	return nil
}

// RemoveInput removes an input. The last input cannot be removed while the
// template has outputs.
func (t *Template) RemoveInput(i int) error {
	if err := t.checkEditable(); err != nil {
		return err
	}
	if _, err := t.input(i); err != nil {
		return err
	}
	if len(t.inputs) == 1 && len(t.outputs) > 0 {
		return errors.Wrap(errors.ErrState, "outputs require an input")
	}
	t.inputs = append(t.inputs[:i], t.inputs[i+1:]...)
	return nil
}

// AddOutput adds a payment of value satoshi to given address and returns the
// output index.
func (t *Template) AddOutput(address string, value int64) (int, error) {
	if err := t.checkOutputs(); err != nil {
		return 0, err
	}
	addr, err := t.decodeAddress(address)
	if err != nil {
		return 0, err
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return 0, errors.Wrap(errors.ErrInvalidAddress, err.Error())
	}
	return t.AddOutputScript(script, value)
}

func (t *Template) decodeAddress(address string) (btcutil.Address, error) {
	if bech32.HasPrefix(t.net.HRP(), address) {
		// Check the checksum variant and the program before the
		// address is decoded.
		if _, _, err := bech32.DecodeWitness(t.net.HRP(), address); err != nil {
			return nil, err
		}
	}
	addr, err := btcutil.DecodeAddress(address, t.net.Params)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidAddress, "%q: %s", address, err)
	}
	if !addr.IsForNet(t.net.Params) {
		return nil, errors.Wrapf(errors.ErrInvalidAddress, "%q is not a %s address", address, t.net)
	}
	return addr, nil
}

// AddOutputScript adds a payment of value satoshi to given locking script
// and returns the output index.
func (t *Template) AddOutputScript(pkScript []byte, value int64) (int, error) {
	if err := t.checkOutputs(); err != nil {
		return 0, err
	}
	if value < 0 || value > btcutil.MaxSatoshi {
		return 0, errors.Wrapf(errors.ErrInvalidAmount, "%d out of range", value)
	}
	if len(pkScript) == 0 {
		return 0, errors.Wrap(errors.ErrEmpty, "output script")
	}
	t.outputs = append(t.outputs, wire.NewTxOut(value, append([]byte(nil), pkScript...)))
	return len(t.outputs) - 1, nil
}

func (t *Template) checkOutputs() error {
	if len(t.inputs) == 0 {
		return errors.Wrap(errors.ErrState, "outputs require an input")
	}
	return t.checkEditable()
}

// RemoveOutput removes an output.
func (t *Template) RemoveOutput(i int) error {
	if err := t.checkEditable(); err != nil {
		return err
	}
	if i < 0 || i >= len(t.outputs) {
		return errors.Wrapf(errors.ErrNotFound, "output %d", i)
	}
	t.outputs = append(t.outputs[:i], t.outputs[i+1:]...)
	return nil
}

// NumInputs returns the number of inputs.
func (t *Template) NumInputs() int {
	return len(t.inputs)
}

// NumOutputs returns the number of outputs.
func (t *Template) NumOutputs() int {
	return len(t.outputs)
}

// Input returns the previous output spent by input i.
func (t *Template) Input(i int) (cosign.UTXO, error) {
	in, err := t.input(i)
	if err != nil {
		return cosign.UTXO{}, err
	}
	return copyUTXO(in.utxo), nil
}

// Policy returns the threshold and the ordered public keys of the script
// locking input i.
func (t *Template) Policy(i int) (int, [][]byte, error) {
	in, err := t.input(i)
	if err != nil {
		return 0, nil, err
	}
	keys := make([][]byte, len(in.pubKeys))
	for k, pk := range in.pubKeys {
		keys[k] = append([]byte(nil), pk...)
	}
	return in.threshold, keys, nil
}

// Signatures returns the signatures recorded for input i, ordered by public
// key.
func (t *Template) Signatures(i int) ([]*sigs.PartialSignature, error) {
	in, err := t.input(i)
	if err != nil {
		return nil, err
	}
	return in.sigs.All(), nil
}

// Fee returns the difference between the value of inputs and outputs. It is
// negative if outputs spend more than the inputs provide.
func (t *Template) Fee() int64 {
	var fee int64
	for _, in := range t.inputs {
		fee += in.utxo.Value
	}
	for _, out := range t.outputs {
		fee -= out.Value
	}
	return fee
}

// TxHash returns the id of the transaction. Witness data does not change
// the id, so it is known before signing.
func (t *Template) TxHash() chainhash.Hash {
	return t.unsignedTx().TxHash()
}

// unsignedTx returns the transaction without any signature data.
func (t *Template) unsignedTx() *wire.MsgTx {
	tx := wire.NewMsgTx(t.version)
	tx.LockTime = t.lockTime
	for _, in := range t.inputs {
		op := in.utxo.OutPoint()
		txIn := wire.NewTxIn(&op, nil, nil)
		txIn.Sequence = in.sequence
		tx.AddTxIn(txIn)
	}
	for _, out := range t.outputs {
		tx.AddTxOut(wire.NewTxOut(out.Value, append([]byte(nil), out.PkScript...)))
	}
	return tx
}

// prevOuts returns the fetcher of all spent outputs.
func (t *Template) prevOuts() *txscript.MultiPrevOutFetcher {
	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for _, in := range t.inputs {
		fetcher.AddPrevOut(in.utxo.OutPoint(), in.utxo.TxOut())
	}
	return fetcher
}

func copyUTXO(u cosign.UTXO) cosign.UTXO {
	u.PkScript = append([]byte(nil), u.PkScript...)
	return u
}
