package spend

import (
	"bytes"
	"strings"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/sigs"
)

// maxWitnessItemSize limits a single decoded witness element.
const maxWitnessItemSize = 4000000

// Packet exports the template as a BIP174 packet. Every input carries the
// spent output, the scripts, the recorded partial signatures and, when
// finalized, the final witness.
func (t *Template) Packet() (*psbt.Packet, error) {
	p, err := psbt.NewFromUnsignedTx(t.unsignedTx())
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	for i, in := range t.inputs {
		pin := &p.Inputs[i]
		pin.WitnessUtxo = in.utxo.TxOut()
		pin.WitnessScript = append([]byte(nil), in.ctx.WitnessScript...)
		if in.nested {
			pin.RedeemScript = append([]byte(nil), in.ctx.RedeemScript...)
		}

		all := in.sigs.All()
		for _, s := range all {
			pin.PartialSigs = append(pin.PartialSigs, &psbt.PartialSig{
				PubKey:    s.PubKey,
				Signature: s.Signature,
			})
		}
		if ht, ok := commonHashType(all); ok {
			pin.SighashType = ht
		}

		if in.finalized() {
			w, err := serializeWitness(in.witness)
			if err != nil {
				return nil, err
			}
			pin.FinalScriptWitness = w
			if len(in.sigScript) > 0 {
				pin.FinalScriptSig = append([]byte(nil), in.sigScript...)
			}
		}
	}
	return p, nil
}

func commonHashType(all []*sigs.PartialSignature) (txscript.SigHashType, bool) {
	if len(all) == 0 {
		return 0, false
	}
	ht := all[0].SigHashType()
	for _, s := range all[1:] {
		if s.SigHashType() != ht {
			return 0, false
		}
	}
	return ht, true
}

// FromPacket returns the template described by given packet. All partial
// signatures are verified again, the packet is not trusted.
func FromPacket(net cosign.Network, p *psbt.Packet, opts ...Option) (*Template, error) {
	if p == nil || p.UnsignedTx == nil {
		return nil, errors.Wrap(errors.ErrInput, "empty packet")
	}
	tx := p.UnsignedTx
	if len(p.Inputs) != len(tx.TxIn) || len(p.Outputs) != len(tx.TxOut) {
		return nil, errors.Wrap(errors.ErrInput, "packet does not describe every input and output")
	}

	t := NewTemplate(net, tx.Version, tx.LockTime, opts...)
	for i, txIn := range tx.TxIn {
		pin := p.Inputs[i]
		if pin.WitnessUtxo == nil {
			return nil, errors.Wrapf(errors.ErrMissingWitnessData, "input %d: spent output", i)
		}
		ctx, err := spendContext(pin)
		if err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
		utxo := cosign.UTXO{
			Hash:     txIn.PreviousOutPoint.Hash,
			Index:    txIn.PreviousOutPoint.Index,
			Value:    pin.WitnessUtxo.Value,
			PkScript: pin.WitnessUtxo.PkScript,
		}
		if _, err := t.AddInput(utxo, ctx); err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
		t.inputs[i].sequence = txIn.Sequence
	}
	for i, out := range tx.TxOut {
		if _, err := t.AddOutputScript(out.PkScript, out.Value); err != nil {
			return nil, errors.Wrapf(err, "output %d", i)
		}
	}

	for i, pin := range p.Inputs {
		for _, ps := range pin.PartialSigs {
			sig := &sigs.PartialSignature{
				PubKey:    ps.PubKey,
				Signature: ps.Signature,
			}
			if err := t.Record(i, sig); err != nil {
				return nil, errors.Wrapf(err, "input %d", i)
			}
		}
	}
	for i, pin := range p.Inputs {
		if len(pin.FinalScriptWitness) == 0 {
			continue
		}
		w, err := parseWitness(pin.FinalScriptWitness)
		if err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
		if err := t.checkFinalScripts(i, w, pin.FinalScriptSig); err != nil {
			return nil, err
		}
		t.inputs[i].witness = w
		t.inputs[i].sigScript = append([]byte(nil), pin.FinalScriptSig...)
	}
	return t, nil
}

// checkFinalScripts executes the final witness and signature script of
// input i against its spent output. A final witness must reveal the
// witness script of the input.
func (t *Template) checkFinalScripts(i int, witness wire.TxWitness, sigScript []byte) error {
	in := t.inputs[i]
	if len(t.outputs) == 0 {
		return errors.Wrapf(errors.ErrState, "input %d: final witness without outputs", i)
	}
	if len(witness) == 0 || !bytes.Equal(witness[len(witness)-1], in.ctx.WitnessScript) {
		return errors.Wrapf(errors.ErrInvalidSignature, "input %d: final witness does not reveal the witness script", i)
	}
	tx := t.unsignedTx()
	tx.TxIn[i].Witness = witness
	tx.TxIn[i].SignatureScript = sigScript
	fetcher := t.prevOuts()
	return verifyInput(tx, i, txscript.NewTxSigHashes(tx, fetcher), fetcher)
}

// spendContext returns the scripts of an input. Packets finalized by other
// tools drop the scripts, in which case they are read from the final
// witness and signature script.
func spendContext(pin psbt.PInput) (SpendContext, error) {
	ctx := SpendContext{
		WitnessScript: pin.WitnessScript,
		RedeemScript:  pin.RedeemScript,
	}
	if len(ctx.WitnessScript) == 0 && len(pin.FinalScriptWitness) > 0 {
		w, err := parseWitness(pin.FinalScriptWitness)
		if err != nil {
			return ctx, err
		}
		if len(w) > 0 {
			ctx.WitnessScript = w[len(w)-1]
		}
	}
	if len(ctx.RedeemScript) == 0 && len(pin.FinalScriptSig) > 0 {
		pushes, err := txscript.PushedData(pin.FinalScriptSig)
		if err != nil {
			return ctx, errors.Wrapf(errors.ErrInput, "signature script: %s", err)
		}
		if len(pushes) == 1 {
			ctx.RedeemScript = pushes[0]
		}
	}
	return ctx, nil
}

// EncodeBase64 returns the base64 encoded BIP174 packet of this template.
func (t *Template) EncodeBase64() (string, error) {
	p, err := t.Packet()
	if err != nil {
		return "", err
	}
	s, err := p.B64Encode()
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return s, nil
}

// DecodeBase64 returns the template of a base64 encoded BIP174 packet.
func DecodeBase64(net cosign.Network, s string, opts ...Option) (*Template, error) {
	p, err := psbt.NewFromRawBytes(strings.NewReader(strings.TrimSpace(s)), true)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "packet: %s", err)
	}
	return FromPacket(net, p, opts...)
}

func serializeWitness(w wire.TxWitness) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteVarInt(&buf, 0, uint64(len(w))); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	for _, item := range w {
		if err := wire.WriteVarBytes(&buf, 0, item); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	return buf.Bytes(), nil
}

func parseWitness(raw []byte) (wire.TxWitness, error) {
	r := bytes.NewReader(raw)
	n, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "witness: %s", err)
	}
	if n > wire.MaxBlockPayload {
		return nil, errors.Wrapf(errors.ErrInput, "witness: %d items", n)
	}
	w := make(wire.TxWitness, 0, n)
	for i := uint64(0); i < n; i++ {
		item, err := wire.ReadVarBytes(r, 0, maxWitnessItemSize, "witness item")
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "witness item %d: %s", i, err)
		}
		w = append(w, item)
	}
	if r.Len() != 0 {
		return nil, errors.Wrap(errors.ErrInput, "witness: trailing bytes")
	}
	return w, nil
}
