package sigs

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/errors"
)

// minSigSize is the length of the shortest DER signature with its sighash
// type byte.
const minSigSize = 9

// PartialSignature is a signature of a single input, created by the owner of
// PubKey.
type PartialSignature struct {
	// PubKey is the compressed public key of the signer.
	PubKey []byte
	// Signature is the DER encoded signature followed by the sighash
	// type byte, as placed in the witness.
	Signature []byte
	HashType  txscript.SigHashType
}

// Validate returns all field errors of this signature. It does not check the
// signature itself.
func (s *PartialSignature) Validate() error {
	var errs error
	if len(s.PubKey) != crypto.PubKeySize {
		errs = errors.AppendField(errs, "PubKey", errors.Wrapf(errors.ErrInput, "%d bytes", len(s.PubKey)))
	}
	if len(s.Signature) < minSigSize {
		errs = errors.AppendField(errs, "Signature", errors.Wrapf(errors.ErrInvalidSignature, "%d bytes", len(s.Signature)))
	} else if s.HashType != 0 && s.HashType != s.SigHashType() {
		errs = errors.AppendField(errs, "HashType", errors.Wrapf(errors.ErrInvalidSignature,
			"declared %#x, signed %#x", uint32(s.HashType), uint32(s.SigHashType())))
	}
	return errs
}

// SigHashType returns the sighash type the signature was created with.
func (s *PartialSignature) SigHashType() txscript.SigHashType {
	if len(s.Signature) == 0 {
		return 0
	}
	return txscript.SigHashType(s.Signature[len(s.Signature)-1])
}

// DER returns the signature without the sighash type byte.
func (s *PartialSignature) DER() []byte {
	if len(s.Signature) == 0 {
		return nil
	}
	return s.Signature[:len(s.Signature)-1]
}

// Equal returns true if both values hold the same key and signature.
func (s *PartialSignature) Equal(o *PartialSignature) bool {
	return bytes.Equal(s.PubKey, o.PubKey) &&
		bytes.Equal(s.Signature, o.Signature) &&
		s.SigHashType() == o.SigHashType()
}

// Copy returns a deep copy of this signature.
func (s *PartialSignature) Copy() *PartialSignature {
	return &PartialSignature{
		PubKey:    append([]byte(nil), s.PubKey...),
		Signature: append([]byte(nil), s.Signature...),
		HashType:  s.HashType,
	}
}

func (s *PartialSignature) String() string {
	return fmt.Sprintf("%x:%x", s.PubKey, s.Signature)
}
