package sigs

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/crypto/hd"
	"github.com/iov-one/cosign/errors"
)

// Digester returns the digest that must be signed to authorize spending of
// an input.
type Digester interface {
	SigHash(input int, hashType txscript.SigHashType) ([]byte, error)
}

// Collector creates and verifies partial signatures with an injected crypto
// provider. A collector holds no keys and no signatures.
type Collector struct {
	provider crypto.Provider
}

// NewCollector returns a collector using given provider.
func NewCollector(p crypto.Provider) *Collector {
	return &Collector{provider: p}
}

// Sign returns the signature of given input created by signer. The
// transaction is not modified.
func (c *Collector) Sign(d Digester, input int, signer crypto.Signer, hashType txscript.SigHashType) (*PartialSignature, error) {
	digest, err := d.SigHash(input, hashType)
	if err != nil {
		return nil, err
	}
	der, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrapf(err, "input %d", input)
	}
	return &PartialSignature{
		PubKey:    signer.PublicKey(),
		Signature: append(der, byte(hashType)),
		HashType:  hashType,
	}, nil
}

// SignWithKey is like Sign but the signer is created from a private node. The
// signer is dropped after signing.
func (c *Collector) SignWithKey(d Digester, input int, key *hd.ExtendedKey, hashType txscript.SigHashType) (*PartialSignature, error) {
	signer, err := key.Signer(c.provider)
	if err != nil {
		return nil, err
	}
	return c.Sign(d, input, signer, hashType)
}

// Verify returns ErrInvalidSignature if given signature was not created by
// the owner of its public key for the current digest of the input.
func (c *Collector) Verify(d Digester, input int, sig *PartialSignature) error {
	if err := sig.Validate(); err != nil {
		return errors.Wrap(errors.ErrInvalidSignature, err.Error())
	}
	if err := c.provider.ValidatePubKey(sig.PubKey); err != nil {
		return errors.Wrap(errors.ErrInvalidSignature, err.Error())
	}
	digest, err := d.SigHash(input, sig.SigHashType())
	if err != nil {
		return err
	}
	if !c.provider.Verify(sig.PubKey, digest, sig.DER()) {
		return errors.Wrapf(errors.ErrInvalidSignature, "input %d key %x", input, sig.PubKey)
	}
	return nil
}
