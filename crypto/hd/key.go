package hd

import (
	"bytes"
	"encoding/binary"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/errors"
)

// ExtendedKey is a node of a hierarchical deterministic key tree. A node is
// either private, in which case both private and public children can be
// derived, or public only.
//
// ExtendedKey is immutable. All derivation methods return a new node.
type ExtendedKey struct {
	key *hdkeychain.ExtendedKey
	net cosign.Network
}

// NewMaster returns the root private node of the tree created from given
// seed.
func NewMaster(seed []byte, net cosign.Network) (*ExtendedKey, error) {
	if err := net.Validate(); err != nil {
		return nil, err
	}
	if len(seed) < hdkeychain.MinSeedBytes || len(seed) > hdkeychain.MaxSeedBytes {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be %d to %d bytes, got %d",
			hdkeychain.MinSeedBytes, hdkeychain.MaxSeedBytes, len(seed))
	}
	key, err := hdkeychain.NewMaster(seed, net.Params)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidDerivation, err.Error())
	}
	return &ExtendedKey{key: key, net: net}, nil
}

// FromMnemonic returns the root private node of the tree created from given
// mnemonic and passphrase.
func FromMnemonic(mnemonic, passphrase string, net cosign.Network) (*ExtendedKey, error) {
	seed, err := Seed(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return NewMaster(seed, net)
}

// Child returns the child node at given index. Index must be below 2^31.
// Hardened children can be derived from private nodes only.
func (k *ExtendedKey) Child(index uint32, hardened bool) (*ExtendedKey, error) {
	if index >= hdkeychain.HardenedKeyStart {
		return nil, errors.Wrapf(errors.ErrInvalidDerivation, "index %d out of range", index)
	}
	if hardened {
		if !k.key.IsPrivate() {
			return nil, errors.Wrap(errors.ErrInvalidDerivation, "hardened child of a public key")
		}
		index += hdkeychain.HardenedKeyStart
	}
	child, err := k.key.Derive(index)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidDerivation, err.Error())
	}
	return &ExtendedKey{key: child, net: k.net}, nil
}

// DerivePath returns the node reached by applying all levels of given path,
// starting at this node.
func (k *ExtendedKey) DerivePath(path Path) (*ExtendedKey, error) {
	node := k
	for i, lvl := range path {
		child, err := node.Child(lvl.Index, lvl.Hardened)
		if err != nil {
			return nil, errors.Wrapf(err, "level %d (%s)", i, lvl)
		}
		node = child
	}
	return node, nil
}

// Neuter returns the public only version of this node. Neutering a public
// node returns the same node.
func (k *ExtendedKey) Neuter() *ExtendedKey {
	if !k.key.IsPrivate() {
		return k
	}
	pub, err := k.key.Neuter()
	if err != nil {
		// Neuter fails only for unknown network versions, which cannot
		// be set for a node created by this package.
		panic(err)
	}
	return &ExtendedKey{key: pub, net: k.net}
}

// PubKey returns the 33 byte compressed public key of this node.
func (k *ExtendedKey) PubKey() []byte {
	pub, err := k.key.ECPubKey()
	if err != nil {
		panic(err)
	}
	return pub.SerializeCompressed()
}

// IsPrivate returns true if this node holds the private key.
func (k *ExtendedKey) IsPrivate() bool {
	return k.key.IsPrivate()
}

// Depth returns the number of derivations from the master node.
func (k *ExtendedKey) Depth() uint8 {
	return k.key.Depth()
}

// ChildIndex returns the index this node was derived with. Hardened indexes
// include the 2^31 offset.
func (k *ExtendedKey) ChildIndex() uint32 {
	return k.key.ChildIndex()
}

// ParentFingerprint returns the fingerprint of the parent node, zero for a
// master node.
func (k *ExtendedKey) ParentFingerprint() uint32 {
	return k.key.ParentFingerprint()
}

// Fingerprint returns the first four bytes of the public key hash, as used
// in the parent fingerprint of the children.
func (k *ExtendedKey) Fingerprint() uint32 {
	return binary.BigEndian.Uint32(btcutil.Hash160(k.PubKey())[:4])
}

// ChainCode returns a copy of the chain code.
func (k *ExtendedKey) ChainCode() []byte {
	return append([]byte(nil), k.key.ChainCode()...)
}

// Network returns the network this node is encoded for.
func (k *ExtendedKey) Network() cosign.Network {
	return k.net
}

// Signer returns a signer holding the private key of this node.
func (k *ExtendedKey) Signer(p crypto.Provider) (crypto.Signer, error) {
	if !k.key.IsPrivate() {
		return nil, errors.Wrap(errors.ErrInvalidDerivation, "public key cannot sign")
	}
	priv, err := k.key.ECPrivKey()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidDerivation, err.Error())
	}
	return crypto.NewSigner(p, priv.Serialize())
}

// Equal returns true if both nodes describe the same position in the same
// tree with the same kind of key material.
func Equal(a, b *ExtendedKey) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.IsPrivate() != b.IsPrivate() ||
		a.Depth() != b.Depth() ||
		a.ChildIndex() != b.ChildIndex() ||
		a.ParentFingerprint() != b.ParentFingerprint() ||
		!bytes.Equal(a.key.ChainCode(), b.key.ChainCode()) {
		return false
	}
	if a.IsPrivate() {
		ap, err1 := a.key.ECPrivKey()
		bp, err2 := b.key.ECPrivKey()
		return err1 == nil && err2 == nil && bytes.Equal(ap.Serialize(), bp.Serialize())
	}
	return bytes.Equal(a.PubKey(), b.PubKey())
}
