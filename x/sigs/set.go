package sigs

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/cosign/errors"
)

// Set holds at most one signature per public key, ordered by the key bytes.
// Adding a signature that is already present does nothing.
type Set struct {
	tree *btree.BTree
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{tree: btree.New(2)}
}

type item struct {
	sig *PartialSignature
}

var _ btree.Item = item{}

func (a item) Less(b btree.Item) bool {
	return bytes.Compare(a.sig.PubKey, b.(item).sig.PubKey) < 0
}

// Add stores given signature. It fails if a different signature is stored
// for the same key.
func (s *Set) Add(sig *PartialSignature) error {
	if err := s.check(sig); err != nil {
		return err
	}
	s.tree.ReplaceOrInsert(item{sig: sig.Copy()})
	return nil
}

func (s *Set) check(sig *PartialSignature) error {
	prev, ok := s.Get(sig.PubKey)
	if ok && !prev.Equal(sig) {
		return errors.Wrapf(errors.ErrDuplicate, "another signature of %x", sig.PubKey)
	}
	return nil
}

// Get returns the signature created by given key.
func (s *Set) Get(pubkey []byte) (*PartialSignature, bool) {
	it := s.tree.Get(item{sig: &PartialSignature{PubKey: pubkey}})
	if it == nil {
		return nil, false
	}
	return it.(item).sig.Copy(), true
}

// Delete removes the signature of given key, if present.
func (s *Set) Delete(pubkey []byte) {
	s.tree.Delete(item{sig: &PartialSignature{PubKey: pubkey}})
}

// Len returns the number of stored signatures.
func (s *Set) Len() int {
	return s.tree.Len()
}

// All returns copies of all signatures, ordered by public key.
func (s *Set) All() []*PartialSignature {
	res := make([]*PartialSignature, 0, s.tree.Len())
	s.tree.Ascend(func(i btree.Item) bool {
		res = append(res, i.(item).sig.Copy())
		return true
	})
	return res
}

// Clone returns an independent copy of this set.
func (s *Set) Clone() *Set {
	return &Set{tree: s.tree.Clone()}
}

// Union adds all signatures of other to this set. Either all signatures are
// added or, on a conflict, none.
func (s *Set) Union(other *Set) error {
	all := other.All()
	for _, sig := range all {
		if err := s.check(sig); err != nil {
			return err
		}
	}
	for _, sig := range all {
		s.tree.ReplaceOrInsert(item{sig: sig})
	}
	return nil
}
