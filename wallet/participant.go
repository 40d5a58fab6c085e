/*
Package wallet holds the key material of a single cosigner.

A Participant is created from a mnemonic and keeps its private account node
to itself. Other participants only see the account public key (xpub), which
is enough to build the shared multisig policy. Signing is done through a
crypto.Signer for a child path, so private keys never leave the package.
*/
package wallet

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/crypto/hd"
	"github.com/iov-one/cosign/errors"
)

// AccountPath is the BIP48 account of a native segwit multisig wallet on a
// test network: m / purpose' / coin_type' / account' / script_type'.
const AccountPath = "m/48'/1'/0'/2'"

// Participant is a cosigner of a multisig policy.
type Participant struct {
	Label string

	account           *hd.ExtendedKey
	xpub              string
	masterFingerprint uint32
}

// NewParticipant derives the account node at given path from the mnemonic.
func NewParticipant(label, mnemonic, passphrase string, net cosign.Network, account hd.Path) (*Participant, error) {
	master, err := hd.FromMnemonic(mnemonic, passphrase, net)
	if err != nil {
		return nil, errors.Wrapf(err, "participant %q", label)
	}
	node, err := master.DerivePath(account)
	if err != nil {
		return nil, errors.Wrapf(err, "participant %q", label)
	}
	return &Participant{
		Label:             label,
		account:           node,
		xpub:              node.Neuter().Encode(),
		masterFingerprint: master.Fingerprint(),
	}, nil
}

// XPub returns the encoded account public key that is shared with the other
// participants.
func (p *Participant) XPub() string {
	return p.xpub
}

// AccountKey returns the public account node.
func (p *Participant) AccountKey() *hd.ExtendedKey {
	return p.account.Neuter()
}

// MasterFingerprint returns the fingerprint of the master node the account
// was derived from.
func (p *Participant) MasterFingerprint() uint32 {
	return p.masterFingerprint
}

// Network returns the network of the account.
func (p *Participant) Network() cosign.Network {
	return p.account.Network()
}

// PubKey returns the public key at given path relative to the account.
func (p *Participant) PubKey(child hd.Path) ([]byte, error) {
	node, err := p.account.Neuter().DerivePath(child)
	if err != nil {
		return nil, err
	}
	return node.PubKey(), nil
}

// Signer returns a signer of the key at given path relative to the account.
func (p *Participant) Signer(child hd.Path, provider crypto.Provider) (crypto.Signer, error) {
	node, err := p.account.DerivePath(child)
	if err != nil {
		return nil, err
	}
	return node.Signer(provider)
}

// Address returns the single key native segwit address of the account at
// change/index.
func (p *Participant) Address(change, index uint32) (btcutil.Address, error) {
	pub, err := p.PubKey(hd.Path{{Index: change}, {Index: index}})
	if err != nil {
		return nil, err
	}
	addr, err := btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(pub), p.account.Network().Params)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return addr, nil
}
