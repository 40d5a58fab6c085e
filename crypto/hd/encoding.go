package hd

import (
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
)

// Encode returns the base58check serialization of this node, for example
// xpub... or tprv... depending on the network and the key kind.
func (k *ExtendedKey) Encode() string {
	return k.key.String()
}

func (k *ExtendedKey) String() string {
	return k.Encode()
}

// Decode parses a base58check serialized node. The network is resolved from
// the version bytes. Test networks share their version bytes, in which case
// the first registered network is returned. Use DecodeFor to require a
// specific network.
func Decode(s string) (*ExtendedKey, cosign.Network, error) {
	key, err := hdkeychain.NewKeyFromString(s)
	if err != nil {
		return nil, cosign.Network{}, errors.Wrap(errors.ErrInvalidEncoding, err.Error())
	}
	for _, net := range cosign.Networks() {
		if key.IsForNet(net.Params) {
			return &ExtendedKey{key: key, net: net}, net, nil
		}
	}
	return nil, cosign.Network{}, errors.Wrapf(errors.ErrInvalidEncoding, "unknown version %x", key.Version())
}

// DecodeFor parses a base58check serialized node that must be encoded for
// given network.
func DecodeFor(s string, net cosign.Network) (*ExtendedKey, error) {
	if err := net.Validate(); err != nil {
		return nil, err
	}
	key, err := hdkeychain.NewKeyFromString(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidEncoding, err.Error())
	}
	if !key.IsForNet(net.Params) {
		return nil, errors.Wrapf(errors.ErrInvalidEncoding, "version %x is not for %s", key.Version(), net)
	}
	return &ExtendedKey{key: key, net: net}, nil
}
