package wallet

import (
	"strings"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/crypto/hd"
	"github.com/iov-one/cosign/errors"
)

// ChildPubKeys decodes the account public keys of all participants and
// returns their public keys at given child path, in the given order.
func ChildPubKeys(xpubs []string, net cosign.Network, child hd.Path) ([][]byte, error) {
	if len(xpubs) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "no account keys")
	}
	keys := make([][]byte, 0, len(xpubs))
	for i, raw := range xpubs {
		node, err := hd.DecodeFor(strings.TrimSpace(raw), net)
		if err != nil {
			return nil, errors.Wrapf(err, "account key %d", i)
		}
		if node.IsPrivate() {
			return nil, errors.Wrapf(errors.ErrInput, "account key %d is private", i)
		}
		childNode, err := node.DerivePath(child)
		if err != nil {
			return nil, errors.Wrapf(err, "account key %d", i)
		}
		keys = append(keys, childNode.PubKey())
	}
	return keys, nil
}
