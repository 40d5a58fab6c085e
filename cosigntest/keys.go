package cosigntest

import (
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/crypto/hd"
)

// AccountPath is the account every test cosigner derives its keys from.
var AccountPath = hd.MustParsePath("m/48'/1'/0'/2'")

// ChildPath is the child of the account used for the multisig keys.
var ChildPath = hd.MustParsePath("0/0")

// AccountKey returns the private account node of given mnemonic.
func AccountKey(t testing.TB, mnemonic string, net cosign.Network) *hd.ExtendedKey {
	t.Helper()
	master, err := hd.FromMnemonic(mnemonic, "", net)
	if err != nil {
		t.Fatalf("master key: %s", err)
	}
	account, err := master.DerivePath(AccountPath)
	if err != nil {
		t.Fatalf("account key: %s", err)
	}
	return account
}

// ChildKey returns the private node at ChildPath of given mnemonic.
func ChildKey(t testing.TB, mnemonic string, net cosign.Network) *hd.ExtendedKey {
	t.Helper()
	child, err := AccountKey(t, mnemonic, net).DerivePath(ChildPath)
	if err != nil {
		t.Fatalf("child key: %s", err)
	}
	return child
}

// PubKeys returns the public keys at ChildPath of all given mnemonics.
func PubKeys(t testing.TB, net cosign.Network, mnemonics ...string) [][]byte {
	t.Helper()
	keys := make([][]byte, len(mnemonics))
	for i, m := range mnemonics {
		keys[i] = ChildKey(t, m, net).PubKey()
	}
	return keys
}

// Signer returns a signer of the key at ChildPath of given mnemonic.
func Signer(t testing.TB, mnemonic string, net cosign.Network) crypto.Signer {
	t.Helper()
	s, err := ChildKey(t, mnemonic, net).Signer(crypto.NewSecp256k1())
	if err != nil {
		t.Fatalf("signer: %s", err)
	}
	return s
}

// NewSigner returns a signer with a private key deterministically created
// from given seed. It is not derived from any mnemonic.
func NewSigner(t testing.TB, seed string) crypto.Signer {
	t.Helper()
	p := crypto.NewSecp256k1()
	s, err := crypto.NewSigner(p, p.SHA256([]byte(seed)))
	if err != nil {
		t.Fatalf("signer %q: %s", seed, err)
	}
	return s
}

// DecodeHex returns the raw value of a hex encoded string.
func DecodeHex(t testing.TB, encoded string) []byte {
	t.Helper()
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		t.Fatalf("cannot decode hex string: %s", err)
	}
	return raw
}

// Outpoint returns the "txid:vout" notation of the test funding output.
func Outpoint() string {
	return fmt.Sprintf("%s:%d", PrevTxID, PrevVout)
}
