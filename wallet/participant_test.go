package wallet

import (
	"strings"
	"testing"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/cosigntest"
	"github.com/iov-one/cosign/cosigntest/assert"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/crypto/hd"
	"github.com/iov-one/cosign/errors"
)

func TestNewParticipant(t *testing.T) {
	account := hd.MustParsePath(AccountPath)

	cases := map[string]struct {
		mnemonic string
		wantErr  *errors.Error
	}{
		"valid mnemonic": {
			mnemonic: cosigntest.SatoshiMnemonic,
		},
		"bad checksum": {
			mnemonic: "zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo",
			wantErr:  errors.ErrInvalidMnemonic,
		},
		"empty mnemonic": {
			mnemonic: "",
			wantErr:  errors.ErrInvalidMnemonic,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			p, err := NewParticipant("satoshi", tc.mnemonic, "", cosign.RegTest, account)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, "satoshi", p.Label)
			assert.Equal(t, false, p.AccountKey().IsPrivate())
			assert.Equal(t, uint8(4), p.AccountKey().Depth())
			assert.Equal(t, cosign.RegTest.Name, p.Network().Name)
			if !strings.HasPrefix(p.XPub(), "tpub") {
				t.Fatalf("unexpected account key encoding: %s", p.XPub())
			}
		})
	}
}

func TestParticipantKeys(t *testing.T) {
	account := hd.MustParsePath(AccountPath)
	p, err := NewParticipant("hal", cosigntest.HalMnemonic, "", cosign.RegTest, account)
	assert.Nil(t, err)

	pub, err := p.PubKey(cosigntest.ChildPath)
	assert.Nil(t, err)
	want := cosigntest.PubKeys(t, cosign.RegTest, cosigntest.HalMnemonic)[0]
	assert.Equal(t, want, pub)

	provider := crypto.NewSecp256k1()
	signer, err := p.Signer(cosigntest.ChildPath, provider)
	assert.Nil(t, err)
	assert.Equal(t, pub, signer.PublicKey())

	digest := provider.SHA256([]byte("payload"))
	sig, err := signer.Sign(digest)
	assert.Nil(t, err)
	assert.Equal(t, true, provider.Verify(pub, digest, sig))

	// Hardened levels cannot be derived from the public account node.
	_, err = p.PubKey(hd.MustParsePath("0'/0"))
	assert.IsErr(t, errors.ErrInvalidDerivation, err)
}

func TestParticipantAddress(t *testing.T) {
	// BIP84 test vector: m/84'/0'/0' of the "abandon ... about" mnemonic.
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	p, err := NewParticipant("bip84", mnemonic, "", cosign.MainNet, hd.MustParsePath("m/84'/0'/0'"))
	assert.Nil(t, err)

	cases := map[string]struct {
		change, index uint32
		want          string
	}{
		"first receive address": {
			change: 0, index: 0,
			want: "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
		},
		"second receive address": {
			change: 0, index: 1,
			want: "bc1qnjg0jd8228aq7egyzacy8cys3knf9xvrerkf9g",
		},
		"first change address": {
			change: 1, index: 0,
			want: "bc1q8c6fshw2dlwun7ekn9qwf37cu2rn755upcp6el",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			addr, err := p.Address(tc.change, tc.index)
			assert.Nil(t, err)
			assert.Equal(t, tc.want, addr.EncodeAddress())
		})
	}
}

func TestParticipantRegTestAddress(t *testing.T) {
	p, err := NewParticipant("adam", cosigntest.AdamMnemonic, "", cosign.RegTest, hd.MustParsePath(AccountPath))
	assert.Nil(t, err)
	addr, err := p.Address(0, 0)
	assert.Nil(t, err)
	if !strings.HasPrefix(addr.EncodeAddress(), "bcrt1q") {
		t.Fatalf("unexpected address: %s", addr.EncodeAddress())
	}
	assert.Equal(t, true, addr.IsForNet(cosign.RegTest.Params))
}
