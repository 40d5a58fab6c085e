package hd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	master, err := FromMnemonic(abandonMnemonic, "", cosign.RegTest)
	if err != nil {
		t.Fatalf("cannot create master: %+v", err)
	}
	account, err := master.DerivePath(MustParsePath("m/48'/1'/0'/2'"))
	if err != nil {
		t.Fatalf("cannot derive: %+v", err)
	}

	for _, node := range []*ExtendedKey{master, account, account.Neuter()} {
		encoded := node.Encode()
		decoded, err := DecodeFor(encoded, cosign.RegTest)
		if err != nil {
			t.Fatalf("cannot decode %s: %+v", encoded, err)
		}
		if !Equal(node, decoded) {
			t.Fatalf("%s: decoded node differs", encoded)
		}
		if !bytes.Equal(node.ChainCode(), decoded.ChainCode()) || node.Depth() != decoded.Depth() {
			t.Fatalf("%s: chain code or depth not preserved", encoded)
		}
		if decoded.Encode() != encoded {
			t.Fatalf("%s: encoding is not stable", encoded)
		}
	}

	if !strings.HasPrefix(account.Neuter().Encode(), "tpub") {
		t.Fatalf("regtest public key must use the test prefix: %s", account.Neuter().Encode())
	}
}

func TestDecode(t *testing.T) {
	const (
		xpub = "xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8"
		xprv = "xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi"
	)
	regtest, err := FromMnemonic(abandonMnemonic, "", cosign.RegTest)
	if err != nil {
		t.Fatalf("cannot create master: %+v", err)
	}
	tpub := regtest.Neuter().Encode()

	cases := map[string]struct {
		raw         string
		wantNet     cosign.Network
		wantPrivate bool
		wantErr     *errors.Error
	}{
		"mainnet public": {
			raw:     xpub,
			wantNet: cosign.MainNet,
		},
		"mainnet private": {
			raw:         xprv,
			wantNet:     cosign.MainNet,
			wantPrivate: true,
		},
		"shared test version resolves to the first test network": {
			raw:     tpub,
			wantNet: cosign.TestNet,
		},
		"bad checksum": {
			raw:     xpub[:len(xpub)-1] + "9",
			wantErr: errors.ErrInvalidEncoding,
		},
		"truncated": {
			raw:     xpub[:60],
			wantErr: errors.ErrInvalidEncoding,
		},
		"not base58": {
			raw:     "0OIl",
			wantErr: errors.ErrInvalidEncoding,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			key, net, err := Decode(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			if net.Params != tc.wantNet.Params {
				t.Fatalf("want %s network, got %s", tc.wantNet, net)
			}
			if key.Network().Params != net.Params {
				t.Fatal("key must carry the resolved network")
			}
			if key.IsPrivate() != tc.wantPrivate {
				t.Fatalf("want private %v", tc.wantPrivate)
			}
		})
	}
}

func TestDecodeFor(t *testing.T) {
	regtest, err := FromMnemonic(abandonMnemonic, "", cosign.RegTest)
	if err != nil {
		t.Fatalf("cannot create master: %+v", err)
	}
	tpub := regtest.Neuter().Encode()

	key, err := DecodeFor(tpub, cosign.RegTest)
	if err != nil {
		t.Fatalf("cannot decode: %+v", err)
	}
	if key.Network().Params != cosign.RegTest.Params {
		t.Fatal("requested network must be used")
	}

	if _, err := DecodeFor(tpub, cosign.MainNet); !errors.ErrInvalidEncoding.Is(err) {
		t.Fatalf("test key on main network must fail, got %+v", err)
	}
}
