package bech32

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/iov-one/cosign/errors"
)

func TestWitnessEncodeDecode(t *testing.T) {
	cases := map[string]struct {
		hrp     string
		addr    string
		version byte
		program string
	}{
		"version 0 key hash": {
			hrp:     "bc",
			addr:    "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4",
			version: 0,
			program: "751e76e8199196d454941c45d1b3a323f1433bd6",
		},
		"version 0 script hash": {
			hrp:     "tb",
			addr:    "tb1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3q0sl5k7",
			version: 0,
			program: "1863143c14c5166804bd19203356da136c985678cd4d27a1b8c6329604903262",
		},
		"version 1 uses bech32m": {
			hrp:     "bc",
			addr:    "bc1p0xlxvlhemja6c4dqv22uapctqupfhlxm9h8z3k2e72q4k9hcz7vqzk5jj0",
			version: 1,
			program: "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			want, err := hex.DecodeString(tc.program)
			if err != nil {
				t.Fatal(err)
			}

			version, program, err := DecodeWitness(tc.hrp, tc.addr)
			if err != nil {
				t.Fatalf("cannot decode: %+v", err)
			}
			if version != tc.version {
				t.Fatalf("want version %d, got %d", tc.version, version)
			}
			if !bytes.Equal(want, program) {
				t.Logf("want %x", want)
				t.Logf("got  %x", program)
				t.Fatal("invalid decode")
			}

			raw, err := EncodeWitness(tc.hrp, version, program)
			if err != nil {
				t.Fatalf("cannot encode: %+v", err)
			}
			if raw != tc.addr {
				t.Fatalf("invalid encoding: %q", raw)
			}
		})
	}
}

func TestDecodeWitnessErrors(t *testing.T) {
	cases := map[string]struct {
		hrp  string
		addr string
	}{
		"wrong network": {
			hrp:  "bc",
			addr: "tb1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3q0sl5k7",
		},
		"bad checksum": {
			hrp:  "bc",
			addr: "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t5",
		},
		"not bech32": {
			hrp:  "bc",
			addr: "mi3EaoRwuCQLeyaGKejXQFMxsY1FUNAS26",
		},
		"empty": {
			hrp:  "bc",
			addr: "",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if _, _, err := DecodeWitness(tc.hrp, tc.addr); !errors.ErrInvalidAddress.Is(err) {
				t.Fatalf("want invalid address error, got %+v", err)
			}
		})
	}
}

func TestEncodeWitnessErrors(t *testing.T) {
	if _, err := EncodeWitness("bc", 0, make([]byte, 21)); !errors.ErrInput.Is(err) {
		t.Fatalf("version 0 program must be 20 or 32 bytes, got %+v", err)
	}
	if _, err := EncodeWitness("bc", 17, make([]byte, 32)); !errors.ErrInput.Is(err) {
		t.Fatalf("version above 16 must fail, got %+v", err)
	}
}

func TestHasPrefix(t *testing.T) {
	if !HasPrefix("bcrt", "BCRT1QXYZ") {
		t.Fatal("prefix match must be case insensitive")
	}
	if HasPrefix("bc", "bcrt1qxyz") {
		t.Fatal("bc is not a prefix of a regtest address")
	}
}
