package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/cosigntest"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/spend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utxoFlag() string {
	return fmt.Sprintf("%s:%d", cosigntest.Outpoint(), cosigntest.PrevValue)
}

func TestSpendPipeline(t *testing.T) {
	keys := xpubs(t)
	policy := mustRun(t, cmdMultisig, "", "-network", "regtest", "-xpubs", keys)

	unsigned := mustRun(t, cmdSpend, "",
		"-network", "regtest",
		"-xpubs", keys,
		"-utxo", utxoFlag(),
		"-to", cosigntest.Destination,
		"-fee", fmt.Sprint(cosigntest.Fee),
	)
	tmpl, err := spend.DecodeBase64(cosign.RegTest, unsigned)
	require.NoError(t, err)
	assert.Equal(t, spend.OutputsAdded, tmpl.Stage())
	assert.Equal(t, cosigntest.Fee, tmpl.Fee())

	signed := mustRun(t, cmdSign, unsigned, "-network", "regtest", "-mnemonic", cosigntest.SatoshiMnemonic)
	_, err = runCmd(t, cmdFinalize, signed, "-network", "regtest")
	assert.True(t, errors.ErrInsufficientSignatures.Is(err))

	signed = mustRun(t, cmdSign, signed, "-network", "regtest", "-mnemonic", cosigntest.HalMnemonic)
	rawHex := strings.TrimSpace(mustRun(t, cmdFinalize, signed, "-network", "regtest"))

	// The same spend signed in a different order gives the same bytes.
	other := mustRun(t, cmdSign, unsigned, "-network", "regtest", "-mnemonic", cosigntest.HalMnemonic)
	other = mustRun(t, cmdSign, other, "-network", "regtest", "-mnemonic", cosigntest.SatoshiMnemonic)
	assert.Equal(t, rawHex, strings.TrimSpace(mustRun(t, cmdFinalize, other, "-network", "regtest")))

	prevout := fmt.Sprintf("%s:%s", utxoFlag(), field(t, policy, "output_script"))
	out := mustRun(t, cmdVerify, rawHex, "-prevout", prevout)
	assert.Equal(t, "ok\n", out)

	raw, err := hex.DecodeString(rawHex)
	require.NoError(t, err)
	// Flip the last byte of the witness script, right before the lock time.
	raw[len(raw)-5] ^= 0x01
	_, err = runCmd(t, cmdVerify, hex.EncodeToString(raw), "-prevout", prevout)
	assert.True(t, errors.ErrInvalidSignature.Is(err))
}

func TestCombine(t *testing.T) {
	keys := xpubs(t)
	unsigned := mustRun(t, cmdSpend, "",
		"-network", "regtest",
		"-xpubs", keys,
		"-nested",
		"-utxo", utxoFlag(),
		"-to", cosigntest.Destination,
		"-amount", "400000000",
		"-change", field(t, mustRun(t, cmdMultisig, "", "-network", "regtest", "-xpubs", keys), "address"),
		"-fee", "5000",
	)
	tmpl, err := spend.DecodeBase64(cosign.RegTest, unsigned)
	require.NoError(t, err)
	assert.Equal(t, 2, tmpl.NumOutputs())
	assert.Equal(t, int64(5000), tmpl.Fee())

	// Without a change address the remainder is left to the miner.
	noChange := mustRun(t, cmdSpend, "",
		"-network", "regtest",
		"-xpubs", keys,
		"-utxo", utxoFlag(),
		"-to", cosigntest.Destination,
		"-amount", "400000000",
		"-fee", "5000",
	)
	tmpl, err = spend.DecodeBase64(cosign.RegTest, noChange)
	require.NoError(t, err)
	assert.Equal(t, 1, tmpl.NumOutputs())
	assert.Equal(t, cosigntest.PrevValue-400000000, tmpl.Fee())

	satoshi := mustRun(t, cmdSign, unsigned, "-network", "regtest", "-mnemonic", cosigntest.SatoshiMnemonic)
	adam := mustRun(t, cmdSign, unsigned, "-network", "regtest", "-mnemonic", cosigntest.AdamMnemonic)

	t.Run("from the input", func(t *testing.T) {
		combined := mustRun(t, cmdCombine, satoshi+adam, "-network", "regtest")
		packet := mustRun(t, cmdFinalize, combined, "-network", "regtest", "-psbt")
		final, err := spend.DecodeBase64(cosign.RegTest, packet)
		require.NoError(t, err)
		assert.Equal(t, spend.Finalized, final.Stage())
	})

	t.Run("from files", func(t *testing.T) {
		a := mustCreateFile(t, strings.NewReader(satoshi))
		b := mustCreateFile(t, strings.NewReader(adam))
		combined := mustRun(t, cmdCombine, "", "-network", "regtest", a, b)
		mustRun(t, cmdFinalize, combined, "-network", "regtest")
	})

	t.Run("nothing to combine", func(t *testing.T) {
		_, err := runCmd(t, cmdCombine, "\n", "-network", "regtest")
		assert.True(t, errors.ErrEmpty.Is(err))
	})
}

func TestSpendErrors(t *testing.T) {
	keys := xpubs(t)

	cases := map[string]struct {
		args    []string
		wantErr *errors.Error
	}{
		"no outputs to spend": {
			args:    []string{"-xpubs", keys, "-to", cosigntest.Destination},
			wantErr: errors.ErrEmpty,
		},
		"no destination": {
			args:    []string{"-xpubs", keys, "-utxo", utxoFlag()},
			wantErr: errors.ErrEmpty,
		},
		"fee above the value": {
			args:    []string{"-xpubs", keys, "-utxo", utxoFlag(), "-to", cosigntest.Destination, "-fee", fmt.Sprint(cosigntest.PrevValue)},
			wantErr: errors.ErrInvalidAmount,
		},
		"amount above the value": {
			args:    []string{"-xpubs", keys, "-utxo", utxoFlag(), "-to", cosigntest.Destination, "-amount", fmt.Sprint(cosigntest.PrevValue + 1)},
			wantErr: errors.ErrInvalidAmount,
		},
		"amount and fee above the value": {
			args:    []string{"-xpubs", keys, "-utxo", utxoFlag(), "-to", cosigntest.Destination, "-amount", fmt.Sprint(cosigntest.PrevValue - 10), "-fee", "11"},
			wantErr: errors.ErrInvalidAmount,
		},
		"destination of another network": {
			args:    []string{"-xpubs", keys, "-utxo", utxoFlag(), "-to", "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"},
			wantErr: errors.ErrInvalidAddress,
		},
		"same output twice": {
			args:    []string{"-xpubs", keys, "-utxo", utxoFlag(), "-utxo", utxoFlag(), "-to", cosigntest.Destination},
			wantErr: errors.ErrDuplicate,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			args := append([]string{"-network", "regtest"}, tc.args...)
			_, err := runCmd(t, cmdSpend, "", args...)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestSignErrors(t *testing.T) {
	keys := xpubs(t)
	unsigned := mustRun(t, cmdSpend, "",
		"-network", "regtest",
		"-xpubs", keys,
		"-utxo", utxoFlag(),
		"-to", cosigntest.Destination,
		"-fee", "1000",
	)
	outsider := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	cases := map[string]struct {
		input   string
		args    []string
		wantErr *errors.Error
	}{
		"key outside of the policy": {
			input:   unsigned,
			args:    []string{"-mnemonic", outsider},
			wantErr: errors.ErrInput,
		},
		"no mnemonic": {
			input:   unsigned,
			wantErr: errors.ErrInvalidMnemonic,
		},
		"unknown sighash": {
			input:   unsigned,
			args:    []string{"-mnemonic", cosigntest.HalMnemonic, "-sighash", "some"},
			wantErr: errors.ErrInput,
		},
		"no packet": {
			input:   "",
			args:    []string{"-mnemonic", cosigntest.HalMnemonic},
			wantErr: errors.ErrEmpty,
		},
		"broken packet": {
			input:   "cHNidP8=",
			args:    []string{"-mnemonic", cosigntest.HalMnemonic},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			args := append([]string{"-network", "regtest"}, tc.args...)
			_, err := runCmd(t, cmdSign, tc.input, args...)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
		})
	}
}
