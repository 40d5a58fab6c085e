/*
Package bech32 encodes and decodes segregated witness addresses. Version 0
programs use bech32 and later versions use bech32m checksums.
*/
package bech32

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/iov-one/cosign/errors"
)

// EncodeWitness converts given witness program into an address with given
// human readable part.
func EncodeWitness(hrp string, version byte, program []byte) (string, error) {
	if err := validateProgram(version, program); err != nil {
		return "", err
	}
	data, err := bech32.ConvertBits(program, 8, 5, true)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
	}
	data = append([]byte{version}, data...)

	var raw string
	if version == 0 {
		raw, err = bech32.Encode(hrp, data)
	} else {
		raw, err = bech32.EncodeM(hrp, data)
	}
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "bech32 encode: %s", err)
	}
	return raw, nil
}

// DecodeWitness returns the witness version and program encoded in given
// address. The address must use the given human readable part.
func DecodeWitness(hrp, addr string) (byte, []byte, error) {
	gotHrp, data, variant, err := bech32.DecodeGeneric(addr)
	if err != nil {
		return 0, nil, errors.Wrapf(errors.ErrInvalidAddress, "bech32 decode: %s", err)
	}
	if gotHrp != strings.ToLower(hrp) {
		return 0, nil, errors.Wrapf(errors.ErrInvalidAddress, "address prefix %q, want %q", gotHrp, hrp)
	}
	if len(data) < 1 {
		return 0, nil, errors.Wrap(errors.ErrInvalidAddress, "missing witness version")
	}
	version := data[0]
	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return 0, nil, errors.Wrapf(errors.ErrInvalidAddress, "convert bits: %s", err)
	}
	if err := validateProgram(version, program); err != nil {
		return 0, nil, errors.Wrap(errors.ErrInvalidAddress, err.Error())
	}
	switch {
	case version == 0 && variant != bech32.Version0:
		return 0, nil, errors.Wrap(errors.ErrInvalidAddress, "version 0 requires bech32 checksum")
	case version != 0 && variant != bech32.VersionM:
		return 0, nil, errors.Wrap(errors.ErrInvalidAddress, "version 1+ requires bech32m checksum")
	}
	return version, program, nil
}

// HasPrefix returns true if given address looks like a bech32 address with
// the given human readable part. No checksum validation is done.
func HasPrefix(hrp, addr string) bool {
	return strings.HasPrefix(strings.ToLower(addr), strings.ToLower(hrp)+"1")
}

func validateProgram(version byte, program []byte) error {
	if version > 16 {
		return errors.Wrapf(errors.ErrInput, "invalid witness version %d", version)
	}
	if len(program) < 2 || len(program) > 40 {
		return errors.Wrapf(errors.ErrInput, "invalid witness program length %d", len(program))
	}
	if version == 0 && len(program) != 20 && len(program) != 32 {
		return errors.Wrapf(errors.ErrInput, "invalid version 0 program length %d", len(program))
	}
	return nil
}
