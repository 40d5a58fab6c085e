package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// General purpose root errors.
var (
	// ErrInput stands for general input problems indication.
	ErrInput = Register(2, "invalid input")

	// ErrState is returned when an object is in invalid state for the
	// requested operation.
	ErrState = Register(3, "invalid state")

	// ErrEmpty is returned when a value fails a not empty assertion.
	ErrEmpty = Register(4, "value is empty")

	// ErrDuplicate is returned when there is a record already that has the
	// same unique key.
	ErrDuplicate = Register(5, "duplicate")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(6, "not found")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info.
	ErrPanic = Register(111222, "panic")
)

// Key derivation.
var (
	// ErrInvalidMnemonic is returned when a word sequence is not a valid
	// mnemonic: unknown words, wrong word count or a bad checksum.
	ErrInvalidMnemonic = Register(100, "invalid mnemonic")

	// ErrInvalidDerivation is returned when a child key cannot be derived,
	// for example a hardened child of a public only node.
	ErrInvalidDerivation = Register(101, "invalid derivation")

	// ErrInvalidEncoding is returned when an encoded extended key cannot be
	// decoded.
	ErrInvalidEncoding = Register(102, "invalid encoding")
)

// Script construction.
var (
	// ErrInvalidThreshold is returned when m is not within 1..n.
	ErrInvalidThreshold = Register(110, "invalid threshold")

	// ErrInvalidKeyCount is returned when the number of public keys exceeds
	// the policy limit of the script type.
	ErrInvalidKeyCount = Register(111, "invalid key count")
)

// Transaction building, signing and finalization.
var (
	// ErrMissingWitnessData is returned when a witness input is added
	// without the script needed to spend it.
	ErrMissingWitnessData = Register(120, "missing witness data")

	// ErrInvalidAddress is returned when an address cannot be decoded or
	// belongs to a different network.
	ErrInvalidAddress = Register(121, "invalid address")

	// ErrInvalidAmount stands for an invalid amount of coins.
	ErrInvalidAmount = Register(122, "invalid amount")

	// ErrInvalidSignature is returned when a signature does not verify
	// against its public key and the signing digest.
	ErrInvalidSignature = Register(123, "invalid signature")

	// ErrInsufficientSignatures is returned when an input cannot be
	// finalized because less than the threshold of signatures is present.
	ErrInsufficientSignatures = Register(124, "insufficient signatures")

	// ErrOrderMismatch is returned when signatures cannot be arranged in
	// the order of the public keys of the script.
	ErrOrderMismatch = Register(125, "signature order mismatch")

	// ErrIncompleteInputs is returned when a transaction is extracted
	// before all inputs are finalized.
	ErrIncompleteInputs = Register(126, "incomplete inputs")

	// ErrStaleSignatures is returned when a signed transaction is being
	// structurally modified.
	ErrStaleSignatures = Register(127, "stale signatures")
)

// Register declares a root error with a code unique in this process. Reusing
// a code panics, so call it only from package level variable declarations.
func Register(code uint32, description string) *Error {
	if prev, ok := registered[code]; ok {
		panic(fmt.Sprintf("error code %d already registered as %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	registered[code] = e
	return e
}

// Code 1 is reserved for errors created outside of this package.
var registered = map[uint32]*Error{
	1: nil,
}

// Error is a root error. Every error returned by this module wraps one of
// them, so callers can classify failures with Is and the command line can
// turn them into an exit message.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the registered code.
func (e Error) Code() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with a format string.
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is reports whether err was created from this root error. The cause chain
// is followed and a multi error matches if any of its members does. A nil
// root error matches only a nil error.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	for err != nil {
		if err == e {
			return true
		}
		if u, ok := err.(unpacker); ok {
			for _, member := range u.Unpack() {
				if e.Is(member) {
					return true
				}
			}
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap prefixes err with description. A stack trace is attached at the
// innermost wrap only. Wrapping nil returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover must be deferred. It stops a panic and stores it in err as an
// ErrPanic.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

// unpacker is implemented by multi errors.
type unpacker interface {
	Unpack() []error
}

// isNilErr also catches a typed nil pointer stored in an error interface.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
