package errors

import (
	"fmt"
)

const (
	// SuccessCode is returned for a nil error.
	SuccessCode = 0

	// All unclassified errors that do not provide a code are clubbed under
	// an internal error code and a generic message.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Report returns the code and the message that should be presented to the
// caller of a command. Errors that do not wrap a registered root error are
// internal and their message is hidden unless debug is set.
func Report(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessCode, ""
	}

	code := Code(err)
	switch {
	case debug:
		// Try to trigger full information formatting. This might
		// produce a stacktrace.
		return code, fmt.Sprintf("%+v", err)
	case code == internalCode:
		return internalCode, internalLog
	default:
		return code, err.Error()
	}
}

type coder interface {
	Code() uint32
}

// Code returns the code of the registered root error that given error wraps.
// Code 1 is returned for errors that do not wrap a root error.
func Code(err error) uint32 {
	if isNilErr(err) {
		return SuccessCode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.Code()
		}
		if u, ok := err.(unpacker); ok && len(u.Unpack()) > 0 {
			err = u.Unpack()[0]
			continue
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalCode
		}
	}
}
