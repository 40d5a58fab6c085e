package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored. The
// result is nil if no error is given.
//
// Multi errors are flattened, so that the result never contains a nested
// multi error.
func Append(errs ...error) error {
	var res multiErr
	for _, err := range errs {
		if isNilErr(err) {
			continue
		}
		if m, ok := err.(multiErr); ok {
			res = append(res, m...)
		} else {
			res = append(res, err)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// multiErr is a collection of errors that is an error itself.
type multiErr []error

func (e multiErr) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	points := make([]string, len(e))
	for i, err := range e {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(e), strings.Join(points, "\n\t"))
}

// Unpack implements the unpacker interface.
func (e multiErr) Unpack() []error {
	return e
}
