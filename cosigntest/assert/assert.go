/*
Package assert provides the small set of assertions used by the tests of this
module. Failures that carry an error are printed with %+v so that the stack
trace of the error is visible.
*/
package assert

import (
	"bytes"
	"encoding/hex"
	"reflect"
	"testing"

	"github.com/iov-one/cosign/errors"
)

// Tester is the part of testing.TB the assertions need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test unless value is nil or a typed nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want nil, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal fails the test unless want and got are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// EqualHex compares got with the hex encoded want. Scripts and keys read
// better as hex in a failure message.
func EqualHex(t Tester, want string, got []byte) {
	t.Helper()
	raw, err := hex.DecodeString(want)
	if err != nil {
		t.Fatalf("invalid hex %q: %s", want, err)
		return
	}
	if !bytes.Equal(raw, got) {
		t.Fatalf("bytes not equal\nwant %s\n got %x", want, got)
	}
}

// FieldError requires err to carry exactly one error for fieldName and that
// error to be of the want kind. A nil want requires no error for that field.
func FieldError(t testing.TB, err error, fieldName string, want *errors.Error) {
	t.Helper()

	found := errors.FieldErrors(err, fieldName)
	if want == nil {
		if len(found) != 0 {
			logAll(t, found)
			t.Fatalf("no %q field error expected, got %d", fieldName, len(found))
		}
		return
	}

	switch len(found) {
	case 0:
		t.Fatalf("no %q field error found in %+v", fieldName, err)
	case 1:
		if !want.Is(found[0]) {
			t.Fatalf("want %q field error %q, got %q", fieldName, want, found[0])
		}
	default:
		logAll(t, found)
		t.Errorf("want one %q field error, got %d", fieldName, len(found))
	}
}

func logAll(t testing.TB, errs []error) {
	for i, e := range errs {
		t.Logf("\terror %d: %q", i+1, e)
	}
}

// IsErr fails the test unless got is want or was created from want.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if e, ok := want.(interface{ Is(error) bool }); ok && e.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}
