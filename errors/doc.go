/*
Package errors implements the error taxonomy used by all cosign packages.

Every failure returned by the key derivation, script and transaction packages
wraps one of the root errors declared here. Test the kind of an error with the
Is method of the root error:

	if errors.ErrStaleSignatures.Is(err) {
		...
	}

If you want to register a custom error - use Register(code, description).
For reusing errors - use ErrXyz.New and ErrXyz.Newf or Wrap and Wrapf.

There is also support for stacktraces. Create the error using ErrXyz.New("...")
or errors.Wrap(err, "...") at the point of creation to ensure a stacktrace is
attached. If you wrap multiple times, only the first wrap records the stack.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context

	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
