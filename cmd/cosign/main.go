package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program and the command name. It is the responsibility of
// the command function to parse the arguments. Commands read and write only
// to the provided input and output, logs go to stderr.
//
// Commands are small and composable. A partially signed transaction is
// passed between them as a base64 encoded BIP174 packet, so a whole spend
// can be expressed as a pipeline:
//
//	$ cosign spend -utxo $TXID:0:1000000000 -to $ADDR \
//	    | cosign sign -mnemonic "$ALICE" \
//	    | cosign sign -mnemonic "$BOB" \
//	    | cosign finalize
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"combine":  cmdCombine,
	"finalize": cmdFinalize,
	"keyinfo":  cmdKeyInfo,
	"multisig": cmdMultisig,
	"sign":     cmdSign,
	"spend":    cmdSpend,
	"verify":   cmdVerify,
	"version":  cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for m of n multisig spending.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := execute(run, os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		_, msg := errors.Report(err, env("COSIGN_DEBUG", "") != "")
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(1)
	}
}

// execute runs a command and turns a panic into an ErrPanic error.
func execute(run func(io.Reader, io.Writer, []string) error, in io.Reader, out io.Writer, args []string) (err error) {
	defer errors.Recover(&err)
	return run(in, out, args)
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, cosign.Version())
	return err
}
