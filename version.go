package cosign

import "fmt"

// Release of the cosign library and command line client.
const (
	Maj = 0
	Min = 1
	Fix = 0

	// Suffix marks builds that are not a tagged release.
	Suffix = "-dev"
)

// GitCommit is the commit the cosign binary was built from. Release builds
// set it with -ldflags "-X github.com/iov-one/cosign.GitCommit=<sha>".
var GitCommit = ""

// Version returns the release printed by "cosign version", followed by the
// build commit when known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)
	if GitCommit == "" {
		return v
	}
	return v + " " + GitCommit
}
