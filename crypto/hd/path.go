package hd

import (
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/iov-one/cosign/errors"
)

// PathLevel is a single step of a derivation path. Index is always below
// 2^31, the hardened offset is applied when deriving.
type PathLevel struct {
	Index    uint32
	Hardened bool
}

func (l PathLevel) String() string {
	s := strconv.FormatUint(uint64(l.Index), 10)
	if l.Hardened {
		s += "'"
	}
	return s
}

// Path is a sequence of derivation steps, applied from left to right.
type Path []PathLevel

// ParsePath parses the textual path notation, for example m/48'/1'/0'/2'.
// The m/ prefix is optional, so that relative paths like 0/5 can be written.
// A level is hardened when suffixed with ', h or H.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.Wrap(errors.ErrInvalidDerivation, "empty path")
	}
	chunks := strings.Split(s, "/")
	if chunks[0] == "m" || chunks[0] == "M" {
		chunks = chunks[1:]
	}

	path := make(Path, 0, len(chunks))
	for i, c := range chunks {
		var lvl PathLevel
		if n := len(c); n > 0 && (c[n-1] == '\'' || c[n-1] == 'h' || c[n-1] == 'H') {
			lvl.Hardened = true
			c = c[:n-1]
		}
		if c == "" {
			return nil, errors.Wrapf(errors.ErrInvalidDerivation, "level %d: missing index", i)
		}
		index, err := strconv.ParseUint(c, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidDerivation, "level %d: %q is not an index", i, c)
		}
		if index >= hdkeychain.HardenedKeyStart {
			return nil, errors.Wrapf(errors.ErrInvalidDerivation, "level %d: index %d out of range", i, index)
		}
		lvl.Index = uint32(index)
		path = append(path, lvl)
	}
	return path, nil
}

// MustParsePath is like ParsePath but panics on error. Use it only for
// constant paths.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the path in the m/ prefixed notation, using ' to mark
// hardened levels.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, lvl := range p {
		b.WriteString("/")
		b.WriteString(lvl.String())
	}
	return b.String()
}

// Append returns a new path with given levels added at the end.
func (p Path) Append(levels ...PathLevel) Path {
	res := make(Path, 0, len(p)+len(levels))
	res = append(res, p...)
	return append(res, levels...)
}
