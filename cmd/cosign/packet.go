package main

import (
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/spend"
)

// readTemplate reads a single base64 encoded packet from the input.
func readTemplate(input io.Reader, net cosign.Network) (*spend.Template, error) {
	raw, err := ioutil.ReadAll(input)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot read packet: %s", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "no input data")
	}
	return spend.DecodeBase64(net, string(raw))
}

// readTemplates reads base64 encoded packets, one per line.
func readTemplates(input io.Reader, net cosign.Network) ([]*spend.Template, error) {
	var all []*spend.Template
	sc := bufio.NewScanner(input)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		t, err := spend.DecodeBase64(net, line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}
		all = append(all, t)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot read packets: %s", err)
	}
	return all, nil
}

func writeTemplate(output io.Writer, t *spend.Template) error {
	s, err := t.EncodeBase64()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(output, s); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
