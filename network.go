package cosign

import (
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/iov-one/cosign/errors"
)

// Network selects the chain parameters used to encode keys and addresses.
// The zero value is not a valid network.
type Network struct {
	Name   string
	Params *chaincfg.Params
}

var (
	MainNet = Network{Name: "mainnet", Params: &chaincfg.MainNetParams}
	TestNet = Network{Name: "testnet", Params: &chaincfg.TestNet3Params}
	RegTest = Network{Name: "regtest", Params: &chaincfg.RegressionNetParams}
	SigNet  = Network{Name: "signet", Params: &chaincfg.SigNetParams}
)

// networks is the lookup order. Networks sharing the extended key version
// bytes resolve to the one registered first.
var networks = []Network{MainNet, TestNet, RegTest, SigNet}

// Networks returns all known networks in the lookup order.
func Networks() []Network {
	res := make([]Network, len(networks))
	copy(res, networks)
	return res
}

// NetworkByName returns the network registered under given name. Lookup is
// case insensitive.
func NetworkByName(name string) (Network, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range networks {
		if n.Name == name {
			return n, nil
		}
	}
	return Network{}, errors.Wrapf(errors.ErrInput, "unknown network %q", name)
}

// HRP returns the human readable part of segwit addresses.
func (n Network) HRP() string {
	if n.Params == nil {
		return ""
	}
	return n.Params.Bech32HRPSegwit
}

func (n Network) String() string {
	return n.Name
}

// Validate returns an error if this is not one of the known networks.
func (n Network) Validate() error {
	if n.Params == nil {
		return errors.Wrap(errors.ErrInput, "network not set")
	}
	for _, known := range networks {
		if known.Params == n.Params {
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInput, "unknown network %q", n.Name)
}
