package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// logOutput is where all commands write their logs.
var logOutput io.Writer = os.Stderr

// envPrefix is the prefix of environment variables that provide a default
// for any flag. For example COSIGN_ACCOUNT_PATH sets -account-path.
const envPrefix = "COSIGN"

// common holds the flags every command accepts.
type common struct {
	fl      *flag.FlagSet
	config  *string
	debug   *bool
	network *string
}

// newFlagSet returns a flag set with the common flags registered. Usage is
// printed together with the flag defaults.
func newFlagSet(usage string) *common {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		fl.PrintDefaults()
	}
	return &common{
		fl: fl,
		config: fl.String("config", env(envPrefix+"_CONFIG", ""),
			"Path to a configuration file (toml, yaml or json) providing defaults for flags. You can use COSIGN_CONFIG environment variable to set it."),
		debug: fl.Bool("debug", false, "Log debug information to stderr."),
		network: fl.String("network", "testnet",
			"Bitcoin network: mainnet, testnet, regtest or signet."),
	}
}

// parse parses command line arguments. Flags that were not given explicitly
// receive their value from COSIGN_* environment variables or the
// configuration file, in that order. Configuration keys are flag names with
// dashes replaced by underscores.
func (c *common) parse(args []string) (cosign.Network, log.Logger, error) {
	c.fl.Parse(args)

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if *c.config != "" {
		v.SetConfigFile(*c.config)
		if err := v.ReadInConfig(); err != nil {
			return cosign.Network{}, nil, errors.Wrapf(errors.ErrInput, "cannot read configuration: %s", err)
		}
	}

	given := make(map[string]bool)
	c.fl.Visit(func(f *flag.Flag) { given[f.Name] = true })

	var errs error
	c.fl.VisitAll(func(f *flag.Flag) {
		if given[f.Name] || f.Name == "config" {
			return
		}
		key := strings.Replace(f.Name, "-", "_", -1)
		if !v.IsSet(key) {
			return
		}
		if err := f.Value.Set(configValue(v, key)); err != nil {
			errs = errors.AppendField(errs, f.Name, errors.Wrap(errors.ErrInput, err.Error()))
		}
	})
	if errs != nil {
		return cosign.Network{}, nil, errs
	}

	net, err := cosign.NetworkByName(*c.network)
	if err != nil {
		return cosign.Network{}, nil, err
	}
	return net, c.logger(), nil
}

// configValue returns the configuration value as a flag would receive it.
// Lists are joined with a comma.
func configValue(v *viper.Viper, key string) string {
	switch val := v.Get(key).(type) {
	case []interface{}, []string:
		return strings.Join(v.GetStringSlice(key), ",")
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

func (c *common) logger() log.Logger {
	logger := log.NewTMLogger(log.NewSyncWriter(logOutput)).
		With("module", "cosign")
	if *c.debug {
		return log.NewFilter(logger, log.AllowDebug())
	}
	return log.NewFilter(logger, log.AllowInfo())
}
