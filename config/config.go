package config

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/onflow/dispute-client/engine/dispute/reactor"
	"github.com/onflow/dispute-client/engine/dispute/solver"
	"github.com/onflow/dispute-client/module/dispatcher"
	"github.com/onflow/dispute-client/module/executor"
)

// EnvPrefix is the prefix of environment variables overriding config values,
// e.g. CHALLENGER_DISPATCHER_TIMEOUT for dispatcher.timeout.
const EnvPrefix = "CHALLENGER"

// storage engines
const (
	StoragePebble = "pebble"
	StorageBadger = "badger"
	StorageMemory = "memory"
)

// Contracts holds the addresses of the deployed contracts.
type Contracts struct {
	Tasks       common.Address `mapstructure:"tasks" validate:"required"`
	Interactive common.Address `mapstructure:"interactive" validate:"required"`
	Filesystem  common.Address `mapstructure:"filesystem" validate:"required"`
}

// Config is the complete configuration of the challenger node.
type Config struct {
	// RPC is the endpoint of the Ethereum node, it must support subscriptions.
	RPC string `mapstructure:"rpc" validate:"required"`
	// PrivateKey is the hex encoded key of the account solving tasks.
	PrivateKey string `mapstructure:"private-key" validate:"required,hexadecimal"`
	// ChainID is the chain id used for signing, zero queries the node.
	ChainID uint64 `mapstructure:"chain-id"`
	// StartBlock is the first block scanned for events on a fresh data directory.
	StartBlock uint64 `mapstructure:"start-block"`

	DataDir     string `mapstructure:"datadir" validate:"required"`
	Storage     string `mapstructure:"storage" validate:"oneof=pebble badger memory"`
	MetricsAddr string `mapstructure:"metrics-addr"`
	LogLevel    string `mapstructure:"loglevel" validate:"oneof=trace debug info warn error"`

	Contracts  Contracts         `mapstructure:"contracts"`
	Dispatcher dispatcher.Config `mapstructure:"dispatcher"`
	Executor   executor.Config   `mapstructure:"executor"`
	Reactor    reactor.Config    `mapstructure:"reactor"`
	Solver     solver.Config     `mapstructure:"solver"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:     "data",
		Storage:     StoragePebble,
		MetricsAddr: ":8080",
		LogLevel:    "info",
		Dispatcher:  dispatcher.DefaultConfig(),
		Executor:    executor.DefaultConfig(),
		Reactor:     reactor.DefaultConfig(),
		Solver:      solver.DefaultConfig(),
	}
}

// Key returns the private key of the solving account.
func (c *Config) Key() (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(c.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// Load reads and validates the configuration. The account answering
// challenges is derived from the private key.
func Load(flags *pflag.FlagSet, file string) (*Config, error) {
	config, err := Decode(flags, file)
	if err != nil {
		return nil, err
	}

	key, err := config.Key()
	if err != nil {
		return nil, err
	}
	config.Reactor.Me = crypto.PubkeyToAddress(key.PublicKey)

	err = Validate(config)
	if err != nil {
		return nil, err
	}
	return config, nil
}

// Decode reads the configuration without validating it. Values are taken, in
// increasing precedence, from the defaults, the optional config file,
// environment variables and the flags set on the command line.
func Decode(flags *pflag.FlagSet, file string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for _, key := range AllKeys() {
		flag := flags.Lookup(FlagName(key))
		if flag == nil {
			return nil, fmt.Errorf("missing flag for config key %s", key)
		}
		err := v.BindPFlag(key, flag)
		if err != nil {
			return nil, fmt.Errorf("could not bind flag %s: %w", flag.Name, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		err := v.ReadInConfig()
		if err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", file, err)
		}
	}

	config := DefaultConfig()
	err := v.Unmarshal(config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		stringToAddressHook,
	)))
	if err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	return config, nil
}

// Validate checks the struct constraints of the config and its component configs.
func Validate(config *Config) error {
	err := validator.New().Struct(config)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return fmt.Errorf("could not validate config: %w", err)
	}
	fields := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
}

// stringToAddressHook decodes hex strings into addresses.
func stringToAddressHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(common.Address{}) {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(s) {
		return nil, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}
