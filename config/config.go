package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"

	"pairlend/lending"
)

// Config enumerates every knob the client flows depend on. It is loaded once
// and passed explicitly to constructors; nothing here is sourced from
// process-global state.
type Config struct {
	RPCEndpoint           string `toml:"RPCEndpoint"`
	ChainID               int64  `toml:"ChainID"`
	PairAddress           string `toml:"PairAddress"`
	OracleAddress         string `toml:"OracleAddress"`
	RegistryAddress       string `toml:"RegistryAddress"`
	StaleThresholdSeconds uint64 `toml:"StaleThresholdSeconds"`
	ConfirmTimeoutSeconds uint64 `toml:"ConfirmTimeoutSeconds"`
	AutoApprove           bool   `toml:"AutoApprove"`

	// ReadRequestsPerSecond throttles RPC traffic; zero disables the
	// limiter.
	ReadRequestsPerSecond float64 `toml:"ReadRequestsPerSecond"`
	ReadBurst             int     `toml:"ReadBurst"`

	Gas       GasConfig       `toml:"gas"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// GasConfig overrides the built-in per-action gas constants. Keys are action
// names; absent actions keep their defaults.
type GasConfig struct {
	FallbackLimits map[string]uint64 `toml:"FallbackLimits"`
	BufferBps      map[string]uint64 `toml:"BufferBps"`
}

// TelemetryConfig wires the optional OTLP trace exporter.
type TelemetryConfig struct {
	Endpoint    string `toml:"Endpoint"`
	Environment string `toml:"Environment"`
	Insecure    bool   `toml:"Insecure"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.StaleThresholdSeconds == 0 {
		c.StaleThresholdSeconds = 3600
	}
	if c.ConfirmTimeoutSeconds == 0 {
		c.ConfirmTimeoutSeconds = 180
	}
	if c.ReadBurst == 0 {
		c.ReadBurst = 10
	}
}

// Validate checks addresses and endpoints once at load time so flows never
// re-validate per call.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RPCEndpoint) == "" {
		return fmt.Errorf("RPCEndpoint is required")
	}
	if c.ChainID <= 0 {
		return fmt.Errorf("ChainID must be positive")
	}
	if !common.IsHexAddress(c.PairAddress) {
		return fmt.Errorf("PairAddress %q is not a valid address", c.PairAddress)
	}
	if !common.IsHexAddress(c.OracleAddress) {
		return fmt.Errorf("OracleAddress %q is not a valid address", c.OracleAddress)
	}
	if c.RegistryAddress != "" && !common.IsHexAddress(c.RegistryAddress) {
		return fmt.Errorf("RegistryAddress %q is not a valid address", c.RegistryAddress)
	}
	return nil
}

// Pair returns the configured pair address.
func (c *Config) Pair() common.Address { return common.HexToAddress(c.PairAddress) }

// Oracle returns the configured oracle address.
func (c *Config) Oracle() common.Address { return common.HexToAddress(c.OracleAddress) }

// Registry returns the configured registry address, zero when unset.
func (c *Config) Registry() common.Address { return common.HexToAddress(c.RegistryAddress) }

// StaleThreshold returns the oracle staleness bound.
func (c *Config) StaleThreshold() time.Duration {
	return time.Duration(c.StaleThresholdSeconds) * time.Second
}

// ConfirmTimeout returns the confirmation wait bound.
func (c *Config) ConfirmTimeout() time.Duration {
	return time.Duration(c.ConfirmTimeoutSeconds) * time.Second
}

// GasPolicy merges the configured overrides onto the default per-action
// constants.
func (c *Config) GasPolicy() lending.GasPolicy {
	policy := lending.DefaultGasPolicy()
	for action, limit := range c.Gas.FallbackLimits {
		policy.FallbackLimits[lending.Action(action)] = limit
	}
	for action, bps := range c.Gas.BufferBps {
		policy.BufferBps[lending.Action(action)] = bps
	}
	return policy
}
