package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pairlend/lending"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pairlend.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
RPCEndpoint = "https://rpc.example.org"
ChainID = 1
PairAddress = "0x00000000000000000000000000000000000000b1"
OracleAddress = "0x0000000000000000000000000000000000000002"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, time.Hour, cfg.StaleThreshold())
	require.Equal(t, 3*time.Minute, cfg.ConfirmTimeout())
	require.Equal(t, 10, cfg.ReadBurst)
	require.False(t, cfg.AutoApprove)
}

func TestLoadRejectsBadAddress(t *testing.T) {
	path := writeConfig(t, `
RPCEndpoint = "https://rpc.example.org"
ChainID = 1
PairAddress = "not-an-address"
OracleAddress = "0x0000000000000000000000000000000000000002"
`)
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "PairAddress")
}

func TestLoadRejectsMissingEndpoint(t *testing.T) {
	path := writeConfig(t, `
ChainID = 1
PairAddress = "0x00000000000000000000000000000000000000b1"
OracleAddress = "0x0000000000000000000000000000000000000002"
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestRegistryAddressOptional(t *testing.T) {
	path := writeConfig(t, `
RPCEndpoint = "https://rpc.example.org"
ChainID = 1
PairAddress = "0x00000000000000000000000000000000000000b1"
OracleAddress = "0x0000000000000000000000000000000000000002"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Zero(t, cfg.Registry())
}

func TestGasPolicyOverrides(t *testing.T) {
	path := writeConfig(t, `
RPCEndpoint = "https://rpc.example.org"
ChainID = 1
PairAddress = "0x00000000000000000000000000000000000000b1"
OracleAddress = "0x0000000000000000000000000000000000000002"

[gas]
[gas.FallbackLimits]
borrow = 1200000
[gas.BufferBps]
supply = 20000
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	policy := cfg.GasPolicy()
	require.Equal(t, uint64(1_200_000), policy.Fallback(lending.ActionBorrow))
	require.Equal(t, uint64(200_000), policy.Pad(lending.ActionSupply, 100_000))
	// Untouched actions keep the defaults.
	require.Equal(t, policy.Fallback(lending.ActionWithdraw), lending.DefaultGasPolicy().Fallback(lending.ActionWithdraw))
}
