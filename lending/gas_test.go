package lending

import "testing"

func TestGasPolicyFallbackDefaults(t *testing.T) {
	policy := DefaultGasPolicy()
	if got := policy.Fallback(ActionBorrow); got != fallbackGasBorrow {
		t.Fatalf("expected borrow fallback %d, got %d", fallbackGasBorrow, got)
	}
	if got := policy.Fallback(ActionApprove); got != fallbackGasApprove {
		t.Fatalf("expected approve fallback %d, got %d", fallbackGasApprove, got)
	}
}

func TestGasPolicyFallbackOverride(t *testing.T) {
	policy := DefaultGasPolicy()
	policy.FallbackLimits[ActionSupply] = 777_000
	if got := policy.Fallback(ActionSupply); got != 777_000 {
		t.Fatalf("expected override 777000, got %d", got)
	}

	// A zero-valued policy still resolves to the defaults.
	var empty GasPolicy
	if got := empty.Fallback(ActionWithdraw); got != fallbackGasWithdraw {
		t.Fatalf("expected default withdraw fallback %d, got %d", fallbackGasWithdraw, got)
	}
}

func TestGasPolicyPad(t *testing.T) {
	policy := DefaultGasPolicy()
	if got := policy.Pad(ActionSupply, 100_000); got != 120_000 {
		t.Fatalf("expected 20%% buffer on supply, got %d", got)
	}
	if got := policy.Pad(ActionBorrow, 100_000); got != 150_000 {
		t.Fatalf("expected 50%% buffer on borrow, got %d", got)
	}
	policy.BufferBps[ActionSupply] = 20_000
	if got := policy.Pad(ActionSupply, 100_000); got != 200_000 {
		t.Fatalf("expected override buffer, got %d", got)
	}
}
