package lending

// Per-action fallback gas ceilings, used whenever the provider's estimate is
// unavailable. Borrow and repay run the pair's largest code paths (interest
// accrual plus oracle reads) and carry the highest ceilings.
const (
	fallbackGasSupply           = 450_000
	fallbackGasBorrow           = 900_000
	fallbackGasRepay            = 900_000
	fallbackGasWithdraw         = 450_000
	fallbackGasAddCollateral    = 350_000
	fallbackGasRemoveCollateral = 350_000
	fallbackGasApprove          = 80_000
	fallbackGasOracleUpdate     = 250_000
	fallbackGasRegistryWrite    = 200_000
)

// Buffer multipliers in basis points applied on top of every successful
// estimate, absorbing state drift between estimation and submission.
const (
	defaultGasBufferBps = 12_000 // +20%
	heavyGasBufferBps   = 15_000 // +50%, borrow and repay only
	bpsDenominator      = 10_000
)

// GasPolicy holds the per-action fallback ceilings and estimate buffers the
// orchestrator applies. Zero-valued entries fall back to the defaults so a
// config file only needs to name the actions it overrides.
type GasPolicy struct {
	FallbackLimits map[Action]uint64
	BufferBps      map[Action]uint64
}

// DefaultGasPolicy returns the documented per-action constants.
func DefaultGasPolicy() GasPolicy {
	return GasPolicy{
		FallbackLimits: map[Action]uint64{
			ActionSupply:           fallbackGasSupply,
			ActionBorrow:           fallbackGasBorrow,
			ActionRepay:            fallbackGasRepay,
			ActionWithdraw:         fallbackGasWithdraw,
			ActionAddCollateral:    fallbackGasAddCollateral,
			ActionRemoveCollateral: fallbackGasRemoveCollateral,
			ActionApprove:          fallbackGasApprove,
			ActionOracleUpdate:     fallbackGasOracleUpdate,
			ActionRegistryWrite:    fallbackGasRegistryWrite,
		},
		BufferBps: map[Action]uint64{
			ActionBorrow: heavyGasBufferBps,
			ActionRepay:  heavyGasBufferBps,
		},
	}
}

// Fallback returns the conservative gas ceiling for an action.
func (p GasPolicy) Fallback(action Action) uint64 {
	if limit, ok := p.FallbackLimits[action]; ok && limit > 0 {
		return limit
	}
	defaults := DefaultGasPolicy()
	if limit, ok := defaults.FallbackLimits[action]; ok {
		return limit
	}
	return fallbackGasSupply
}

// Pad applies the action's buffer multiplier to a successful gas estimate.
func (p GasPolicy) Pad(action Action, estimate uint64) uint64 {
	bps := uint64(defaultGasBufferBps)
	if override, ok := p.BufferBps[action]; ok && override > 0 {
		bps = override
	} else if defaultBps, ok := DefaultGasPolicy().BufferBps[action]; ok {
		bps = defaultBps
	}
	return estimate * bps / bpsDenominator
}
