package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"pairlend/chain"
	"pairlend/config"
	"pairlend/lending"
	"pairlend/observability/logging"
	"pairlend/observability/otel"
)

var configPath = defaultConfigPath()

func defaultConfigPath() string {
	if path := os.Getenv("PAIRLEND_CONFIG"); path != "" {
		return path
	}
	return "./pairlend.toml"
}

func main() {
	args, err := applyGlobalFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(args) < 1 {
		printUsage()
		return
	}
	if err := run(args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// applyGlobalFlags strips leading --config/--rpc flags before the command.
func applyGlobalFlags(args []string) ([]string, error) {
	for len(args) > 0 && strings.HasPrefix(args[0], "--") {
		switch {
		case args[0] == "--config":
			if len(args) < 2 {
				return nil, fmt.Errorf("--config requires a path")
			}
			configPath = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--config="):
			configPath = strings.TrimPrefix(args[0], "--config=")
			args = args[1:]
		default:
			return nil, fmt.Errorf("unknown flag %s", args[0])
		}
	}
	return args, nil
}

func run(command string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if rpc := os.Getenv("PAIRLEND_RPC_URL"); rpc != "" {
		cfg.RPCEndpoint = rpc
	}

	logger := logging.Setup("pairlend-cli", cfg.Telemetry.Environment)
	ctx := context.Background()

	shutdown, err := otel.Init(ctx, otel.Config{
		ServiceName: "pairlend-cli",
		Environment: cfg.Telemetry.Environment,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer shutdown(context.Background())

	backend, err := chain.Dial(ctx, cfg.RPCEndpoint)
	if err != nil {
		return fmt.Errorf("dial %s: %w", cfg.RPCEndpoint, err)
	}
	var wrapped chain.Backend = backend
	if cfg.ReadRequestsPerSecond > 0 {
		wrapped = chain.NewRateLimitedBackend(backend, cfg.ReadRequestsPerSecond, cfg.ReadBurst)
	}

	// A missing key yields a read-only client; write commands fail with a
	// capability error rather than a key-parsing one.
	var signer *chain.Signer
	if hexKey := os.Getenv("PAIRLEND_PRIVATE_KEY"); hexKey != "" {
		signer, err = chain.NewSigner(hexKey, big.NewInt(cfg.ChainID))
		if err != nil {
			return err
		}
	}
	client := chain.NewClient(wrapped, signer)

	pair, err := client.Pair(cfg.Pair())
	if err != nil {
		return fmt.Errorf("bind pair: %w", err)
	}
	oracle, err := client.Oracle(cfg.Oracle())
	if err != nil {
		return fmt.Errorf("bind oracle: %w", err)
	}
	resolver := client.TokenResolver()
	readTokens := func(addr common.Address) lending.TokenCaller { return resolver(addr) }
	reader := lending.NewStateReader(pair, oracle, readTokens, logger)

	newOrchestrator := func() (*lending.Orchestrator, error) {
		return lending.NewOrchestrator(lending.OrchestratorConfig{
			Account:        client.Account(),
			AutoApprove:    cfg.AutoApprove,
			StaleThreshold: cfg.StaleThreshold(),
			ConfirmTimeout: cfg.ConfirmTimeout(),
			Gas:            cfg.GasPolicy(),
		}, pair, oracle, resolver, logger)
	}

	switch command {
	case "pair-info":
		pairCfg, err := reader.PairConfig(ctx)
		if err != nil {
			return err
		}
		state, err := reader.PairState(ctx)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"config": pairCfg, "state": state})

	case "position":
		user := client.Account()
		if len(args) > 0 {
			if !common.IsHexAddress(args[0]) {
				return fmt.Errorf("invalid address %q", args[0])
			}
			user = common.HexToAddress(args[0])
		}
		if (user == common.Address{}) {
			return fmt.Errorf("provide an address or set PAIRLEND_PRIVATE_KEY")
		}
		summary, err := reader.Summary(ctx, user)
		if err != nil {
			return err
		}
		return printJSON(summary)

	case "oracle":
		snapshot, err := reader.OracleSnapshot(ctx)
		if err != nil {
			return err
		}
		return printJSON(snapshot)

	case "pairs":
		directory, err := newDirectory(client, cfg, logger)
		if err != nil {
			return err
		}
		pairs, err := directory.Pairs(ctx)
		if err != nil {
			return err
		}
		return printJSON(pairs)

	case "lookup":
		if len(args) < 1 {
			return fmt.Errorf("usage: lookup <name>")
		}
		directory, err := newDirectory(client, cfg, logger)
		if err != nil {
			return err
		}
		address, err := directory.Lookup(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Println(address.Hex())
		return nil

	case "supply":
		amount, err := parseAmount(args, 0, "amount")
		if err != nil {
			return err
		}
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		return report(orch.Supply(ctx, amount))

	case "borrow":
		amount, err := parseAmount(args, 0, "amount")
		if err != nil {
			return err
		}
		var collateral *big.Int
		if len(args) > 1 {
			if collateral, err = parseAmount(args, 1, "collateral"); err != nil {
				return err
			}
		}
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		return report(orch.Borrow(ctx, amount, collateral))

	case "repay":
		shares, err := parseAmount(args, 0, "shares")
		if err != nil {
			return err
		}
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		return report(orch.Repay(ctx, shares))

	case "withdraw":
		shares, err := parseAmount(args, 0, "shares")
		if err != nil {
			return err
		}
		receiver, err := parseOptionalAddress(args, 1)
		if err != nil {
			return err
		}
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		return report(orch.Withdraw(ctx, shares, receiver))

	case "approve":
		if len(args) < 2 {
			return fmt.Errorf("usage: approve <asset|collateral> <amount>")
		}
		amount, err := parseAmount(args, 1, "amount")
		if err != nil {
			return err
		}
		pairCfg, err := reader.PairConfig(ctx)
		if err != nil {
			return err
		}
		tokenAddr := pairCfg.Asset
		switch args[0] {
		case "asset":
		case "collateral":
			tokenAddr = pairCfg.Collateral
		default:
			return fmt.Errorf("unknown token %q, want asset or collateral", args[0])
		}
		token := resolver(tokenAddr)
		if token == nil {
			return fmt.Errorf("bind token %s", tokenAddr.Hex())
		}
		auth := lending.NewTokenAuthorizer(cfg.GasPolicy(), logger)
		approval, err := auth.EnsureAllowance(ctx, token, client.Account(), pair.Address(), amount, true)
		if err != nil {
			return err
		}
		return printJSON(approval)

	case "add-collateral":
		amount, err := parseAmount(args, 0, "amount")
		if err != nil {
			return err
		}
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		return report(orch.AddCollateral(ctx, amount))

	case "remove-collateral":
		amount, err := parseAmount(args, 0, "amount")
		if err != nil {
			return err
		}
		recipient, err := parseOptionalAddress(args, 1)
		if err != nil {
			return err
		}
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		return report(orch.RemoveCollateral(ctx, amount, recipient))

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func newDirectory(client *chain.Client, cfg *config.Config, logger *slog.Logger) (*lending.Directory, error) {
	if (cfg.Registry() == common.Address{}) {
		return nil, fmt.Errorf("RegistryAddress is not configured")
	}
	registry, err := client.Registry(cfg.Registry())
	if err != nil {
		return nil, fmt.Errorf("bind registry: %w", err)
	}
	return lending.NewDirectory(registry, cfg.GasPolicy(), logger), nil
}

func parseAmount(args []string, index int, name string) (*big.Int, error) {
	if len(args) <= index {
		return nil, fmt.Errorf("%s argument required", name)
	}
	amount, ok := new(big.Int).SetString(args[index], 10)
	if !ok {
		return nil, fmt.Errorf("invalid %s %q", name, args[index])
	}
	return amount, nil
}

func parseOptionalAddress(args []string, index int) (common.Address, error) {
	if len(args) <= index {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(args[index]) {
		return common.Address{}, fmt.Errorf("invalid address %q", args[index])
	}
	return common.HexToAddress(args[index]), nil
}

func report(result *lending.ActionResult, err error) error {
	if err != nil {
		return err
	}
	return printJSON(result)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printUsage() {
	fmt.Println(`Usage: pairlend-cli [--config <path>] <command> [args]

Read commands:
  pair-info                         Show pair parameters and accounting state
  position [address]                Show a position summary with risk metrics
  oracle                            Show the current oracle snapshot
  pairs                             List pairs deployed through the registry
  lookup <name>                     Resolve a pair address by name

Write commands (require PAIRLEND_PRIVATE_KEY):
  supply <amount>                   Deposit asset tokens into the pair
  borrow <amount> [collateral]      Borrow, optionally pledging collateral
  repay <shares>                    Repay borrow shares
  withdraw <shares> [receiver]      Redeem supplied assets
  add-collateral <amount>           Pledge collateral
  remove-collateral <amount> [to]   Withdraw collateral
  approve <asset|collateral> <amt>  Grant the pair an exact-amount allowance

Environment:
  PAIRLEND_CONFIG        Config file path (default ./pairlend.toml)
  PAIRLEND_RPC_URL       Override the configured RPC endpoint
  PAIRLEND_PRIVATE_KEY   Hex private key enabling write commands

Amounts are raw token units (wei-style, no decimal scaling).`)
}
