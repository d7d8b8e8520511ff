package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "xlstd",
		Short:        "xLST index protocol host",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("state-file", "./data/xlst_state.json", "entity state JSON path (file store)")
	root.PersistentFlags().String("pg-dsn", "", "Postgres DSN (overrides the file store)")
	root.PersistentFlags().String("events-out", "./data/events.jsonl", "event journal JSONL path")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the protocol",
		RunE:  runInit,
	}
	initCmd.Flags().String("admin", "", "administrator address (hex)")
	initCmd.Flags().Uint64("base-yield-rate", 0, "initial yield rate")
	initCmd.Flags().String("index-asset", "xLST", "index token asset id")
	initCmd.Flags().String("collateral-asset", "SOL", "collateral asset id")
	initCmd.Flags().String("pool-account", "", "protocol pool account address (hex)")
	root.AddCommand(initCmd)

	mintCmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint index tokens against deposited collateral",
		RunE:  runMint,
	}
	mintCmd.Flags().String("user", "", "user address (hex)")
	mintCmd.Flags().Uint64("amount", 0, "amount to mint")
	root.AddCommand(mintCmd)

	burnCmd := &cobra.Command{
		Use:   "burn",
		Short: "Burn index tokens",
		RunE:  runBurn,
	}
	burnCmd.Flags().String("user", "", "user address (hex)")
	burnCmd.Flags().Uint64("amount", 0, "amount to burn")
	root.AddCommand(burnCmd)

	updateYieldCmd := &cobra.Command{
		Use:   "update-yield",
		Short: "Update the protocol yield rate (administrator only)",
		RunE:  runUpdateYield,
	}
	updateYieldCmd.Flags().String("caller", "", "caller address (hex)")
	updateYieldCmd.Flags().Uint64("rate", 0, "new yield rate")
	root.AddCommand(updateYieldCmd)

	swapCmd := &cobra.Command{
		Use:   "swap",
		Short: "Swap index token for the reserve asset",
		RunE:  runSwap,
	}
	swapCmd.Flags().String("trader", "", "trader address (hex)")
	swapCmd.Flags().Uint64("amount-in", 0, "index token amount in")
	swapCmd.Flags().Uint64("min-amount-out", 0, "minimum acceptable reserve asset out")
	root.AddCommand(swapCmd)

	fundCmd := &cobra.Command{
		Use:   "fund",
		Short: "Credit an asset balance on the local ledger (dev only)",
		RunE:  runFund,
	}
	fundCmd.Flags().String("account", "", "account address (hex)")
	fundCmd.Flags().String("asset", "SOL", "asset id")
	fundCmd.Flags().Uint64("amount", 0, "amount to credit")
	root.AddCommand(fundCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print protocol configuration and pool reserves",
		RunE:  runStatus,
	}
	statusCmd.Flags().String("user", "", "optional user address (hex) to inspect")
	root.AddCommand(statusCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
