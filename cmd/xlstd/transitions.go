package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"xlstindex/internal/model"
	"xlstindex/internal/storage"
)

func hostContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runInit(cmd *cobra.Command, _ []string) error {
	ctx, stop := hostContext()
	defer stop()

	h, err := newHost(ctx, cmd)
	if err != nil {
		return err
	}
	defer h.close()

	admin, err := parseAddressFlag(cmd, "admin")
	if err != nil {
		return err
	}
	poolAccount, err := parseAddressFlag(cmd, "pool-account")
	if err != nil {
		return err
	}
	baseYieldRate, _ := cmd.Flags().GetUint64("base-yield-rate")
	indexAsset, _ := cmd.Flags().GetString("index-asset")
	collateralAsset, _ := cmd.Flags().GetString("collateral-asset")

	if _, err := h.store.LoadProtocol(ctx); err == nil {
		return fmt.Errorf("protocol is already initialized")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	cfg, err := h.dispatcher.Initialize(ctx, admin, model.ConfigInput{BaseYieldRate: baseYieldRate}, indexAsset, collateralAsset, poolAccount)
	if err != nil {
		return err
	}

	if err := h.store.CreateProtocol(ctx, cfg); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return fmt.Errorf("protocol is already initialized")
		}
		return err
	}
	if err := h.store.CreatePool(ctx, model.LiquidityPool{}); err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
		return err
	}
	if err := h.saveLedger(ctx); err != nil {
		return err
	}

	h.logger.Info("protocol initialized",
		zap.String("administrator", admin.Hex()),
		zap.Uint64("base_yield_rate", baseYieldRate),
		zap.String("index_asset", indexAsset),
	)
	return nil
}

func runMint(cmd *cobra.Command, _ []string) error {
	ctx, stop := hostContext()
	defer stop()

	h, err := newHost(ctx, cmd)
	if err != nil {
		return err
	}
	defer h.close()

	owner, err := parseAddressFlag(cmd, "user")
	if err != nil {
		return err
	}
	amount, _ := cmd.Flags().GetUint64("amount")

	cfg, err := h.store.LoadProtocol(ctx)
	if err != nil {
		return fmt.Errorf("load protocol: %w", err)
	}

	user, err := h.store.LoadUser(ctx, owner)
	if errors.Is(err, storage.ErrNotFound) {
		user = model.UserLedgerEntry{Owner: owner}
	} else if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	if err := h.dispatcher.Mint(ctx, cfg, &user, amount); err != nil {
		return err
	}

	if err := h.store.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if err := h.saveLedger(ctx); err != nil {
		return err
	}

	h.logger.Info("minted",
		zap.String("owner", owner.Hex()),
		zap.Uint64("amount", amount),
		zap.Uint64("balance", user.Balance),
	)
	return nil
}

func runBurn(cmd *cobra.Command, _ []string) error {
	ctx, stop := hostContext()
	defer stop()

	h, err := newHost(ctx, cmd)
	if err != nil {
		return err
	}
	defer h.close()

	owner, err := parseAddressFlag(cmd, "user")
	if err != nil {
		return err
	}
	amount, _ := cmd.Flags().GetUint64("amount")

	cfg, err := h.store.LoadProtocol(ctx)
	if err != nil {
		return fmt.Errorf("load protocol: %w", err)
	}
	user, err := h.store.LoadUser(ctx, owner)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	if err := h.dispatcher.Burn(ctx, cfg, &user, amount); err != nil {
		return err
	}

	if err := h.store.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if err := h.saveLedger(ctx); err != nil {
		return err
	}

	h.logger.Info("burned",
		zap.String("owner", owner.Hex()),
		zap.Uint64("amount", amount),
		zap.Uint64("balance", user.Balance),
	)
	return nil
}

func runUpdateYield(cmd *cobra.Command, _ []string) error {
	ctx, stop := hostContext()
	defer stop()

	h, err := newHost(ctx, cmd)
	if err != nil {
		return err
	}
	defer h.close()

	caller, err := parseAddressFlag(cmd, "caller")
	if err != nil {
		return err
	}
	rate, _ := cmd.Flags().GetUint64("rate")

	cfg, err := h.store.LoadProtocol(ctx)
	if err != nil {
		return fmt.Errorf("load protocol: %w", err)
	}

	if err := h.dispatcher.UpdateYield(ctx, &cfg, caller, rate); err != nil {
		return err
	}

	if err := h.store.SaveProtocol(ctx, cfg); err != nil {
		return fmt.Errorf("save protocol: %w", err)
	}

	h.logger.Info("yield rate updated", zap.Uint64("rate", rate))
	return nil
}

func runSwap(cmd *cobra.Command, _ []string) error {
	ctx, stop := hostContext()
	defer stop()

	h, err := newHost(ctx, cmd)
	if err != nil {
		return err
	}
	defer h.close()

	trader, err := parseAddressFlag(cmd, "trader")
	if err != nil {
		return err
	}
	amountIn, _ := cmd.Flags().GetUint64("amount-in")
	minAmountOut, _ := cmd.Flags().GetUint64("min-amount-out")

	pool, err := h.store.LoadPool(ctx)
	if err != nil {
		return fmt.Errorf("load pool: %w", err)
	}

	amountOut, err := h.dispatcher.Swap(ctx, &pool, trader, amountIn, minAmountOut)
	if err != nil {
		return err
	}

	if err := h.store.SavePool(ctx, pool); err != nil {
		return fmt.Errorf("save pool: %w", err)
	}

	h.logger.Info("swapped",
		zap.String("trader", trader.Hex()),
		zap.Uint64("amount_in", amountIn),
		zap.Uint64("amount_out", amountOut),
		zap.Uint64("xlst_balance", pool.XLSTBalance),
		zap.Uint64("sol_balance", pool.SOLBalance),
	)
	return nil
}

func runFund(cmd *cobra.Command, _ []string) error {
	ctx, stop := hostContext()
	defer stop()

	h, err := newHost(ctx, cmd)
	if err != nil {
		return err
	}
	defer h.close()

	account, err := parseAddressFlag(cmd, "account")
	if err != nil {
		return err
	}
	asset, _ := cmd.Flags().GetString("asset")
	amount, _ := cmd.Flags().GetUint64("amount")

	if err := h.assets.Credit(asset, account, amount); err != nil {
		return err
	}
	if err := h.saveLedger(ctx); err != nil {
		return err
	}

	h.logger.Info("funded",
		zap.String("account", account.Hex()),
		zap.String("asset", asset),
		zap.Uint64("amount", amount),
	)
	return nil
}
