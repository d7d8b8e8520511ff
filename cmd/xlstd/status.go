package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"xlstindex/internal/storage"
)

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx, stop := hostContext()
	defer stop()

	h, err := newHost(ctx, cmd)
	if err != nil {
		return err
	}
	defer h.close()

	cfg, err := h.store.LoadProtocol(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Println("protocol is not initialized")
		return nil
	} else if err != nil {
		return fmt.Errorf("load protocol: %w", err)
	}

	fmt.Printf("administrator:       %s\n", cfg.Administrator.Hex())
	fmt.Printf("yield rate:          %d\n", cfg.YieldRate)
	fmt.Printf("index asset:         %s\n", cfg.IndexAssetID)
	fmt.Printf("collateral asset:    %s\n", cfg.CollateralAssetID)
	fmt.Printf("pool account:        %s\n", cfg.PoolAccount.Hex())

	pool, err := h.store.LoadPool(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("load pool: %w", err)
	}
	fmt.Printf("xlst reserve:        %d\n", pool.XLSTBalance)
	fmt.Printf("sol reserve:         %d\n", pool.SOLBalance)
	fmt.Printf("stablecoin reserve:  %d\n", pool.StablecoinBalance)

	userFlag, _ := cmd.Flags().GetString("user")
	userFlag = strings.TrimSpace(userFlag)
	if userFlag == "" {
		return nil
	}
	if !common.IsHexAddress(userFlag) {
		return fmt.Errorf("invalid address for --user: %s", userFlag)
	}
	owner := common.HexToAddress(userFlag)

	user, err := h.store.LoadUser(ctx, owner)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Printf("user %s:  no ledger entry\n", owner.Hex())
		return nil
	} else if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	fmt.Printf("user %s\n", user.Owner.Hex())
	fmt.Printf("  tracked balance:       %d\n", user.Balance)
	fmt.Printf("  index asset balance:   %d\n", h.assets.BalanceOf(cfg.IndexAssetID, owner))
	fmt.Printf("  collateral balance:    %d\n", h.assets.BalanceOf(cfg.CollateralAssetID, owner))
	return nil
}
