package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"xlstindex/internal/config"
	"xlstindex/internal/ledger"
	"xlstindex/internal/protocol"
	"xlstindex/internal/storage"
	"xlstindex/internal/storage/postgres"
)

// host wires the entity store, the local asset ledger, and the dispatcher
// for one CLI invocation.
type host struct {
	cfg        config.Config
	logger     *zap.Logger
	store      storage.EntityStore
	pg         *postgres.Store
	assets     *ledger.MemoryLedger
	dispatcher *protocol.Dispatcher
}

func newHost(ctx context.Context, cmd *cobra.Command) (*host, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	h := &host{cfg: cfg, logger: logger}

	if cfg.PGDSN != "" {
		pgStore, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pgStore.Migrate(ctx); err != nil {
			pgStore.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		h.pg = pgStore
		h.store = pgStore
	} else {
		if cfg.StateFile == "" {
			return nil, fmt.Errorf("state file path is required")
		}
		h.store = storage.NewFileStore(cfg.StateFile)
	}

	h.assets = ledger.NewMemoryLedger()
	snap, ok, err := h.store.LoadLedger(ctx)
	if err != nil {
		h.close()
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if ok {
		h.assets.Restore(snap)
	}

	sinks := storage.MultiEventSink{storage.NewZapEventSink(logger)}
	if cfg.EventsOut != "" {
		sinks = append(sinks, storage.NewJsonlEventSink(cfg.EventsOut))
	}

	h.dispatcher = protocol.NewDispatcher(h.assets, sinks, logger)
	return h, nil
}

// saveLedger persists the asset-ledger snapshot after a transition that
// moved external value.
func (h *host) saveLedger(ctx context.Context) error {
	if err := h.store.SaveLedger(ctx, h.assets.Snapshot()); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func (h *host) close() {
	if h.pg != nil {
		h.pg.Close()
	}
	if h.logger != nil {
		h.logger.Sync()
	}
}

func parseAddressFlag(cmd *cobra.Command, name string) (common.Address, error) {
	value, _ := cmd.Flags().GetString(name)
	value = strings.TrimSpace(value)
	if value == "" {
		return common.Address{}, fmt.Errorf("--%s is required", name)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid address for --%s: %s", name, value)
	}
	return common.HexToAddress(value), nil
}
