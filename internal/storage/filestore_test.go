package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"xlstindex/internal/ledger"
	"xlstindex/internal/model"
)

var (
	adminAddr = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	ownerAddr = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "state", "xlst_state.json"))
}

func TestFileStoreProtocolLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.LoadProtocol(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	cfg := model.ProtocolConfig{
		Administrator:     adminAddr,
		YieldRate:         500,
		IndexAssetID:      "xLST",
		CollateralAssetID: "SOL",
	}
	if err := store.CreateProtocol(ctx, cfg); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.CreateProtocol(ctx, cfg); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	loaded, err := store.LoadProtocol(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != cfg {
		t.Fatalf("loaded config mismatch: %+v != %+v", loaded, cfg)
	}

	cfg.YieldRate = 750
	if err := store.SaveProtocol(ctx, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err = store.LoadProtocol(ctx)
	if err != nil {
		t.Fatalf("load after save: %v", err)
	}
	if loaded.YieldRate != 750 {
		t.Fatalf("yield rate not persisted: %d", loaded.YieldRate)
	}
}

func TestFileStorePool(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.LoadPool(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	pool := model.LiquidityPool{XLSTBalance: 1000, SOLBalance: 2000, StablecoinBalance: 3000}
	if err := store.CreatePool(ctx, pool); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.CreatePool(ctx, pool); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	pool.XLSTBalance = 1100
	pool.SOLBalance = 1900
	if err := store.SavePool(ctx, pool); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.LoadPool(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != pool {
		t.Fatalf("loaded pool mismatch: %+v != %+v", loaded, pool)
	}
}

func TestFileStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.LoadUser(ctx, ownerAddr); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	entry := model.UserLedgerEntry{Owner: ownerAddr, Balance: 42}
	if err := store.SaveUser(ctx, entry); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.LoadUser(ctx, ownerAddr)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != entry {
		t.Fatalf("loaded entry mismatch: %+v != %+v", loaded, entry)
	}

	// A second owner is independent of the first.
	if _, err := store.LoadUser(ctx, adminAddr); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}
}

func TestFileStoreLedgerSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, ok, err := store.LoadLedger(ctx); err != nil || ok {
		t.Fatalf("expected empty ledger state, got ok=%v err=%v", ok, err)
	}

	source := ledger.NewMemoryLedger()
	if err := source.Credit("SOL", ownerAddr, 1_000_000); err != nil {
		t.Fatalf("credit: %v", err)
	}

	if err := store.SaveLedger(ctx, source.Snapshot()); err != nil {
		t.Fatalf("save ledger: %v", err)
	}

	snap, ok, err := store.LoadLedger(ctx)
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if !ok {
		t.Fatalf("expected ledger snapshot present")
	}

	restored := ledger.NewMemoryLedger()
	restored.Restore(snap)
	if got := restored.BalanceOf("SOL", ownerAddr); got != 1_000_000 {
		t.Fatalf("restored balance mismatch: %d", got)
	}
}
