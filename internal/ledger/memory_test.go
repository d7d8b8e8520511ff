package ledger

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var (
	mintAuthority = common.HexToAddress("0x0000000000000000000000000000000000000001")
	alice         = common.HexToAddress("0x0000000000000000000000000000000000000002")
	bob           = common.HexToAddress("0x0000000000000000000000000000000000000003")
)

func newFundedLedger(t *testing.T) *MemoryLedger {
	t.Helper()

	l := NewMemoryLedger()
	if err := l.CreateAsset(context.Background(), "GOLD", mintAuthority); err != nil {
		t.Fatalf("create asset: %v", err)
	}
	if err := l.MintTo(context.Background(), "GOLD", alice, mintAuthority, 100); err != nil {
		t.Fatalf("mint: %v", err)
	}
	return l
}

func TestCreateAssetDuplicate(t *testing.T) {
	l := newFundedLedger(t)
	if err := l.CreateAsset(context.Background(), "GOLD", mintAuthority); !errors.Is(err, ErrAssetExists) {
		t.Fatalf("expected ErrAssetExists, got %v", err)
	}
}

func TestTransfer(t *testing.T) {
	l := newFundedLedger(t)

	if err := l.Transfer(context.Background(), "GOLD", alice, bob, alice, 40); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := l.BalanceOf("GOLD", alice); got != 60 {
		t.Fatalf("alice balance mismatch: %d", got)
	}
	if got := l.BalanceOf("GOLD", bob); got != 40 {
		t.Fatalf("bob balance mismatch: %d", got)
	}
}

func TestTransferChecks(t *testing.T) {
	l := newFundedLedger(t)

	cases := []struct {
		name      string
		assetID   string
		from, to  common.Address
		authority common.Address
		amount    uint64
		wantErr   error
	}{
		{"unknown asset", "SILVER", alice, bob, alice, 1, ErrUnknownAsset},
		{"wrong authority", "GOLD", alice, bob, bob, 1, ErrBadAuthority},
		{"insufficient funds", "GOLD", alice, bob, alice, 101, ErrInsufficientFunds},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := l.Transfer(context.Background(), tc.assetID, tc.from, tc.to, tc.authority, tc.amount); !errors.Is(err, tc.wantErr) {
				t.Fatalf("error mismatch: %v, want %v", err, tc.wantErr)
			}
		})
	}

	if got := l.BalanceOf("GOLD", alice); got != 100 {
		t.Fatalf("balance changed by rejected transfers: %d", got)
	}
}

func TestTransferReceiverOverflow(t *testing.T) {
	l := newFundedLedger(t)
	if err := l.MintTo(context.Background(), "GOLD", bob, mintAuthority, math.MaxUint64-10); err != nil {
		t.Fatalf("mint: %v", err)
	}

	if err := l.Transfer(context.Background(), "GOLD", alice, bob, alice, 50); !errors.Is(err, ErrBalanceOverflow) {
		t.Fatalf("expected ErrBalanceOverflow, got %v", err)
	}
	if got := l.BalanceOf("GOLD", alice); got != 100 {
		t.Fatalf("sender debited by rejected transfer: %d", got)
	}
}

func TestMintToRequiresMintAuthority(t *testing.T) {
	l := newFundedLedger(t)
	if err := l.MintTo(context.Background(), "GOLD", bob, alice, 5); !errors.Is(err, ErrBadAuthority) {
		t.Fatalf("expected ErrBadAuthority, got %v", err)
	}
}

func TestBurn(t *testing.T) {
	l := newFundedLedger(t)

	if err := l.Burn(context.Background(), "GOLD", alice, alice, 25); err != nil {
		t.Fatalf("burn: %v", err)
	}
	if got := l.BalanceOf("GOLD", alice); got != 75 {
		t.Fatalf("balance mismatch after burn: %d", got)
	}

	if err := l.Burn(context.Background(), "GOLD", alice, alice, 76); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if err := l.Burn(context.Background(), "GOLD", alice, bob, 1); !errors.Is(err, ErrBadAuthority) {
		t.Fatalf("expected ErrBadAuthority, got %v", err)
	}
}

func TestCredit(t *testing.T) {
	l := NewMemoryLedger()

	if err := l.Credit("SOL", alice, 500); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := l.Credit("SOL", alice, 250); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if got := l.BalanceOf("SOL", alice); got != 750 {
		t.Fatalf("balance mismatch: %d", got)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	l := newFundedLedger(t)
	if err := l.Transfer(context.Background(), "GOLD", alice, bob, alice, 30); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	snap := l.Snapshot()

	restored := NewMemoryLedger()
	restored.Restore(snap)

	if !reflect.DeepEqual(restored.Snapshot(), snap) {
		t.Fatalf("snapshot round trip mismatch")
	}
	if got := restored.BalanceOf("GOLD", bob); got != 30 {
		t.Fatalf("restored balance mismatch: %d", got)
	}

	// The snapshot is a copy; mutating the source must not leak into it.
	if err := l.Burn(context.Background(), "GOLD", alice, alice, 70); err != nil {
		t.Fatalf("burn: %v", err)
	}
	if got := restored.BalanceOf("GOLD", alice); got != 70 {
		t.Fatalf("snapshot aliased live state: %d", got)
	}
}
