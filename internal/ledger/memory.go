package ledger

import (
	"context"
	"math"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// MemoryLedger is an in-process AssetLedger used by the local host and
// tests. Balances are keyed by (asset id, account).
type MemoryLedger struct {
	mu          sync.Mutex
	authorities map[string]common.Address
	balances    map[string]map[common.Address]uint64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		authorities: make(map[string]common.Address),
		balances:    make(map[string]map[common.Address]uint64),
	}
}

func (l *MemoryLedger) CreateAsset(_ context.Context, assetID string, mintAuthority common.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.authorities[assetID]; ok {
		return ErrAssetExists
	}
	l.authorities[assetID] = mintAuthority
	l.balances[assetID] = make(map[common.Address]uint64)
	return nil
}

func (l *MemoryLedger) Transfer(_ context.Context, assetID string, from, to, authority common.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	accounts, ok := l.balances[assetID]
	if !ok {
		return ErrUnknownAsset
	}
	if authority != from {
		return ErrBadAuthority
	}
	if accounts[from] < amount {
		return ErrInsufficientFunds
	}
	if accounts[to] > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}

	accounts[from] -= amount
	accounts[to] += amount
	return nil
}

func (l *MemoryLedger) MintTo(_ context.Context, assetID string, to, authority common.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	accounts, ok := l.balances[assetID]
	if !ok {
		return ErrUnknownAsset
	}
	if authority != l.authorities[assetID] {
		return ErrBadAuthority
	}
	if accounts[to] > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}

	accounts[to] += amount
	return nil
}

func (l *MemoryLedger) Burn(_ context.Context, assetID string, from, authority common.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	accounts, ok := l.balances[assetID]
	if !ok {
		return ErrUnknownAsset
	}
	if authority != from {
		return ErrBadAuthority
	}
	if accounts[from] < amount {
		return ErrInsufficientFunds
	}

	accounts[from] -= amount
	return nil
}

// Credit adds amount of assetID to an account, registering the asset with
// the account as mint authority when it is not known yet. It backs the
// local host's dev faucet and is not part of the AssetLedger contract.
func (l *MemoryLedger) Credit(assetID string, account common.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.authorities[assetID]; !ok {
		l.authorities[assetID] = account
		l.balances[assetID] = make(map[common.Address]uint64)
	}
	accounts := l.balances[assetID]
	if accounts[account] > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	accounts[account] += amount
	return nil
}

// BalanceOf reports the tracked balance for an account. Used by the local
// host's status output and by tests.
func (l *MemoryLedger) BalanceOf(assetID string, account common.Address) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	accounts, ok := l.balances[assetID]
	if !ok {
		return 0
	}
	return accounts[account]
}
