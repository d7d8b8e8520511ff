package ledger

import "github.com/ethereum/go-ethereum/common"

// Snapshot is the serializable form of a MemoryLedger, used by hosts that
// persist asset balances between invocations.
type Snapshot struct {
	Authorities map[string]common.Address            `json:"authorities"`
	Balances    map[string]map[common.Address]uint64 `json:"balances"`
}

// Snapshot copies the ledger's full state.
func (l *MemoryLedger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := Snapshot{
		Authorities: make(map[string]common.Address, len(l.authorities)),
		Balances:    make(map[string]map[common.Address]uint64, len(l.balances)),
	}
	for assetID, authority := range l.authorities {
		snap.Authorities[assetID] = authority
	}
	for assetID, accounts := range l.balances {
		copied := make(map[common.Address]uint64, len(accounts))
		for account, balance := range accounts {
			copied[account] = balance
		}
		snap.Balances[assetID] = copied
	}
	return snap
}

// Restore replaces the ledger's state with a snapshot.
func (l *MemoryLedger) Restore(snap Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.authorities = make(map[string]common.Address, len(snap.Authorities))
	l.balances = make(map[string]map[common.Address]uint64, len(snap.Balances))
	for assetID, authority := range snap.Authorities {
		l.authorities[assetID] = authority
	}
	for assetID, accounts := range snap.Balances {
		copied := make(map[common.Address]uint64, len(accounts))
		for account, balance := range accounts {
			copied[account] = balance
		}
		l.balances[assetID] = copied
	}
}
