package model

import "github.com/ethereum/go-ethereum/common"

// UserLedgerEntry is the protocol-tracked index-token balance for one owner.
// The balance is independent of the external asset ledger's own bookkeeping.
type UserLedgerEntry struct {
	Owner   common.Address `json:"owner"`
	Balance uint64         `json:"balance"`
}
