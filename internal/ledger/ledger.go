package ledger

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// Asset ledger failure modes surfaced to callers.
var (
	ErrUnknownAsset      = errors.New("unknown asset")
	ErrAssetExists       = errors.New("asset already exists")
	ErrBadAuthority      = errors.New("authority not permitted for this operation")
	ErrInsufficientFunds = errors.New("insufficient asset balance")
	ErrBalanceOverflow   = errors.New("asset balance overflow")
)

// AssetLedger is the external token primitive the protocol core delegates
// value movement to. Every call is atomic: it either applies fully or
// returns an error with no balance changed.
type AssetLedger interface {
	// CreateAsset registers a new asset id with mintAuthority as the only
	// identity allowed to mint it.
	CreateAsset(ctx context.Context, assetID string, mintAuthority common.Address) error

	// Transfer moves amount of assetID from one account to another.
	// The authority must be the owning account.
	Transfer(ctx context.Context, assetID string, from, to, authority common.Address, amount uint64) error

	// MintTo issues amount of assetID to an account. The authority must be
	// the asset's mint authority.
	MintTo(ctx context.Context, assetID string, to, authority common.Address, amount uint64) error

	// Burn destroys amount of assetID held by an account. The authority
	// must be the owning account.
	Burn(ctx context.Context, assetID string, from, authority common.Address, amount uint64) error
}
