package model

import "github.com/ethereum/go-ethereum/common"

// ProtocolConfig is the single protocol-wide configuration record.
type ProtocolConfig struct {
	Administrator     common.Address `json:"administrator"`
	YieldRate         uint64         `json:"yield_rate"`
	IndexAssetID      string         `json:"index_asset_id"`
	CollateralAssetID string         `json:"collateral_asset_id"`
	PoolAccount       common.Address `json:"pool_account"`
}

// ConfigInput carries the caller-supplied parameters for initialization.
// It is transient and never persisted itself.
type ConfigInput struct {
	BaseYieldRate uint64 `json:"base_yield_rate"`
}
