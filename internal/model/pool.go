package model

// LiquidityPool holds the reserve balances backing the embedded
// constant-product market between the index token and the reserve asset.
// StablecoinBalance is carried in the record but no transition touches it.
type LiquidityPool struct {
	XLSTBalance       uint64 `json:"xlst_balance"`
	SOLBalance        uint64 `json:"sol_balance"`
	StablecoinBalance uint64 `json:"stablecoin_balance"`
}
