package protocol

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"xlstindex/internal/ledger"
	"xlstindex/internal/model"
	"xlstindex/internal/storage"
)

// Dispatcher validates and applies protocol state transitions. Transitions
// that share entity records are serialized behind a single mutex so no
// transition observes another's partial reserve or balance update.
//
// Each transition checks every failing precondition, including checked
// arithmetic, before the first external asset-ledger call; the remaining
// internal bookkeeping cannot fail, so a transition never leaves partial
// state behind.
type Dispatcher struct {
	mu     sync.Mutex
	assets ledger.AssetLedger
	events storage.EventSink
	logger *zap.Logger
}

func NewDispatcher(assets ledger.AssetLedger, events storage.EventSink, logger *zap.Logger) *Dispatcher {
	if events == nil {
		events = storage.NopSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		assets: assets,
		events: events,
		logger: logger,
	}
}

// Initialize creates the protocol configuration and binds it to a freshly
// created index-token asset with the administrator as mint authority.
// Duplicate initialization is rejected by the entity store's create, not
// here; the asset ledger additionally rejects a duplicate asset id.
func (d *Dispatcher) Initialize(
	ctx context.Context,
	administrator common.Address,
	input model.ConfigInput,
	indexAssetID string,
	collateralAssetID string,
	poolAccount common.Address,
) (model.ProtocolConfig, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.assets.CreateAsset(ctx, indexAssetID, administrator); err != nil {
		return model.ProtocolConfig{}, fmt.Errorf("create index asset: %w", err)
	}

	cfg := model.ProtocolConfig{
		Administrator:     administrator,
		YieldRate:         input.BaseYieldRate,
		IndexAssetID:      indexAssetID,
		CollateralAssetID: collateralAssetID,
		PoolAccount:       poolAccount,
	}

	d.emit(model.EventProtocolInitialized, model.ProtocolInitializedData{
		Administrator: administrator.Hex(),
		BaseYieldRate: input.BaseYieldRate,
	})
	return cfg, nil
}

// Mint exchanges amount of collateral for amount of index token: collateral
// moves from the user to the protocol pool account, index tokens are minted
// to the user, and the user's tracked balance grows by amount.
func (d *Dispatcher) Mint(ctx context.Context, cfg model.ProtocolConfig, user *model.UserLedgerEntry, amount uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if amount == 0 {
		return ErrZeroAmount
	}
	newBalance, err := checkedAdd(user.Balance, amount)
	if err != nil {
		return err
	}

	if err := d.assets.Transfer(ctx, cfg.CollateralAssetID, user.Owner, cfg.PoolAccount, user.Owner, amount); err != nil {
		return fmt.Errorf("transfer collateral: %w", err)
	}

	if err := d.assets.MintTo(ctx, cfg.IndexAssetID, user.Owner, cfg.Administrator, amount); err != nil {
		// Unwind the collateral leg so the failed mint leaves no partial
		// effect on the external ledger.
		if undoErr := d.assets.Transfer(ctx, cfg.CollateralAssetID, cfg.PoolAccount, user.Owner, cfg.PoolAccount, amount); undoErr != nil {
			d.logger.Error("collateral unwind failed",
				zap.String("owner", user.Owner.Hex()),
				zap.Uint64("amount", amount),
				zap.Error(undoErr),
			)
		}
		return fmt.Errorf("mint index token: %w", err)
	}

	user.Balance = newBalance

	d.emit(model.EventTokensMinted, model.TokensMintedData{
		Owner:  user.Owner.Hex(),
		Amount: amount,
	})
	return nil
}

// Burn destroys amount of the user's index tokens on the external ledger
// and shrinks the tracked balance by amount. The check is against the
// protocol-tracked balance; the external ledger enforces its own.
func (d *Dispatcher) Burn(ctx context.Context, cfg model.ProtocolConfig, user *model.UserLedgerEntry, amount uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if amount == 0 {
		return ErrZeroAmount
	}
	if user.Balance < amount {
		return ErrInsufficientBalance
	}
	newBalance, err := checkedSub(user.Balance, amount)
	if err != nil {
		return err
	}

	if err := d.assets.Burn(ctx, cfg.IndexAssetID, user.Owner, user.Owner, amount); err != nil {
		return fmt.Errorf("burn index token: %w", err)
	}

	user.Balance = newBalance

	d.emit(model.EventTokensBurned, model.TokensBurnedData{
		Owner:  user.Owner.Hex(),
		Amount: amount,
	})
	return nil
}

// UpdateYield replaces the yield rate. Only the stored administrator may
// call it; the new rate is not range-checked.
func (d *Dispatcher) UpdateYield(ctx context.Context, cfg *model.ProtocolConfig, caller common.Address, newYieldRate uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if caller != cfg.Administrator {
		return ErrUnauthorized
	}

	cfg.YieldRate = newYieldRate

	d.emit(model.EventYieldRateUpdated, model.YieldRateUpdatedData{
		Administrator: caller.Hex(),
		YieldRate:     newYieldRate,
	})
	return nil
}

// Swap trades amountIn of index token into the pool for the reserve asset
// at the constant-product price, rejecting the trade if the output falls
// below minAmountOut. Reserves are pure bookkeeping here: no external
// asset-ledger movement takes place.
func (d *Dispatcher) Swap(ctx context.Context, pool *model.LiquidityPool, trader common.Address, amountIn, minAmountOut uint64) (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if amountIn == 0 || minAmountOut == 0 {
		return 0, ErrZeroAmount
	}

	amountOut, err := swapQuote(pool.SOLBalance, pool.XLSTBalance, amountIn)
	if err != nil {
		return 0, err
	}
	if amountOut < minAmountOut {
		return 0, ErrInsufficientOutputAmount
	}

	newXLST, err := checkedAdd(pool.XLSTBalance, amountIn)
	if err != nil {
		return 0, err
	}
	newSOL, err := checkedSub(pool.SOLBalance, amountOut)
	if err != nil {
		return 0, err
	}

	pool.XLSTBalance = newXLST
	pool.SOLBalance = newSOL

	d.emit(model.EventSwapExecuted, model.SwapExecutedData{
		Trader:    trader.Hex(),
		AmountIn:  amountIn,
		AmountOut: amountOut,
	})
	return amountOut, nil
}

// emit records an event on the sink. Emission is observability only, so a
// sink failure is logged and never fails the transition.
func (d *Dispatcher) emit(name string, payload interface{}) {
	record, err := model.NewEventRecord(name, payload)
	if err != nil {
		d.logger.Warn("build event record failed", zap.String("event", name), zap.Error(err))
		return
	}
	if err := d.events.PutEvent(record); err != nil {
		d.logger.Warn("event sink write failed", zap.String("event", name), zap.Error(err))
	}
}
