package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"xlstindex/internal/ledger"
	"xlstindex/internal/model"
	"xlstindex/internal/storage"
)

// Store provides Postgres persistence for protocol entity records.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the entity tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS protocol_config (
			id smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			administrator text NOT NULL,
			yield_rate numeric(20, 0) NOT NULL,
			index_asset_id text NOT NULL,
			collateral_asset_id text NOT NULL,
			pool_account text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS liquidity_pool (
			id smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			xlst_balance numeric(20, 0) NOT NULL,
			sol_balance numeric(20, 0) NOT NULL,
			stablecoin_balance numeric(20, 0) NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS user_ledger (
			owner text PRIMARY KEY,
			balance numeric(20, 0) NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS asset_definitions (
			asset_id text PRIMARY KEY,
			mint_authority text NOT NULL
		);
		CREATE TABLE IF NOT EXISTS asset_accounts (
			asset_id text NOT NULL,
			account text NOT NULL,
			balance numeric(20, 0) NOT NULL,
			PRIMARY KEY (asset_id, account)
		);
	`)
	return err
}

func (s *Store) CreateProtocol(ctx context.Context, cfg model.ProtocolConfig) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO protocol_config (
			id, administrator, yield_rate, index_asset_id, collateral_asset_id, pool_account, created_at, updated_at
		) VALUES (1, $1, $2, $3, $4, $5, now(), now())
	`,
		cfg.Administrator.Hex(),
		cfg.YieldRate,
		cfg.IndexAssetID,
		cfg.CollateralAssetID,
		cfg.PoolAccount.Hex(),
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	return err
}

func (s *Store) LoadProtocol(ctx context.Context) (model.ProtocolConfig, error) {
	var (
		cfg      model.ProtocolConfig
		admin    string
		poolAcct string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT administrator, yield_rate, index_asset_id, collateral_asset_id, pool_account
		FROM protocol_config WHERE id = 1
	`).Scan(&admin, &cfg.YieldRate, &cfg.IndexAssetID, &cfg.CollateralAssetID, &poolAcct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ProtocolConfig{}, storage.ErrNotFound
		}
		return model.ProtocolConfig{}, err
	}
	cfg.Administrator = common.HexToAddress(admin)
	cfg.PoolAccount = common.HexToAddress(poolAcct)
	return cfg, nil
}

func (s *Store) SaveProtocol(ctx context.Context, cfg model.ProtocolConfig) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO protocol_config (
			id, administrator, yield_rate, index_asset_id, collateral_asset_id, pool_account, created_at, updated_at
		) VALUES (1, $1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			administrator = EXCLUDED.administrator,
			yield_rate = EXCLUDED.yield_rate,
			index_asset_id = EXCLUDED.index_asset_id,
			collateral_asset_id = EXCLUDED.collateral_asset_id,
			pool_account = EXCLUDED.pool_account,
			updated_at = now()
	`,
		cfg.Administrator.Hex(),
		cfg.YieldRate,
		cfg.IndexAssetID,
		cfg.CollateralAssetID,
		cfg.PoolAccount.Hex(),
	)
	return err
}

func (s *Store) CreatePool(ctx context.Context, pool model.LiquidityPool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO liquidity_pool (id, xlst_balance, sol_balance, stablecoin_balance, updated_at)
		VALUES (1, $1, $2, $3, now())
	`, pool.XLSTBalance, pool.SOLBalance, pool.StablecoinBalance)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	return err
}

func (s *Store) LoadPool(ctx context.Context) (model.LiquidityPool, error) {
	var pool model.LiquidityPool
	err := s.pool.QueryRow(ctx, `
		SELECT xlst_balance, sol_balance, stablecoin_balance FROM liquidity_pool WHERE id = 1
	`).Scan(&pool.XLSTBalance, &pool.SOLBalance, &pool.StablecoinBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.LiquidityPool{}, storage.ErrNotFound
		}
		return model.LiquidityPool{}, err
	}
	return pool, nil
}

func (s *Store) SavePool(ctx context.Context, pool model.LiquidityPool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO liquidity_pool (id, xlst_balance, sol_balance, stablecoin_balance, updated_at)
		VALUES (1, $1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET
			xlst_balance = EXCLUDED.xlst_balance,
			sol_balance = EXCLUDED.sol_balance,
			stablecoin_balance = EXCLUDED.stablecoin_balance,
			updated_at = now()
	`, pool.XLSTBalance, pool.SOLBalance, pool.StablecoinBalance)
	return err
}

func (s *Store) LoadUser(ctx context.Context, owner common.Address) (model.UserLedgerEntry, error) {
	entry := model.UserLedgerEntry{Owner: owner}
	err := s.pool.QueryRow(ctx, `
		SELECT balance FROM user_ledger WHERE owner = $1
	`, owner.Hex()).Scan(&entry.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserLedgerEntry{}, storage.ErrNotFound
		}
		return model.UserLedgerEntry{}, err
	}
	return entry, nil
}

func (s *Store) SaveUser(ctx context.Context, entry model.UserLedgerEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_ledger (owner, balance, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (owner) DO UPDATE SET
			balance = EXCLUDED.balance,
			updated_at = now()
	`, entry.Owner.Hex(), entry.Balance)
	return err
}

// LoadLedger reconstructs an asset-ledger snapshot from the asset tables.
func (s *Store) LoadLedger(ctx context.Context) (ledger.Snapshot, bool, error) {
	snap := ledger.Snapshot{
		Authorities: make(map[string]common.Address),
		Balances:    make(map[string]map[common.Address]uint64),
	}

	rows, err := s.pool.Query(ctx, `SELECT asset_id, mint_authority FROM asset_definitions`)
	if err != nil {
		return ledger.Snapshot{}, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var assetID, authority string
		if err := rows.Scan(&assetID, &authority); err != nil {
			return ledger.Snapshot{}, false, err
		}
		snap.Authorities[assetID] = common.HexToAddress(authority)
		snap.Balances[assetID] = make(map[common.Address]uint64)
	}
	if err := rows.Err(); err != nil {
		return ledger.Snapshot{}, false, err
	}
	if len(snap.Authorities) == 0 {
		return ledger.Snapshot{}, false, nil
	}

	accountRows, err := s.pool.Query(ctx, `SELECT asset_id, account, balance FROM asset_accounts`)
	if err != nil {
		return ledger.Snapshot{}, false, err
	}
	defer accountRows.Close()
	for accountRows.Next() {
		var (
			assetID, account string
			balance          uint64
		)
		if err := accountRows.Scan(&assetID, &account, &balance); err != nil {
			return ledger.Snapshot{}, false, err
		}
		if _, ok := snap.Balances[assetID]; !ok {
			snap.Balances[assetID] = make(map[common.Address]uint64)
		}
		snap.Balances[assetID][common.HexToAddress(account)] = balance
	}
	if err := accountRows.Err(); err != nil {
		return ledger.Snapshot{}, false, err
	}

	return snap, true, nil
}

// SaveLedger replaces the asset tables with the snapshot contents.
func (s *Store) SaveLedger(ctx context.Context, snap ledger.Snapshot) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM asset_accounts`)
	batch.Queue(`DELETE FROM asset_definitions`)
	for assetID, authority := range snap.Authorities {
		batch.Queue(`
			INSERT INTO asset_definitions (asset_id, mint_authority) VALUES ($1, $2)
		`, assetID, authority.Hex())
	}
	for assetID, accounts := range snap.Balances {
		for account, balance := range accounts {
			batch.Queue(`
				INSERT INTO asset_accounts (asset_id, account, balance) VALUES ($1, $2, $3)
			`, assetID, account.Hex(), balance)
		}
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
