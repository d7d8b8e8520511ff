package storage

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"xlstindex/internal/ledger"
	"xlstindex/internal/model"
)

var (
	// ErrNotFound indicates the requested entity record does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrAlreadyExists indicates a create hit an existing entity record.
	ErrAlreadyExists = errors.New("entity already exists")
)

// EntityStore durably holds the protocol's entity records. Creates reject
// duplicates with ErrAlreadyExists; loads of missing records return
// ErrNotFound.
type EntityStore interface {
	CreateProtocol(ctx context.Context, cfg model.ProtocolConfig) error
	LoadProtocol(ctx context.Context) (model.ProtocolConfig, error)
	SaveProtocol(ctx context.Context, cfg model.ProtocolConfig) error

	CreatePool(ctx context.Context, pool model.LiquidityPool) error
	LoadPool(ctx context.Context) (model.LiquidityPool, error)
	SavePool(ctx context.Context, pool model.LiquidityPool) error

	LoadUser(ctx context.Context, owner common.Address) (model.UserLedgerEntry, error)
	SaveUser(ctx context.Context, entry model.UserLedgerEntry) error

	LoadLedger(ctx context.Context) (ledger.Snapshot, bool, error)
	SaveLedger(ctx context.Context, snap ledger.Snapshot) error
}

// EventSink consumes the append-only event records emitted by transitions.
type EventSink interface {
	PutEvent(record model.EventRecord) error
}

// NopSink discards events.
type NopSink struct{}

func (NopSink) PutEvent(model.EventRecord) error { return nil }
