package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"xlstindex/internal/ledger"
	"xlstindex/internal/model"
)

// FileStore keeps all entity records in a single local JSON document,
// written atomically via tmp file and rename.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileState struct {
	Protocol *model.ProtocolConfig            `json:"protocol,omitempty"`
	Pool     *model.LiquidityPool             `json:"pool,omitempty"`
	Users    map[string]model.UserLedgerEntry `json:"users"`
	Ledger   *ledger.Snapshot                 `json:"ledger,omitempty"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() (fileState, error) {
	state := fileState{Users: make(map[string]model.UserLedgerEntry)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, fmt.Errorf("read state: %w", err)
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("parse state: %w", err)
	}
	if state.Users == nil {
		state.Users = make(map[string]model.UserLedgerEntry)
	}
	return state, nil
}

func (s *FileStore) save(state fileState) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state tmp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}

func (s *FileStore) CreateProtocol(_ context.Context, cfg model.ProtocolConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	if state.Protocol != nil {
		return ErrAlreadyExists
	}
	state.Protocol = &cfg
	return s.save(state)
}

func (s *FileStore) LoadProtocol(_ context.Context) (model.ProtocolConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return model.ProtocolConfig{}, err
	}
	if state.Protocol == nil {
		return model.ProtocolConfig{}, ErrNotFound
	}
	return *state.Protocol, nil
}

func (s *FileStore) SaveProtocol(_ context.Context, cfg model.ProtocolConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	state.Protocol = &cfg
	return s.save(state)
}

func (s *FileStore) CreatePool(_ context.Context, pool model.LiquidityPool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	if state.Pool != nil {
		return ErrAlreadyExists
	}
	state.Pool = &pool
	return s.save(state)
}

func (s *FileStore) LoadPool(_ context.Context) (model.LiquidityPool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return model.LiquidityPool{}, err
	}
	if state.Pool == nil {
		return model.LiquidityPool{}, ErrNotFound
	}
	return *state.Pool, nil
}

func (s *FileStore) SavePool(_ context.Context, pool model.LiquidityPool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	state.Pool = &pool
	return s.save(state)
}

func (s *FileStore) LoadUser(_ context.Context, owner common.Address) (model.UserLedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return model.UserLedgerEntry{}, err
	}
	entry, ok := state.Users[owner.Hex()]
	if !ok {
		return model.UserLedgerEntry{}, ErrNotFound
	}
	return entry, nil
}

func (s *FileStore) SaveUser(_ context.Context, entry model.UserLedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	state.Users[entry.Owner.Hex()] = entry
	return s.save(state)
}

func (s *FileStore) LoadLedger(_ context.Context) (ledger.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return ledger.Snapshot{}, false, err
	}
	if state.Ledger == nil {
		return ledger.Snapshot{}, false, nil
	}
	return *state.Ledger, true, nil
}

func (s *FileStore) SaveLedger(_ context.Context, snap ledger.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	state.Ledger = &snap
	return s.save(state)
}
