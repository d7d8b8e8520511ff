package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"xlstindex/internal/model"
)

// JsonlEventSink appends event records to a JSONL file.
type JsonlEventSink struct {
	path string
	mu   sync.Mutex
}

func NewJsonlEventSink(path string) *JsonlEventSink {
	return &JsonlEventSink{path: path}
}

// PutEvent appends one event record as a JSON line.
func (s *JsonlEventSink) PutEvent(record model.EventRecord) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create events dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open events file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal event record: %w", err)
	}
	if _, err := writer.Write(line); err != nil {
		return fmt.Errorf("write event record: %w", err)
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush events: %w", err)
	}

	return nil
}
