package storage

import (
	"go.uber.org/zap"

	"xlstindex/internal/model"
)

// ZapEventSink mirrors event records into a structured logger.
type ZapEventSink struct {
	logger *zap.Logger
}

func NewZapEventSink(logger *zap.Logger) *ZapEventSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapEventSink{logger: logger}
}

func (s *ZapEventSink) PutEvent(record model.EventRecord) error {
	s.logger.Info("protocol event",
		zap.String("event", record.Event),
		zap.String("emitted_at", record.EmittedAt),
		zap.ByteString("payload", record.Payload),
	)
	return nil
}

// MultiEventSink fans an event out to several sinks, stopping on the first
// failure.
type MultiEventSink []EventSink

func (m MultiEventSink) PutEvent(record model.EventRecord) error {
	for _, sink := range m {
		if err := sink.PutEvent(record); err != nil {
			return err
		}
	}
	return nil
}
