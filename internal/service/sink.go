package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"promcheck/internal/model"
)

// EventSink receives events that passed the whitelist.
type EventSink interface {
	Dispatch(ctx context.Context, event *model.Event) error
}

// WriterSink writes each event as one JSON line. It is used in debug mode
// instead of the event backend.
type WriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriterSink creates a WriterSink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{enc: json.NewEncoder(w)}
}

// Dispatch encodes event as a single line.
func (s *WriterSink) Dispatch(_ context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enc.Encode(event); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
