package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"tmcrawl/internal/domain"
	"tmcrawl/internal/ports"
)

// JSONL streams one JSON object per record per line, in emission order.
type JSONL struct {
	mu  sync.Mutex
	enc *json.Encoder
}

var _ ports.RecordSink = (*JSONL)(nil)

// NewJSONL wraps the writer with a line-delimited JSON encoder.
func NewJSONL(w io.Writer) *JSONL {
	return &JSONL{enc: json.NewEncoder(w)}
}

// Emit writes the record and a trailing newline.
func (s *JSONL) Emit(record domain.ArticleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enc.Encode(record); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return nil
}

// Memory buffers emitted records for callers that return them in one response.
type Memory struct {
	mu      sync.Mutex
	records []domain.ArticleRecord
}

var _ ports.RecordSink = (*Memory)(nil)

// NewMemory returns an empty buffering sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Emit appends the record.
func (s *Memory) Emit(record domain.ArticleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Records returns the emitted records in emission order.
func (s *Memory) Records() []domain.ArticleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ArticleRecord, len(s.records))
	copy(out, s.records)
	return out
}
