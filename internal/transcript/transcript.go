// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript writes run lifecycle events as an append-only JSONL
// stream, one record per line.
package transcript

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/noldarim/showcase/internal/models"
	"github.com/noldarim/showcase/internal/protocol"
)

// Record is a single line of the transcript.
type Record struct {
	Type           protocol.PipelineEventType `json:"type"`
	RunID          string                     `json:"run_id"`
	Seq            uint64                     `json:"seq"`
	IdempotencyKey string                     `json:"idempotency_key"`
	StageID        string                     `json:"stage_id,omitempty"`
	StageIndex     int                        `json:"stage_index"`
	Status         models.RunStatus           `json:"status"`
	Progress       float64                    `json:"progress"`
	Entry          *models.LogEntry           `json:"entry,omitempty"`
	Reason         string                     `json:"reason,omitempty"`
	Snapshot       *models.Snapshot           `json:"snapshot,omitempty"`
}

// NewRecord flattens an event. The full snapshot is kept only when
// withSnapshot is set.
func NewRecord(ev protocol.PipelineEvent, withSnapshot bool) Record {
	rec := Record{
		Type:           ev.Type,
		RunID:          ev.RunID,
		Seq:            ev.Seq,
		IdempotencyKey: ev.IdempotencyKey,
		StageID:        ev.StageID,
		StageIndex:     ev.StageIndex,
		Status:         ev.Snapshot.Status,
		Progress:       ev.Snapshot.Progress(),
		Entry:          ev.Entry,
		Reason:         ev.Reason,
	}
	if withSnapshot {
		snap := ev.Snapshot.Clone()
		rec.Snapshot = &snap
	}
	return rec
}

// Writer appends records to a JSONL stream.
type Writer struct {
	mu           sync.Mutex
	enc          *json.Encoder
	closer       io.Closer
	withSnapshot bool
	err          error
	count        int
}

// Option configures a Writer.
type Option func(*Writer)

// WithSnapshots includes the full run snapshot in every record.
func WithSnapshots() Option {
	return func(w *Writer) { w.withSnapshot = true }
}

// NewWriter creates a transcript writer on w. The caller keeps ownership of w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	tw := &Writer{enc: json.NewEncoder(w)}
	tw.enc.SetEscapeHTML(false)
	for _, opt := range opts {
		opt(tw)
	}
	return tw
}

// NewFileWriter creates a transcript writer that appends to path.
func NewFileWriter(path string, opts ...Option) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open transcript file: %w", err)
	}
	tw := NewWriter(f, opts...)
	tw.closer = f
	return tw, nil
}

// Write appends one event. After the first failure every call returns the
// same error.
func (tw *Writer) Write(ev protocol.PipelineEvent) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.err != nil {
		return tw.err
	}
	if err := tw.enc.Encode(NewRecord(ev, tw.withSnapshot)); err != nil {
		tw.err = fmt.Errorf("write transcript record %d: %w", ev.Seq, err)
		return tw.err
	}
	tw.count++
	return nil
}

// Listener adapts the writer to a runner listener. Write errors are kept and
// reported by Err.
func (tw *Writer) Listener() protocol.Listener {
	return func(ev protocol.PipelineEvent) {
		_ = tw.Write(ev)
	}
}

// Err returns the first write error, if any.
func (tw *Writer) Err() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.err
}

// Count returns the number of records written.
func (tw *Writer) Count() int {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.count
}

// Close closes the file opened by NewFileWriter. It is a no-op otherwise.
func (tw *Writer) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.closer == nil {
		return nil
	}
	err := tw.closer.Close()
	tw.closer = nil
	return err
}

// Read decodes every record of a transcript stream.
func Read(r io.Reader) ([]Record, error) {
	var out []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return out, nil
}

// ErrNoSnapshot is returned by LastSnapshot when no record carries a snapshot
var ErrNoSnapshot = errors.New("transcript has no snapshot records")

// LastSnapshot returns the most recent snapshot recorded in the file at path.
// The transcript must have been written WithSnapshots.
func LastSnapshot(path string) (models.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("open transcript file: %w", err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return models.Snapshot{}, err
	}
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Snapshot != nil {
			return *records[i].Snapshot, nil
		}
	}
	return models.Snapshot{}, ErrNoSnapshot
}
