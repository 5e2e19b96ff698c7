// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"encoding/json"
	"testing"

	"github.com/noldarim/showcase/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineEvent_GetMetadata(t *testing.T) {
	event := PipelineEvent{
		Metadata: NewMetadata("run-1", 3),
		Type:     LogAppended,
		RunID:    "run-1",
		Seq:      3,
	}

	metadata := event.GetMetadata()
	assert.Equal(t, "run-1/3", metadata.IdempotencyKey)
	assert.Equal(t, "run-1", metadata.RunID)
	assert.Equal(t, CurrentProtocolVersion, metadata.Version)
	assert.Equal(t, "run-1", event.GetRunID())
}

func TestPipelineEvent_AllTypes(t *testing.T) {
	types := []struct {
		typ      PipelineEventType
		terminal bool
	}{
		{RunStarted, false},
		{StageStarted, false},
		{LogAppended, false},
		{StageCompleted, false},
		{StageFailed, false},
		{ExpandedChanged, false},
		{RunCompleted, true},
		{RunFailed, true},
		{RunCancelled, true},
	}

	for _, tt := range types {
		t.Run(string(tt.typ), func(t *testing.T) {
			event := PipelineEvent{
				Metadata: NewMetadata("run", 1),
				Type:     tt.typ,
			}
			assert.Equal(t, tt.terminal, event.Type.Terminal())
			assert.Equal(t, "run/1", GetIdempotencyKey(event))
		})
	}
}

func TestGetIdempotencyKey_Empty(t *testing.T) {
	assert.Empty(t, GetIdempotencyKey(PipelineEvent{}))
}

func TestPipelineEvent_JSON(t *testing.T) {
	event := PipelineEvent{
		Metadata:   NewMetadata("r", 2),
		Type:       LogAppended,
		RunID:      "r",
		Seq:        2,
		StageID:    "a",
		StageIndex: 0,
		Entry:      &models.LogEntry{Message: "hello", Level: models.LevelInfo},
		Snapshot:   models.Snapshot{RunID: "r", Status: models.RunRunning},
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "log_appended", decoded["type"])
	assert.Equal(t, "r/2", decoded["idempotency_key"])
	assert.Equal(t, "a", decoded["stage_id"])
	assert.NotContains(t, decoded, "reason")
}

func TestFanout(t *testing.T) {
	var got []string
	l := Fanout(
		func(e PipelineEvent) { got = append(got, "first:"+string(e.Type)) },
		nil,
		func(e PipelineEvent) { got = append(got, "second:"+string(e.Type)) },
	)

	l(PipelineEvent{Type: RunStarted})
	assert.Equal(t, []string{"first:run_started", "second:run_started"}, got)
}
