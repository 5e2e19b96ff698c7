// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pipeline runs a simulated multi-stage pipeline. A Runner walks the
// stages of a catalog.Registry strictly forward, replaying each stage's script
// through a Player on a scheduler.Scheduler, and reports every state change
// to a listener as a protocol.PipelineEvent.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/noldarim/showcase/internal/catalog"
	"github.com/noldarim/showcase/internal/logger"
	"github.com/noldarim/showcase/internal/models"
	"github.com/noldarim/showcase/internal/protocol"
	"github.com/noldarim/showcase/internal/scheduler"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultSettleDelay is the pause between a stage succeeding and the next one starting
	DefaultSettleDelay = 500 * time.Millisecond
	// DefaultCompletionDelay is the pause between the last stage's settle and run completion
	DefaultCompletionDelay = 1500 * time.Millisecond

	tracerName = "github.com/noldarim/showcase/internal/pipeline"
)

var (
	log     *zerolog.Logger
	logOnce sync.Once
)

func getLog() *zerolog.Logger {
	logOnce.Do(func() {
		l := logger.GetPipelineLogger()
		log = &l
	})
	return log
}

// Options configures a Runner. Zero delays fall back to the defaults.
type Options struct {
	SettleDelay     time.Duration
	CompletionDelay time.Duration
	// Theme is recorded in snapshots for display
	Theme string

	Listener   protocol.Listener
	OnComplete func(models.Snapshot)
	OnError    func(stageID, reason string)

	// Tracer defaults to the global otel tracer provider
	Tracer trace.Tracer
}

// Runner is the pipeline state machine:
//
//	Idle -> Running(0) -> ... -> Running(last) -> Completed
//	                  \-> Failed     \-> Cancelled
//
// All state lives behind one mutex. Every scheduled continuation takes that
// mutex and checks the run's token first, so a continuation that fires after
// Cancel changes nothing.
type Runner struct {
	registry *catalog.Registry
	sched    scheduler.Scheduler
	opts     Options
	tracer   trace.Tracer

	mu    sync.Mutex
	state models.Snapshot

	started    bool
	runCtx     context.Context
	cancelRun  context.CancelFunc
	stopParent func() bool
	player     *Player
	timer      scheduler.Timer

	runSpan   trace.Span
	stageSpan trace.Span

	seq         uint64
	outbox      []func()
	dispatching bool

	done chan struct{}
	err  error
}

// NewRunner creates an idle runner over registry. All stages start pending.
func NewRunner(registry *catalog.Registry, sched scheduler.Scheduler, opts Options) *Runner {
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.CompletionDelay <= 0 {
		opts.CompletionDelay = DefaultCompletionDelay
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	stages := lo.Map(registry.Stages(), func(def catalog.StageDefinition, _ int) models.StageState {
		return models.StageState{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Agent:       def.Agent,
			Status:      models.StagePending,
			Logs:        []models.LogEntry{},
		}
	})

	return &Runner{
		registry: registry,
		sched:    sched,
		opts:     opts,
		tracer:   tracer,
		state: models.Snapshot{
			RunID:  uuid.NewString(),
			Theme:  opts.Theme,
			Status: models.RunIdle,
			Stages: stages,
		},
		done: make(chan struct{}),
	}
}

// RunID returns the identifier of this run
func (r *Runner) RunID() string {
	return r.state.RunID
}

// Snapshot returns a deep copy of the current state
func (r *Runner) Snapshot() models.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// Done is closed once the run completes, fails or is cancelled
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Err returns the *StageFailedError of a failed run, nil otherwise
func (r *Runner) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Start moves the runner from idle to running its first stage. Cancelling ctx
// later cancels the run.
func (r *Runner) Start(ctx context.Context, description string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true

	r.runCtx, r.cancelRun = context.WithCancel(context.WithoutCancel(ctx))
	r.runCtx, r.runSpan = r.tracer.Start(r.runCtx, "pipeline.run", trace.WithAttributes(
		attribute.String("run.id", r.state.RunID),
		attribute.String("run.theme", r.opts.Theme),
		attribute.Int("run.stages", len(r.state.Stages)),
	))

	r.state.Description = description
	r.state.Status = models.RunRunning
	r.state.StartedAt = r.sched.Now()
	r.emit(protocol.RunStarted, "", 0, nil, "")
	r.startStage(0)

	r.stopParent = context.AfterFunc(ctx, r.Cancel)
	r.mu.Unlock()

	getLog().Info().
		Str("run_id", r.state.RunID).
		Int("stages", r.registry.Len()).
		Msg("Pipeline run started")

	r.flush()
	return nil
}

// Cancel tears the run down: the run token is invalidated and the one pending
// timer is stopped. Stage statuses and logs stay exactly as they were. Calling
// Cancel on a runner that is not running does nothing.
func (r *Runner) Cancel() {
	r.mu.Lock()
	if r.state.Status != models.RunRunning {
		r.mu.Unlock()
		return
	}

	r.cancelRun()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.player != nil {
		r.player.Stop()
		r.player = nil
	}

	r.state.Status = models.RunCancelled
	r.state.FinishedAt = r.sched.Now()
	r.endStageSpan(codes.Unset, "")
	r.emit(protocol.RunCancelled, "", r.state.CurrentIndex, nil, "")
	r.finish()

	getLog().Info().
		Str("run_id", r.state.RunID).
		Int("stage_index", r.state.CurrentIndex).
		Msg("Pipeline run cancelled")
	r.mu.Unlock()

	r.flush()
}

// guard wraps fn as a continuation of the current run: it runs under the
// state lock and does nothing once the run token is done.
func (r *Runner) guard(fn func()) func() {
	token := r.runCtx
	return func() {
		r.mu.Lock()
		if token.Err() != nil {
			r.mu.Unlock()
			return
		}
		fn()
		r.mu.Unlock()
		r.flush()
	}
}

// after schedules fn as a guarded continuation. Must be called with mu held.
func (r *Runner) after(d time.Duration, fn func()) scheduler.Timer {
	return r.sched.AfterFunc(d, r.guard(fn))
}

// runScheduler hands the Player guarded continuations
type runScheduler struct {
	r *Runner
}

func (s runScheduler) Now() time.Time {
	return s.r.sched.Now()
}

func (s runScheduler) AfterFunc(d time.Duration, fn func()) scheduler.Timer {
	return s.r.after(d, fn)
}

// startStage marks stage i running and starts replaying its script.
// Must be called with mu held.
func (r *Runner) startStage(i int) {
	now := r.sched.Now()
	st := &r.state.Stages[i]
	st.Status = models.StageRunning
	st.StartTime = now
	r.state.CurrentIndex = i

	_, r.stageSpan = r.tracer.Start(r.runCtx, "pipeline.stage", trace.WithAttributes(
		attribute.String("stage.id", st.ID),
		attribute.Int("stage.index", i),
	))

	r.emit(protocol.StageStarted, st.ID, i, nil, "")

	// entering a new stage resumes auto-follow
	r.state.FollowActive = true
	if r.state.ExpandedID != st.ID {
		r.state.ExpandedID = st.ID
		r.emit(protocol.ExpandedChanged, st.ID, i, nil, "")
	}

	getLog().Debug().
		Str("run_id", r.state.RunID).
		Str("stage_id", st.ID).
		Int("stage_index", i).
		Msg("Stage started")

	r.player = NewPlayer(runScheduler{r: r}, r.registry.At(i).Script, r.appendLog, r.completeStage)
	r.player.Start()
}

// appendLog records one emitted script entry on the running stage.
// Must be called with mu held.
func (r *Runner) appendLog(entry catalog.ScriptEntry) {
	i := r.state.CurrentIndex
	st := &r.state.Stages[i]
	logEntry := models.LogEntry{
		Timestamp: r.sched.Now(),
		Message:   entry.Message,
		Level:     entry.Level,
	}
	st.Logs = append(st.Logs, logEntry)

	if r.stageSpan != nil {
		r.stageSpan.AddEvent("log", trace.WithAttributes(
			attribute.String("log.level", string(entry.Level)),
			attribute.String("log.message", entry.Message),
		))
	}
	r.emit(protocol.LogAppended, st.ID, i, &logEntry, "")

	if entry.Fail {
		r.failStage(i, entry.Message)
	}
}

// completeStage marks the running stage successful and schedules what comes
// after the settle delay. Must be called with mu held.
func (r *Runner) completeStage() {
	i := r.state.CurrentIndex
	st := &r.state.Stages[i]
	st.Status = models.StageSuccess
	st.EndTime = r.sched.Now()
	r.player = nil

	r.endStageSpan(codes.Ok, "")
	r.emit(protocol.StageCompleted, st.ID, i, nil, "")

	getLog().Debug().
		Str("run_id", r.state.RunID).
		Str("stage_id", st.ID).
		Dur("duration", st.Duration()).
		Msg("Stage completed")

	r.timer = r.after(r.opts.SettleDelay, func() {
		r.timer = nil
		if next := i + 1; next < len(r.state.Stages) {
			r.startStage(next)
			return
		}
		r.timer = r.after(r.opts.CompletionDelay, r.completeRun)
	})
}

// completeRun is the final transition. Must be called with mu held.
func (r *Runner) completeRun() {
	r.timer = nil
	r.state.Status = models.RunCompleted
	r.state.FinishedAt = r.sched.Now()
	r.emit(protocol.RunCompleted, "", r.state.CurrentIndex, nil, "")

	if r.opts.OnComplete != nil {
		snap := r.state.Clone()
		onComplete := r.opts.OnComplete
		r.outbox = append(r.outbox, func() { onComplete(snap) })
	}
	r.finish()

	getLog().Info().
		Str("run_id", r.state.RunID).
		Dur("elapsed", r.state.Elapsed(r.state.FinishedAt)).
		Msg("Pipeline run completed")
}

// failStage halts the run on stage i. Must be called with mu held.
func (r *Runner) failStage(i int, reason string) {
	st := &r.state.Stages[i]
	st.Status = models.StageError
	st.EndTime = r.sched.Now()
	if r.player != nil {
		r.player.Stop()
		r.player = nil
	}

	r.state.Status = models.RunFailed
	r.state.FinishedAt = st.EndTime
	r.state.Failure = &models.Failure{StageID: st.ID, Reason: reason}
	r.err = &StageFailedError{StageID: st.ID, Reason: reason}

	r.endStageSpan(codes.Error, reason)
	r.emit(protocol.StageFailed, st.ID, i, nil, reason)
	r.emit(protocol.RunFailed, st.ID, i, nil, reason)

	if r.opts.OnError != nil {
		onError := r.opts.OnError
		stageID := st.ID
		r.outbox = append(r.outbox, func() { onError(stageID, reason) })
	}
	r.finish()

	getLog().Warn().
		Str("run_id", r.state.RunID).
		Str("stage_id", st.ID).
		Str("reason", reason).
		Msg("Pipeline run failed")
}

// finish releases everything tied to the run once it reached a final status.
// Must be called with mu held.
func (r *Runner) finish() {
	r.cancelRun()
	if r.stopParent != nil {
		r.stopParent()
	}

	switch r.state.Status {
	case models.RunFailed:
		r.runSpan.SetStatus(codes.Error, r.state.Failure.Reason)
	case models.RunCompleted:
		r.runSpan.SetStatus(codes.Ok, "")
	}
	r.runSpan.SetAttributes(attribute.String("run.status", string(r.state.Status)))
	r.runSpan.End()

	close(r.done)
}

func (r *Runner) endStageSpan(code codes.Code, description string) {
	if r.stageSpan == nil {
		return
	}
	if code != codes.Unset {
		r.stageSpan.SetStatus(code, description)
	}
	r.stageSpan.End()
	r.stageSpan = nil
}

// setExpanded changes the selected stage on behalf of the user, which turns
// auto-follow off until the next stage starts. With toggle set, selecting the
// already expanded stage collapses it.
func (r *Runner) setExpanded(id string, toggle bool) error {
	r.mu.Lock()
	if id != "" && r.registry.IndexOf(id) < 0 {
		r.mu.Unlock()
		return ErrUnknownStage
	}
	if toggle && r.state.ExpandedID == id {
		id = ""
	}
	r.state.FollowActive = false
	if r.state.ExpandedID != id {
		r.state.ExpandedID = id
		r.emit(protocol.ExpandedChanged, id, r.registry.IndexOf(id), nil, "")
	}
	r.mu.Unlock()

	r.flush()
	return nil
}

// emit queues an event carrying a snapshot of the current state.
// Must be called with mu held.
func (r *Runner) emit(typ protocol.PipelineEventType, stageID string, index int, entry *models.LogEntry, reason string) {
	if r.opts.Listener == nil {
		return
	}
	r.seq++
	event := protocol.PipelineEvent{
		Metadata:   protocol.NewMetadata(r.state.RunID, r.seq),
		Type:       typ,
		RunID:      r.state.RunID,
		Seq:        r.seq,
		StageID:    stageID,
		StageIndex: index,
		Entry:      entry,
		Reason:     reason,
		Snapshot:   r.state.Clone(),
	}
	listener := r.opts.Listener
	r.outbox = append(r.outbox, func() { listener(event) })
}

// flush delivers queued notifications outside the state lock. Only one
// goroutine delivers at a time; a listener that calls back into the runner
// just queues more work for the active deliverer, so order is preserved.
func (r *Runner) flush() {
	r.mu.Lock()
	if r.dispatching {
		r.mu.Unlock()
		return
	}
	r.dispatching = true
	for len(r.outbox) > 0 {
		batch := r.outbox
		r.outbox = nil
		r.mu.Unlock()
		for _, fn := range batch {
			fn()
		}
		r.mu.Lock()
	}
	r.dispatching = false
	r.mu.Unlock()
}
