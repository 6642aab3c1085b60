// Package focus drives the client side of focus runs: a single active run
// counted down locally and reconciled with the store in the background, plus
// reusable run templates.
package focus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"studydesk/backend/internal/logger"
	"studydesk/backend/internal/model"
	"studydesk/backend/internal/week"
)

var ErrInvalidInput = errors.New("invalid input")

const (
	defaultSource       = "focus"
	defaultWriteTimeout = 10 * time.Second
	writeQueueSize      = 64
)

// Store is the part of the persistence gateway the engine writes through.
type Store interface {
	GetTask(ctx context.Context, id string) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
	CreateFocusRun(ctx context.Context, payload model.StartFocusRunPayload) (*model.FocusRun, error)
	FinishFocusRun(ctx context.Context, id string, payload model.FinishFocusRunPayload) (*model.FocusRun, error)
}

type StartRequest struct {
	Source         string
	TemplateID     *string
	TaskID         *string
	TimerType      string
	PlannedMinutes int
	// Date is the YYYY-MM-DD bucket day; empty means the day the run starts.
	Date           string
	Tags           []string
	Note           *string
}

// Snapshot is the local projection of the active run.
type Snapshot struct {
	Run              model.FocusRun
	Paused           bool
	ElapsedSeconds   int
	RemainingSeconds int
}

type activeRun struct {
	run         model.FocusRun
	timer       Timer
	paused      bool
	pausedAt    time.Time
	pausedTotal time.Duration
}

type Engine struct {
	store        Store
	clock        Clock
	log          *logger.Logger
	writeTimeout time.Duration
	onFinish     func(model.FocusRun)
	writer       *writer

	mu     sync.Mutex
	active *activeRun
}

type Option func(*Engine)

func WithClock(clock Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

func WithLogger(log *logger.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(e *Engine) { e.writeTimeout = d }
}

// WithOnFinish registers a callback for every run that reaches a terminal
// status. It runs on the caller's goroutine, or the timer's for expiry.
func WithOnFinish(fn func(model.FocusRun)) Option {
	return func(e *Engine) { e.onFinish = fn }
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:        store,
		clock:        systemClock{},
		log:          logger.NewNop(),
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("component", "focus_engine")
	e.writer = newWriter(writeQueueSize)
	return e
}

// Start begins a new run. A run that is still active is aborted first.
func (e *Engine) Start(req StartRequest) (model.FocusRun, error) {
	if req.PlannedMinutes <= 0 {
		return model.FocusRun{}, fmt.Errorf("%w: planned_minutes must be positive", ErrInvalidInput)
	}
	timerType := strings.TrimSpace(req.TimerType)
	if timerType == "" {
		timerType = model.TimerTypePomodoro
	}
	if !model.IsValidFocusTimerType(timerType) {
		return model.FocusRun{}, fmt.Errorf("%w: timer_type must be one of pomodoro, countdown", ErrInvalidInput)
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = defaultSource
	}
	date := strings.TrimSpace(req.Date)
	if date != "" {
		day, err := week.ParseDay(date)
		if err != nil {
			return model.FocusRun{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
		date = week.FormatDay(day)
	}

	e.mu.Lock()
	now := e.clock.Now()
	if date == "" {
		date = week.Today(now)
	}

	var aborted *model.FocusRun
	if e.active != nil {
		prev := e.finalizeLocked(model.RunStatusAborted, nil, now)
		aborted = &prev
	}

	run := model.FocusRun{
		ID:             uuid.NewString(),
		Source:         source,
		TemplateID:     req.TemplateID,
		TaskID:         req.TaskID,
		TimerType:      timerType,
		PlannedMinutes: req.PlannedMinutes,
		Status:         model.RunStatusRunning,
		StartedAt:      now.UTC(),
		Date:           date,
		Tags:           model.NormalizeTags(req.Tags),
		Note:           req.Note,
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}
	active := &activeRun{run: run}
	active.timer = e.armTimer(run, run.PlannedSeconds())
	e.active = active

	e.enqueueCreate(run)
	if run.TaskID != nil && *run.TaskID != "" {
		e.enqueueTaskReconcile(*run.TaskID)
	}
	e.mu.Unlock()

	if aborted != nil {
		e.notify(*aborted)
	}
	return run, nil
}

// Pause suspends the countdown locally. It reports whether a run was paused.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil || e.active.paused {
		return false
	}
	e.active.timer.Stop()
	e.active.paused = true
	e.active.pausedAt = e.clock.Now()
	return true
}

// Resume restarts a paused countdown with the time that was left.
func (e *Engine) Resume() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil || !e.active.paused {
		return false
	}
	now := e.clock.Now()
	e.active.pausedTotal += now.Sub(e.active.pausedAt)
	e.active.paused = false
	remaining := e.active.run.PlannedSeconds() - e.elapsedLocked(now)
	e.active.timer = e.armTimer(e.active.run, max(remaining, 0))
	return true
}

// Snapshot returns a copy of the active run's projection.
func (e *Engine) Snapshot() (Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return Snapshot{}, false
	}
	elapsed := e.elapsedLocked(e.clock.Now())
	return Snapshot{
		Run:              e.active.run,
		Paused:           e.active.paused,
		ElapsedSeconds:   elapsed,
		RemainingSeconds: max(e.active.run.PlannedSeconds()-elapsed, 0),
	}, true
}

// Finalize ends the run identified by runID. It is a no-op returning false
// when that run is not the active one, which makes repeated calls and the
// race between expiry and a manual stop harmless.
func (e *Engine) Finalize(runID, status string, actualSeconds *int) (bool, error) {
	if strings.TrimSpace(runID) == "" {
		return false, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}
	if status != model.RunStatusCompleted && status != model.RunStatusAborted {
		return false, fmt.Errorf("%w: status must be one of completed, aborted", ErrInvalidInput)
	}

	e.mu.Lock()
	if e.active == nil || e.active.run.ID != runID {
		e.mu.Unlock()
		return false, nil
	}
	finished := e.finalizeLocked(status, actualSeconds, e.clock.Now())
	e.mu.Unlock()

	e.notify(finished)
	return true, nil
}

// Stop aborts the active run, if any.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	if e.active == nil {
		e.mu.Unlock()
		return false
	}
	finished := e.finalizeLocked(model.RunStatusAborted, nil, e.clock.Now())
	e.mu.Unlock()

	e.notify(finished)
	return true
}

// Flush waits until every queued write has been attempted.
func (e *Engine) Flush() {
	e.writer.flush()
}

// Close aborts the active run and drains pending writes.
func (e *Engine) Close() {
	e.Stop()
	e.writer.close()
}

func (e *Engine) finalizeLocked(status string, actualSeconds *int, now time.Time) model.FocusRun {
	active := e.active
	e.active = nil
	active.timer.Stop()

	elapsed := e.elapsedOf(active, now)
	planned := active.run.PlannedSeconds()
	var actual int
	switch {
	case actualSeconds != nil:
		actual = max(*actualSeconds, 0)
	case status == model.RunStatusCompleted:
		actual = max(planned-max(planned-elapsed, 0), 0)
	default:
		actual = max(elapsed, 0)
	}

	ended := now.UTC()
	run := active.run
	run.Status = status
	run.ActualSeconds = actual
	run.EndedAt = &ended
	run.UpdatedAt = ended

	e.enqueueFinish(run)
	return run
}

func (e *Engine) elapsedLocked(now time.Time) int {
	return e.elapsedOf(e.active, now)
}

// elapsedOf counts focused seconds, excluding time spent paused.
func (e *Engine) elapsedOf(active *activeRun, now time.Time) int {
	paused := active.pausedTotal
	if active.paused {
		paused += now.Sub(active.pausedAt)
	}
	elapsed := now.Sub(active.run.StartedAt) - paused
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / time.Second)
}

func (e *Engine) armTimer(run model.FocusRun, seconds int) Timer {
	runID := run.ID
	planned := run.PlannedSeconds()
	return e.clock.AfterFunc(time.Duration(seconds)*time.Second, func() {
		if _, err := e.Finalize(runID, model.RunStatusCompleted, &planned); err != nil {
			e.log.Warn("focus run expiry failed", "run_id", runID, "error", err)
		}
	})
}

func (e *Engine) notify(run model.FocusRun) {
	if e.onFinish != nil {
		e.onFinish(run)
	}
}

func (e *Engine) enqueueCreate(run model.FocusRun) {
	startedAt := run.StartedAt
	payload := model.StartFocusRunPayload{
		ID:             run.ID,
		Source:         run.Source,
		TemplateID:     run.TemplateID,
		TaskID:         run.TaskID,
		TimerType:      run.TimerType,
		PlannedMinutes: run.PlannedMinutes,
		StartedAt:      &startedAt,
		Date:           run.Date,
		Tags:           run.Tags,
		Note:           run.Note,
	}
	e.enqueue("create focus run", run.ID, func(ctx context.Context) error {
		_, err := e.store.CreateFocusRun(ctx, payload)
		return err
	})
}

func (e *Engine) enqueueFinish(run model.FocusRun) {
	payload := model.FinishFocusRunPayload{
		ActualSeconds: run.ActualSeconds,
		Status:        run.Status,
		EndedAt:       run.EndedAt,
	}
	e.enqueue("finish focus run", run.ID, func(ctx context.Context) error {
		_, err := e.store.FinishFocusRun(ctx, run.ID, payload)
		return err
	})
}

// enqueueTaskReconcile moves a todo task to in-progress. Later transitions
// never revert it.
func (e *Engine) enqueueTaskReconcile(taskID string) {
	e.enqueue("reconcile task", taskID, func(ctx context.Context) error {
		task, err := e.store.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if task.Status != model.TaskStatusTodo {
			return nil
		}
		status := model.TaskStatusInProgress
		_, err = e.store.UpdateTask(ctx, taskID, model.TaskPatch{Status: &status})
		return err
	})
}

func (e *Engine) enqueue(op, id string, write func(ctx context.Context) error) {
	queued := e.writer.enqueue(func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.writeTimeout)
		defer cancel()
		if err := write(ctx); err != nil {
			e.log.Warn(op+" failed", "id", id, "error", err)
		}
	})
	if !queued {
		e.log.Warn(op+" dropped after close", "id", id)
	}
}
