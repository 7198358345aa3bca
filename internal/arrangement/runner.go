package arrangement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lehigh-university-libraries/collager/internal/models"
)

const (
	// FailureMessage is shown to the user when the oracle call fails
	FailureMessage = "Could not generate a smart layout. Please try again."
	// EmptyPoolMessage prompts the user to upload before arranging
	EmptyPoolMessage = "Please upload some images first."
)

// Notifier receives user-facing notifications
type Notifier interface {
	Notify(n models.Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(models.Notification)

func (f NotifierFunc) Notify(n models.Notification) { f(n) }

// Runner gates oracle calls behind a busy flag. With supersede enabled a new
// request cancels the one in flight and the stale result is discarded;
// otherwise a request made while busy is rejected.
type Runner struct {
	oracle    Oracle
	timeout   time.Duration
	supersede bool
	notifier  Notifier

	busy atomic.Bool

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewRunner returns a runner around oracle. A zero timeout disables the per-call deadline.
func NewRunner(oracle Oracle, timeout time.Duration, supersede bool, notifier Notifier) *Runner {
	if notifier == nil {
		notifier = NotifierFunc(func(models.Notification) {})
	}
	return &Runner{
		oracle:    oracle,
		timeout:   timeout,
		supersede: supersede,
		notifier:  notifier,
	}
}

// Busy reports whether an oracle call is in flight
func (r *Runner) Busy() bool {
	return r.busy.Load()
}

// Run calls the oracle with sources and, on success, hands the candidate to
// apply exactly once. On failure apply is never called, the busy flag is
// cleared and a single notification is emitted.
func (r *Runner) Run(ctx context.Context, sources []string, apply func(models.Candidate)) error {
	if len(sources) == 0 {
		r.notify(models.NotificationInfo, EmptyPoolMessage)
		return ErrEmptyPool
	}

	callCtx, generation, err := r.start(ctx)
	if err != nil {
		return err
	}

	returned := false
	defer func() {
		if !returned {
			r.mu.Lock()
			r.finish(generation)
			r.mu.Unlock()
		}
	}()

	started := time.Now()
	candidate, err := r.oracle.Arrange(callCtx, sources)
	returned = true

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.finish(generation) {
		slog.Info("Discarding superseded arrangement", "generation", generation)
		return ErrSuperseded
	}

	if err != nil {
		slog.Error("Failed to generate smart collage", "error", err, "elapsed", time.Since(started))
		r.notify(models.NotificationError, FailureMessage)
		return fmt.Errorf("arrangement failed: %w", err)
	}

	apply(candidate)
	slog.Info("Arrangement applied", "template", candidate.TemplateKey, "elapsed", time.Since(started))
	return nil
}

func (r *Runner) start(ctx context.Context) (context.Context, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.busy.Load() {
		if !r.supersede {
			return nil, 0, ErrBusy
		}
		slog.Info("Superseding in-flight arrangement", "generation", r.generation)
		r.cancel()
	}

	var (
		callCtx context.Context
		cancel  context.CancelFunc
	)
	if r.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
	} else {
		callCtx, cancel = context.WithCancel(ctx)
	}

	r.generation++
	r.cancel = cancel
	r.busy.Store(true)
	return callCtx, r.generation, nil
}

// finish clears the in-flight state if generation is still current. r.mu must be held.
func (r *Runner) finish(generation uint64) bool {
	if generation != r.generation {
		return false
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.busy.Store(false)
	return true
}

func (r *Runner) notify(level models.NotificationLevel, message string) {
	r.notifier.Notify(models.Notification{
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// IsUserError reports whether err is a condition the user can fix rather than an oracle failure
func IsUserError(err error) bool {
	return errors.Is(err, ErrEmptyPool) || errors.Is(err, ErrBusy) || errors.Is(err, ErrSuperseded)
}
