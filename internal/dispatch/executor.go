package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/muldoon/wledctl/internal/config"
	"github.com/muldoon/wledctl/internal/fleet"
	"github.com/muldoon/wledctl/internal/logging"
	"github.com/muldoon/wledctl/internal/wled"
)

// Operation is one idempotent remote action dispatched across a target set.
// Implementations perform a single attempt per Apply call; retry policy
// belongs to the Executor.
type Operation interface {
	// Name is the short verb used in logs and retry bookkeeping.
	Name() string

	// Describe renders the action for people, e.g. "power on".
	Describe() string

	// Apply performs one attempt against one device, refreshing the
	// device's cached state on success. A non-nil document carries
	// queried state for display. Apply must leave the device's cached
	// fields untouched when it returns an error.
	Apply(ctx context.Context, dev *fleet.Device) (wled.Document, error)
}

// Outcome is one device's final fate for a dispatched operation.
type Outcome struct {
	Device   *fleet.Device
	Attempts int
	Doc      wled.Document
	Err      error
}

// OK reports whether the device ended in success.
func (o Outcome) OK() bool { return o.Err == nil }

// Result aggregates a bulk dispatch across the whole target set.
type Result struct {
	// ID correlates every log line belonging to one bulk command.
	ID string

	// Op is the operation's name.
	Op string

	// Outcomes holds one entry per target, in target order, regardless
	// of how the dispatch ended.
	Outcomes []Outcome

	// Elapsed is the wall-clock duration of the whole dispatch.
	Elapsed time.Duration
}

// Succeeded counts devices that ended in success.
func (r *Result) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed returns the outcomes of devices that never succeeded, in
// target order.
func (r *Result) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// FailedKeys returns the keys of devices that never succeeded, in
// target order.
func (r *Result) FailedKeys() []string {
	var keys []string
	for _, o := range r.Outcomes {
		if !o.OK() {
			keys = append(keys, o.Device.Key)
		}
	}
	return keys
}

// Executor runs one operation against many devices at once. Concurrency
// is bounded and an optional token bucket paces requests across all
// workers; the controllers are small embedded boards.
type Executor struct {
	// Concurrency bounds how many devices are worked on simultaneously.
	Concurrency int

	// RetryDelay is the fixed pause between attempts on the same device.
	RetryDelay time.Duration

	// Limiter paces requests across all workers. Nil disables pacing.
	Limiter *rate.Limiter

	logger *zap.Logger
}

// NewExecutor builds an executor from the user's tuning settings.
func NewExecutor(settings *config.Settings) *Executor {
	var limiter *rate.Limiter
	if rps := settings.Transport.RequestsPerSecond; rps > 0 {
		burst := settings.Transport.Concurrency
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}

	return &Executor{
		Concurrency: settings.Transport.Concurrency,
		RetryDelay:  settings.RetryDelay(),
		Limiter:     limiter,
		logger:      logging.GetLogger(),
	}
}

// Run dispatches op to every target and returns one outcome per target.
// Each device gets up to retries+1 attempts, stopping at first success;
// one device failing never stops the others. Cancelling ctx abandons
// devices not yet finished and records them as failed, while outcomes
// already reached are kept as-is.
func (e *Executor) Run(ctx context.Context, op Operation, targets []*fleet.Device, retries int) *Result {
	log := e.logger
	if log == nil {
		log = logging.GetLogger()
	}
	if retries < 0 {
		retries = 0
	}

	start := time.Now()
	result := &Result{
		ID:       uuid.NewString()[:8],
		Op:       op.Name(),
		Outcomes: make([]Outcome, len(targets)),
	}

	log.Info("dispatching command",
		zap.String("command_id", result.ID),
		zap.String("command", op.Name()),
		zap.Int("targets", len(targets)),
		zap.Int("retries", retries),
	)

	workers := e.Concurrency
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, dev := range targets {
		// Once the user interrupts, everything not yet started fails
		// immediately with the cancellation error.
		if ctx.Err() != nil {
			result.Outcomes[i] = Outcome{Device: dev, Err: ctx.Err()}
			continue
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			result.Outcomes[i] = Outcome{Device: dev, Err: ctx.Err()}
			continue
		}

		wg.Add(1)
		go func(i int, dev *fleet.Device) {
			defer wg.Done()
			defer func() { <-sem }()

			// Each device is owned by exactly one worker, so cache
			// writes inside Apply are serialized per device.
			result.Outcomes[i] = e.runDevice(ctx, log, result.ID, op, dev, retries)
		}(i, dev)
	}

	wg.Wait()
	result.Elapsed = time.Since(start)

	log.Info("command finished",
		zap.String("command_id", result.ID),
		zap.String("command", op.Name()),
		zap.Int("succeeded", result.Succeeded()),
		zap.Strings("failed_devices", result.FailedKeys()),
		zap.Duration("elapsed", result.Elapsed),
	)

	return result
}

// Apply runs op against a single device with the given retry budget,
// outside any bulk dispatch. The identify walk uses this for its
// one-device-at-a-time transitions.
func (e *Executor) Apply(ctx context.Context, op Operation, dev *fleet.Device, retries int) error {
	log := e.logger
	if log == nil {
		log = logging.GetLogger()
	}
	if retries < 0 {
		retries = 0
	}
	out := e.runDevice(ctx, log, uuid.NewString()[:8], op, dev, retries)
	return out.Err
}

// runDevice drives one device through its attempt budget.
func (e *Executor) runDevice(ctx context.Context, log *zap.Logger, id string, op Operation, dev *fleet.Device, retries int) Outcome {
	out := Outcome{Device: dev}

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(e.RetryDelay):
			case <-ctx.Done():
				out.Err = ctx.Err()
				return out
			}
		}

		if e.Limiter != nil {
			if err := e.Limiter.Wait(ctx); err != nil {
				out.Err = err
				return out
			}
		}

		out.Attempts++
		doc, err := op.Apply(ctx, dev)
		if err == nil {
			out.Doc = doc
			out.Err = nil
			return out
		}
		out.Err = err

		log.Debug("device attempt failed",
			zap.String("command_id", id),
			zap.String("device", dev.Key),
			zap.Int("attempt", out.Attempts),
			zap.Error(err),
		)

		// Don't spend the remaining budget on errors that cannot heal.
		if !wled.IsRetryable(err) {
			return out
		}
	}

	return out
}
