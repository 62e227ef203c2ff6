package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/xid"
	"github.com/sig-0/iq"

	"github.com/sig-0/fxfinder/storage"
	"github.com/sig-0/fxfinder/storage/types"
)

var (
	errInvalidTask = errors.New("invalid task")
	errInvalidKind = errors.New("invalid job kind")
)

// Orchestrator runs background jobs and tracks their statuses
type Orchestrator struct {
	storage storage.Storage
	logger  *slog.Logger

	q    iq.Queue[scheduledExpiry]
	qMux sync.Mutex

	sweepSpec  string
	resultTTL  time.Duration
	jobTimeout time.Duration
}

// New creates a new Orchestrator instance
func New(storage storage.Storage, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		storage:    storage,
		q:          iq.NewQueue[scheduledExpiry](),
		sweepSpec:  "@every 1m",
		resultTTL:  time.Hour,
		jobTimeout: time.Minute * 5,
	}

	// Apply the options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Submit starts the task for the currency in the background and returns its job ID.
// The job is visible to Status as soon as Submit returns
func (o *Orchestrator) Submit(
	ctx context.Context,
	kind types.JobKind,
	currency types.Currency,
	task Task,
) (xid.ID, error) {
	if task == nil {
		return xid.NilID(), errInvalidTask
	}

	if kind == "" {
		return xid.NilID(), errInvalidKind
	}

	now := time.Now().UTC()

	r := &Reporter{
		o: o,
		status: types.JobStatus{
			ID:        xid.New(),
			Kind:      kind,
			Currency:  currency,
			Stage:     types.StageScraping,
			Message:   "job started",
			StartedAt: now,
			UpdatedAt: now,
		},
	}

	initial := r.status
	if err := o.storage.SaveStatus(ctx, &initial); err != nil {
		return xid.NilID(), fmt.Errorf("unable to save job status: %w", err)
	}

	o.logger.Info(
		"started job",
		"id", initial.ID.String(),
		"kind", kind,
		"currency", currency,
	)

	// Jobs outlive the request that started them
	go o.run(r, task)

	return initial.ID, nil
}

// Status fetches the status of the given job
func (o *Orchestrator) Status(ctx context.Context, id xid.ID) (*types.JobStatus, error) {
	return o.storage.Status(ctx, id)
}

// Latest fetches the status of the most recently started job.
// If no job was started (or it expired), the idle status is returned
func (o *Orchestrator) Latest(ctx context.Context) (*types.JobStatus, error) {
	st, err := o.storage.LatestStatus(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return types.IdleStatus(), nil
	}

	if err != nil {
		return nil, err
	}

	return st, nil
}

// Start runs the expired status sweep until the context is done [BLOCKING]
func (o *Orchestrator) Start(ctx context.Context) error {
	c := cron.New()

	if _, err := c.AddFunc(o.sweepSpec, func() {
		o.sweep(ctx)
	}); err != nil {
		return fmt.Errorf("unable to register status sweep: %w", err)
	}

	c.Start()

	<-ctx.Done()

	// Wait for a running sweep to finish
	<-c.Stop().Done()

	o.logger.Info("orchestrator service shut down")

	return nil
}

// run executes the task and publishes its final status
func (o *Orchestrator) run(r *Reporter, task Task) {
	id, kind := r.status.ID, r.status.Kind

	ctx, cancelFn := context.WithTimeout(context.Background(), o.jobTimeout)
	defer cancelFn()

	res, err := execute(ctx, r, task)

	// The final status is saved even if the job timed out
	saveCtx, cancelSave := context.WithTimeout(context.Background(), time.Second*10)
	defer cancelSave()

	if err != nil {
		o.logger.Error(
			"job failed",
			"id", id.String(),
			"kind", kind,
			"err", err,
		)

		r.fail(saveCtx, err)
	} else {
		o.logger.Info(
			"job complete",
			"id", id.String(),
			"kind", kind,
		)

		r.complete(saveCtx, res)
	}

	o.scheduleExpiry(time.Now().UTC().Add(o.resultTTL), id)
}

// execute runs the task, converting a panic into a job error
func execute(ctx context.Context, r *Reporter, task Task) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job panicked: %v", p)
		}
	}()

	return task(ctx, r)
}

// scheduleExpiry schedules the eviction of a finished job's status
func (o *Orchestrator) scheduleExpiry(at time.Time, id xid.ID) {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	o.q.Push(scheduledExpiry{
		at: at,
		id: id,
	})
}

// nextExpired fetches the next expired job status, as of the moment of calling
func (o *Orchestrator) nextExpired() *scheduledExpiry {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	if o.q.Len() == 0 {
		return nil // nothing is finished
	}

	// Check if the earliest expiry is due
	if o.q.Index(0).at.After(time.Now().UTC()) {
		return nil
	}

	return o.q.PopFront()
}

// sweep evicts every expired job status
func (o *Orchestrator) sweep(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			expired := o.nextExpired()
			if expired == nil {
				return
			}

			err := o.storage.DeleteStatus(ctx, expired.id)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				o.logger.Error(
					"unable to evict job status",
					"id", expired.id.String(),
					"err", err,
				)

				continue
			}

			o.logger.Debug(
				"evicted job status",
				"id", expired.id.String(),
			)
		}
	}
}

// scheduledExpiry is a single scheduled status eviction
type scheduledExpiry struct {
	at time.Time
	id xid.ID
}

// Less is utilized to sort expiries by their due-time (earliest == first)
func (a scheduledExpiry) Less(b scheduledExpiry) bool {
	return a.at.Before(b.at)
}
