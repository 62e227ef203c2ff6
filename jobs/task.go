package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/sig-0/fxfinder/storage/types"
)

// Result is the outcome of a successful task
type Result struct {
	// Data is published as the job results (may be nil)
	Data any

	// Message is the human-readable completion message
	Message string
}

// Task is a single background job body.
// Progress is narrated through the reporter; the returned result
// completes the job, and the returned error fails it
type Task func(ctx context.Context, r *Reporter) (*Result, error)

// Reporter publishes a job's progress.
// Every update replaces the job's whole status record
type Reporter struct {
	o *Orchestrator

	status types.JobStatus
	mux    sync.Mutex
}

// Stage moves the job to the given working stage
func (r *Reporter) Stage(ctx context.Context, stage types.Stage, message string) {
	r.update(ctx, func(st *types.JobStatus) {
		st.Stage = stage
		st.Message = message
	})
}

// complete finishes the job with the given result
func (r *Reporter) complete(ctx context.Context, res *Result) {
	r.update(ctx, func(st *types.JobStatus) {
		st.Stage = types.StageComplete
		st.Message = "complete"
		st.Results = nil

		if res != nil {
			st.Results = res.Data

			if res.Message != "" {
				st.Message = res.Message
			}
		}
	})
}

// fail finishes the job with the given error, leaving any results untouched
func (r *Reporter) fail(ctx context.Context, err error) {
	r.update(ctx, func(st *types.JobStatus) {
		st.Stage = types.StageError
		st.Message = err.Error()
	})
}

func (r *Reporter) update(ctx context.Context, fn func(st *types.JobStatus)) {
	r.mux.Lock()
	defer r.mux.Unlock()

	fn(&r.status)
	r.status.UpdatedAt = time.Now().UTC()

	snapshot := r.status

	if err := r.o.storage.SaveStatus(ctx, &snapshot); err != nil {
		r.o.logger.Error(
			"unable to save job status",
			"id", snapshot.ID.String(),
			"stage", snapshot.Stage,
			"err", err,
		)
	}
}
