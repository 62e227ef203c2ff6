package storage

import (
	"context"
	"errors"

	"github.com/rs/xid"

	"github.com/sig-0/fxfinder/storage/types"
)

var ErrNotFound = errors.New("job status not found")

// Storage is an abstraction over background job statuses.
// Every save replaces the whole record, and reads return copies
type Storage interface {
	// SaveStatus saves the given job status, replacing any previous one
	SaveStatus(context.Context, *types.JobStatus) error

	// Status fetches the status of the given job
	Status(context.Context, xid.ID) (*types.JobStatus, error)

	// LatestStatus fetches the status of the most recently started job
	LatestStatus(context.Context) (*types.JobStatus, error)

	// DeleteStatus removes the status of the given job
	DeleteStatus(context.Context, xid.ID) error
}
