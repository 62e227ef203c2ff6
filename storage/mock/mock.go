package mock

import (
	"context"

	"github.com/rs/xid"

	"github.com/sig-0/fxfinder/storage/types"
)

type (
	SaveStatusDelegate   func(context.Context, *types.JobStatus) error
	StatusDelegate       func(context.Context, xid.ID) (*types.JobStatus, error)
	LatestStatusDelegate func(context.Context) (*types.JobStatus, error)
	DeleteStatusDelegate func(context.Context, xid.ID) error
)

type Storage struct {
	SaveStatusFn   SaveStatusDelegate
	StatusFn       StatusDelegate
	LatestStatusFn LatestStatusDelegate
	DeleteStatusFn DeleteStatusDelegate
}

func (m *Storage) SaveStatus(ctx context.Context, st *types.JobStatus) error {
	if m.SaveStatusFn != nil {
		return m.SaveStatusFn(ctx, st)
	}

	return nil
}

func (m *Storage) Status(ctx context.Context, id xid.ID) (*types.JobStatus, error) {
	if m.StatusFn != nil {
		return m.StatusFn(ctx, id)
	}

	return nil, nil
}

func (m *Storage) LatestStatus(ctx context.Context) (*types.JobStatus, error) {
	if m.LatestStatusFn != nil {
		return m.LatestStatusFn(ctx)
	}

	return nil, nil
}

func (m *Storage) DeleteStatus(ctx context.Context, id xid.ID) error {
	if m.DeleteStatusFn != nil {
		return m.DeleteStatusFn(ctx, id)
	}

	return nil
}
