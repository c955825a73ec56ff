// Package registry owns the canonical process records of a simulation.
// Schedulers never see registry entries directly: Records hands out copies.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/ossim/model/process"
	"github.com/viant/ossim/service/dao"
	"github.com/viant/ossim/service/dao/store"
)

// Registry stores process records keyed by id.
type Registry struct {
	dao dao.Service[int, process.Record]
}

// Option customises a Registry.
type Option func(r *Registry)

// WithDAO replaces the default in-memory store.
func WithDAO(d dao.Service[int, process.Record]) Option {
	return func(r *Registry) {
		r.dao = d
	}
}

// New creates a registry backed by an in-memory store unless WithDAO is used.
func New(opts ...Option) *Registry {
	ret := &Registry{}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.dao == nil {
		ret.dao = store.NewMemoryStore[int, process.Record](func(r *process.Record) int { return r.ID })
	}
	return ret
}

// Add validates and stores records; an id that is already registered is
// rejected with process.ErrDuplicateID and nothing after it is stored.
func (r *Registry) Add(ctx context.Context, records ...process.Record) error {
	for i := range records {
		record := records[i]
		if err := record.Validate(); err != nil {
			return err
		}
		_, err := r.dao.Load(ctx, record.ID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %d", process.ErrDuplicateID, record.ID)
		case !errors.Is(err, dao.ErrNotFound):
			return err
		}
		if err = r.dao.Save(ctx, &record); err != nil {
			return fmt.Errorf("failed to register process %d: %w", record.ID, err)
		}
	}
	return nil
}

// Load validates the whole set first, then registers it.
func (r *Registry) Load(ctx context.Context, records process.Records) error {
	if err := records.Validate(); err != nil {
		return err
	}
	return r.Add(ctx, records...)
}

// Get returns a copy of the record with id.
func (r *Registry) Get(ctx context.Context, id int) (process.Record, error) {
	record, err := r.dao.Load(ctx, id)
	if err != nil {
		return process.Record{}, fmt.Errorf("process %d: %w", id, err)
	}
	return *record, nil
}

// Records returns copies of all records in registration order.
func (r *Registry) Records(ctx context.Context) (process.Records, error) {
	stored, err := r.dao.List(ctx)
	if err != nil {
		return nil, err
	}
	ret := make(process.Records, 0, len(stored))
	for _, record := range stored {
		ret = append(ret, *record)
	}
	return ret, nil
}

// Len returns the number of registered records.
func (r *Registry) Len(ctx context.Context) (int, error) {
	stored, err := r.dao.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(stored), nil
}
