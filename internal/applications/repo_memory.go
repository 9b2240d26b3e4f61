package applications

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for dev mode and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	apps map[string]Application
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{apps: make(map[string]Application)}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if app.Status == "" {
		app.Status = StatusPending
	}
	r.apps[app.ApplicationID] = app
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, applicationID string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[applicationID]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

func (r *MemoryRepo) GetByIDs(ctx context.Context, applicationIDs []string) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Application
	for _, id := range applicationIDs {
		if app, ok := r.apps[id]; ok {
			out = append(out, app)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) ListAll(ctx context.Context) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Application, 0, len(r.apps))
	for _, app := range r.apps {
		out = append(out, app)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, applicationID, status, notes string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[applicationID]
	if !ok {
		return ErrNotFound
	}
	app.Status = status
	app.StatusNotes = notes
	r.apps[applicationID] = app
	return nil
}

func sortNewestFirst(apps []Application) {
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
}

var _ Repo = (*MemoryRepo)(nil)
