package applications

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("application not found")
	ErrInvalidStatus = errors.New("invalid application status")
)

// Repo defines persistence operations for application records.
type Repo interface {
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, applicationID string) (Application, error)
	GetByIDs(ctx context.Context, applicationIDs []string) ([]Application, error)
	ListAll(ctx context.Context) ([]Application, error)
	UpdateStatus(ctx context.Context, applicationID, status, notes string) error
}
