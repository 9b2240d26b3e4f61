package users

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

// Repo maintains the user index. Upsert links an application to the user
// with the given natural key, creating the user on first sight. Linking the
// same application twice never duplicates the entry; the repo enforces set
// semantics, not the caller.
type Repo interface {
	Upsert(ctx context.Context, userID, fullName, ssn, applicationID string) (User, bool, error)
	GetBySSN(ctx context.Context, ssn string) (User, error)
	ListAll(ctx context.Context) ([]Summary, error)
}
