package users

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for dev mode and tests.
type MemoryRepo struct {
	mu    sync.Mutex
	bySSN map[string]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{bySSN: make(map[string]User)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, userID, fullName, ssn, applicationID string) (User, bool, error) {
	if err := ctx.Err(); err != nil {
		return User{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.bySSN[ssn]
	if !ok {
		user = User{
			ID:                   userID,
			FullName:             fullName,
			SocialSecurityNumber: ssn,
			Applications:         []string{applicationID},
			CreatedAt:            time.Now().UTC(),
		}
		r.bySSN[ssn] = user
		return user, true, nil
	}

	if !contains(user.Applications, applicationID) {
		user.Applications = append(user.Applications, applicationID)
		r.bySSN[ssn] = user
	}
	return user, false, nil
}

func (r *MemoryRepo) GetBySSN(ctx context.Context, ssn string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.bySSN[ssn]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryRepo) ListAll(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Summary, 0, len(r.bySSN))
	for _, user := range r.bySSN {
		out = append(out, Summary{
			ID:                   user.ID,
			FullName:             user.FullName,
			SocialSecurityNumber: user.SocialSecurityNumber,
			ApplicationCount:     len(user.Applications),
			CreatedAt:            user.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

var _ Repo = (*MemoryRepo)(nil)
