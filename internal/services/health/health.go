package health

import (
	"context"
	"database/sql"
	"time"
)

// Service encapsulates health-related checks.
type Service struct {
	db *sql.DB
}

// NewService constructs a new health service. db may be nil in dev mode.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Status reports process liveness and primary datastore reachability.
func (s *Service) Status(ctx context.Context) map[string]any {
	out := map[string]any{"status": "healthy", "message": "BenefitFlow API is running"}
	if s.db == nil {
		out["database"] = "not_configured"
		return out
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(pingCtx); err != nil {
		out["database"] = "unreachable"
	} else {
		out["database"] = "ok"
	}
	return out
}
