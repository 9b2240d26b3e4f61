package applications

import (
	"encoding/json"
	"time"

	"benefitflow-backend/internal/documents"
)

// Admin statuses for the approve/deny workflow. Transitions are
// unconstrained; any status may move to any other.
const (
	StatusPending     = "PENDING"
	StatusUnderReview = "UNDER_REVIEW"
	StatusApproved    = "APPROVED"
	StatusDenied      = "DENIED"
)

// ValidStatus reports whether s is a recognized admin status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusDenied:
		return true
	}
	return false
}

// PhaseBlock is one phase of the curated assessment projection.
type PhaseBlock struct {
	Phase    string `json:"phase"`
	Title    string `json:"title,omitempty"`
	Analysis string `json:"analysis"`
}

// Application is one eligibility-assessment record. The application id is
// generated once at creation and never derived from input data. Only Status
// and StatusNotes are mutable after creation.
type Application struct {
	ApplicationID string
	ApplicantName string
	ApplicantSSN  string
	Decision      string
	Confidence    float64
	Summary       string
	Phases        []PhaseBlock
	FullResult    json.RawMessage
	RawResponse   string
	Documents     []documents.Ref
	Status        string
	StatusNotes   string
	CreatedAt     time.Time
}
