package query

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"benefitflow-backend/internal/applications"
	"benefitflow-backend/internal/documents"
	"benefitflow-backend/internal/shared/telemetry"
	"benefitflow-backend/internal/users"
)

// DocumentView is a document reference with optionally inlined content.
type DocumentView struct {
	ID            string `json:"id"`
	FileName      string `json:"file_name"`
	ContentType   string `json:"content_type"`
	Category      string `json:"category"`
	Tier          string `json:"tier"`
	SizeBytes     int64  `json:"size_bytes"`
	ContentBase64 string `json:"content_base64,omitempty"`
}

// ApplicationView is the outward-facing application record.
type ApplicationView struct {
	ApplicationID string                    `json:"application_id"`
	ApplicantName string                    `json:"applicant_name"`
	ApplicantSSN  string                    `json:"applicant_ssn"`
	Decision      string                    `json:"decision"`
	Confidence    float64                   `json:"confidence_level"`
	Summary       string                    `json:"summary"`
	Phases        []applications.PhaseBlock `json:"phase_analyses,omitempty"`
	FullResult    json.RawMessage           `json:"full_result,omitempty"`
	RawResponse   string                    `json:"raw_response,omitempty"`
	Documents     []DocumentView            `json:"documents"`
	Status        string                    `json:"status"`
	StatusNotes   string                    `json:"status_notes,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
	Partial       bool                      `json:"partial,omitempty"`
}

// UserView is a user plus every linked application.
type UserView struct {
	User             users.User        `json:"user"`
	Applications     []ApplicationView `json:"applications"`
	ApplicationCount int               `json:"application_count"`
}

// Service implements the read paths and the status update.
type Service struct {
	Apps  applications.Repo
	Users users.Repo
	Docs  *documents.Store
}

// GetApplication returns one application with its document content inlined.
// A document that cannot be retrieved degrades the result to partial rather
// than failing the call.
func (s *Service) GetApplication(ctx context.Context, applicationID string) (ApplicationView, error) {
	app, err := s.Apps.GetByID(ctx, applicationID)
	if err != nil {
		return ApplicationView{}, err
	}
	return s.toView(ctx, app, true), nil
}

// GetUserBySSN returns the user for a natural key plus every linked
// application, each with inlined document content.
func (s *Service) GetUserBySSN(ctx context.Context, ssn string) (UserView, error) {
	user, err := s.Users.GetBySSN(ctx, ssn)
	if err != nil {
		return UserView{}, err
	}
	apps, err := s.Apps.GetByIDs(ctx, user.Applications)
	if err != nil {
		return UserView{}, err
	}
	views := make([]ApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, s.toView(ctx, app, true))
	}
	return UserView{
		User:             user,
		Applications:     views,
		ApplicationCount: len(views),
	}, nil
}

// ListApplications returns every application, full records, without inlined
// document content.
func (s *Service) ListApplications(ctx context.Context) ([]ApplicationView, error) {
	apps, err := s.Apps.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, s.toView(ctx, app, false))
	}
	return views, nil
}

// ListUsers returns identity and counts only.
func (s *Service) ListUsers(ctx context.Context) ([]users.Summary, error) {
	return s.Users.ListAll(ctx)
}

// UpdateStatus validates and applies an admin status change.
func (s *Service) UpdateStatus(ctx context.Context, applicationID, status, notes string) error {
	if !applications.ValidStatus(status) {
		return applications.ErrInvalidStatus
	}
	return s.Apps.UpdateStatus(ctx, applicationID, status, notes)
}

func (s *Service) toView(ctx context.Context, app applications.Application, inline bool) ApplicationView {
	view := ApplicationView{
		ApplicationID: app.ApplicationID,
		ApplicantName: app.ApplicantName,
		ApplicantSSN:  app.ApplicantSSN,
		Decision:      app.Decision,
		Confidence:    app.Confidence,
		Summary:       app.Summary,
		Phases:        app.Phases,
		FullResult:    app.FullResult,
		RawResponse:   app.RawResponse,
		Documents:     make([]DocumentView, 0, len(app.Documents)),
		Status:        app.Status,
		StatusNotes:   app.StatusNotes,
		CreatedAt:     app.CreatedAt,
	}
	for _, ref := range app.Documents {
		doc := DocumentView{
			ID:          ref.ID,
			FileName:    ref.FileName,
			ContentType: ref.ContentType,
			Category:    ref.Category,
			Tier:        ref.Tier,
			SizeBytes:   ref.SizeBytes,
		}
		if inline {
			content, err := s.Docs.Get(ctx, ref)
			if err != nil {
				telemetry.Error("query.document_unavailable", map[string]any{
					"application_id": app.ApplicationID,
					"document_id":    ref.ID,
					"tier":           ref.Tier,
					"error":          err.Error(),
				})
				view.Partial = true
			} else {
				doc.ContentBase64 = base64.StdEncoding.EncodeToString(content)
			}
		}
		view.Documents = append(view.Documents, doc)
	}
	return view
}
