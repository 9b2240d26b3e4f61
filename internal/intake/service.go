package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"benefitflow-backend/internal/applications"
	"benefitflow-backend/internal/documents"
	"benefitflow-backend/internal/reasoning"
	"benefitflow-backend/internal/shared/metrics"
	"benefitflow-backend/internal/shared/telemetry"
	"benefitflow-backend/internal/users"
)

// resultSchemaVersion tags the opaque full-analysis payload so the stored
// format can evolve.
const resultSchemaVersion = "v1"

var ErrInvalidSubmission = errors.New("invalid submission")

// FileUpload is one uploaded document, read fully before the pipeline runs.
type FileUpload struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Submission carries the intake form fields and both documents.
type Submission struct {
	FirstName                string
	LastName                 string
	DateOfBirth              string
	Address                  string
	City                     string
	State                    string
	ZipCode                  string
	SocialSecurityNumber     string
	DoctorNames              string
	HospitalNames            string
	MedicalRecordsPermission bool
	MedicalRecords           FileUpload
	IncomeDocuments          FileUpload
}

// Result reports one accepted submission.
type Result struct {
	ApplicationID string
	UserID        string
	UserCreated   bool
	Decision      string
	Confidence    float64
	Summary       string
}

// Service orchestrates one submission end to end: invoke the reasoning
// service, then persist documents, application and user link in that order.
// An extraction failure aborts before any persistence happens.
type Service struct {
	Invoker reasoning.Invoker
	Docs    *documents.Store
	Apps    applications.Repo
	Users   users.Repo
}

// Submit runs the pipeline for one submission.
func (s *Service) Submit(ctx context.Context, sub Submission) (Result, error) {
	if err := validate(sub); err != nil {
		return Result{}, err
	}
	start := time.Now()

	assessment, err := s.Invoker.Invoke(ctx, []reasoning.Attachment{
		{FileName: sub.MedicalRecords.FileName, ContentType: sub.MedicalRecords.ContentType, Data: sub.MedicalRecords.Content},
		{FileName: sub.IncomeDocuments.FileName, ContentType: sub.IncomeDocuments.ContentType, Data: sub.IncomeDocuments.Content},
	})
	if err != nil {
		var extractionErr *reasoning.ExtractionError
		if errors.As(err, &extractionErr) {
			kind := "missing"
			if errors.Is(err, reasoning.ErrOutputMalformed) {
				kind = "malformed"
			}
			metrics.IncExtractionFailure(kind)
		}
		metrics.IncSubmission("extraction_failed")
		return Result{}, err
	}

	medicalRef, err := s.Docs.Save(ctx, sub.MedicalRecords.Content, sub.MedicalRecords.FileName, sub.MedicalRecords.ContentType, documents.CategoryMedical)
	if err != nil {
		metrics.IncSubmission("storage_failed")
		return Result{}, err
	}
	incomeRef, err := s.Docs.Save(ctx, sub.IncomeDocuments.Content, sub.IncomeDocuments.FileName, sub.IncomeDocuments.ContentType, documents.CategoryIncome)
	if err != nil {
		metrics.IncSubmission("storage_failed")
		return Result{}, err
	}

	applicantName := strings.TrimSpace(sub.FirstName + " " + sub.LastName)
	app := applications.Application{
		ApplicationID: uuid.NewString(),
		ApplicantName: applicantName,
		ApplicantSSN:  sub.SocialSecurityNumber,
		Decision:      assessment.Decision,
		Confidence:    assessment.Confidence,
		Summary:       assessment.Summary,
		Phases:        toPhaseBlocks(assessment.Phases),
		FullResult:    versionedResult(assessment.Full),
		RawResponse:   assessment.Raw,
		Documents:     []documents.Ref{medicalRef, incomeRef},
		Status:        applications.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Apps.Create(ctx, app); err != nil {
		metrics.IncSubmission("persist_failed")
		return Result{}, fmt.Errorf("create application: %w", err)
	}

	user, created, err := s.Users.Upsert(ctx, uuid.NewString(), applicantName, sub.SocialSecurityNumber, app.ApplicationID)
	if err != nil {
		metrics.IncSubmission("persist_failed")
		return Result{}, fmt.Errorf("upsert user: %w", err)
	}

	metrics.IncSubmission("accepted")
	metrics.ObserveSubmissionDuration(time.Since(start))
	telemetry.Info("intake.accepted", map[string]any{
		"application_id": app.ApplicationID,
		"user_id":        user.ID,
		"user_created":   created,
		"decision":       app.Decision,
		"medical_tier":   medicalRef.Tier,
		"income_tier":    incomeRef.Tier,
		"duration_ms":    time.Since(start).Milliseconds(),
	})

	return Result{
		ApplicationID: app.ApplicationID,
		UserID:        user.ID,
		UserCreated:   created,
		Decision:      app.Decision,
		Confidence:    app.Confidence,
		Summary:       app.Summary,
	}, nil
}

func validate(sub Submission) error {
	switch {
	case strings.TrimSpace(sub.FirstName) == "" && strings.TrimSpace(sub.LastName) == "":
		return fmt.Errorf("%w: applicant name is required", ErrInvalidSubmission)
	case strings.TrimSpace(sub.SocialSecurityNumber) == "":
		return fmt.Errorf("%w: socialSecurityNumber is required", ErrInvalidSubmission)
	case len(sub.MedicalRecords.Content) == 0:
		return fmt.Errorf("%w: medicalRecordsFile is required", ErrInvalidSubmission)
	case len(sub.IncomeDocuments.Content) == 0:
		return fmt.Errorf("%w: incomeDocumentsFile is required", ErrInvalidSubmission)
	}
	return nil
}

func toPhaseBlocks(phases []reasoning.PhaseAnalysis) []applications.PhaseBlock {
	out := make([]applications.PhaseBlock, 0, len(phases))
	for _, p := range phases {
		out = append(out, applications.PhaseBlock{Phase: p.Phase, Title: p.Title, Analysis: p.Analysis})
	}
	return out
}

func versionedResult(full json.RawMessage) json.RawMessage {
	wrapped, err := json.Marshal(struct {
		SchemaVersion string          `json:"schema_version"`
		Result        json.RawMessage `json:"result"`
	}{SchemaVersion: resultSchemaVersion, Result: full})
	if err != nil {
		return full
	}
	return wrapped
}
