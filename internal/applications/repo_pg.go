package applications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"benefitflow-backend/internal/documents"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const applicationColumns = `application_id, applicant_name, applicant_ssn, decision, confidence, summary, phases, full_result, raw_response, documents, status, status_notes, created_at`

// Create inserts a new application record.
func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (
    application_id,
    applicant_name,
    applicant_ssn,
    decision,
    confidence,
    summary,
    phases,
    full_result,
    raw_response,
    documents,
    status,
    status_notes,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	phases, err := json.Marshal(app.Phases)
	if err != nil {
		return fmt.Errorf("marshal phases: %w", err)
	}
	docs, err := json.Marshal(app.Documents)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}

	status := app.Status
	if status == "" {
		status = StatusPending
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		app.ApplicationID,
		app.ApplicantName,
		app.ApplicantSSN,
		app.Decision,
		app.Confidence,
		app.Summary,
		phases,
		[]byte(app.FullResult),
		app.RawResponse,
		docs,
		status,
		nullableString(app.StatusNotes),
		app.CreatedAt,
	)
	return err
}

// GetByID returns one application.
func (r *PGRepo) GetByID(ctx context.Context, applicationID string) (Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE application_id = $1 LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, applicationID)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return app, nil
}

// GetByIDs returns the applications for the given ids, newest first.
func (r *PGRepo) GetByIDs(ctx context.Context, applicationIDs []string) ([]Application, error) {
	if len(applicationIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE application_id = ANY($1) ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, applicationIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

// ListAll returns every application, newest first.
func (r *PGRepo) ListAll(ctx context.Context) ([]Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

// UpdateStatus sets the admin status and notes for an application.
func (r *PGRepo) UpdateStatus(ctx context.Context, applicationID, status, notes string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	const query = `UPDATE applications SET status = $1, status_notes = $2 WHERE application_id = $3`
	res, err := r.DB.ExecContext(ctx, query, status, nullableString(notes), applicationID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var app Application
	var decision, summary, rawResponse, statusNotes sql.NullString
	var confidence sql.NullFloat64
	var phases, fullResult, docs []byte

	err := row.Scan(
		&app.ApplicationID,
		&app.ApplicantName,
		&app.ApplicantSSN,
		&decision,
		&confidence,
		&summary,
		&phases,
		&fullResult,
		&rawResponse,
		&docs,
		&app.Status,
		&statusNotes,
		&app.CreatedAt,
	)
	if err != nil {
		return Application{}, err
	}

	app.Decision = decision.String
	app.Confidence = confidence.Float64
	app.Summary = summary.String
	app.RawResponse = rawResponse.String
	app.StatusNotes = statusNotes.String
	if len(phases) > 0 {
		if err := json.Unmarshal(phases, &app.Phases); err != nil {
			return Application{}, fmt.Errorf("unmarshal phases: %w", err)
		}
	}
	if len(fullResult) > 0 {
		app.FullResult = json.RawMessage(fullResult)
	}
	if len(docs) > 0 {
		var refs []documents.Ref
		if err := json.Unmarshal(docs, &refs); err != nil {
			return Application{}, fmt.Errorf("unmarshal documents: %w", err)
		}
		app.Documents = refs
	}
	return app, nil
}

func scanApplications(rows *sql.Rows) ([]Application, error) {
	var out []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
