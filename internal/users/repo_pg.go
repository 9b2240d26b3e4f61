package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Upsert inserts the user on first sight of the natural key, otherwise
// appends the application id with set semantics. A single statement keeps
// concurrent submissions for the same user from duplicating links.
func (r *PGRepo) Upsert(ctx context.Context, userID, fullName, ssn, applicationID string) (User, bool, error) {
	const query = `
INSERT INTO users (id, full_name, social_security_number, applications, created_at)
VALUES ($1, $2, $3, ARRAY[$4]::text[], now())
ON CONFLICT (social_security_number) DO UPDATE SET
  applications = CASE
    WHEN users.applications @> ARRAY[$4]::text[] THEN users.applications
    ELSE array_append(users.applications, $4)
  END
RETURNING id, full_name, social_security_number, array_to_json(applications)::text, created_at, (xmax = 0) AS created`

	var user User
	var appsJSON string
	var created bool
	err := r.DB.QueryRowContext(ctx, query, userID, fullName, ssn, applicationID).Scan(
		&user.ID,
		&user.FullName,
		&user.SocialSecurityNumber,
		&appsJSON,
		&user.CreatedAt,
		&created,
	)
	if err != nil {
		return User{}, false, err
	}
	if err := json.Unmarshal([]byte(appsJSON), &user.Applications); err != nil {
		return User{}, false, fmt.Errorf("unmarshal applications: %w", err)
	}
	return user, created, nil
}

// GetBySSN looks a user up by natural key.
func (r *PGRepo) GetBySSN(ctx context.Context, ssn string) (User, error) {
	const query = `
SELECT id, full_name, social_security_number, array_to_json(applications)::text, created_at
FROM users
WHERE social_security_number = $1
LIMIT 1`

	var user User
	var appsJSON string
	err := r.DB.QueryRowContext(ctx, query, ssn).Scan(
		&user.ID,
		&user.FullName,
		&user.SocialSecurityNumber,
		&appsJSON,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if err := json.Unmarshal([]byte(appsJSON), &user.Applications); err != nil {
		return User{}, fmt.Errorf("unmarshal applications: %w", err)
	}
	return user, nil
}

// ListAll returns identity and application counts, newest first.
func (r *PGRepo) ListAll(ctx context.Context) ([]Summary, error) {
	const query = `
SELECT id, full_name, social_security_number, cardinality(applications), created_at
FROM users
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.FullName, &s.SocialSecurityNumber, &s.ApplicationCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
