package users

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &PGRepo{DB: db}, mock
}

var upsertColumns = []string{
	"id", "full_name", "social_security_number", "applications", "created_at", "created",
}

func TestPGRepoUpsertCreates(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("user-1", "Jane Roe", "111-22-3333", "app-1").
		WillReturnRows(sqlmock.NewRows(upsertColumns).
			AddRow("user-1", "Jane Roe", "111-22-3333", `["app-1"]`, now, true))

	user, created, err := repo.Upsert(context.Background(), "user-1", "Jane Roe", "111-22-3333", "app-1")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !created {
		t.Fatalf("created = false, want true on first sight")
	}
	if user.ID != "user-1" || len(user.Applications) != 1 || user.Applications[0] != "app-1" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestPGRepoUpsertAppends(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("user-ignored", "Jane Roe", "111-22-3333", "app-2").
		WillReturnRows(sqlmock.NewRows(upsertColumns).
			AddRow("user-1", "Jane Roe", "111-22-3333", `["app-1","app-2"]`, now, false))

	user, created, err := repo.Upsert(context.Background(), "user-ignored", "Jane Roe", "111-22-3333", "app-2")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if created {
		t.Fatalf("created = true, want false for existing key")
	}
	if len(user.Applications) != 2 {
		t.Fatalf("applications = %v, want both ids", user.Applications)
	}
}

func TestPGRepoGetBySSNNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("999-99-9999").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetBySSN(context.Background(), "999-99-9999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoListAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM users").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "full_name", "social_security_number", "cardinality", "created_at",
		}).AddRow("user-1", "Jane Roe", "111-22-3333", 2, now))

	summaries, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ApplicationCount != 2 {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
}
