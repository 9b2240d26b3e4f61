package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestPGTierPut(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO documents").
		WithArgs("doc-1", "records.pdf", "records.pdf", "application/pdf", CategoryMedical, int64(4), []byte("scan"), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tier := &PGTier{DB: db}
	err = tier.Put(context.Background(), Document{
		ID:          "doc-1",
		FileName:    "records.pdf",
		ContentType: "application/pdf",
		Category:    CategoryMedical,
		SizeBytes:   4,
		Content:     []byte("scan"),
		CreatedAt:   now,
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGTierGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT content FROM documents").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"content"}).AddRow([]byte("scan")))

	tier := &PGTier{DB: db}
	content, err := tier.Get(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(content) != "scan" {
		t.Fatalf("content = %q", content)
	}
}

func TestPGTierGetMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT content FROM documents").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"content"}))

	tier := &PGTier{DB: db}
	if _, err := tier.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
