package applications

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryRepoListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"app-old", "app-mid", "app-new"} {
		err := repo.Create(ctx, Application{
			ApplicationID: id,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
	}

	apps, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(apps) != 3 || apps[0].ApplicationID != "app-new" || apps[2].ApplicationID != "app-old" {
		t.Fatalf("unexpected order: %+v", apps)
	}
}

func TestMemoryRepoGetByIDsSkipsMissing(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, Application{ApplicationID: "app-1", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	apps, err := repo.GetByIDs(ctx, []string{"app-1", "app-gone"})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(apps) != 1 || apps[0].ApplicationID != "app-1" {
		t.Fatalf("unexpected result: %+v", apps)
	}
}

func TestMemoryRepoUpdateStatus(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, Application{ApplicationID: "app-1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.UpdateStatus(ctx, "app-1", StatusUnderReview, "second look"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	app, err := repo.GetByID(ctx, "app-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if app.Status != StatusUnderReview || app.StatusNotes != "second look" {
		t.Fatalf("status not applied: %+v", app)
	}

	if err := repo.UpdateStatus(ctx, "app-gone", StatusApproved, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := repo.UpdateStatus(ctx, "app-1", "bogus", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}
