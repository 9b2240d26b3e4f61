package reconcile

import (
	"context"
	"errors"
	"testing"

	"benefitflow-backend/internal/documents"
)

type recordingPrimary struct {
	putErr error
	docs   map[string]documents.Document
}

func newRecordingPrimary() *recordingPrimary {
	return &recordingPrimary{docs: map[string]documents.Document{}}
}

func (p *recordingPrimary) Put(ctx context.Context, doc documents.Document) error {
	if p.putErr != nil {
		return p.putErr
	}
	p.docs[doc.ID] = doc
	return nil
}

func (p *recordingPrimary) Get(ctx context.Context, id string) ([]byte, error) {
	doc, ok := p.docs[id]
	if !ok {
		return nil, documents.ErrNotFound
	}
	return doc.Content, nil
}

func seedFallback(t *testing.T, fallback *documents.FallbackTier, id string, content []byte) string {
	t.Helper()
	key, err := fallback.Put(context.Background(), documents.Document{
		ID:               id,
		FileName:         "records.pdf",
		OriginalFilename: "records.pdf",
		ContentType:      "application/pdf",
		Category:         documents.CategoryMedical,
		SizeBytes:        int64(len(content)),
		Content:          content,
	})
	if err != nil {
		t.Fatalf("seed fallback: %v", err)
	}
	return key
}

func TestRunMovesFallbackDocuments(t *testing.T) {
	primary := newRecordingPrimary()
	fallback := documents.NewFallbackTier(t.TempDir())
	ctx := context.Background()

	key1 := seedFallback(t, fallback, "doc-1", []byte("one"))
	key2 := seedFallback(t, fallback, "doc-2", []byte("two"))

	w := NewWorker(primary, fallback, "@every 5m")
	w.Run(ctx)

	if len(primary.docs) != 2 {
		t.Fatalf("primary holds %d documents, want 2", len(primary.docs))
	}
	moved := primary.docs["doc-1"]
	if string(moved.Content) != "one" || moved.OriginalFilename != "records.pdf" || moved.Category != documents.CategoryMedical {
		t.Fatalf("document identity lost in move: %+v", moved)
	}

	for _, key := range []string{key1, key2} {
		if _, err := fallback.Get(ctx, key); !errors.Is(err, documents.ErrNotFound) {
			t.Fatalf("fallback copy %s still present: %v", key, err)
		}
	}
	metas, err := fallback.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 0 {
		t.Fatalf("sidecars left behind: %+v", metas)
	}
}

func TestRunKeepsDocumentOnPrimaryFailure(t *testing.T) {
	primary := newRecordingPrimary()
	primary.putErr = errors.New("still down")
	fallback := documents.NewFallbackTier(t.TempDir())
	ctx := context.Background()

	key := seedFallback(t, fallback, "doc-1", []byte("one"))

	w := NewWorker(primary, fallback, "@every 5m")
	w.Run(ctx)

	if content, err := fallback.Get(ctx, key); err != nil || string(content) != "one" {
		t.Fatalf("fallback copy must survive a failed move: %q, %v", content, err)
	}

	// The next pass with a healthy primary picks it up.
	primary.putErr = nil
	w.Run(ctx)
	if _, ok := primary.docs["doc-1"]; !ok {
		t.Fatalf("document not moved on retry")
	}
	if _, err := fallback.Get(ctx, key); !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("fallback copy still present after retry: %v", err)
	}
}

func TestRunNoPrimary(t *testing.T) {
	fallback := documents.NewFallbackTier(t.TempDir())
	ctx := context.Background()
	key := seedFallback(t, fallback, "doc-1", []byte("one"))

	w := NewWorker(nil, fallback, "@every 5m")
	w.Run(ctx)

	if _, err := fallback.Get(ctx, key); err != nil {
		t.Fatalf("fallback copy must be untouched without a primary: %v", err)
	}
}
