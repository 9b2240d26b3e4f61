package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"benefitflow-backend/internal/shared/metrics"
	"benefitflow-backend/internal/shared/telemetry"
)

// PrimaryTier is the remote document tier. Implementations must make Put
// all-or-nothing: either the document is fully stored or nothing is.
type PrimaryTier interface {
	Put(ctx context.Context, doc Document) error
	Get(ctx context.Context, id string) ([]byte, error)
}

// Store is the tiered document store. Writes go to the primary tier when it
// is reachable and fall back to local disk otherwise; each write is attempted
// at most once per tier.
type Store struct {
	primary  PrimaryTier
	fallback *FallbackTier
}

// NewStore builds a tiered store. primary may be nil when no primary tier
// could be established at startup; every write then lands on the fallback.
func NewStore(primary PrimaryTier, fallback *FallbackTier) *Store {
	return &Store{primary: primary, fallback: fallback}
}

// Save stores content under a fresh document id and returns a ref tagged
// with the tier that accepted the write.
func (s *Store) Save(ctx context.Context, content []byte, fileName, contentType, category string) (Ref, error) {
	doc := Document{
		ID:               uuid.NewString(),
		FileName:         fileName,
		OriginalFilename: fileName,
		ContentType:      contentType,
		Category:         category,
		SizeBytes:        int64(len(content)),
		Content:          content,
		CreatedAt:        time.Now().UTC(),
	}

	if s.primary != nil {
		err := s.primary.Put(ctx, doc)
		if err == nil {
			metrics.IncDocumentStore(TierPrimary)
			return Ref{
				ID:          doc.ID,
				Tier:        TierPrimary,
				StorageKey:  doc.ID,
				FileName:    doc.FileName,
				ContentType: doc.ContentType,
				Category:    doc.Category,
				SizeBytes:   doc.SizeBytes,
			}, nil
		}
		telemetry.Error("documents.primary_unavailable", map[string]any{
			"document_id": doc.ID,
			"category":    doc.Category,
			"error":       err.Error(),
		})
	}

	storageKey, err := s.fallback.Put(ctx, doc)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	metrics.IncDocumentStore(TierFallback)
	return Ref{
		ID:          doc.ID,
		Tier:        TierFallback,
		StorageKey:  storageKey,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		Category:    doc.Category,
		SizeBytes:   doc.SizeBytes,
	}, nil
}

// Get returns the raw bytes for a ref. A fallback ref whose local copy has
// been reconciled away is transparently looked up in the primary tier.
func (s *Store) Get(ctx context.Context, ref Ref) ([]byte, error) {
	switch ref.Tier {
	case TierFallback:
		content, err := s.fallback.Get(ctx, ref.StorageKey)
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, ErrNotFound) || s.primary == nil {
			return nil, err
		}
		return s.primary.Get(ctx, ref.ID)
	case TierPrimary:
		if s.primary == nil {
			return nil, ErrNotFound
		}
		return s.primary.Get(ctx, ref.ID)
	default:
		return nil, fmt.Errorf("unknown storage tier %q", ref.Tier)
	}
}
