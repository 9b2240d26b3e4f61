package reconcile

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"benefitflow-backend/internal/documents"
	"benefitflow-backend/internal/shared/metrics"
	"benefitflow-backend/internal/shared/telemetry"
)

// Worker periodically re-homes fallback-tier documents into the primary
// tier, using the sidecar metadata written at fallback time. Best effort: a
// document that fails to move is retried on the next run.
type Worker struct {
	primary  documents.PrimaryTier
	fallback *documents.FallbackTier
	schedule string
	cron     *cron.Cron
}

// NewWorker builds a reconcile worker. primary may be nil; Run is then a
// no-op until a later restart establishes the primary tier.
func NewWorker(primary documents.PrimaryTier, fallback *documents.FallbackTier, schedule string) *Worker {
	return &Worker{
		primary:  primary,
		fallback: fallback,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start schedules the worker.
func (w *Worker) Start() error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		w.Run(ctx)
	})
	if err != nil {
		return err
	}
	w.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (w *Worker) Stop() {
	<-w.cron.Stop().Done()
}

// Run performs one reconcile pass.
func (w *Worker) Run(ctx context.Context) {
	if w.primary == nil {
		return
	}
	metas, err := w.fallback.List(ctx)
	if err != nil {
		telemetry.Error("reconcile.list_failed", map[string]any{"error": err.Error()})
		return
	}
	for _, meta := range metas {
		if err := w.reconcileOne(ctx, meta); err != nil {
			metrics.IncReconcile("failed")
			telemetry.Error("reconcile.failed", map[string]any{
				"document_id": meta.DocumentID,
				"storage_key": meta.StoredFilename,
				"error":       err.Error(),
			})
			continue
		}
		metrics.IncReconcile("moved")
		telemetry.Info("reconcile.moved", map[string]any{
			"document_id": meta.DocumentID,
			"storage_key": meta.StoredFilename,
		})
	}
}

func (w *Worker) reconcileOne(ctx context.Context, meta documents.SidecarMeta) error {
	content, err := w.fallback.Get(ctx, meta.StoredFilename)
	if err != nil {
		return err
	}
	doc := documents.Document{
		ID:               meta.DocumentID,
		FileName:         meta.OriginalFilename,
		OriginalFilename: meta.OriginalFilename,
		ContentType:      meta.ContentType,
		Category:         meta.Category,
		SizeBytes:        meta.SizeBytes,
		Content:          content,
		CreatedAt:        meta.SavedAt,
	}
	if err := w.primary.Put(ctx, doc); err != nil {
		return err
	}
	return w.fallback.Remove(ctx, meta.StoredFilename)
}
