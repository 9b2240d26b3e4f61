package documents

import "time"

// Tier identifies which storage tier holds a document.
const (
	TierPrimary  = "primary"
	TierFallback = "fallback"
)

// Document categories accepted by the intake pipeline.
const (
	CategoryMedical = "medical"
	CategoryIncome  = "income"
)

// Document is an immutable binary attachment. Content is only populated on
// the write path; reads go through Ref.
type Document struct {
	ID               string
	FileName         string
	OriginalFilename string
	ContentType      string
	Category         string
	SizeBytes        int64
	Content          []byte
	CreatedAt        time.Time
}

// Ref points at a stored document. It is embedded in application records, so
// the JSON field names are part of the stored format.
type Ref struct {
	ID          string `json:"id"`
	Tier        string `json:"tier"`
	StorageKey  string `json:"storage_key"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Category    string `json:"category"`
	SizeBytes   int64  `json:"size_bytes"`
}

// SidecarMeta is the metadata record persisted next to each fallback-tier
// document. It carries enough to reconcile the document into the primary
// tier later.
type SidecarMeta struct {
	DocumentID       string    `json:"document_id"`
	OriginalFilename string    `json:"original_filename"`
	StoredFilename   string    `json:"stored_filename"`
	ContentType      string    `json:"content_type"`
	Category         string    `json:"category"`
	SizeBytes        int64     `json:"size_bytes"`
	SavedAt          time.Time `json:"saved_at"`
}
