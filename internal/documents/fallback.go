package documents

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"benefitflow-backend/internal/shared/util"
)

const sidecarSuffix = ".meta.json"

// FallbackTier stores documents on local disk. Each stored document is a
// pair: the content file under a synthesized collision-free name, and a
// sidecar metadata record next to it.
type FallbackTier struct {
	baseDir string
}

// NewFallbackTier creates a fallback tier rooted at baseDir.
func NewFallbackTier(baseDir string) *FallbackTier {
	return &FallbackTier{baseDir: baseDir}
}

// Put writes the document and its sidecar. The content write is
// all-or-nothing: it lands under a temp name and is renamed into place.
func (t *FallbackTier) Put(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sanitized, err := util.SanitizeFileName(doc.FileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	storageKey := fmt.Sprintf("%s_%s", randomID(), sanitized)

	if err := os.MkdirAll(t.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	fullPath := filepath.Join(t.baseDir, storageKey)
	tmpPath := fullPath + ".tmp"
	if err := os.WriteFile(tmpPath, doc.Content, 0o644); err != nil {
		return "", fmt.Errorf("write content: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("finalize content: %w", err)
	}

	meta := SidecarMeta{
		DocumentID:       doc.ID,
		OriginalFilename: doc.OriginalFilename,
		StoredFilename:   storageKey,
		ContentType:      doc.ContentType,
		Category:         doc.Category,
		SizeBytes:        doc.SizeBytes,
		SavedAt:          time.Now().UTC(),
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err == nil {
		err = os.WriteFile(fullPath+sidecarSuffix, data, 0o644)
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("write sidecar: %w", err)
	}

	return storageKey, nil
}

// Get reads the content for a storage key.
func (t *FallbackTier) Get(ctx context.Context, storageKey string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := t.resolve(storageKey)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return content, nil
}

// List returns the sidecar records of every document currently held on the
// fallback tier.
func (t *FallbackTier) List(ctx context.Context) ([]SidecarMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(t.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out []SidecarMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), sidecarSuffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(t.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var meta SidecarMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		out = append(out, meta)
	}
	return out, nil
}

// Remove deletes a stored document and its sidecar.
func (t *FallbackTier) Remove(ctx context.Context, storageKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := t.resolve(storageKey)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.Remove(fullPath + sidecarSuffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (t *FallbackTier) resolve(storageKey string) (string, error) {
	clean := filepath.Clean(storageKey)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(t.baseDir, clean), nil
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
