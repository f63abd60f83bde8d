// Package storage holds the blob store adapters.
package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"group-chat/domain"
	"group-chat/errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DiskBlobStore keeps uploaded files in a local directory and serves them over HTTP.
// Public ids are "{uuid}{ext}" so the extension survives for content negotiation.
type DiskBlobStore struct {
	log     *slog.Logger
	dir     string
	baseURL string
}

func NewDiskBlobStore(log *slog.Logger, dir, baseURL string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir %s: %w", dir, err)
	}
	return &DiskBlobStore{log: log, dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (d *DiskBlobStore) Upload(ctx context.Context, file domain.File) (domain.Blob, error) {
	if err := ctx.Err(); err != nil {
		return domain.Blob{}, err
	}
	detected := mimetype.Detect(file.Data)
	ext := strings.ToLower(path.Ext(file.Name))
	if ext == "" {
		ext = detected.Extension()
	}
	publicID := uuid.NewString() + ext

	target := filepath.Join(d.dir, publicID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, file.Data, 0o644); err != nil {
		return domain.Blob{}, fmt.Errorf("write blob %s: %w", publicID, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return domain.Blob{}, fmt.Errorf("commit blob %s: %w", publicID, err)
	}

	d.log.Debug("Blob stored", "public_id", publicID, "size", len(file.Data), "mime", detected.String())
	return domain.Blob{
		PublicID:    publicID,
		URL:         d.baseURL + "/" + publicID,
		ContentType: detected.String(),
	}, nil
}

// Delete removes the blobs. Unknown ids are ignored, invalid ids fail the call
// after the valid ones have been removed.
func (d *DiskBlobStore) Delete(ctx context.Context, publicIDs []string) error {
	var errs []error
	for _, publicID := range publicIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !validPublicID(publicID) {
			errs = append(errs, fmt.Errorf("%w: %q", errors.ErrInvalidBlobID, publicID))
			continue
		}
		err := os.Remove(filepath.Join(d.dir, publicID))
		if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("delete blob %s: %w", publicID, err))
		}
	}
	return stderrors.Join(errs...)
}

// Open returns the content of a stored blob.
func (d *DiskBlobStore) Open(publicID string) ([]byte, error) {
	if !validPublicID(publicID) {
		return nil, errors.ErrInvalidBlobID
	}
	data, err := os.ReadFile(filepath.Join(d.dir, publicID))
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.ErrBlobNotFound
	}
	return data, err
}

// Handler serves the stored blobs, the public id being the last path segment.
func (d *DiskBlobStore) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := d.Open(path.Base(r.URL.Path))
		switch {
		case stderrors.Is(err, errors.ErrInvalidBlobID), stderrors.Is(err, errors.ErrBlobNotFound):
			http.NotFound(w, r)
			return
		case err != nil:
			d.log.Error("Blob read failed", "path", r.URL.Path, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", mimetype.Detect(data).String())
		_, _ = w.Write(data)
	})
}

// validPublicID accepts "{uuid}{ext}" only, which rules out path traversal.
func validPublicID(publicID string) bool {
	ext := path.Ext(publicID)
	if _, err := uuid.Parse(strings.TrimSuffix(publicID, ext)); err != nil {
		return false
	}
	return !strings.ContainsAny(ext, `/\`)
}
