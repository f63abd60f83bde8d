//go:generate go run go.uber.org/mock/mockgen -source=attachment_service.go -destination=../mocks/mock_attachment_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"group-chat/contract"
	"group-chat/domain"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	uploadConcurrency = 3
	purgeTimeout      = 30 * time.Second
)

type IAttachmentService interface {
	Upload(ctx context.Context, files []domain.File) ([]domain.Attachment, error)
	Purge(ctx context.Context, publicIDs []string)
}

// AttachmentService pushes raw files to the blob store and reclaims them.
type AttachmentService struct {
	log      *slog.Logger
	store    contract.BlobStore
	maxFiles int
}

func NewAttachmentService(log *slog.Logger, store contract.BlobStore) *AttachmentService {
	return &AttachmentService{log: log, store: store, maxFiles: domain.MaxAttachments}
}

// Upload stores every file and returns their references in input order.
// It is all-or-nothing: if one upload fails, the blobs already stored are purged
// and no reference is returned.
func (s *AttachmentService) Upload(ctx context.Context, files []domain.File) ([]domain.Attachment, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoFiles
	}
	if len(files) > s.maxFiles {
		return nil, domain.ErrTooManyFiles
	}

	attachments := make([]domain.Attachment, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(uploadConcurrency)
	for i, file := range files {
		group.Go(func() error {
			blob, err := s.store.Upload(groupCtx, file)
			if err != nil {
				return fmt.Errorf("upload %q: %w", file.Name, err)
			}
			attachments[i] = domain.Attachment{
				PublicID: blob.PublicID,
				URL:      blob.URL,
				Kind:     domain.Classify(file.Name),
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		uploaded := lo.FilterMap(attachments, func(a domain.Attachment, _ int) (string, bool) {
			return a.PublicID, a.PublicID != ""
		})
		s.log.Warn("Attachment upload failed, discarding uploaded files",
			"files", len(files), "uploaded", len(uploaded), "error", err)
		s.Purge(ctx, uploaded)
		return nil, err
	}
	return attachments, nil
}

// Purge deletes blobs on a best-effort basis. Failures are logged, never returned:
// the metadata deletion that triggered the purge has already committed.
func (s *AttachmentService) Purge(ctx context.Context, publicIDs []string) {
	if len(publicIDs) == 0 {
		return
	}
	purgeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), purgeTimeout)
	defer cancel()

	if err := s.store.Delete(purgeCtx, publicIDs); err != nil {
		s.log.Error("Attachment purge failed", "count", len(publicIDs), "error", err)
		return
	}
	s.log.Debug("Attachments purged", "count", len(publicIDs))
}
