package services_test

import (
	"context"
	"fmt"
	"group-chat/domain"
	"group-chat/mocks"
	"group-chat/services"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newAttachmentService(t *testing.T) (*services.AttachmentService, *mocks.MockBlobStore) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockBlobStore(ctrl)
	return services.NewAttachmentService(logs.GetLoggerFromLevel(slog.LevelError), store), store
}

func TestAttachmentService_Upload_Keeps_Input_Order(t *testing.T) {
	req := require.New(t)
	service, store := newAttachmentService(t)
	files := []domain.File{
		{Name: "slow.png"}, {Name: "b.pdf"}, {Name: "c.wav"}, {Name: "d"},
	}

	// Given the first upload finishes last
	store.EXPECT().Upload(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, file domain.File) (domain.Blob, error) {
			if file.Name == "slow.png" {
				time.Sleep(20 * time.Millisecond)
			}
			return domain.Blob{PublicID: "id-" + file.Name, URL: "u-" + file.Name}, nil
		}).Times(len(files))

	attachments, err := service.Upload(context.Background(), files)

	req.NoError(err)
	req.Equal([]domain.Attachment{
		{PublicID: "id-slow.png", URL: "u-slow.png", Kind: domain.KindImage},
		{PublicID: "id-b.pdf", URL: "u-b.pdf", Kind: domain.KindFile},
		{PublicID: "id-c.wav", URL: "u-c.wav", Kind: domain.KindAudio},
		{PublicID: "id-d", URL: "u-d", Kind: domain.KindFile},
	}, attachments)
}

func TestAttachmentService_Upload_Failure_Purges_Uploaded(t *testing.T) {
	req := require.New(t)
	service, store := newAttachmentService(t)
	files := []domain.File{{Name: "a.png"}, {Name: "broken.png"}}

	// Given the second upload fails
	store.EXPECT().Upload(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, file domain.File) (domain.Blob, error) {
			if file.Name == "broken.png" {
				return domain.Blob{}, fmt.Errorf("provider rejected the file")
			}
			return domain.Blob{PublicID: "id-a", URL: "u-a"}, nil
		}).Times(2)

	// Then only the stored blob is reclaimed
	store.EXPECT().Delete(gomock.Any(), []string{"id-a"}).Return(nil)

	attachments, err := service.Upload(context.Background(), files)

	req.ErrorContains(err, "broken.png")
	req.Nil(attachments)
}

func TestAttachmentService_Upload_Limits(t *testing.T) {
	req := require.New(t)
	service, _ := newAttachmentService(t)

	_, err := service.Upload(context.Background(), nil)
	req.ErrorIs(err, domain.ErrNoFiles)

	_, err = service.Upload(context.Background(), make([]domain.File, domain.MaxAttachments+1))
	req.ErrorIs(err, domain.ErrTooManyFiles)
}

func TestAttachmentService_Purge_Swallows_Errors(t *testing.T) {
	service, store := newAttachmentService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Purge outlives the caller context
	store.EXPECT().Delete(gomock.Any(), []string{"x", "y"}).DoAndReturn(
		func(ctx context.Context, _ []string) error {
			require.NoError(t, ctx.Err())
			return fmt.Errorf("provider unavailable")
		})

	service.Purge(ctx, []string{"x", "y"})
	service.Purge(ctx, nil)
}
