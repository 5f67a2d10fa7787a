package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/house-marketplace/listing-service/internal/listing/domain"
)

// uploadTask tracks one image of a batch. The sequence index is the ordering
// contract for the final URL list: position 0 is always the cover image.
type uploadTask struct {
	index       int
	image       domain.ImagePayload
	total       int64
	transferred atomic.Int64
	url         string
	err         error
}

type MediaUploader struct {
	storage domain.ObjectStorage
	logger  *zap.Logger
}

func NewMediaUploader(storage domain.ObjectStorage, logger *zap.Logger) *MediaUploader {
	return &MediaUploader{storage: storage, logger: logger}
}

// UploadBatch is one atomic submission of up to 6 images. It is owned by a
// single coordinator invocation and discarded once Run resolves.
type UploadBatch struct {
	uploader *MediaUploader
	tasks    []*uploadTask
}

// NewBatch validates the batch size and builds one task per image, preserving
// submission order. Oversized batches are rejected before any upload starts.
func (u *MediaUploader) NewBatch(images []domain.ImagePayload) (*UploadBatch, error) {
	if len(images) > domain.MaxImages {
		return nil, domain.ErrBatchSizeExceeded
	}
	if len(images) < domain.MinImages {
		return nil, &domain.ValidationError{Field: "images", Reason: "must contain between 1 and 6 images"}
	}
	tasks := make([]*uploadTask, len(images))
	for i, img := range images {
		tasks[i] = &uploadTask{index: i, image: img, total: int64(len(img.Data))}
	}
	return &UploadBatch{uploader: u, tasks: tasks}, nil
}

// Progress folds the current snapshot of every task's byte counters into a
// batch-level percentage. Safe to poll while Run is in flight.
func (b *UploadBatch) Progress() float64 {
	var transferred, total int64
	for _, t := range b.tasks {
		transferred += t.transferred.Load()
		total += t.total
	}
	if total == 0 {
		return 0
	}
	return float64(transferred) / float64(total) * 100
}

// Run uploads all images concurrently and waits for every task. The batch is
// all-or-nothing: a single failure cancels the in-flight peers (best effort)
// and fails the whole batch with ErrPartialUploadFailure. Objects uploaded
// before the failure are left in place; keys carry a random suffix so a retry
// never collides with them. On success the URLs come back ordered by sequence
// index, never by completion order.
func (b *UploadBatch) Run(ctx context.Context, ownerID string) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for _, t := range b.tasks {
		wg.Add(1)
		go func(t *uploadTask) {
			defer wg.Done()
			b.uploader.runTask(ctx, ownerID, t)
			if t.err != nil {
				cancel()
			}
		}(t)
	}
	wg.Wait()

	urls := make([]string, len(b.tasks))
	for _, t := range b.tasks {
		if t.err != nil {
			b.uploader.logger.Warn("media batch failed",
				zap.Int("index", t.index),
				zap.String("file_name", t.image.FileName),
				zap.Error(t.err))
			return nil, fmt.Errorf("%w: image %d (%s): %w",
				domain.ErrPartialUploadFailure, t.index, t.image.FileName, t.err)
		}
		urls[t.index] = t.url
	}
	return urls, nil
}

func (u *MediaUploader) runTask(ctx context.Context, ownerID string, t *uploadTask) {
	key := objectKey(ownerID, t.image.FileName)
	url, err := u.storage.Upload(ctx, key, t.image.Data, t.image.ContentType, func(transferred, _ int64) {
		t.transferred.Store(transferred)
	})
	if err != nil {
		t.err = err
		return
	}
	t.transferred.Store(t.total)
	t.url = url
	u.logger.Debug("image uploaded", zap.Int("index", t.index), zap.String("key", key))
}

// objectKey builds a collision-resistant key from the owner id, the original
// file name and a random suffix, so re-submissions never overwrite earlier
// uploads of the same file.
func objectKey(ownerID, fileName string) string {
	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(filepath.Base(fileName), ext)
	return fmt.Sprintf("images/%s-%s-%s%s", ownerID, base, uuid.NewString(), ext)
}
