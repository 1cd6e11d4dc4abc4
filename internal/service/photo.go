package service

import (
	"context"
	"fmt"

	"livemusicnotes/internal/logging"
	"livemusicnotes/internal/metrics"
	"livemusicnotes/internal/queue"
	"livemusicnotes/internal/storage"
)

// deletePhoto removes key from store if it is there. A missing file is not
// an error.
func deletePhoto(ctx context.Context, store storage.PhotoStore, key, reason string) error {
	exists, err := store.Exists(ctx, key)
	if err != nil {
		metrics.PhotoDeleteFailures.WithLabelValues(reason).Inc()
		return fmt.Errorf("check photo %s: %w", key, err)
	}
	if !exists {
		return nil
	}
	if err := store.Delete(ctx, key); err != nil {
		metrics.PhotoDeleteFailures.WithLabelValues(reason).Inc()
		return err
	}
	metrics.PhotosDeleted.WithLabelValues(reason).Inc()
	return nil
}

// discardStaged removes a file written ahead of a database write that then
// failed. Failure only leaves an unreferenced file, so it is logged.
func discardStaged(ctx context.Context, store storage.PhotoStore, key string) {
	if err := deletePhoto(ctx, store, key, metrics.PhotoReasonStaged); err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("key", key).Msg("failed to discard staged photo")
	}
}

// releasePhoto deletes a photo no longer referenced by a committed row. If
// the delete fails the key goes to the cleanup stream for a later retry.
func releasePhoto(ctx context.Context, store storage.PhotoStore, publisher queue.Publisher, noteID int64, key, reason string) {
	err := deletePhoto(ctx, store, key, reason)
	if err == nil {
		return
	}

	logger := logging.FromContext(ctx)
	logger.Warn().Err(err).Str("key", key).Int64("note_id", noteID).Msg("failed to delete released photo")

	if publisher == nil {
		logger.Error().Str("key", key).Msg("no cleanup stream configured, photo left orphaned")
		return
	}
	if _, err := publisher.Publish(ctx, queue.StreamPhotos, queue.NewPhotoOrphanedEvent(key, noteID)); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("failed to queue orphaned photo")
		return
	}
	metrics.PhotosOrphaned.Inc()
}
