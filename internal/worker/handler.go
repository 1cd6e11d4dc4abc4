package worker

import (
	"context"
	"fmt"
	"time"

	"livemusicnotes/internal/logging"
	"livemusicnotes/internal/metrics"
	"livemusicnotes/internal/queue"
	"livemusicnotes/internal/storage"
)

// ReferenceChecker reports whether any note still points at a photo key.
// Implemented by repository.NoteRepository.
type ReferenceChecker interface {
	IsPhotoReferenced(ctx context.Context, key string) (bool, error)
}

// Handler processes photo events from the queue.
type Handler struct {
	store storage.PhotoStore
	refs  ReferenceChecker
}

// NewHandler creates a new event handler.
func NewHandler(store storage.PhotoStore, refs ReferenceChecker) *Handler {
	return &Handler{store: store, refs: refs}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.PhotoEvent) error {
	logger := logging.Component("worker")
	startTime := time.Now()

	var err error
	switch event.Type {
	case queue.EventPhotoOrphaned:
		err = h.handlePhotoOrphaned(ctx, event)
	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		logger.Warn().Err(err).
			Str("type", event.Type).
			Str("key", event.Key).
			Int("attempt", event.Attempt).
			Dur("duration", time.Since(startTime)).
			Msg("handle event failed")
		return err
	}

	logger.Debug().Str("type", event.Type).Str("key", event.Key).Dur("duration", time.Since(startTime)).Msg("handled event")
	return nil
}

// handlePhotoOrphaned deletes a released photo. A key that a note points at
// again (or still) is left alone, and a key already gone is done.
func (h *Handler) handlePhotoOrphaned(ctx context.Context, event queue.PhotoEvent) error {
	referenced, err := h.refs.IsPhotoReferenced(ctx, event.Key)
	if err != nil {
		return fmt.Errorf("check references: %w", err)
	}
	if referenced {
		logging.Component("worker").Info().Str("key", event.Key).Msg("photo is referenced again, keeping it")
		return nil
	}

	exists, err := h.store.Exists(ctx, event.Key)
	if err != nil {
		return fmt.Errorf("check photo exists: %w", err)
	}
	if !exists {
		return nil
	}

	if err := h.store.Delete(ctx, event.Key); err != nil {
		metrics.PhotoDeleteFailures.WithLabelValues(metrics.PhotoReasonCleanup).Inc()
		return fmt.Errorf("delete photo: %w", err)
	}
	metrics.PhotosDeleted.WithLabelValues(metrics.PhotoReasonCleanup).Inc()
	return nil
}
