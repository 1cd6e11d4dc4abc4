package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the photo stream
const (
	EventPhotoOrphaned = "photo_orphaned"
)

// Stream names
const (
	StreamPhotos = "stream:photos"
)

// Consumer group name for photo cleanup workers
const (
	ConsumerGroupPhotoCleanup = "photo_cleanup"
)

// PhotoEvent is published when a stored photo needs attention after the
// database write that released it has already committed.
type PhotoEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	Key     string `json:"key"`               // storage key of the photo
	NoteID  int64  `json:"note_id,omitempty"` // note that last referenced the photo
	Attempt int    `json:"attempt"`           // deliveries so far, starting at 1
}

// MaxAttempts bounds how often a failing event is re-queued.
const MaxAttempts = 5

// NewPhotoOrphanedEvent records a photo whose delete failed after its note
// stopped referencing it.
func NewPhotoOrphanedEvent(key string, noteID int64) PhotoEvent {
	return PhotoEvent{
		Type:      EventPhotoOrphaned,
		Timestamp: time.Now().Unix(),
		Key:       key,
		NoteID:    noteID,
		Attempt:   1,
	}
}

// Retry returns a copy of e for re-publishing after a failed attempt.
// ok is false once MaxAttempts is reached.
func (e PhotoEvent) Retry() (next PhotoEvent, ok bool) {
	if e.Attempt >= MaxAttempts {
		return e, false
	}
	next = e
	next.Attempt++
	next.Timestamp = time.Now().Unix()
	return next, true
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so the event is JSON in a "data" field.
func (e PhotoEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParsePhotoEvent parses a PhotoEvent from Redis stream message values.
func ParsePhotoEvent(values map[string]interface{}) (PhotoEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return PhotoEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event PhotoEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return PhotoEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if event.Key == "" {
		return PhotoEvent{}, fmt.Errorf("event has no photo key")
	}
	return event, nil
}
