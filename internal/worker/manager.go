package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"livemusicnotes/internal/logging"
	"livemusicnotes/internal/queue"
)

const (
	// DefaultWorkerCount is the default number of worker goroutines
	DefaultWorkerCount = 1

	// DefaultBatchSize is the number of messages to read per batch
	DefaultBatchSize = 10

	// DefaultBlockTimeout is how long to block waiting for new messages
	DefaultBlockTimeout = 5 * time.Second
)

// EventHandler handles one decoded event.
type EventHandler interface {
	HandleEvent(ctx context.Context, event queue.PhotoEvent) error
}

// Manager orchestrates worker goroutines that consume the photo stream.
type Manager struct {
	consumer    queue.Consumer
	publisher   queue.Publisher
	handler     EventHandler
	workerCount int
	batchSize   int64
	blockTime   time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ManagerConfig holds configuration for the worker manager.
type ManagerConfig struct {
	WorkerCount  int           // Number of worker goroutines
	BatchSize    int64         // Messages per read
	BlockTimeout time.Duration // Block time for XREADGROUP
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		WorkerCount:  DefaultWorkerCount,
		BatchSize:    DefaultBatchSize,
		BlockTimeout: DefaultBlockTimeout,
	}
}

// NewManager creates a new worker manager. Failed events are re-published
// through publisher until queue.MaxAttempts.
func NewManager(consumer queue.Consumer, publisher queue.Publisher, handler EventHandler, cfg ManagerConfig) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}

	return &Manager{
		consumer:    consumer,
		publisher:   publisher,
		handler:     handler,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		blockTime:   cfg.BlockTimeout,
	}
}

// Start begins the worker goroutines.
// Call Stop() to gracefully shut down.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	if err := m.consumer.EnsureGroup(m.ctx, queue.StreamPhotos, queue.ConsumerGroupPhotoCleanup); err != nil {
		m.cancel()
		return err
	}

	for i := 0; i < m.workerCount; i++ {
		workerID := i + 1
		m.wg.Add(1)
		go m.runWorker(workerID, consumerNameForWorker(workerID))
	}

	logging.Component("worker").Info().
		Int("workers", m.workerCount).
		Str("stream", queue.StreamPhotos).
		Str("group", queue.ConsumerGroupPhotoCleanup).
		Msg("workers started")
	return nil
}

// Stop gracefully shuts down all workers.
// Blocks until all workers have finished.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()
	logging.Component("worker").Info().Msg("workers stopped")
}

// runWorker is the main loop for a single worker goroutine.
func (m *Manager) runWorker(workerID int, consumerName string) {
	defer m.wg.Done()

	// Messages left un-acked by a previous run (crash recovery)
	m.processPending(workerID, consumerName)

	for {
		select {
		case <-m.ctx.Done():
			return
		default:
			m.processMessages(workerID, consumerName)
		}
	}
}

// processPending handles messages that were delivered but not acknowledged.
func (m *Manager) processPending(workerID int, consumerName string) {
	logger := logging.Component("worker").With().Int("worker", workerID).Logger()

	for {
		messages, err := m.consumer.ReadPending(m.ctx, queue.StreamPhotos, queue.ConsumerGroupPhotoCleanup, consumerName, m.batchSize)
		if err != nil {
			logger.Error().Err(err).Msg("read pending failed")
			return
		}
		if len(messages) == 0 {
			return
		}

		logger.Info().Int("count", len(messages)).Msg("processing pending messages")
		m.handleMessages(workerID, messages)
	}
}

// processMessages reads and handles a batch of messages.
func (m *Manager) processMessages(workerID int, consumerName string) {
	messages, err := m.consumer.Read(
		m.ctx,
		queue.StreamPhotos,
		queue.ConsumerGroupPhotoCleanup,
		consumerName,
		m.batchSize,
		m.blockTime,
	)
	if err != nil {
		if m.ctx.Err() != nil {
			return
		}
		logging.Component("worker").Error().Err(err).Int("worker", workerID).Msg("read failed")
		select {
		case <-m.ctx.Done():
		case <-time.After(time.Second): // back off
		}
		return
	}

	m.handleMessages(workerID, messages)
}

// handleMessages processes a batch of messages and acknowledges each one.
// A failed event is re-queued as a new message before the original is acked.
func (m *Manager) handleMessages(workerID int, messages []queue.Message) {
	logger := logging.Component("worker").With().Int("worker", workerID).Logger()

	for _, msg := range messages {
		if msg.Err != nil {
			logger.Warn().Err(msg.Err).Str("msg_id", msg.ID).Msg("dropping malformed message")
		} else if err := m.handler.HandleEvent(m.ctx, msg.Event); err != nil {
			m.retry(msg.Event)
		}

		if err := m.consumer.Ack(m.ctx, queue.StreamPhotos, queue.ConsumerGroupPhotoCleanup, msg.ID); err != nil {
			logger.Error().Err(err).Str("msg_id", msg.ID).Msg("ack failed")
		}
	}
}

func (m *Manager) retry(event queue.PhotoEvent) {
	logger := logging.Component("worker")

	next, ok := event.Retry()
	if !ok || m.publisher == nil {
		logger.Error().Str("key", event.Key).Int("attempt", event.Attempt).Msg("giving up on photo event")
		return
	}
	if _, err := m.publisher.Publish(m.ctx, queue.StreamPhotos, next); err != nil {
		logger.Error().Err(err).Str("key", event.Key).Msg("re-queue failed")
	}
}

// consumerNameForWorker generates a unique consumer name for each worker.
func consumerNameForWorker(workerID int) string {
	return fmt.Sprintf("cleanup-%d", workerID)
}
