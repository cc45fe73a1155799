package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/novakeep/stakevault/internal/logger"
)

// retryEntry tracks an event moving through the retry queue
type retryEntry struct {
	event    Event
	attempts int
	lastErr  error
}

// ResilientPublisher wraps an event Bus with asynchronous retry and
// dead-letter handling. Publish failures never propagate to the caller;
// failed events are queued and retried with exponential backoff, then
// written to the dead-letter file once retries are exhausted.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter
	shutdown   chan struct{}
	wg         sync.WaitGroup
}

// NewResilientPublisher creates a publisher with a running retry worker.
// Callers own the returned publisher and must Shutdown it to flush the queue.
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	if bus == nil {
		return nil, errors.New("event bus is required")
	}
	if maxRetries < 0 {
		return nil, errors.New("maxRetries must not be negative")
	}

	deadLetter, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	p := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: deadLetter,
		shutdown:   make(chan struct{}),
	}

	p.wg.Add(1)
	go p.retryWorker()

	return p, nil
}

// PublishWithRetry attempts to publish the event. On failure the event is
// queued for background retry; the caller is never blocked on retries.
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := p.bus.Publish(ctx, event)
	if err == nil {
		return
	}

	logger.Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err)

	p.enqueue(retryEntry{event: event, attempts: 1, lastErr: err})
}

// enqueue adds an entry to the retry queue, dead-lettering immediately when
// the queue is full so publishers never block.
func (p *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case p.retryQueue <- entry:
	default:
		logger.Warn(LogMsgRetryQueueFull,
			"event_type", entry.event.Type,
			"attempts", entry.attempts)
		if err := p.deadLetter.Write(entry.event, entry.attempts, entry.lastErr); err != nil {
			logger.Error(LogMsgDeadLetterWriteFailed, "error", err)
		}
	}
}

// retryWorker processes the retry queue until shutdown, then drains what is
// left with one final attempt per entry.
func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.shutdown:
			p.drainQueue()
			return
		case entry := <-p.retryQueue:
			p.processRetry(entry)
		}
	}
}

// processRetry waits out the backoff for the entry's attempt count, retries
// the publish, and either requeues or dead-letters on failure.
func (p *ResilientPublisher) processRetry(entry retryEntry) {
	delay := CalculateRetryDelay(p.retryDelay, entry.attempts)

	select {
	case <-time.After(delay):
	case <-p.shutdown:
		// Skip the remaining backoff so shutdown is not held hostage
		// by a long delay; the entry still gets its attempt below.
	}

	// Detached context: the originating request is long gone by now
	err := p.bus.Publish(context.Background(), entry.event)
	if err == nil {
		logger.Info(LogMsgEventRetrySucceeded,
			"event_type", entry.event.Type,
			"attempt", entry.attempts)
		return
	}

	entry.attempts++
	entry.lastErr = err

	if entry.attempts > p.maxRetries {
		logger.Warn(LogMsgEventRetryExhausted,
			"event_type", entry.event.Type,
			"attempts", entry.attempts,
			"error", err)
		if werr := p.deadLetter.Write(entry.event, entry.attempts, err); werr != nil {
			logger.Error(LogMsgDeadLetterWriteFailed, "error", werr)
		}
		return
	}

	logger.Warn(LogMsgEventRetryFailed,
		"event_type", entry.event.Type,
		"attempt", entry.attempts,
		"error", err)
	p.enqueue(entry)
}

// drainQueue gives every queued entry one final publish attempt and
// dead-letters the rest.
func (p *ResilientPublisher) drainQueue() {
	drained := 0
	for {
		select {
		case entry := <-p.retryQueue:
			drained++
			if err := p.bus.Publish(context.Background(), entry.event); err != nil {
				logger.Warn(LogMsgEventDroppedShutdown,
					"event_type", entry.event.Type,
					"error", err)
				if werr := p.deadLetter.Write(entry.event, entry.attempts, err); werr != nil {
					logger.Error(LogMsgDeadLetterWriteFailedS, "error", werr)
				}
			}
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

// Shutdown stops the retry worker, drains pending retries, and closes the
// dead-letter file. Returns the context error if draining exceeds the deadline.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	close(p.shutdown)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return p.deadLetter.Close()
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
