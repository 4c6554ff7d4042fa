// Package publisher delivers audit events to a primary sink such as Kafka,
// optionally off the request path, and diverts them to a fallback sink while
// the primary is failing.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	audit "neuroaccess/pkg/platform/audit"
)

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("audit publisher closed")

type Publisher struct {
	sink     audit.Publisher
	fallback audit.Publisher
	breaker  *breaker
	logger   *slog.Logger
	timeout  time.Duration

	inbox   chan audit.Event
	wg      sync.WaitGroup
	closeMu sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

type Option func(*Publisher)

// WithAsyncBuffer queues events for a background worker instead of delivering
// them inline. A full queue drops the event.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.inbox = make(chan audit.Event, size)
		}
	}
}

// WithFallback receives events the primary sink could not take.
func WithFallback(fallback audit.Publisher) Option {
	return func(p *Publisher) {
		p.fallback = fallback
	}
}

// WithBreaker opens after threshold consecutive sink failures and skips the
// sink for cooldown.
func WithBreaker(threshold int, cooldown time.Duration) Option {
	return func(p *Publisher) {
		p.breaker = newBreaker(threshold, cooldown, p.breaker.now)
	}
}

// WithClock replaces the breaker clock.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.breaker.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(sink audit.Publisher, opts ...Option) *Publisher {
	p := &Publisher{
		sink:    sink,
		breaker: newBreaker(0, 0, time.Now),
		logger:  slog.Default(),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit delivers or queues the event.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	if p.inbox == nil {
		return p.deliver(ctx, event)
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		p.dropped.Add(1)
		p.logger.WarnContext(ctx, "audit queue full, event dropped", "event", event.Action)
		return nil
	}
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.inbox {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		_ = p.deliver(ctx, event)
		cancel()
	}
}

func (p *Publisher) deliver(ctx context.Context, event audit.Event) error {
	if !p.breaker.allow() {
		return p.divert(ctx, event, nil)
	}
	err := p.sink.Emit(ctx, event)
	if err == nil {
		p.breaker.success()
		return nil
	}
	if p.breaker.failure() {
		p.logger.ErrorContext(ctx, "audit sink failing, diverting events", "error", err)
	}
	return p.divert(ctx, event, err)
}

func (p *Publisher) divert(ctx context.Context, event audit.Event, cause error) error {
	if p.fallback == nil {
		if cause == nil {
			p.dropped.Add(1)
			return nil
		}
		return cause
	}
	return p.fallback.Emit(ctx, event)
}

// Dropped returns how many events were discarded.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Degraded reports whether the primary sink is currently bypassed.
func (p *Publisher) Degraded() bool {
	return p.breaker.isOpen()
}

// Close stops accepting events and drains the queue.
func (p *Publisher) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	if p.inbox != nil {
		close(p.inbox)
	}
	p.closeMu.Unlock()
	p.wg.Wait()
}
