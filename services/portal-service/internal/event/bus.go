package event

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrBusFull   = errors.New("event bus is full")
	ErrBusClosed = errors.New("event bus is closed")
)

// BusConfig sizes the in-process queue.
type BusConfig struct {
	Buffer  int `env:"EVENT_BUFFER"  envDefault:"256"`
	Workers int `env:"EVENT_WORKERS" envDefault:"2"`
}

// Bus is a buffered, in-process Publisher. Publish never blocks; when the
// buffer is full the event is dropped and ErrBusFull returned.
type Bus struct {
	logger  *zerolog.Logger
	handler Handler
	queue   chan Event
	workers int

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewBus(logger *zerolog.Logger, handler Handler, cfg BusConfig) *Bus {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	return &Bus{
		logger:  logger,
		handler: handler,
		queue:   make(chan Event, cfg.Buffer),
		workers: cfg.Workers,
	}
}

// Start launches the delivery workers. They stop when Close drains the queue.
func (b *Bus) Start(ctx context.Context) {
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.work(ctx)
	}
}

func (b *Bus) Publish(_ context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.queue <- e:
		return nil
	default:
		return ErrBusFull
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()

	b.wg.Wait()
}

func (b *Bus) work(ctx context.Context) {
	defer b.wg.Done()

	for e := range b.queue {
		if err := b.handler.Handle(ctx, e); err != nil {
			b.logger.Error().Err(err).Str("event", string(e.EventType())).Msg("failed to handle event")
		}
	}
}
