package events

import (
	"context"
	"sync"

	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

// Handler consumes a committed domain event. Handlers must not assume the
// event payload reflects current store state; re-read when freshness matters.
type Handler func(ctx context.Context, evt interfaces.Event)

// Bus is an in-process publish/subscribe registry for domain events. It is
// resolved at wiring time; there is no package-level instance.
//
// Synchronous mode delivers events inline with Dispatch. Asynchronous mode
// pushes events onto a single worker queue, which keeps emission order
// intact for events about the same entity.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   interfaces.Logger

	async   bool
	queue   chan dispatch
	done    chan struct{}
	closed  bool
	sending sync.WaitGroup
}

type dispatch struct {
	ctx context.Context
	evt interfaces.Event
}

// BusOption configures the bus at construction time.
type BusOption func(*Bus)

// WithLogger injects the logger used for delivery diagnostics.
func WithLogger(logger interfaces.Logger) BusOption {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithAsyncDelivery switches the bus to a single background worker. The
// queue depth bounds how many undelivered events may be outstanding.
func WithAsyncDelivery(depth int) BusOption {
	return func(b *Bus) {
		if depth <= 0 {
			depth = 64
		}
		b.async = true
		b.queue = make(chan dispatch, depth)
	}
}

// NewBus constructs an event bus. Callers running async delivery own the
// lifecycle and must Close the bus to stop the worker.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		handlers: make(map[string][]Handler),
		logger:   logging.NoOp(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.async {
		go b.run()
	}
	return b
}

// Subscribe registers a handler for an event kind. Registration order is
// delivery order within a kind.
func (b *Bus) Subscribe(kind string, handler Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], handler)
}

// Dispatch delivers the event to every subscribed handler. It satisfies
// interfaces.EventSink. Events dispatched concurrently with Close either
// enqueue before the drain or are dropped.
func (b *Bus) Dispatch(ctx context.Context, evt interfaces.Event) {
	if evt == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if !b.async {
		b.deliver(ctx, evt)
		return
	}

	// Register the send under the read lock so Close cannot close the queue
	// while a send is in flight.
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	b.sending.Add(1)
	b.mu.RUnlock()
	defer b.sending.Done()

	b.queue <- dispatch{ctx: ctx, evt: evt}
}

// Close stops the async worker after draining pending events. Synchronous
// buses close immediately.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	if !b.async {
		close(b.done)
		return
	}

	// In-flight sends registered before closed was set must land in the
	// queue before it is closed; the worker keeps draining meanwhile.
	b.sending.Wait()
	close(b.queue)
	<-b.done
}

func (b *Bus) run() {
	defer close(b.done)
	for d := range b.queue {
		b.deliver(d.ctx, d.evt)
	}
}

func (b *Bus) deliver(ctx context.Context, evt interfaces.Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[evt.Kind()]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("event handler panic", "kind", evt.Kind(), "panic", r)
				}
			}()
			handler(ctx, evt)
		}()
	}
}
