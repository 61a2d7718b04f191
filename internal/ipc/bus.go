// Package ipc carries messages between the shell and the view. A single
// worker goroutine dispatches them in publish order, so every handler runs
// on the same loop and never concurrently with another handler.
package ipc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"phodit/internal/logger"
)

type Message struct {
	Channel   string
	Payload   interface{}
	Timestamp time.Time
}

type Handler func(msg Message)

// Sender is the write side of the bus, all the router needs.
type Sender interface {
	Send(channel string, payload interface{})
}

type subscription struct {
	id      uint64
	handler Handler
}

type Bus struct {
	subscribers map[string][]subscription
	mu          sync.RWMutex
	nextID      atomic.Uint64
	logger      logger.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup

	queueMu sync.Mutex
	queue   []Message
	notify  chan struct{}
}

// NewBus starts the worker. bufferSize is the initial queue capacity; the
// queue grows as needed.
func NewBus(bufferSize int, log logger.Logger) *Bus {
	ctx, cancel := context.WithCancel(context.Background())

	bus := &Bus{
		subscribers: make(map[string][]subscription),
		queue:       make([]Message, 0, bufferSize),
		notify:      make(chan struct{}, 1),
		logger:      log,
		ctx:         ctx,
		cancel:      cancel,
	}

	bus.startWorker()
	return bus
}

// Send queues a message and returns without waiting for the worker, so
// handlers may send on the bus they run on. Messages sent after Shutdown
// are dropped.
func (b *Bus) Send(channel string, payload interface{}) {
	if b.ctx.Err() != nil {
		return
	}

	msg := Message{Channel: channel, Payload: payload, Timestamp: time.Now()}

	b.queueMu.Lock()
	b.queue = append(b.queue, msg)
	b.queueMu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Subscribe registers handler for channel and returns an unsubscribe func.
func (b *Bus) Subscribe(channel string, handler Handler) func() {
	id := b.nextID.Add(1)

	b.mu.Lock()
	b.subscribers[channel] = append(b.subscribers[channel], subscription{id: id, handler: handler})
	b.mu.Unlock()

	return func() { b.unsubscribe(channel, id) }
}

func (b *Bus) unsubscribe(channel string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[channel]
	for i, s := range subs {
		if s.id == id {
			b.subscribers[channel] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Shutdown stops the worker after the message in flight, if any. Queued
// messages are discarded.
func (b *Bus) Shutdown() {
	b.cancel()
	b.wg.Wait()

	b.queueMu.Lock()
	b.queue = nil
	b.queueMu.Unlock()
}

func (b *Bus) startWorker() {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		for {
			select {
			case <-b.notify:
				b.drain()
			case <-b.ctx.Done():
				return
			}
		}
	}()
}

// drain dispatches queued messages in order, including those sent by the
// handlers it runs.
func (b *Bus) drain() {
	for b.ctx.Err() == nil {
		b.queueMu.Lock()
		if len(b.queue) == 0 {
			b.queueMu.Unlock()
			return
		}
		msg := b.queue[0]
		b.queue[0] = Message{}
		b.queue = b.queue[1:]
		b.queueMu.Unlock()

		b.dispatch(msg)
	}
}

func (b *Bus) dispatch(msg Message) {
	b.mu.RLock()
	handlers := make([]subscription, 0, len(b.subscribers[msg.Channel])+len(b.subscribers[Wildcard]))
	handlers = append(handlers, b.subscribers[msg.Channel]...)
	handlers = append(handlers, b.subscribers[Wildcard]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("Bus", "message without subscribers", map[string]interface{}{
			"channel": msg.Channel,
		})
		return
	}

	for _, s := range handlers {
		b.invoke(s.handler, msg)
	}
}

func (b *Bus) invoke(handler Handler, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Bus", fmt.Errorf("handler panic: %v", r), map[string]interface{}{
				"channel": msg.Channel,
			})
		}
	}()
	handler(msg)
}
