package ipc

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phodit/internal/logger"
)

func collect(t *testing.T, bus *Bus, channel string, n int) <-chan []Message {
	t.Helper()
	out := make(chan []Message, 1)
	var (
		mu  sync.Mutex
		got []Message
	)
	bus.Subscribe(channel, func(msg Message) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg)
		if len(got) == n {
			out <- append([]Message(nil), got...)
		}
	})
	return out
}

func waitFor(t *testing.T, ch <-chan []Message) []Message {
	t.Helper()
	select {
	case msgs := <-ch:
		return msgs
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for messages")
		return nil
	}
}

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus(4, logger.NoOpLogger{})
	defer bus.Shutdown()

	done := collect(t, bus, SaveFile, 10)
	for i := 0; i < 10; i++ {
		bus.Send(SaveFile, i)
	}

	msgs := waitFor(t, done)
	for i, msg := range msgs {
		assert.Equal(t, i, msg.Payload)
		assert.Equal(t, SaveFile, msg.Channel)
		assert.False(t, msg.Timestamp.IsZero())
	}
}

func TestBusWildcardSeesEveryChannel(t *testing.T) {
	bus := NewBus(8, logger.NoOpLogger{})
	defer bus.Shutdown()

	done := collect(t, bus, Wildcard, 2)
	bus.Send(OpenFile, "/a.md")
	bus.Send(GitStatus, nil)

	msgs := waitFor(t, done)
	assert.Equal(t, OpenFile, msgs[0].Channel)
	assert.Equal(t, GitStatus, msgs[1].Channel)
}

func TestBusHandlersNeverOverlap(t *testing.T) {
	bus := NewBus(16, logger.NoOpLogger{})
	defer bus.Shutdown()

	var active, maxActive int
	var mu sync.Mutex
	done := make(chan struct{})
	count := 0

	handler := func(Message) {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()

		time.Sleep(time.Millisecond)

		mu.Lock()
		active--
		count++
		if count == 20 {
			close(done)
		}
		mu.Unlock()
	}
	bus.Subscribe(OpenFile, handler)
	bus.Subscribe(SaveFile, handler)

	for i := 0; i < 10; i++ {
		bus.Send(OpenFile, i)
		bus.Send(SaveFile, i)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
	assert.Equal(t, 1, maxActive)
}

func TestBusUnsubscribeAndPanicRecovery(t *testing.T) {
	bus := NewBus(8, logger.NoOpLogger{})
	defer bus.Shutdown()

	unsubscribe := bus.Subscribe(OpenFile, func(Message) { panic("boom") })
	done := collect(t, bus, OpenFile, 1)

	bus.Send(OpenFile, "first")
	msgs := waitFor(t, done)
	require.Len(t, msgs, 1)

	unsubscribe()
	bus.mu.RLock()
	assert.Len(t, bus.subscribers[OpenFile], 1)
	bus.mu.RUnlock()
}

func TestBusSendAfterShutdownIsDropped(t *testing.T) {
	bus := NewBus(1, logger.NoOpLogger{})
	bus.Shutdown()

	finished := make(chan struct{})
	go func() {
		bus.Send(OpenFile, "late")
		bus.Send(OpenFile, "later")
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Send blocked after Shutdown")
	}
}

func TestBusHandlerCanSendOnItsOwnBus(t *testing.T) {
	bus := NewBus(1, logger.NoOpLogger{})
	defer bus.Shutdown()

	bus.Subscribe(OpenFile, func(msg Message) {
		bus.Send(GitStatus, msg.Payload)
		bus.Send(PathOpened, msg.Payload)
	})
	done := collect(t, bus, Wildcard, 9)

	for i := 0; i < 3; i++ {
		bus.Send(OpenFile, i)
	}

	msgs := waitFor(t, done)
	require.Len(t, msgs, 9)

	// Replies follow the message that caused them, in the order sent.
	seen := make(map[interface{}][]string)
	for _, msg := range msgs {
		seen[msg.Payload] = append(seen[msg.Payload], msg.Channel)
	}
	for i := 0; i < 3; i++ {
		assert.Equal(t, []string{OpenFile, GitStatus, PathOpened}, seen[i])
	}
}
