package shutdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"phodit/internal/logger"
)

func TestShutdownRunsInReverseOrderOnce(t *testing.T) {
	m := NewManager(logger.NoOpLogger{})
	var order []string

	m.Register("bus", Func(func() { order = append(order, "bus") }))
	m.Register("watcher", Func(func() { order = append(order, "watcher") }))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []string{"watcher", "bus"}, order)
	assert.Error(t, m.Context().Err())

	select {
	case <-m.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestShutdownStepTimeout(t *testing.T) {
	m := NewManager(logger.NoOpLogger{})
	m.stepTimeout = 20 * time.Millisecond

	block := make(chan struct{})
	defer close(block)
	ran := false

	m.Register("first", Func(func() { ran = true }))
	m.Register("stuck", Func(func() { <-block }))

	start := time.Now()
	m.Shutdown()

	assert.True(t, ran)
	assert.Less(t, time.Since(start), time.Second)
}
