package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phodit/internal/ipc"
	"phodit/internal/logger"
)

type recordingSender struct {
	sent chan ipc.Message
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: make(chan ipc.Message, 16)}
}

func (r *recordingSender) Send(channel string, payload interface{}) {
	r.sent <- ipc.Message{Channel: channel, Payload: payload}
}

func expectChange(t *testing.T, r *recordingSender, root string) {
	t.Helper()
	select {
	case msg := <-r.sent:
		assert.Equal(t, ipc.PathChanged, msg.Channel)
		assert.Equal(t, root, msg.Payload)
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestWatcherReportsNewFile(t *testing.T) {
	root := t.TempDir()
	sender := newRecordingSender()
	w := New(sender, 20*time.Millisecond, logger.NoOpLogger{})
	defer w.Shutdown()

	require.NoError(t, w.Watch(root, []string{root}))
	assert.Equal(t, root, w.Root())

	require.NoError(t, os.WriteFile(filepath.Join(root, "new.md"), []byte("x"), 0644))
	expectChange(t, sender, root)
}

func TestWatcherReportsNestedRemoval(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "docs")
	require.NoError(t, os.Mkdir(sub, 0755))
	file := filepath.Join(sub, "a.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	sender := newRecordingSender()
	w := New(sender, 20*time.Millisecond, logger.NoOpLogger{})
	defer w.Shutdown()

	require.NoError(t, w.Watch(root, []string{root, sub}))
	require.NoError(t, os.Remove(file))
	expectChange(t, sender, root)
}

func TestWatcherStopSilences(t *testing.T) {
	root := t.TempDir()
	sender := newRecordingSender()
	w := New(sender, 20*time.Millisecond, logger.NoOpLogger{})

	require.NoError(t, w.Watch(root, nil))
	w.Stop()
	assert.Empty(t, w.Root())

	require.NoError(t, os.WriteFile(filepath.Join(root, "late.md"), nil, 0644))
	select {
	case msg := <-sender.sent:
		t.Fatalf("unexpected message after Stop: %v", msg)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcherMissingRoot(t *testing.T) {
	w := New(newRecordingSender(), 0, logger.NoOpLogger{})
	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "missing"), nil))
}

func TestRelevant(t *testing.T) {
	assert.True(t, relevant(fsnotify.Event{Name: "/p/a.md", Op: fsnotify.Create}))
	assert.True(t, relevant(fsnotify.Event{Name: "/p/a.md", Op: fsnotify.Rename}))
	assert.False(t, relevant(fsnotify.Event{Name: "/p/a.md", Op: fsnotify.Write}))
	assert.False(t, relevant(fsnotify.Event{Name: "/p/.DS_Store", Op: fsnotify.Create}))
}
