package shell

import (
	"context"
	"errors"
	"sync"

	"phodit/internal/fsgate"
	"phodit/internal/ipc"
	"phodit/internal/settings"
	"phodit/internal/vcs"
)

type memStore struct {
	records map[string]settings.Record
	getErr  error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]settings.Record)}
}

func (m *memStore) Get(key string) (settings.Record, error) {
	if m.getErr != nil {
		return settings.Record{}, m.getErr
	}
	record, ok := m.records[key]
	if !ok {
		return record, settings.ErrNotFound
	}
	return record, nil
}

func (m *memStore) Set(key string, record settings.Record) error {
	m.records[key] = record
	return nil
}

func (m *memStore) Remove(key string) error {
	delete(m.records, key)
	return nil
}

func (m *memStore) has(key string) bool {
	_, ok := m.records[key]
	return ok
}

type recordingSender struct {
	mu   sync.Mutex
	sent []ipc.Message
}

func (r *recordingSender) Send(channel string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, ipc.Message{Channel: channel, Payload: payload})
}

func (r *recordingSender) channels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.sent))
	for i, m := range r.sent {
		out[i] = m.Channel
	}
	return out
}

func (r *recordingSender) last(channel string) (ipc.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.sent) - 1; i >= 0; i-- {
		if r.sent[i].Channel == channel {
			return r.sent[i], true
		}
	}
	return ipc.Message{}, false
}

type fakeWindow struct {
	title       string
	represented string
	recent      []string
}

func (f *fakeWindow) SetTitle(title string)          { f.title = title }
func (f *fakeWindow) SetRepresentedFile(path string) { f.represented = path }
func (f *fakeWindow) AddRecentDocument(path string)  { f.recent = append(f.recent, path) }

type fakeVCS struct {
	err   error
	calls []string
}

func (f *fakeVCS) Status(ctx context.Context, path string) (*vcs.Status, error) {
	f.calls = append(f.calls, path)
	if f.err != nil {
		return nil, f.err
	}
	return &vcs.Status{Path: path, Repository: true, Branch: "main", Clean: true}, nil
}

type fakeWatcher struct {
	root    string
	dirs    []string
	stopped bool
}

func (f *fakeWatcher) Watch(root string, dirs []string) error {
	f.root, f.dirs = root, dirs
	return nil
}

func (f *fakeWatcher) Stop() { f.stopped = true }

// countingFS records writes on top of the real filesystem.
type countingFS struct {
	fsgate.OS
	writes int
}

func (c *countingFS) WriteFile(path string, data []byte) error {
	c.writes++
	return c.OS.WriteFile(path, data)
}

var errStoreBroken = errors.New("store broken")
