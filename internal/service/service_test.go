package service

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quietshelf/quietshelf-server/internal/sse"
	"github.com/quietshelf/quietshelf-server/internal/store"
)

// captureEmitter records emitted events for assertions.
type captureEmitter struct {
	mu     sync.Mutex
	events []sse.Event
}

func (e *captureEmitter) Emit(event any) {
	evt, ok := event.(sse.Event)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evt)
}

func (e *captureEmitter) all() []sse.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]sse.Event{}, e.events...)
}

func (e *captureEmitter) types() []sse.EventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	types := make([]sse.EventType, 0, len(e.events))
	for _, evt := range e.events {
		types = append(types, evt.Type)
	}
	return types
}

func setupTestServices(t *testing.T) (*store.Store, *captureEmitter, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "shelf-service-test-*")
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	testStore, err := store.New(filepath.Join(tmpDir, "data"), logger)
	require.NoError(t, err)

	emitter := &captureEmitter{}

	cleanup := func() {
		testStore.Close()
		os.RemoveAll(tmpDir)
	}
	return testStore, emitter, cleanup
}
