package watcher

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

// TestIsRelevant filters by extension and operation.
func TestIsRelevant(t *testing.T) {
	t.Parallel()

	require.True(t, isRelevant(fsnotify.Event{Name: "src/main.c", Op: fsnotify.Write}))
	require.True(t, isRelevant(fsnotify.Event{Name: "include/hello.h", Op: fsnotify.Create}))
	require.True(t, isRelevant(fsnotify.Event{Name: "src/hello.c", Op: fsnotify.Remove}))

	require.False(t, isRelevant(fsnotify.Event{Name: "src/main.c", Op: fsnotify.Chmod}))
	require.False(t, isRelevant(fsnotify.Event{Name: "build/obj/main.o", Op: fsnotify.Write}))
	require.False(t, isRelevant(fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}))
}
