package memory

import (
	"os"
	"sync"
)

var (
	defaultMu       sync.Mutex
	defaultAccessor *Accessor
)

// Default returns the process wide accessor for DefaultPath, or for the file
// named by EnvMemoryFile if that is set. The variable is read on every call;
// when it names another file a new accessor replaces the old one, which
// stays usable for whoever still holds it.
//
// The returned accessor is shared mutable state. Callers using it from more
// than one goroutine have to serialise their calls, including the
// SuggestLeaveOpen/SuggestClose batches.
func Default() *Accessor {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	path := os.Getenv(EnvMemoryFile)
	if path == "" {
		path = DefaultPath
	}

	if defaultAccessor == nil || defaultAccessor.path != path {
		// Default options always produce a valid accessor.
		defaultAccessor, _ = New(path)
	}

	return defaultAccessor
}

// SuggestLeaveOpen calls SuggestLeaveOpen on the Default accessor.
func SuggestLeaveOpen() {
	Default().SuggestLeaveOpen()
}

// SuggestClose calls SuggestClose on the Default accessor.
func SuggestClose() {
	Default().SuggestClose()
}
