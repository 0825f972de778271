package memory

import "testing"

func TestDefault(t *testing.T) {
	defaultMu.Lock()
	saved := defaultAccessor
	defaultAccessor = nil
	defaultMu.Unlock()
	t.Cleanup(func() {
		defaultMu.Lock()
		defaultAccessor = saved
		defaultMu.Unlock()
	})

	t.Setenv(EnvMemoryFile, "")
	a := Default()
	if a.Path() != DefaultPath {
		t.Errorf("Default().Path() = %q, want %q", a.Path(), DefaultPath)
	}
	if Default() != a {
		t.Error("Default() returned a new accessor for the same path")
	}

	t.Setenv(EnvMemoryFile, "/tmp/first.img")
	b := Default()
	if b.Path() != "/tmp/first.img" {
		t.Errorf("Default().Path() = %q after changing %s", b.Path(), EnvMemoryFile)
	}
	if Default() != b {
		t.Error("Default() returned a new accessor for the same path")
	}

	t.Setenv(EnvMemoryFile, "")
	if got := Default().Path(); got != DefaultPath {
		t.Errorf("Default().Path() = %q after clearing %s, want %q", got, EnvMemoryFile, DefaultPath)
	}
}
