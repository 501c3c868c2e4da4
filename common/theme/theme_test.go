package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	s := NewStore(path)

	require.NoError(t, s.Set(Dark))

	// A fresh store over the same file sees the value
	assert.Equal(t, Dark, NewStore(path).Get())
}

func TestStore_DefaultWhenMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, Default, s.Get())
}

func TestStore_DefaultWhenUnknownValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: neon\n"), 0o600))

	assert.Equal(t, Default, NewStore(path).Get())
}

func TestStore_DefaultWhenCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))

	assert.Equal(t, Default, NewStore(path).Get())
}

func TestStore_RejectsUnknownTheme(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "theme.yaml"))
	assert.Error(t, s.Set(Theme("neon")))
}
