package image

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vmukit/vmufuse/internal/vmufs"
)

func TestLoadRejectsWrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0644))

	_, err := Load(path)
	require.ErrorIs(t, err, vmufs.ErrBadImage)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.bin"))
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs := vmufs.Format(time.Now())
	fs.Serialize()

	path := filepath.Join(t.TempDir(), "card.bin")
	require.NoError(t, Save(path, fs.Image()))

	data, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, fs.Image(), data)

	_, err = vmufs.ReadFS(data)
	require.NoError(t, err)
}

func TestSaveReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, vmufs.ImageSize), 0644))

	fs := vmufs.Format(time.Now())
	fs.Serialize()
	require.NoError(t, Save(path, fs.Image()))

	data, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, fs.Image(), data)

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
