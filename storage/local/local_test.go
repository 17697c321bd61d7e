package local

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadReturnsServableURL(t *testing.T) {
	tmpdir := t.TempDir()
	store, err := New(tmpdir, "/uploads/")
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), "kitchen.jpg", bytes.NewReader([]byte("fake jpeg data")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, "_kitchen.jpg"))

	entries, err := os.ReadDir(tmpdir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(tmpdir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake jpeg data"), data)
}

func TestUploadSanitizesClientPaths(t *testing.T) {
	tmpdir := t.TempDir()
	store, err := New(tmpdir, "/uploads")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "../../etc/passwd", bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	// Nothing escaped the upload directory.
	entries, err := os.ReadDir(tmpdir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "_passwd"))
}

func TestUploadsGetDistinctNames(t *testing.T) {
	tmpdir := t.TempDir()
	store, err := New(tmpdir, "/uploads")
	require.NoError(t, err)

	url1, err := store.Upload(context.Background(), "a.jpg", bytes.NewReader([]byte("1")))
	require.NoError(t, err)
	url2, err := store.Upload(context.Background(), "a.jpg", bytes.NewReader([]byte("2")))
	require.NoError(t, err)

	assert.NotEqual(t, url1, url2)
}
