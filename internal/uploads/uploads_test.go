package uploads

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveStoresPNG(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(dir, 1<<20)
	require.NoError(t, err)

	data := pngBytes(t)
	name, err := s.Save(bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestSaveRejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(dir, 1<<20)
	require.NoError(t, err)

	_, err = s.Save(strings.NewReader("<html><script>alert(1)</script></html>"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveRejectsOversize(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 16)
	require.NoError(t, err)

	_, err = s.Save(bytes.NewReader(pngBytes(t)))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestSaveRejectsEmpty(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 16)
	require.NoError(t, err)

	_, err = s.Save(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(dir, 1<<20)
	require.NoError(t, err)

	name, err := s.Save(bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	s.Remove(name, "missing.png")
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))
}
