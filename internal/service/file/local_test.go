package file

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndOpen(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage(t.TempDir())

	path, err := s.Save(ctx, &SaveRequest{Path: "nested/dir/out.json", Reader: strings.NewReader(`[1,2]`)})
	require.NoError(t, err)
	assert.True(t, s.Exists("nested/dir/out.json"))

	rc, err := s.Open(ctx, "nested/dir/out.json")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	// 不应残留临时文件
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestLocalStorage_SaveFailureKeepsOldFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocalStorage(dir)

	_, err := s.Save(ctx, &SaveRequest{Path: "out.json", Reader: strings.NewReader("old")})
	require.NoError(t, err)

	_, err = s.Save(ctx, &SaveRequest{Path: "out.json", Reader: failingReader{}})
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStorage_SaveEmptyPath(t *testing.T) {
	s := NewLocalStorage("")
	_, err := s.Save(context.Background(), &SaveRequest{Reader: strings.NewReader("x")})
	assert.Error(t, err)
}

func TestLocalStorage_Exists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocalStorage("")

	assert.False(t, s.Exists(filepath.Join(dir, "nope.json")))
	assert.False(t, s.Exists(dir), "directories are not files")

	abs := filepath.Join(dir, "a.json")
	_, err := s.Save(ctx, &SaveRequest{Path: abs, Reader: strings.NewReader("[]")})
	require.NoError(t, err)
	assert.True(t, s.Exists(abs))
}

func TestLocalStorage_OpenMissing(t *testing.T) {
	_, err := NewLocalStorage(t.TempDir()).Open(context.Background(), "missing.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
