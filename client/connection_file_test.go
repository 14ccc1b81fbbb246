package client

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConnectionFile(t *testing.T, root, fileName, content string) string {
	dir := filepath.Join(root, ConnectionDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, fileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadConnectionFile(t *testing.T) {
	root := t.TempDir()
	path := writeConnectionFile(t, root, "sbt.json",
		`{"name":"sbt","version":"1.9.0","bspVersion":"2.1.0","languages":["scala","java"],"argv":["sbt","-bsp"]}`)

	details, err := ReadConnectionFile(path)
	require.NoError(t, err)
	assert.Equal(t, ConnectionDetails{
		Name:       "sbt",
		Version:    "1.9.0",
		BspVersion: "2.1.0",
		Languages:  []string{"scala", "java"},
		Argv:       []string{"sbt", "-bsp"},
	}, details)
}

func TestReadConnectionFileRequiresNameAndArgv(t *testing.T) {
	root := t.TempDir()
	for _, content := range []string{`{"argv":["x"]}`, `{"name":"x"}`, `{"name":"x","argv":[]}`, `not json`} {
		path := writeConnectionFile(t, root, "bad.json", content)
		_, err := ReadConnectionFile(path)
		assert.Error(t, err, content)
	}
}

func TestDiscoverConnectionFiles(t *testing.T) {
	root := t.TempDir()
	writeConnectionFile(t, root, "b.json", `{"name":"second","argv":["b"]}`)
	writeConnectionFile(t, root, "a.json", `{"name":"first","argv":["a"]}`)
	writeConnectionFile(t, root, "broken.json", `{}`)
	writeConnectionFile(t, root, "notes.txt", `ignored`)

	files, err := DiscoverConnectionFiles(root)
	assert.Error(t, err) // for broken.json
	require.Len(t, files, 2)
	assert.Equal(t, "first", files[0].Details.Name)
	assert.Equal(t, "second", files[1].Details.Name)
}

func TestDiscoverConnectionFilesWithoutDirectory(t *testing.T) {
	_, err := DiscoverConnectionFiles(t.TempDir())
	assert.True(t, errors.Is(err, ErrNoConnectionFile))
}

func TestFindConnectionFile(t *testing.T) {
	root := t.TempDir()
	writeConnectionFile(t, root, "a.json", `{"name":"first","argv":["a"]}`)
	bPath := writeConnectionFile(t, root, "b.json", `{"name":"second","argv":["b"]}`)

	for _, name := range []string{"", "a", "a.json", "first"} {
		f, err := FindConnectionFile(root, name)
		require.NoError(t, err, name)
		assert.Equal(t, "first", f.Details.Name, name)
	}
	for _, name := range []string{"b", "second", bPath} {
		f, err := FindConnectionFile(root, name)
		require.NoError(t, err, name)
		assert.Equal(t, "second", f.Details.Name, name)
	}

	_, err := FindConnectionFile(root, "third")
	assert.True(t, errors.Is(err, ErrNoConnectionFile))
}
