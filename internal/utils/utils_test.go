package utils

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloSHA = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func TestSHA256(t *testing.T) {
	assert.Equal(t, helloSHA, SHA256Sum([]byte("hello world")))

	path := filepath.Join(t.TempDir(), "hello")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))
	sum, err := SHA256File(path)
	require.NoError(t, err)
	assert.Equal(t, helloSHA, sum)

	_, err = SHA256File(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestHashingWriter(t *testing.T) {
	var buf bytes.Buffer
	hw := NewHashingWriter(&buf)

	_, err := hw.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = hw.Write([]byte("world"))
	require.NoError(t, err)

	assert.Equal(t, "hello world", buf.String())
	assert.Equal(t, helloSHA, hw.Sum())
	assert.Equal(t, int64(11), hw.Written())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestHashingWriter_DoesNotHashUnwrittenBytes(t *testing.T) {
	hw := NewHashingWriter(failingWriter{})
	_, err := hw.Write([]byte("lost"))
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, SHA256Sum(nil), hw.Sum())
	assert.Zero(t, hw.Written())
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "512 B", HumanSize(512))
	assert.Equal(t, "1.5 KiB", HumanSize(1536))
	assert.Equal(t, "3.0 MiB", HumanSize(3*1024*1024))

	assert.Equal(t, "b94d27b9934d", ShortHash(helloSHA))
	assert.Equal(t, "abc", ShortHash("abc"))
	assert.Empty(t, ShortHash(""))

	assert.Equal(t, "fetched", StripANSI("\x1b[32mfetched\x1b[0m"))
}

func TestParseFetchURL(t *testing.T) {
	u, err := ParseFetchURL("https://purl.obolibrary.org/obo/ro.owl?x=1")
	require.NoError(t, err)
	assert.Equal(t, "purl.obolibrary.org", u.Hostname())

	_, err = ParseFetchURL("http://127.0.0.1:8080/a")
	assert.NoError(t, err)

	for _, bad := range []string{"ftp://x.org/a", "x.org/a", "https:///a", "://nope"} {
		_, err := ParseFetchURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "state.cache")
	tmp := final + ".tmp"

	require.NoError(t, os.WriteFile(final, []byte("old"), 0o644))
	require.NoError(t, WriteFileAtomic(tmp, final, strings.NewReader("new")))

	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	_, err = os.Stat(tmp)
	assert.True(t, os.IsNotExist(err))
}

func TestCommitFile_RemovesStagingOnFailure(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, "payload.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("x"), 0o644))

	err := CommitFile(tmp, filepath.Join(dir, "no", "such", "dir", "payload"))
	assert.Error(t, err)
	_, statErr := os.Stat(tmp)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "conf.yml")

	type conf struct {
		Name string `yaml:"name"`
	}
	require.NoError(t, CreateFile(path, conf{Name: "kegfetch"}, FileTypeYAML, 0o644))

	ok, err := FileExists(path)
	require.NoError(t, err)
	assert.True(t, ok)

	var got conf
	require.NoError(t, FileReader(path, FileTypeYAML, &got))
	assert.Equal(t, "kegfetch", got.Name)

	_, err = FileExists(dir)
	assert.Error(t, err, "a directory is not a file")

	removed, err := RemoveIfExists(path)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = RemoveIfExists(path)
	require.NoError(t, err)
	assert.False(t, removed)

	err = FileReader(path, FileTypeYAML, &got)
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Error(t, CreateFile(path, "text", FileTypeBinary, 0o644), "binary content must be []byte")
}

func TestFiles_UnsupportedType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")

	assert.ErrorContains(t, CreateFile(path, map[string]string{"a": "b"}, "json", 0o644), "unsupported file type")

	require.NoError(t, os.WriteFile(path, []byte(`{"a":"b"}`), 0o644))
	var got map[string]string
	assert.ErrorContains(t, FileReader(path, "json", &got), "unsupported file type")
}

func TestFilter(t *testing.T) {
	even := Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)
	assert.Empty(t, Filter([]int(nil), func(int) bool { return true }))
}
