package record

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/kegfetch/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

func sampleRecord() Record {
	return Record{
		SHA256: "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		ETag:   `"5d8c72a5edda8"`,
		Time:   time.Date(2026, 10, 17, 8, 12, 44, 0, time.UTC),
	}
}

func TestEncode_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleRecord().Encode(&buf))

	want := "sha256: 9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08\n" +
		"etag: \"5d8c72a5edda8\"\n" +
		"time: Sat, 17 Oct 2026 08:12:44 GMT\n"
	assert.Equal(t, want, buf.String())
}

func TestEncode_OmitsUnsetFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Record{SHA256: "abc"}.Encode(&buf))
	assert.Equal(t, "sha256: abc\n", buf.String())

	buf.Reset()
	require.NoError(t, Record{}.Encode(&buf))
	assert.Empty(t, buf.String())
}

func TestEncode_NormalizesToUTC(t *testing.T) {
	paris := time.FixedZone("CEST", 2*60*60)
	r := Record{Time: time.Date(2026, 10, 17, 10, 12, 44, 0, paris)}

	var buf bytes.Buffer
	require.NoError(t, r.Encode(&buf))
	assert.Equal(t, "time: Sat, 17 Oct 2026 08:12:44 GMT\n", buf.String())
}

func TestParse_IsForgiving(t *testing.T) {
	input := strings.Join([]string{
		"# written by kegfetch",
		"sha256: abc123",
		"garbage line without separator",
		"colour: blue",
		"etag: W/\"xyz\"",
		"time: yesterday-ish",
		"",
	}, "\n")

	r, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "abc123", r.SHA256)
	assert.Equal(t, `W/"xyz"`, r.ETag)
	assert.True(t, r.Time.IsZero(), "an unparseable time must be treated as unset")
}

func TestParse_LongGarbageLine(t *testing.T) {
	input := "sha256: abc\n" + strings.Repeat("\x00garbage", 20000) + "\netag: \"v1\""

	r, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "abc", r.SHA256)
	assert.Equal(t, `"v1"`, r.ETag, "last line without a newline must still be read")
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.owl.cache")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xff, 0x00, 0x7f}, 100000), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.True(t, r.IsZero())
}

func TestParse_Empty(t *testing.T) {
	r, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, r.IsZero())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ro.owl.cache")

	want := sampleRecord()
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want.SHA256, got.SHA256)
	assert.Equal(t, want.ETag, got.ETag)
	assert.True(t, want.Time.Equal(got.Time))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "staging file must not survive a save")
}

func TestLoad_MissingFile(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "absent.cache"))
	require.NoError(t, err)
	assert.True(t, r.IsZero())
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	mtime := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	r, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", r.SHA256)
	assert.Empty(t, r.ETag)
	assert.True(t, mtime.Equal(r.Time))

	missing, err := FromFile(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.True(t, missing.IsZero())

	_, err = FromFile(dir)
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	r := sampleRecord()
	require.False(t, r.IsZero())
	r.Reset()
	assert.True(t, r.IsZero())
}
