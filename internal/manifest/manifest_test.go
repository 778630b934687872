package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/kegfetch/internal/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
defaults:
  retries: 2
  cache_dir: .kegfetch
resources:
  - name: ro
    url: https://purl.example.org/ro.owl.gz
    dest: imports/ro.owl
  - name: go
    url: https://purl.example.org/go.obo.bz2
    dest: /srv/ontologies/go.obo
    compression: none
    retries: 0
  - name: pato
    url: https://purl.example.org/pato.owl
    dest: imports/pato.owl
    compression: bzip2
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, sample)

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Resources, 3)
	assert.Equal(t, filepath.Dir(path), m.Dir())

	ro, ok := m.Find("ro")
	require.True(t, ok)
	res, err := m.Resource(*ro, 7)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.Dir(), "imports", "ro.owl"), res.Dest)
	assert.Equal(t, compression.Gzip, res.Compression, "inferred from the url suffix")
	assert.Equal(t, 2, res.Retries, "defaults apply")
	assert.Equal(t, filepath.Join(m.Dir(), ".kegfetch", "ro.cache"), m.RecordPath(*ro))

	goEntry, _ := m.Find("go")
	res, err = m.Resource(*goEntry, 7)
	require.NoError(t, err)
	assert.Equal(t, "/srv/ontologies/go.obo", res.Dest)
	assert.Equal(t, compression.None, res.Compression, "explicit none wins over the suffix")
	assert.Equal(t, 0, res.Retries, "per-resource override, even zero")

	pato, _ := m.Find("pato")
	res, err = m.Resource(*pato, 7)
	require.NoError(t, err)
	assert.Equal(t, compression.Bzip2, res.Compression)
}

func TestResource_FallbackRetriesAndRecordBesideDest(t *testing.T) {
	m, err := Parse(strings.NewReader(`
resources:
  - name: ro
    url: https://purl.example.org/ro.owl
    dest: ro.owl
`))
	require.NoError(t, err)

	res, err := m.Resource(m.Resources[0], 7)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Retries)
	assert.Equal(t, res.Dest+".cache", m.RecordPath(m.Resources[0]))
}

func TestParse_Empty(t *testing.T) {
	m, err := Parse(strings.NewReader(string(Empty)))
	require.NoError(t, err)
	assert.Empty(t, m.Resources)

	m, err = Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, m.Resources)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing fields",
			content: "resources:\n  - name: ro\n",
			want:    "missing url",
		},
		{
			name:    "missing name",
			content: "resources:\n  - url: https://x.org/a\n    dest: a\n",
			want:    "resources[0]: missing name",
		},
		{
			name: "duplicate name",
			content: `resources:
  - {name: ro, url: "https://x.org/a", dest: a}
  - {name: ro, url: "https://x.org/b", dest: b}
`,
			want: "duplicate name",
		},
		{
			name:    "unknown compression",
			content: "resources:\n  - {name: ro, url: \"https://x.org/a\", dest: a, compression: zstd}\n",
			want:    "unknown compression",
		},
		{
			name:    "negative retries",
			content: "resources:\n  - {name: ro, url: \"https://x.org/a\", dest: a, retries: -1}\n",
			want:    "retries must be >= 0",
		},
		{
			name:    "negative default retries",
			content: "defaults:\n  retries: -3\nresources: []\n",
			want:    "defaults: retries must be >= 0",
		},
		{
			name:    "unsupported scheme",
			content: "resources:\n  - {name: ro, url: \"ftp://x.org/a\", dest: a}\n",
			want:    "ftp",
		},
		{
			name:    "unknown key",
			content: "resources:\n  - {name: ro, url: \"https://x.org/a\", dest: a, checksum: abc}\n",
			want:    "checksum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.ErrorContains(t, err, "failed to read manifest")
}

func TestSelect(t *testing.T) {
	m, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	all, err := m.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := m.Select([]string{"pato", "ro"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "ro", some[0].Name, "manifest order is kept")
	assert.Equal(t, "pato", some[1].Name)

	_, err = m.Select([]string{"ro", "uberon", "cl"})
	assert.EqualError(t, err, "unknown resource(s): uberon, cl")
}
