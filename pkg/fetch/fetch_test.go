package fetch

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	assert := assert.New(t)
	assert.True(IsURL("https://atmos.nmsu.edu/PDS/data/MROM_2001/DATA/2012/201208/20120801/2012080116_RDR.TAB"))
	assert.True(IsURL("http://example.org/file.TAB"))
	assert.False(IsURL("/data/level_1b/1208/120801160000.L1B"))
	assert.False(IsURL("120801160000.L1B"))
}

func TestClient_Lines_Remote(t *testing.T) {
	assert := assert.New(t)

	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/ok.TAB":
			w.Write([]byte("# comment\nline one\nline two\n"))
		case "/missing.TAB":
			http.NotFound(w, r)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewClient(Options{UserAgent: "gomcs-test"})

	lines, err := c.Lines(srv.URL + "/ok.TAB")
	assert.NoError(err)
	assert.Equal([]string{"# comment", "line one", "line two"}, lines)
	assert.Equal("gomcs-test", gotAgent)

	// a missing remote file is not an error, just zero lines
	lines, err = c.Lines(srv.URL + "/missing.TAB")
	assert.NoError(err)
	assert.Empty(lines)

	_, err = c.Lines(srv.URL + "/broken.TAB")
	assert.ErrorIs(err, ErrTransfer)
}

func TestFileLines(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	plain := filepath.Join(dir, "120801160000.L1B")
	require.NoError(t, os.WriteFile(plain, []byte("a\nb\nc"), 0644))

	lines, err := FileLines(plain)
	assert.NoError(err)
	assert.Equal([]string{"a", "b", "c"}, lines)

	_, err = FileLines(filepath.Join(dir, "does-not-exist.L1B"))
	assert.Error(err)
}

func TestFileLines_Gzip(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("first\nsecond\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, "120801160000.L1B.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	lines, err := FileLines(path)
	assert.NoError(err)
	assert.Equal([]string{"first", "second"}, lines)

	c := NewClient(Options{})
	lines, err = c.Lines(path)
	assert.NoError(err)
	assert.Equal([]string{"first", "second"}, lines)
}
