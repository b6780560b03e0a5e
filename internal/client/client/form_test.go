package client

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readParts(t *testing.T, r io.Reader, contentType string) []*multipart.Part {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	mr := multipart.NewReader(r, params["boundary"])
	var parts []*multipart.Part
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		parts = append(parts, p)
		// Buffer the body before moving on so the next part can be read.
		b, err := io.ReadAll(p)
		require.NoError(t, err)
		p.Header.Set("X-Test-Body", string(b))
	}
	return parts
}

func TestForm_Encode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	form := NewForm().
		AddField("note", "for bob").
		AddFilePath("files[]", "notes.txt", "text/plain", path).
		AddFile("files[]", `we"ird.bin`, "", func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("\x00\x01")), nil
		})
	assert.Equal(t, 3, form.Len())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, form.Encode(mw))
	require.NoError(t, mw.Close())

	parts := readParts(t, &buf, mw.FormDataContentType())
	require.Len(t, parts, 3)

	assert.Equal(t, "note", parts[0].FormName())
	assert.Equal(t, "for bob", parts[0].Header.Get("X-Test-Body"))

	assert.Equal(t, "files[]", parts[1].FormName())
	assert.Equal(t, "notes.txt", parts[1].FileName())
	assert.Equal(t, "text/plain", parts[1].Header.Get("Content-Type"))
	assert.Equal(t, "hello", parts[1].Header.Get("X-Test-Body"))

	assert.Equal(t, `we"ird.bin`, parts[2].FileName())
	assert.Equal(t, "application/octet-stream", parts[2].Header.Get("Content-Type"))
}

func TestForm_ReaderStreamsParts(t *testing.T) {
	form := NewForm().AddFile("files[]", "a.txt", "text/plain", func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("abc")), nil
	})

	r, contentType := form.reader()
	defer r.Close()

	parts := readParts(t, r, contentType)
	require.Len(t, parts, 1)
	assert.Equal(t, "abc", parts[0].Header.Get("X-Test-Body"))
}

func TestForm_ReaderSurfacesOpenError(t *testing.T) {
	form := NewForm().AddFilePath("files[]", "missing.txt", "", filepath.Join(t.TempDir(), "missing.txt"))

	r, _ := form.reader()
	defer r.Close()

	_, err := io.ReadAll(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open missing.txt")
}
