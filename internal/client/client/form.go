package client

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"

	"github.com/dmitrijs2005/dropnshare/internal/common"
)

// Form is a multipart/form-data body. Parts are streamed when the request
// is sent, so file contents are never held in memory as a whole.
type Form struct {
	parts []formPart
}

type formPart struct {
	field    string
	value    string
	filename string
	mimeType string
	open     func() (io.ReadCloser, error)
}

func NewForm() *Form {
	return &Form{}
}

// AddField appends a plain text field.
func (f *Form) AddField(name, value string) *Form {
	f.parts = append(f.parts, formPart{field: name, value: value})
	return f
}

// AddFile appends a file part whose content comes from open. An empty
// mimeType is sent as application/octet-stream.
func (f *Form) AddFile(field, filename, mimeType string, open func() (io.ReadCloser, error)) *Form {
	if mimeType == "" {
		mimeType = common.ContentTypeOctetStream
	}
	f.parts = append(f.parts, formPart{field: field, filename: filename, mimeType: mimeType, open: open})
	return f
}

// AddFilePath appends a file part read from path at send time.
func (f *Form) AddFilePath(field, filename, mimeType, path string) *Form {
	return f.AddFile(field, filename, mimeType, func() (io.ReadCloser, error) {
		return os.Open(path)
	})
}

// Len returns the number of parts.
func (f *Form) Len() int {
	return len(f.parts)
}

// Encode writes every part into mw. It does not close mw.
func (f *Form) Encode(mw *multipart.Writer) error {
	for _, p := range f.parts {
		if p.open == nil {
			if err := mw.WriteField(p.field, p.value); err != nil {
				return fmt.Errorf("write field %s: %w", p.field, err)
			}
			continue
		}
		if err := p.writeFile(mw); err != nil {
			return err
		}
	}
	return nil
}

func (p formPart) writeFile(mw *multipart.Writer) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(p.field), escapeQuotes(p.filename)))
	h.Set("Content-Type", p.mimeType)

	w, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", p.filename, err)
	}

	src, err := p.open()
	if err != nil {
		return fmt.Errorf("open %s: %w", p.filename, err)
	}
	defer src.Close()

	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("copy %s: %w", p.filename, err)
	}
	return nil
}

// reader starts encoding in the background and returns the read side with
// the matching Content-Type (including the boundary). Closing the reader
// stops the encoder.
func (f *Form) reader() (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	contentType := mw.FormDataContentType()

	go func() {
		err := f.Encode(mw)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, contentType
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
