// Package services contains application services for the DropNShare client.
// This file defines the upload service: local file probing, the multipart
// upload call and derivation of shareable download links.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/dropnshare/internal/client/client"
	"github.com/dmitrijs2005/dropnshare/internal/common"
	"github.com/dmitrijs2005/dropnshare/internal/logging"
	"golang.org/x/sync/errgroup"
)

// sniffLen is how many leading bytes http.DetectContentType looks at.
const sniffLen = 512

// probeLimit caps concurrent file probes.
const probeLimit = 8

// FileInfo describes one local file ready to be uploaded.
type FileInfo struct {
	Path     string
	Name     string
	MIMEType string
	Size     int64
}

// Upload is the outcome of a successful upload.
type Upload struct {
	DownloadURL string
	ExpiresAt   string
	// PageURL is the web page that presents the download.
	PageURL string
	// DirectURL fetches the archive from the API directly.
	DirectURL string
	Files     []FileInfo
}

// UploadService sends local files to the backend and derives share links.
type UploadService struct {
	api       client.Client
	apiOrigin string
	webOrigin string
	log       logging.Logger
}

// NewUploadService binds the service to an API client and the origins used
// to build download links.
func NewUploadService(api client.Client, apiOrigin, webOrigin string, log logging.Logger) *UploadService {
	return &UploadService{
		api:       api,
		apiOrigin: apiOrigin,
		webOrigin: webOrigin,
		log:       log.With("component", "upload"),
	}
}

// Probe checks every path concurrently and returns file descriptions in the
// order given. The first failing path aborts the probe.
func (s *UploadService) Probe(ctx context.Context, paths []string) ([]FileInfo, error) {
	if len(paths) == 0 {
		return nil, common.ErrNoFiles
	}

	infos := make([]FileInfo, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(probeLimit)

	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := probeFile(p)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

// Upload probes paths, sends them as one multipart request and returns the
// backend's link together with the derived page and direct links.
func (s *UploadService) Upload(ctx context.Context, paths []string) (*Upload, error) {
	infos, err := s.Probe(ctx, paths)
	if err != nil {
		return nil, err
	}

	files := make([]client.UploadFile, len(infos))
	var total int64
	for i, info := range infos {
		files[i] = client.UploadFile{Path: info.Path, Name: info.Name, MIMEType: info.MIMEType}
		total += info.Size
	}

	s.log.Info(ctx, "uploading", "files", len(files), "bytes", total)

	res := s.api.Upload(ctx, files)
	if err := res.Err(); err != nil {
		return nil, err
	}
	if res.Data == nil || res.Data.DownloadURL == "" {
		return nil, common.ErrInvalidResponse
	}

	return &Upload{
		DownloadURL: res.Data.DownloadURL,
		ExpiresAt:   res.Data.ExpiresAt,
		PageURL:     DownloadPageURL(s.webOrigin, res.Data.DownloadURL),
		DirectURL:   DirectDownloadURL(s.apiOrigin, res.Data.DownloadURL),
		Files:       infos,
	}, nil
}

func probeFile(p string) (FileInfo, error) {
	st, err := os.Stat(p)
	if err != nil {
		return FileInfo{}, fmt.Errorf("stat %s: %w", p, err)
	}
	if !st.Mode().IsRegular() {
		return FileInfo{}, fmt.Errorf("%s: %w", p, common.ErrNotFile)
	}

	mimeType, err := detectMIME(p)
	if err != nil {
		return FileInfo{}, err
	}

	return FileInfo{Path: p, Name: filepath.Base(p), MIMEType: mimeType, Size: st.Size()}, nil
}

// detectMIME uses the file extension first and falls back to sniffing the
// first bytes of the content. Parameters such as charset are dropped.
func detectMIME(p string) (string, error) {
	if t := mime.TypeByExtension(filepath.Ext(p)); t != "" {
		return mediaType(t), nil
	}

	f, err := os.Open(p)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", p, err)
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", p, err)
	}
	if n == 0 {
		return common.ContentTypeOctetStream, nil
	}
	return mediaType(http.DetectContentType(buf[:n])), nil
}

func mediaType(t string) string {
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}

// DownloadPageURL returns the web page link for an uploaded archive.
func DownloadPageURL(webOrigin, downloadURL string) string {
	return downloadLink(webOrigin, downloadURL)
}

// DirectDownloadURL returns the API link that serves the archive itself.
func DirectDownloadURL(apiOrigin, downloadURL string) string {
	return downloadLink(apiOrigin, downloadURL)
}

// downloadLink joins origin with /download/ and the last path segment of
// downloadURL. Query and fragment of downloadURL are ignored.
func downloadLink(origin, downloadURL string) string {
	return strings.TrimRight(origin, "/") + "/download/" + fileSegment(downloadURL)
}

func fileSegment(downloadURL string) string {
	p := downloadURL
	if u, err := url.Parse(downloadURL); err == nil {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}
