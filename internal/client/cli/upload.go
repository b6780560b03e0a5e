package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Upload sends the given files, or prompts for paths when none are given,
// and prints the share links.
func (a *App) Upload(ctx context.Context, paths []string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first")
		return nil
	}

	if len(paths) == 0 {
		var err error
		paths, err = getLines(a.reader, "Enter file paths, one per line", a.out)
		if err != nil {
			return err
		}
	}

	up, err := a.uploads.Upload(ctx, paths)
	if err != nil {
		fmt.Fprintf(a.out, "Upload failed: %v\n", err)
		return err
	}

	var total uint64
	for _, f := range up.Files {
		total += uint64(f.Size)
		fmt.Fprintf(a.out, "  %s  %s  %s\n", f.Name, humanize.Bytes(uint64(f.Size)), f.MIMEType)
	}
	fmt.Fprintf(a.out, "Uploaded %d file(s), %s\n", len(up.Files), humanize.Bytes(total))

	a.lastUpload = up
	return a.Links(ctx)
}

// Links prints the links of the last upload.
func (a *App) Links(ctx context.Context) error {
	up := a.lastUpload
	if up == nil {
		fmt.Fprintln(a.out, "Nothing uploaded yet")
		return nil
	}

	fmt.Fprintf(a.out, "Download link: %s\n", up.DownloadURL)
	fmt.Fprintf(a.out, "Download page: %s\n", up.PageURL)
	fmt.Fprintf(a.out, "Direct link:   %s\n", up.DirectURL)
	if exp, err := time.Parse(time.RFC3339, up.ExpiresAt); err == nil {
		fmt.Fprintf(a.out, "Expires %s (%s)\n", humanize.Time(exp), exp.Local().Format(time.DateTime))
	} else if up.ExpiresAt != "" {
		fmt.Fprintf(a.out, "Expires %s\n", up.ExpiresAt)
	}
	return nil
}
