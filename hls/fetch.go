package hls

import (
	"context"
	"io"
	"net/http"

	"github.com/gcourse-cli/gcourse/filesystem"
	"github.com/gcourse-cli/gcourse/log"
)

// chunkSize is the streaming granularity for response bodies.
const chunkSize = 64 * 1024

// fetch streams the body of url into dest, reporting progress per chunk.
// A missing or zero Content-Length means unknown total and is not an error.
// Any non-2xx status yields a StatusError, which the retry loop treats as
// transient.
func (d *Downloader) fetch(ctx context.Context, url, dest, label string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: url, Code: resp.StatusCode}
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0 // unknown
	}
	log.Debugf("fetching %s (%d bytes): %s", label, total, url)

	out, err := filesystem.API().Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, chunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
