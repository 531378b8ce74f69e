package hls

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gcourse-cli/gcourse/filesystem"
	"github.com/gcourse-cli/gcourse/internal/cache"
	"github.com/gcourse-cli/gcourse/log"
)

// segmentPattern classifies a manifest as flat: any absolute URL ending in a
// recognized segment extension means the document lists segments directly.
var segmentPattern = regexp.MustCompile(`https?://\S+\.(ts|bin)`)

// urlScheme is the prefix distinguishing segment lines from playlist tags.
const urlScheme = "http"

// Resolve fetches a manifest and flattens it into an ordered list of segment
// URLs, following at most one level of indirection through a secondary
// manifest. The workdir receives the intermediate manifest downloads.
//
// The platform serves two manifest shapes: either a flat list of absolute
// segment URLs, or a short document whose last non-empty line points at a
// secondary manifest holding the flat list. Anything else is a resolution
// failure.
func (d *Downloader) Resolve(ctx context.Context, manifestURL, workdir string) ([]string, error) {
	if urls, ok := cache.ReadSegments(manifestURL); ok {
		log.Debugf("manifest %s served from cache (%d segments)", manifestURL, len(urls))
		return urls, nil
	}

	mainPath := filepath.Join(workdir, "main.m3u8")
	if err := d.fetch(ctx, manifestURL, mainPath, "manifest"); err != nil {
		return nil, &ManifestError{URL: manifestURL, Err: err}
	}

	content, err := filesystem.API().ReadFile(mainPath)
	if err != nil {
		return nil, &ManifestError{URL: manifestURL, Err: err}
	}

	urls, nestedURL, err := classify(string(content))
	if err != nil {
		return nil, &ManifestError{URL: manifestURL, Err: err}
	}

	if nestedURL != "" {
		nestedPath := filepath.Join(workdir, "nested.m3u8")
		if err := d.fetch(ctx, nestedURL, nestedPath, "secondary manifest"); err != nil {
			return nil, &ManifestError{URL: nestedURL, Err: err}
		}

		nested, err := filesystem.API().ReadFile(nestedPath)
		if err != nil {
			return nil, &ManifestError{URL: nestedURL, Err: err}
		}
		urls = segmentLines(string(nested))
	}

	if len(urls) == 0 {
		return nil, &ManifestError{URL: manifestURL, Err: ErrNoSegments}
	}

	cache.WriteSegments(manifestURL, urls)
	return urls, nil
}

// classify inspects manifest content and returns either the flat segment list
// or the URL of the secondary manifest to follow.
func classify(content string) (urls []string, nestedURL string, err error) {
	if segmentPattern.MatchString(content) {
		return segmentLines(content), "", nil
	}

	var tail string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tail = line
		}
	}

	if tail == "" {
		return nil, "", ErrNoSegments
	}
	if !strings.HasPrefix(tail, urlScheme) {
		return nil, "", ErrManifestNotFound
	}
	return nil, tail, nil
}

// segmentLines extracts every absolute URL line from manifest content, in
// document order.
func segmentLines(content string) []string {
	var urls []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, urlScheme) {
			urls = append(urls, line)
		}
	}
	return urls
}
