// Package hls implements the segmented-media download pipeline: manifest
// resolution, bounded concurrent segment fetching with retry, ordered
// concatenation and the ffmpeg stream-copy remux, plus the quality fallback
// policy driving the whole pipeline.
package hls

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for manifest resolution.
var (
	// ErrManifestNotFound indicates the manifest's trailing line was expected
	// to point at a secondary manifest but was not an absolute URL.
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrNoSegments indicates a manifest resolved to zero segment URLs.
	ErrNoSegments = errors.New("no segment URLs in manifest")
)

// StatusError reports a non-2xx HTTP response. Callers inside the retry loop
// treat it as transient.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.Code, e.URL)
}

// ManifestError wraps a failure to resolve a manifest URL into segments.
type ManifestError struct {
	URL string
	Err error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("resolve manifest %s: %s", e.URL, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// DroppedError reports segments that never downloaded within the retry
// budget. The pipeline refuses to merge when the drop count exceeds the
// configured tolerance, since a silently short merge yields a corrupt file.
type DroppedError struct {
	Dropped int
	Total   int
}

func (e *DroppedError) Error() string {
	return fmt.Sprintf("dropped %d of %d segments", e.Dropped, e.Total)
}

// RemuxError reports an ffmpeg stream-copy failure. The merged intermediate
// file is kept in place for manual salvage.
type RemuxError struct {
	Merged string
	Stderr string
	Err    error
}

func (e *RemuxError) Error() string {
	msg := fmt.Sprintf("remux %s: %s", e.Merged, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + lastLine(s)
	}
	return msg
}

func (e *RemuxError) Unwrap() error {
	return e.Err
}

// ExhaustedError reports that every quality candidate failed.
type ExhaustedError struct {
	Qualities []string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all qualities failed: %s", strings.Join(e.Qualities, ", "))
}

// lastLine returns the final non-empty line of a block of tool output,
// which for ffmpeg is where the actual failure reason lives.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
