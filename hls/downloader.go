package hls

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gcourse-cli/gcourse/key"
	"github.com/gcourse-cli/gcourse/network"
	"github.com/spf13/viper"
)

// Options carries the immutable per-run configuration of a Downloader.
// Read the global configuration once via FromConfig and pass the result
// around explicitly instead of consulting viper from inside the pipeline.
type Options struct {
	// Quality is "auto" or a fixed resolution token.
	Quality string
	// Parallel bounds concurrent segment fetches.
	Parallel int
	// Retries is the attempt budget per segment.
	Retries int
	// MaxDropped is the number of exhausted segments tolerated before the run fails.
	MaxDropped int
	// FfmpegPath locates the remux binary.
	FfmpegPath string
	// Format is the target container extension (without dot).
	Format string
	// Rewrite overrides the built-in quality rewrite rule when non-nil.
	Rewrite func(url, quality string) string
	// OnEvent receives pipeline progress events when non-nil.
	// Segment events fire from the worker goroutines, so the callback
	// must tolerate concurrent invocation.
	OnEvent func(Event)
}

// validate rejects option values that would wedge the worker pool or skip
// fetching entirely. Checked before any network or filesystem activity.
func (o Options) validate() error {
	if o.Parallel < 1 {
		return fmt.Errorf("parallel download bound must be positive, got %d", o.Parallel)
	}
	if o.Retries < 1 {
		return fmt.Errorf("segment retry budget must be positive, got %d", o.Retries)
	}
	return nil
}

// FromConfig snapshots the download options from the global configuration.
func FromConfig() Options {
	return Options{
		Quality:    viper.GetString(key.DownloadQuality),
		Parallel:   viper.GetInt(key.DownloadParallel),
		Retries:    viper.GetInt(key.DownloadRetries),
		MaxDropped: viper.GetInt(key.DownloadMaxDropped),
		FfmpegPath: viper.GetString(key.RemuxFfmpegPath),
		Format:     viper.GetString(key.RemuxFormat),
	}
}

// Remuxer converts a merged transport stream into the final container.
type Remuxer interface {
	// Remux copies streams from src into dst without re-encoding.
	Remux(ctx context.Context, src, dst string) error
}

// Downloader drives the full pipeline for one manifest URL at a time.
// It is safe to reuse sequentially but not concurrently: the progress
// events of overlapping runs would interleave.
type Downloader struct {
	client  *http.Client
	opts    Options
	remuxer Remuxer
}

// New creates a Downloader backed by the shared network client.
func New(opts Options) *Downloader {
	return &Downloader{
		client:  network.Client,
		opts:    opts,
		remuxer: &FFmpeg{Path: opts.FfmpegPath},
	}
}

// SetClient overrides the HTTP client, primarily for tests.
func (d *Downloader) SetClient(c *http.Client) {
	d.client = c
}

// SetRemuxer overrides the remux backend, primarily for tests.
func (d *Downloader) SetRemuxer(r Remuxer) {
	d.remuxer = r
}

// emit dispatches a progress event to the configured listener, if any.
func (d *Downloader) emit(e Event) {
	if d.opts.OnEvent != nil {
		d.opts.OnEvent(e)
	}
}

// EventKind discriminates pipeline progress events.
type EventKind int

const (
	// EventResolved fires after manifest resolution; Total is the segment count.
	EventResolved EventKind = iota
	// EventSegment fires after each segment finishes (Err set when dropped).
	EventSegment
	// EventMerging fires when concatenation starts.
	EventMerging
	// EventRemuxing fires when the ffmpeg stream copy starts.
	EventRemuxing
	// EventQuality fires once per quality candidate attempt (Err set on failure).
	EventQuality
)

// Event is a single progress notification from the pipeline.
type Event struct {
	Kind    EventKind
	Quality string
	Index   int
	Total   int
	Bytes   int64
	Err     error
}
