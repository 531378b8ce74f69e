package hls

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/gcourse-cli/gcourse/filesystem"
	"github.com/gcourse-cli/gcourse/log"
	"github.com/gcourse-cli/gcourse/where"
	"github.com/spf13/afero"
)

// retryDelay is the pause between attempts for one segment.
const retryDelay = time.Second

// Download runs the full pipeline for one manifest URL: resolve, fetch all
// segments under the concurrency bound, concatenate in index order and remux.
// outputPath is extension-less; the final file gains the configured container
// extension. All intermediate artifacts live in a scoped temporary directory
// reclaimed when the call returns.
func (d *Downloader) Download(ctx context.Context, manifestURL, outputPath string) error {
	if err := d.opts.validate(); err != nil {
		return err
	}

	fs := filesystem.API()

	workdir, err := afero.TempDir(fs, where.Temp(), "job")
	if err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer func() {
		if err := fs.RemoveAll(workdir); err != nil {
			log.Warnf("reclaim workdir %s: %s", workdir, err)
		}
	}()

	urls, err := d.Resolve(ctx, manifestURL, workdir)
	if err != nil {
		return err
	}

	d.emit(Event{Kind: EventResolved, Total: len(urls)})
	log.Infof("resolved %d segments from %s", len(urls), manifestURL)

	// Zero-padded names make lexicographic order equal index order.
	paths := make([]string, len(urls))
	for i := range urls {
		paths[i] = filepath.Join(workdir, fmt.Sprintf("%05d.ts", i))
	}

	limiter := newSemaphore(d.opts.Parallel)
	var wg sync.WaitGroup
	failures := make([]error, len(urls))

	for i := range urls {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			failures[i] = d.downloadSegment(ctx, urls[i], paths[i], limiter)
			d.emit(Event{Kind: EventSegment, Index: i, Total: len(urls), Err: failures[i]})
		}(i)
	}
	wg.Wait()

	var dropped int
	for i, err := range failures {
		if err != nil {
			dropped++
			log.Errorf("segment %05d dropped: %s", i, err)
		}
	}
	if dropped > d.opts.MaxDropped {
		return &DroppedError{Dropped: dropped, Total: len(urls)}
	}
	if dropped > 0 {
		// Exhausted segments leave no file behind; merge what remains.
		kept := paths[:0]
		for i, p := range paths {
			if failures[i] == nil {
				kept = append(kept, p)
			}
		}
		paths = kept
		log.Warnf("continuing with %d dropped segments", dropped)
	}

	return d.merge(ctx, outputPath, paths)
}

// downloadSegment holds one limiter slot for its entire retry loop, keeping
// the global concurrency bound exact, and attempts the fetch up to the
// configured budget with a fixed pause between attempts.
func (d *Downloader) downloadSegment(ctx context.Context, url, dest string, limiter *semaphore) error {
	limiter.acquire()
	defer limiter.release()

	var err error
	for attempt := 0; attempt < d.opts.Retries; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		if err = d.fetch(ctx, url, dest, filepath.Base(dest)); err == nil {
			return nil
		}

		log.Warnf("segment %s attempt %d/%d: %s", filepath.Base(dest), attempt+1, d.opts.Retries, err)

		if attempt < d.opts.Retries-1 {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}
