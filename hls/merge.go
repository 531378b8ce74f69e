package hls

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/gcourse-cli/gcourse/filesystem"
	"github.com/gcourse-cli/gcourse/log"
)

// merge concatenates segment files in index order into outputPath, then hands
// the merged stream to the remuxer. On remux success the merged intermediate
// is removed and only the final container remains; on remux failure the
// intermediate is kept for manual salvage and the error propagates so quality
// fallback treats the candidate as failed.
func (d *Downloader) merge(ctx context.Context, outputPath string, segmentPaths []string) error {
	fs := filesystem.API()

	// Zero-padded names guarantee this equals ascending index order.
	sort.Strings(segmentPaths)

	d.emit(Event{Kind: EventMerging, Total: len(segmentPaths)})

	// Output lands under download.path/<course>/<lesson>, which does not
	// exist on a first run.
	if err := fs.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out, err := fs.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create merged file: %w", err)
	}

	for _, path := range segmentPaths {
		segment, err := fs.Open(path)
		if err != nil {
			out.Close()
			return fmt.Errorf("open segment %s: %w", path, err)
		}

		_, err = io.Copy(out, segment)
		segment.Close()
		if err != nil {
			out.Close()
			return fmt.Errorf("append segment %s: %w", path, err)
		}
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close merged file: %w", err)
	}

	target := outputPath + "." + d.opts.Format
	d.emit(Event{Kind: EventRemuxing})

	if err := d.remuxer.Remux(ctx, outputPath, target); err != nil {
		return err
	}

	if err := fs.Remove(outputPath); err != nil {
		log.Warnf("remove merged intermediate %s: %s", outputPath, err)
	}
	log.Infof("wrote %s", target)
	return nil
}

// FFmpeg remuxes by invoking the external ffmpeg binary with stream copy.
type FFmpeg struct {
	Path string
}

// Remux copies the audio/video streams of src into dst without re-encoding.
// The subprocess is fully awaited; its stderr is surfaced on failure.
func (f *FFmpeg) Remux(ctx context.Context, src, dst string) error {
	bin := f.Path
	if bin == "" {
		bin = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, bin, "-y", "-i", src, "-c", "copy", dst)

	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &RemuxError{Merged: src, Stderr: stderr.String(), Err: err}
	}
	return nil
}
