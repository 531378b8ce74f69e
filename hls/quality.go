package hls

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gcourse-cli/gcourse/log"
)

// QualityAuto requests trying every quality from highest to lowest.
const QualityAuto = "auto"

// QualityLevels is the resolution ladder in preference order, highest first.
var QualityLevels = []string{"1080", "720", "480", "360"}

// qualityToken matches the platform's in-path resolution token.
var qualityToken = regexp.MustCompile(`/(360|480|720|1080)\?`)

// QualityList expands a quality setting into the ordered candidate list.
// A fixed setting yields itself; auto yields the full ladder.
func QualityList(setting string) ([]string, error) {
	setting = strings.ToLower(setting)
	if setting == QualityAuto {
		return QualityLevels, nil
	}
	for _, q := range QualityLevels {
		if setting == q {
			return []string{setting}, nil
		}
	}
	return nil, fmt.Errorf("invalid quality %q: want %s or %s", setting, QualityAuto, strings.Join(QualityLevels, ", "))
}

// RewriteQuality rewrites a manifest URL for the desired quality token.
//
// This is the platform's URL convention, treated as an opaque rule: an
// existing in-path token like "/720?" is replaced in place; a URL without a
// token gets the quality inserted right after its "/media/" path segment.
func RewriteQuality(url, quality string) string {
	if qualityToken.MatchString(url) {
		return qualityToken.ReplaceAllString(url, "/"+quality+"?")
	}
	// A bare "/media/?" keeps a single query separator after insertion.
	if strings.Contains(url, "/media/?") {
		return strings.Replace(url, "/media/?", "/media/"+quality+"?", 1)
	}
	return strings.Replace(url, "/media/", "/media/"+quality+"?", 1)
}

// rewrite applies the configured override rule when present.
func (d *Downloader) rewrite(url, quality string) string {
	if d.opts.Rewrite != nil {
		return d.opts.Rewrite(url, quality)
	}
	return RewriteQuality(url, quality)
}

// TryQualities drives the pipeline once per quality candidate, in preference
// order, stopping at the first candidate whose whole run succeeds. A failed
// candidate is logged and the next one tried; when every candidate fails an
// ExhaustedError reporting the attempted ladder is returned.
func (d *Downloader) TryQualities(ctx context.Context, baseURL, outputPath string) error {
	if err := d.opts.validate(); err != nil {
		return err
	}

	qualities, err := QualityList(d.opts.Quality)
	if err != nil {
		return err
	}

	for _, quality := range qualities {
		candidate := d.rewrite(baseURL, quality)
		log.Infof("trying quality %sp: %s", quality, candidate)

		err := d.Download(ctx, candidate, outputPath)
		d.emit(Event{Kind: EventQuality, Quality: quality, Err: err})

		if err == nil {
			log.Infof("downloaded %s at %sp", outputPath, quality)
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warnf("quality %sp failed: %s", quality, err)
	}

	return &ExhaustedError{Qualities: qualities}
}
