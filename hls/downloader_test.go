package hls

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gcourse-cli/gcourse/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOptionsValidation(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Given option values that cannot drive the pipeline", t, func() {
		Convey("A zero parallel bound fails fast instead of wedging the workers", func() {
			d := testDownloader(Options{Parallel: 0, Retries: 3, Format: "mp4"})

			done := make(chan error, 1)
			go func() {
				done <- d.Download(context.Background(), "http://unused.example/manifest", "/out/x")
			}()

			select {
			case err := <-done:
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "parallel")
			case <-time.After(time.Second):
				So("Download did not return", ShouldBeBlank)
			}
		})

		Convey("A zero retry budget is rejected instead of skipping fetches", func() {
			d := testDownloader(Options{Parallel: 2, Retries: 0, Format: "mp4"})

			err := d.Download(context.Background(), "http://unused.example/manifest", "/out/x")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "retry")
		})

		Convey("Quality fallback rejects them before walking the ladder", func() {
			d := testDownloader(Options{Quality: QualityAuto, Parallel: 0, Retries: 3, Format: "mp4"})

			err := d.TryQualities(context.Background(), "http://unused.example/media/720?x=1", "/out/x")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "parallel")

			var exhausted *ExhaustedError
			So(errors.As(err, &exhausted), ShouldBeFalse)
		})
	})
}
