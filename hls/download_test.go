package hls

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gcourse-cli/gcourse/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

// copyRemuxer stands in for ffmpeg: the "remux" is a byte-for-byte copy.
type copyRemuxer struct {
	mu    sync.Mutex
	calls int
}

func (r *copyRemuxer) Remux(_ context.Context, src, dst string) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	fs := filesystem.API()
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// failRemuxer rejects every stream copy.
type failRemuxer struct{}

func (r *failRemuxer) Remux(context.Context, string, string) error {
	return &RemuxError{Merged: "merged", Err: errors.New("exit status 1")}
}

// segmentServer serves a flat manifest of n segments, each with a
// distinguishable body, and lets tests break individual segments.
func segmentServer(n int, broken map[int]bool, onSegment func()) *httptest.Server {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/manifest" {
			for i := 0; i < n; i++ {
				fmt.Fprintf(w, "%s/seg/%05d.ts\n", server.URL, i)
			}
			return
		}

		var i int
		fmt.Sscanf(r.URL.Path, "/seg/%d.ts", &i)
		if broken[i] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if onSegment != nil {
			onSegment()
		}
		fmt.Fprintf(w, "part%d", i)
	}))
	return server
}

func TestDownload(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Given a host serving a flat manifest", t, func() {
		server := segmentServer(5, nil, nil)
		defer server.Close()

		remuxer := &copyRemuxer{}

		var mu sync.Mutex
		var resolved, segments int

		d := testDownloader(Options{
			Parallel:   2,
			Retries:    2,
			MaxDropped: 0,
			Format:     "mp4",
			OnEvent: func(e Event) {
				mu.Lock()
				defer mu.Unlock()
				switch e.Kind {
				case EventResolved:
					resolved = e.Total
				case EventSegment:
					segments++
				}
			},
		})
		d.SetRemuxer(remuxer)

		Convey("The pipeline concatenates segments in index order", func() {
			err := d.Download(context.Background(), server.URL+"/manifest", "/out/result")
			So(err, ShouldBeNil)

			content, err := filesystem.API().ReadFile("/out/result.mp4")
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "part0part1part2part3part4")

			Convey("Progress is reported per segment", func() {
				So(resolved, ShouldEqual, 5)
				So(segments, ShouldEqual, 5)
			})

			Convey("The merged intermediate is reclaimed after the remux", func() {
				So(remuxer.calls, ShouldEqual, 1)
				exists, _ := filesystem.API().Exists("/out/result")
				So(exists, ShouldBeFalse)
			})
		})
	})
}

func TestDownloadConcurrencyBound(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Given more segments than worker slots", t, func() {
		var inflight, peak int64
		server := segmentServer(8, nil, func() {
			n := atomic.AddInt64(&inflight, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			// Hold the slot long enough for overlap to be observable.
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt64(&inflight, -1)
		})
		defer server.Close()

		d := testDownloader(Options{Parallel: 2, Retries: 1, Format: "mp4"})
		d.SetRemuxer(&copyRemuxer{})

		Convey("At most Parallel segment fetches run at once", func() {
			err := d.Download(context.Background(), server.URL+"/manifest", "/out/bounded")
			So(err, ShouldBeNil)
			So(atomic.LoadInt64(&peak), ShouldBeLessThanOrEqualTo, 2)
		})
	})
}

func TestDownloadRetry(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Given a segment that fails once before succeeding", t, func() {
		var failedOnce atomic.Bool
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/manifest":
				fmt.Fprintf(w, "%s/seg/00000.ts\n", server.URL)
			case "/seg/00000.ts":
				if failedOnce.CompareAndSwap(false, true) {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				fmt.Fprint(w, "recovered")
			}
		}))
		defer server.Close()

		d := testDownloader(Options{Parallel: 1, Retries: 3, Format: "mp4"})
		d.SetRemuxer(&copyRemuxer{})

		Convey("The retry budget absorbs the transient failure", func() {
			err := d.Download(context.Background(), server.URL+"/manifest", "/out/retried")
			So(err, ShouldBeNil)

			content, err := filesystem.API().ReadFile("/out/retried.mp4")
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "recovered")
		})
	})
}

func TestDownloadDroppedSegments(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Given a segment that never downloads", t, func() {
		server := segmentServer(3, map[int]bool{1: true}, nil)
		defer server.Close()

		Convey("A drop beyond the tolerance fails the run", func() {
			d := testDownloader(Options{Parallel: 2, Retries: 1, MaxDropped: 0, Format: "mp4"})
			d.SetRemuxer(&copyRemuxer{})

			err := d.Download(context.Background(), server.URL+"/manifest", "/out/strict")

			var dropped *DroppedError
			So(errors.As(err, &dropped), ShouldBeTrue)
			So(dropped.Dropped, ShouldEqual, 1)
			So(dropped.Total, ShouldEqual, 3)
		})

		Convey("A drop within the tolerance merges what remains, in order", func() {
			d := testDownloader(Options{Parallel: 2, Retries: 1, MaxDropped: 1, Format: "mp4"})
			d.SetRemuxer(&copyRemuxer{})

			err := d.Download(context.Background(), server.URL+"/manifest", "/out/tolerant")
			So(err, ShouldBeNil)

			content, err := filesystem.API().ReadFile("/out/tolerant.mp4")
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "part0part2")
		})
	})
}

func TestDownloadCreatesOutputDirectory(t *testing.T) {
	// The in-memory fs creates parent directories implicitly, so this one
	// runs against the real filesystem.
	filesystem.SetOsFs()

	Convey("Given an output path whose directory does not exist yet", t, func() {
		server := segmentServer(2, nil, nil)
		defer server.Close()

		d := testDownloader(Options{Parallel: 2, Retries: 1, Format: "mp4"})
		d.SetRemuxer(&copyRemuxer{})

		out := filepath.Join(t.TempDir(), "Courses", "My_Course", "lesson")

		Convey("The merge creates the course directory before writing", func() {
			err := d.Download(context.Background(), server.URL+"/manifest", out)
			So(err, ShouldBeNil)

			content, err := filesystem.API().ReadFile(out + ".mp4")
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "part0part1")
		})
	})
}

func TestDownloadRemuxFailure(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Given a remux backend that rejects the stream copy", t, func() {
		server := segmentServer(2, nil, nil)
		defer server.Close()

		d := testDownloader(Options{Parallel: 1, Retries: 1, Format: "mp4"})
		d.SetRemuxer(&failRemuxer{})

		Convey("The error surfaces and the merged intermediate is kept", func() {
			err := d.Download(context.Background(), server.URL+"/manifest", "/out/salvage")

			var remuxErr *RemuxError
			So(errors.As(err, &remuxErr), ShouldBeTrue)

			content, err := filesystem.API().ReadFile("/out/salvage")
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "part0part1")
		})
	})
}
