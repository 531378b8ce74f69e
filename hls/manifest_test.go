package hls

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gcourse-cli/gcourse/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func testDownloader(opts Options) *Downloader {
	d := New(opts)
	d.SetClient(http.DefaultClient)
	return d
}

func TestClassify(t *testing.T) {
	Convey("Given manifest content", t, func() {
		Convey("A flat list of segment URLs is classified directly", func() {
			content := "#EXTM3U\nhttps://cdn.example/seg/00000.ts\nhttps://cdn.example/seg/00001.ts\n"
			urls, nested, err := classify(content)
			So(err, ShouldBeNil)
			So(nested, ShouldBeEmpty)
			So(urls, ShouldResemble, []string{
				"https://cdn.example/seg/00000.ts",
				"https://cdn.example/seg/00001.ts",
			})
		})

		Convey("Segment order follows document order", func() {
			content := "https://cdn.example/b.ts\nhttps://cdn.example/a.ts\n"
			urls, _, err := classify(content)
			So(err, ShouldBeNil)
			So(urls[0], ShouldEqual, "https://cdn.example/b.ts")
		})

		Convey("A trailing URL line points at a secondary manifest", func() {
			content := "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=800000\nhttps://cdn.example/nested.m3u8\n"
			urls, nested, err := classify(content)
			So(err, ShouldBeNil)
			So(urls, ShouldBeNil)
			So(nested, ShouldEqual, "https://cdn.example/nested.m3u8")
		})

		Convey("A non-URL tail is a manifest-not-found error", func() {
			_, _, err := classify("#EXTM3U\n#EXT-X-ENDLIST\n")
			So(errors.Is(err, ErrManifestNotFound), ShouldBeTrue)
		})

		Convey("Empty content has no segments", func() {
			_, _, err := classify("\n\n")
			So(errors.Is(err, ErrNoSegments), ShouldBeTrue)
		})
	})
}

func TestResolve(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Given a manifest server", t, func() {
		d := testDownloader(Options{Retries: 1, Parallel: 1})
		workdir := "/work"

		Convey("A flat manifest resolves to its segment URLs", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "https://cdn.example/00000.ts\nhttps://cdn.example/00001.ts\n")
			}))
			defer server.Close()

			urls, err := d.Resolve(context.Background(), server.URL+"/main", workdir)
			So(err, ShouldBeNil)
			So(urls, ShouldHaveLength, 2)
		})

		Convey("A pointer manifest follows one level of indirection", func() {
			var server *httptest.Server
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/main":
					fmt.Fprintf(w, "#EXTM3U\n%s/nested\n", server.URL)
				case "/nested":
					fmt.Fprint(w, "https://cdn.example/00000.ts\n")
				}
			}))
			defer server.Close()

			urls, err := d.Resolve(context.Background(), server.URL+"/main", workdir)
			So(err, ShouldBeNil)
			So(urls, ShouldResemble, []string{"https://cdn.example/00000.ts"})
		})

		Convey("A second resolution of the same manifest is served from cache", func() {
			var hits int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits++
				fmt.Fprint(w, "https://cdn.example/00000.ts\n")
			}))
			defer server.Close()

			_, err := d.Resolve(context.Background(), server.URL+"/cached", workdir)
			So(err, ShouldBeNil)

			urls, err := d.Resolve(context.Background(), server.URL+"/cached", workdir)
			So(err, ShouldBeNil)
			So(urls, ShouldHaveLength, 1)
			So(hits, ShouldEqual, 1)
		})

		Convey("A manifest without URLs fails as manifest-not-found", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "#EXTM3U\n#EXT-X-ENDLIST\n")
			}))
			defer server.Close()

			_, err := d.Resolve(context.Background(), server.URL+"/broken", workdir)

			var manifestErr *ManifestError
			So(errors.As(err, &manifestErr), ShouldBeTrue)
			So(errors.Is(err, ErrManifestNotFound), ShouldBeTrue)
		})

		Convey("An unreachable manifest carries the HTTP status", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			_, err := d.Resolve(context.Background(), server.URL+"/missing", workdir)

			var statusErr *StatusError
			So(errors.As(err, &statusErr), ShouldBeTrue)
			So(statusErr.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
