package hls

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gcourse-cli/gcourse/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQualityList(t *testing.T) {
	Convey("Given a quality setting", t, func() {
		Convey("Auto expands into the full ladder, highest first", func() {
			qualities, err := QualityList(QualityAuto)
			So(err, ShouldBeNil)
			So(qualities, ShouldResemble, []string{"1080", "720", "480", "360"})
		})

		Convey("The setting is case-insensitive", func() {
			qualities, err := QualityList("Auto")
			So(err, ShouldBeNil)
			So(qualities, ShouldResemble, QualityLevels)
		})

		Convey("A fixed resolution yields only itself", func() {
			qualities, err := QualityList("720")
			So(err, ShouldBeNil)
			So(qualities, ShouldResemble, []string{"720"})
		})

		Convey("An unknown resolution is rejected", func() {
			_, err := QualityList("4000")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRewriteQuality(t *testing.T) {
	Convey("Given a manifest URL", t, func() {
		Convey("An existing resolution token is replaced in place", func() {
			url := RewriteQuality("https://h.example/api/playlist/media/abc/720?x=1", "1080")
			So(url, ShouldEqual, "https://h.example/api/playlist/media/abc/1080?x=1")
		})

		Convey("A bare query separator after /media/ absorbs the token", func() {
			url := RewriteQuality("https://h.example/media/?x=1", "480")
			So(url, ShouldEqual, "https://h.example/media/480?x=1")
		})

		Convey("A tokenless URL gains the token after /media/", func() {
			url := RewriteQuality("https://h.example/media/abc", "360")
			So(url, ShouldEqual, "https://h.example/media/360?abc")
		})
	})
}

func TestTryQualities(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Given a host serving only one rung of the ladder", t, func() {
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/playlist/media/vid/480":
				fmt.Fprintf(w, "%s/seg/00000.ts\n", server.URL)
			case "/seg/00000.ts":
				fmt.Fprint(w, "payload")
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		var mu sync.Mutex
		var attempts []Event

		d := testDownloader(Options{
			Quality:    QualityAuto,
			Parallel:   2,
			Retries:    1,
			MaxDropped: 0,
			Format:     "mp4",
			OnEvent: func(e Event) {
				if e.Kind != EventQuality {
					return
				}
				mu.Lock()
				attempts = append(attempts, e)
				mu.Unlock()
			},
		})
		d.SetRemuxer(&copyRemuxer{})

		Convey("Fallback walks the ladder and stops at the first success", func() {
			err := d.TryQualities(context.Background(), server.URL+"/api/playlist/media/vid/720?x=1", "/out/lesson")
			So(err, ShouldBeNil)

			So(attempts, ShouldHaveLength, 3)
			So(attempts[0].Quality, ShouldEqual, "1080")
			So(attempts[0].Err, ShouldNotBeNil)
			So(attempts[1].Quality, ShouldEqual, "720")
			So(attempts[1].Err, ShouldNotBeNil)
			So(attempts[2].Quality, ShouldEqual, "480")
			So(attempts[2].Err, ShouldBeNil)

			content, err := filesystem.API().ReadFile("/out/lesson.mp4")
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "payload")
		})
	})

	Convey("Given a host where every rung fails", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		d := testDownloader(Options{Quality: QualityAuto, Parallel: 1, Retries: 1, Format: "mp4"})
		d.SetRemuxer(&copyRemuxer{})

		Convey("The whole ladder is reported exhausted", func() {
			err := d.TryQualities(context.Background(), server.URL+"/api/playlist/media/vid/720?x=1", "/out/lesson")

			var exhausted *ExhaustedError
			So(errors.As(err, &exhausted), ShouldBeTrue)
			So(exhausted.Qualities, ShouldResemble, QualityLevels)
		})
	})
}
