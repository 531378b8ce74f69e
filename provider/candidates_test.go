package provider

import (
	"testing"

	"github.com/gcourse-cli/gcourse/hls"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCandidateSet(t *testing.T) {
	setTestPreferences()

	Convey("Given observations for one logical video", t, func() {
		cloudflare := "https://h.example/api/playlist/media/abc/1080?user-cdn=cloudflare"
		unknown := "https://h.example/api/playlist/media/abc/720?user-cdn=somecdn"

		Convey("Under auto quality the highest-scored provider is retained", func() {
			set := NewCandidateSet(hls.QualityAuto)
			set.Observe(cloudflare)
			set.Observe(unknown)

			So(set.Len(), ShouldEqual, 1)
			So(set.Best("abc").MustGet().URL, ShouldEqual, cloudflare)
		})

		Convey("Observation order does not change the outcome", func() {
			set := NewCandidateSet(hls.QualityAuto)
			set.Observe(unknown)
			set.Observe(cloudflare)

			So(set.Best("abc").MustGet().URL, ShouldEqual, cloudflare)
		})

		Convey("A score tie goes to the later observation", func() {
			other := "https://h.example/api/playlist/media/abc/480?user-cdn=anothercdn"
			set := NewCandidateSet(hls.QualityAuto)
			set.Observe(unknown)
			set.Observe(other)

			So(set.Best("abc").MustGet().URL, ShouldEqual, other)
		})

		Convey("Under auto quality a URL without a resolution token never qualifies", func() {
			set := NewCandidateSet(hls.QualityAuto)
			set.Observe("https://h.example/api/playlist/media/abc/?user-cdn=cloudflare")

			So(set.Len(), ShouldEqual, 0)
			So(set.Best("abc").IsAbsent(), ShouldBeTrue)
		})

		Convey("Under a fixed quality the retained URL is rewritten to it", func() {
			set := NewCandidateSet("480")
			set.Observe(cloudflare)

			So(set.Best("abc").MustGet().URL, ShouldEqual,
				"https://h.example/api/playlist/media/abc/480?user-cdn=cloudflare")
		})
	})

	Convey("Given observations for several logical videos", t, func() {
		set := NewCandidateSet(hls.QualityAuto)
		set.Observe("https://h.example/api/playlist/media/v1/720?user-cdn=somecdn")
		set.Observe("https://h.example/api/playlist/media/v2/720?user-cdn=cloudflare")
		set.Observe("https://h.example/api/playlist/media/v3/720?user-cdn=integrosproxy")

		Convey("Ranked orders tracks by descending provider score", func() {
			ranked := set.Ranked()
			So(ranked, ShouldHaveLength, 3)
			So(ranked[0], ShouldContainSubstring, "/v2/")
			So(ranked[1], ShouldContainSubstring, "/v3/")
			So(ranked[2], ShouldContainSubstring, "/v1/")
		})
	})
}
