package provider

import (
	"testing"

	"github.com/gcourse-cli/gcourse/filesystem"
	"github.com/gcourse-cli/gcourse/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func setTestPreferences() {
	viper.Set(key.ProviderPreferences, map[string]any{
		"cloudflare":    3,
		"integrosproxy": 2,
	})
	viper.Set(key.ProviderDefaultScore, 1)
}

func TestExtractVideoID(t *testing.T) {
	Convey("Given a manifest URL", t, func() {
		Convey("The identifier is the path segment after /api/playlist/media/", func() {
			id := ExtractVideoID("https://h.example/api/playlist/media/abc123/720?user-cdn=cloudflare")
			So(id, ShouldEqual, "abc123")
		})

		Convey("A URL without the expected shape identifies itself", func() {
			url := "https://h.example/other/path"
			So(ExtractVideoID(url), ShouldEqual, url)
		})
	})
}

func TestExtractProvider(t *testing.T) {
	Convey("Given a manifest URL", t, func() {
		Convey("The user-cdn query parameter names the provider", func() {
			p := ExtractProvider("https://h.example/media/720?x=1&user-cdn=integrosproxy&y=2")
			So(p, ShouldEqual, "integrosproxy")
		})

		Convey("A URL without the parameter has no provider", func() {
			So(ExtractProvider("https://h.example/media/720?x=1"), ShouldEqual, "")
		})
	})
}

func TestScore(t *testing.T) {
	setTestPreferences()

	Convey("Given the provider preference table", t, func() {
		Convey("Known providers rank by their configured score", func() {
			So(Score("cloudflare"), ShouldEqual, 3)
			So(Score("integrosproxy"), ShouldEqual, 2)
		})

		Convey("Unknown providers fall back to the default rank", func() {
			So(Score("somecdn"), ShouldEqual, 1)
			So(Score(""), ShouldEqual, 1)
		})
	})
}
