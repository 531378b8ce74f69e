package config

import (
	"testing"

	"github.com/gcourse-cli/gcourse/filesystem"
	"github.com/gcourse-cli/gcourse/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestSetup(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("Quality should default to auto", func() {
			_ = Setup()
			So(viper.GetString(key.DownloadQuality), ShouldEqual, "auto")
			So(viper.GetInt(key.DownloadParallel), ShouldEqual, 4)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("download.max.dropped")
			So(result, ShouldEqual, "download_max_dropped")
		})
	})
}

func TestFieldEnv(t *testing.T) {
	Convey("Field Env", t, func() {
		f := Default[key.DownloadQuality]
		So(f.Env(), ShouldEqual, "GCOURSE_DOWNLOAD_QUALITY")
	})
}
