package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gcourse-cli/gcourse/filesystem"
	"github.com/gcourse-cli/gcourse/where"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestGenerateKey(t *testing.T) {
	Convey("Given a value and namespace", t, func() {
		Convey("The key is deterministic", func() {
			So(GenerateKey("a", "ns"), ShouldEqual, GenerateKey("a", "ns"))
		})

		Convey("Distinct values and namespaces produce distinct keys", func() {
			So(GenerateKey("a", "ns"), ShouldNotEqual, GenerateKey("b", "ns"))
			So(GenerateKey("a", "ns"), ShouldNotEqual, GenerateKey("a", "other"))
		})
	})
}

func TestReadWrite(t *testing.T) {
	Convey("Given a cache entry", t, func() {
		Convey("Write then Read round-trips the value", func() {
			So(Write("roundtrip", []string{"one", "two"}), ShouldBeNil)

			var got []string
			So(Read("roundtrip", time.Minute, &got), ShouldBeTrue)
			So(got, ShouldResemble, []string{"one", "two"})
		})

		Convey("A missing key is a cache miss", func() {
			var got []string
			So(Read("absent", time.Minute, &got), ShouldBeFalse)
		})

		Convey("An entry older than its TTL is a cache miss", func() {
			So(Write("stale", "value"), ShouldBeNil)

			path := filepath.Join(where.Cache(), "stale")
			old := time.Now().Add(-time.Hour)
			So(filesystem.API().Chtimes(path, old, old), ShouldBeNil)

			var got string
			So(Read("stale", time.Minute, &got), ShouldBeFalse)
		})
	})
}

func TestSegmentCache(t *testing.T) {
	Convey("Given a resolved manifest", t, func() {
		url := "https://h.example/api/playlist/media/abc/720?x=1"

		Convey("The segment list round-trips", func() {
			WriteSegments(url, []string{"https://cdn.example/00000.ts"})

			urls, ok := ReadSegments(url)
			So(ok, ShouldBeTrue)
			So(urls, ShouldHaveLength, 1)
		})

		Convey("An unknown manifest is a miss", func() {
			_, ok := ReadSegments("https://h.example/never-seen")
			So(ok, ShouldBeFalse)
		})

		Convey("An empty cached list counts as a miss", func() {
			WriteSegments("https://h.example/empty", nil)
			_, ok := ReadSegments("https://h.example/empty")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestCollectGarbage(t *testing.T) {
	Convey("Given fresh and expired cache entries", t, func() {
		So(Write("fresh", "keep"), ShouldBeNil)
		So(Write("expired", "drop"), ShouldBeNil)

		old := time.Now().Add(-48 * time.Hour)
		So(filesystem.API().Chtimes(filepath.Join(where.Cache(), "expired"), old, old), ShouldBeNil)

		CollectGarbage()

		Convey("Only the expired entry is pruned", func() {
			var got string
			So(Read("fresh", time.Minute, &got), ShouldBeTrue)

			exists, _ := filesystem.API().Exists(filepath.Join(where.Cache(), "expired"))
			So(exists, ShouldBeFalse)
		})
	})
}
