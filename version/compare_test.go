package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Given two version strings", t, func() {
		Convey("Equal versions compare to 0", func() {
			comp, err := Compare("1.2.3", "1.2.3")
			So(err, ShouldBeNil)
			So(comp, ShouldEqual, 0)
		})

		Convey("The 'v' prefix is ignored", func() {
			comp, err := Compare("v1.2.3", "1.2.3")
			So(err, ShouldBeNil)
			So(comp, ShouldEqual, 0)
		})

		Convey("Major takes precedence over minor and patch", func() {
			comp, err := Compare("2.0.0", "1.9.9")
			So(err, ShouldBeNil)
			So(comp, ShouldEqual, 1)
		})

		Convey("Patch breaks ties", func() {
			comp, err := Compare("1.2.3", "1.2.4")
			So(err, ShouldBeNil)
			So(comp, ShouldEqual, -1)
		})

		Convey("Malformed versions yield an error", func() {
			_, err := Compare("not-a-version", "1.0.0")
			So(err, ShouldNotBeNil)
		})
	})
}
