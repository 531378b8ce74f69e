package catalog

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFilter(t *testing.T) {
	Convey("Given a catalog", t, func() {
		c := sampleCatalog()

		Convey("An empty query returns everything", func() {
			So(c.Filter(""), ShouldResemble, c)
		})

		Convey("A query matching a course title keeps the whole course", func() {
			filtered := c.Filter("монтаж")
			So(filtered, ShouldHaveLength, 1)
			So(filtered[0].Lessons, ShouldHaveLength, 2)
		})

		Convey("A query matching a lesson narrows the course to it", func() {
			filtered := c.Filter("звук")
			So(filtered, ShouldHaveLength, 1)
			So(filtered[0].Lessons, ShouldHaveLength, 1)
			So(filtered[0].Lessons[0].Title, ShouldEqual, "Работа со звуком")
		})

		Convey("Matching is case-insensitive", func() {
			So(c.Filter("ЦВЕТ"), ShouldHaveLength, 1)
		})

		Convey("A query matching nothing yields an empty catalog", func() {
			So(c.Filter("quantum"), ShouldBeEmpty)
		})
	})
}

func TestClosest(t *testing.T) {
	Convey("Given a catalog", t, func() {
		c := sampleCatalog()

		Convey("The nearest lesson title by edit distance is suggested", func() {
			So(c.Closest("Введениее").MustGet(), ShouldEqual, "Введение")
		})

		Convey("An empty catalog suggests nothing", func() {
			So(Catalog{}.Closest("anything").IsAbsent(), ShouldBeTrue)
		})
	})
}
