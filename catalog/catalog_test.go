package catalog

import (
	"path/filepath"
	"testing"

	"github.com/gcourse-cli/gcourse/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func sampleCatalog() Catalog {
	return Catalog{
		{
			Title: "Основы монтажа",
			Lessons: []Lesson{
				{Title: "Введение", URL: "https://h.example/api/playlist/media/a1/720?user-cdn=cloudflare"},
				{Title: "Работа со звуком", URL: "https://h.example/api/playlist/media/a2/720?user-cdn=cloudflare"},
			},
		},
		{
			Title: "Цветокоррекция",
			Lessons: []Lesson{
				{Title: "Базовые инструменты", URL: "https://h.example/api/playlist/media/b1/720?user-cdn=cloudflare"},
			},
		},
	}
}

func TestCleanTitle(t *testing.T) {
	Convey("Given scraped lesson titles", t, func() {
		Convey("Progress markers are stripped", func() {
			So(CleanTitle("Введение Просмотрено"), ShouldEqual, "Введение")
			So(CleanTitle("Пройдено Урок 2"), ShouldEqual, "Урок 2")
			So(CleanTitle("Урок 3 Завершено"), ShouldEqual, "Урок 3")
		})

		Convey("Interior whitespace collapses after removal", func() {
			So(CleanTitle("Урок   4  Просмотрено "), ShouldEqual, "Урок 4")
		})

		Convey("Clean titles pass through unchanged", func() {
			So(CleanTitle("Обычный урок"), ShouldEqual, "Обычный урок")
		})
	})
}

func TestLoadSave(t *testing.T) {
	Convey("Given a catalog on disk", t, func() {
		path := "/catalogs/courses.json"

		Convey("Save then Load round-trips the content", func() {
			So(sampleCatalog().Save(path), ShouldBeNil)

			loaded, err := Load(path)
			So(err, ShouldBeNil)
			So(loaded, ShouldResemble, sampleCatalog())
			So(loaded.Lessons(), ShouldEqual, 3)
		})

		Convey("Titles are cleaned on the way in", func() {
			dirty := Catalog{{Title: "Курс Просмотрено", Lessons: []Lesson{
				{Title: "Урок Завершено", URL: "https://h.example/l"},
			}}}
			So(dirty.Save("/catalogs/dirty.json"), ShouldBeNil)

			loaded, err := Load("/catalogs/dirty.json")
			So(err, ShouldBeNil)
			So(loaded[0].Title, ShouldEqual, "Курс")
			So(loaded[0].Lessons[0].Title, ShouldEqual, "Урок")
		})

		Convey("A missing file is an error", func() {
			_, err := Load("/catalogs/absent.json")
			So(err, ShouldNotBeNil)
		})

		Convey("An empty file is an error", func() {
			So(filesystem.API().WriteFile("/catalogs/empty.json", nil, 0644), ShouldBeNil)
			_, err := Load("/catalogs/empty.json")
			So(err, ShouldNotBeNil)
		})

		Convey("Malformed JSON is an error", func() {
			So(filesystem.API().WriteFile("/catalogs/bad.json", []byte("{"), 0644), ShouldBeNil)
			_, err := Load("/catalogs/bad.json")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestOutputs(t *testing.T) {
	Convey("Given a lesson to download", t, func() {
		course := Course{Title: "Основы монтажа"}
		lesson := Lesson{Title: "Введение"}

		Convey("A single track lands next to its siblings in the course directory", func() {
			paths := Outputs("/videos", course, lesson, 1)
			So(paths, ShouldResemble, []string{filepath.Join("/videos", "Основы_монтажа", "Введение")})
		})

		Convey("Parallel tracks get their own enumerated directory", func() {
			paths := Outputs("/videos", course, lesson, 3)
			So(paths, ShouldHaveLength, 3)
			So(paths[0], ShouldEqual, filepath.Join("/videos", "Основы_монтажа", "Введение", "video_1"))
			So(paths[2], ShouldEqual, filepath.Join("/videos", "Основы_монтажа", "Введение", "video_3"))
		})

		Convey("Unsafe title characters never reach the path", func() {
			paths := Outputs("/videos", Course{Title: "A/B"}, Lesson{Title: "C:D?"}, 1)
			So(paths[0], ShouldNotContainSubstring, "A/B")
			So(paths[0], ShouldNotContainSubstring, "?")
		})
	})
}
