// Package catalog defines the lesson catalog contract shared with the course
// scraper: a JSON file listing courses and the manifest URL of each lesson.
package catalog

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gcourse-cli/gcourse/filesystem"
	"github.com/gcourse-cli/gcourse/util"
)

// Lesson is one downloadable unit within a course.
type Lesson struct {
	// Title is the display name, already cleaned of platform progress markers.
	Title string `json:"title"`
	// URL is the lesson's playlist manifest URL, captured by the scraper.
	// The downloader resolves it directly; discovery happens upstream.
	URL string `json:"url"`
}

// Course groups lessons under a course title.
type Course struct {
	Title   string   `json:"course_title"`
	Lessons []Lesson `json:"lessons"`
}

// Catalog is the full course listing, in platform order.
type Catalog []Course

// progressMarkers matches the platform's per-lesson progress annotations
// that leak into scraped titles.
var progressMarkers = regexp.MustCompile(`(?i)\b(Просмотрено|Пройдено|Завершено)\b`)

// whitespaceRun collapses interior whitespace left behind by marker removal.
var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanTitle removes platform progress markers from a title and normalizes whitespace.
func CleanTitle(title string) string {
	cleaned := progressMarkers.ReplaceAllString(title, "")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(cleaned, " "))
}

// Load reads and validates a catalog file.
func Load(path string) (Catalog, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("catalog %s is empty", path)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	// Titles come straight from the scraper; clean them on the way in.
	for i := range c {
		c[i].Title = CleanTitle(c[i].Title)
		for j := range c[i].Lessons {
			c[i].Lessons[j].Title = CleanTitle(c[i].Lessons[j].Title)
		}
	}
	return c, nil
}

// Save writes the catalog back, pretty printed the way the scraper emits it.
func (c Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	return filesystem.API().WriteFile(path, data, 0644)
}

// Lessons returns the total lesson count across all courses.
func (c Catalog) Lessons() int {
	var n int
	for _, course := range c {
		n += len(course.Lessons)
	}
	return n
}

// Outputs returns the extension-less output paths for a lesson's videos.
// A single-track lesson produces one file named after the lesson inside the
// course directory; a multi-track lesson gets its own directory with
// enumerated video files.
func Outputs(root string, course Course, lesson Lesson, tracks int) []string {
	courseDir := filepath.Join(root, util.SanitizeFilename(course.Title))
	safeTitle := util.SanitizeFilename(lesson.Title)

	if tracks <= 1 {
		return []string{filepath.Join(courseDir, safeTitle)}
	}

	paths := make([]string, tracks)
	for i := range paths {
		paths[i] = filepath.Join(courseDir, safeTitle, fmt.Sprintf("video_%d", i+1))
	}
	return paths
}
