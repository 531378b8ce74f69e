package catalog

import (
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/mo"
)

// Filter returns the catalog narrowed to lessons fuzzy-matching the query.
// Course titles match too, keeping the whole course in that case. An empty
// query returns the catalog unchanged.
func (c Catalog) Filter(query string) Catalog {
	if query == "" {
		return c
	}

	var out Catalog
	for _, course := range c {
		if fuzzy.MatchNormalizedFold(query, course.Title) {
			out = append(out, course)
			continue
		}

		var lessons []Lesson
		for _, lesson := range course.Lessons {
			if fuzzy.MatchNormalizedFold(query, lesson.Title) {
				lessons = append(lessons, lesson)
			}
		}
		if len(lessons) > 0 {
			out = append(out, Course{Title: course.Title, Lessons: lessons})
		}
	}
	return out
}

// Closest returns the lesson title nearest to the query by edit distance,
// used for "did you mean" suggestions when a filter matches nothing.
func (c Catalog) Closest(query string) mo.Option[string] {
	best := mo.None[string]()
	bestDistance := -1

	for _, course := range c {
		for _, lesson := range course.Lessons {
			d := levenshtein.Distance(query, lesson.Title)
			if bestDistance < 0 || d < bestDistance {
				bestDistance = d
				best = mo.Some(lesson.Title)
			}
		}
	}
	return best
}
