// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"

	"github.com/gcourse-cli/gcourse/catalog"
	"github.com/gcourse-cli/gcourse/icon"
	"github.com/gcourse-cli/gcourse/style"
	"github.com/gcourse-cli/gcourse/util"
	"github.com/charmbracelet/lipgloss"
)

// listItem implements the list.Item interface, wrapping various domain models for terminal display.
type listItem struct {
	internal interface{}
	marked   bool
}

func (t *listItem) toggleMark() {
	t.marked = !t.marked
}

func (t *listItem) getMark() string {
	switch t.internal.(type) {
	case *catalog.Lesson:
		return lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Mark))
	default:
		return ""
	}
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() (title string) {
	title = t.FilterValue()

	if title != "" && t.marked {
		title = fmt.Sprintf("%s %s", title, t.getMark())
	}

	return
}

// Description retrieves the secondary metadata line for the list item.
func (t *listItem) Description() string {
	switch e := t.internal.(type) {
	case *catalog.Course:
		return style.Faint(util.Quantify(len(e.Lessons), "lesson", "lessons"))
	case *catalog.Lesson:
		return style.Faint(e.URL)
	default:
		return ""
	}
}

// FilterValue provides the string used for fuzzy matching within filterable lists.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *catalog.Course:
		return e.Title
	case *catalog.Lesson:
		return e.Title
	case string:
		return e
	default:
		return fmt.Sprintf("%v", e)
	}
}
