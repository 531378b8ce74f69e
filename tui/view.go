// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/gcourse-cli/gcourse/color"
	"github.com/gcourse-cli/gcourse/icon"
	"github.com/gcourse-cli/gcourse/style"
	"github.com/gcourse-cli/gcourse/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case coursesState:
		output = b.viewCourses()
	case lessonsState:
		output = b.viewLessons()
	case downloadState:
		output = b.viewDownload()
	case doneState:
		output = b.viewDone()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " Loading catalog",
		},
	)
}

func (b *statefulBubble) viewCourses() string {
	return listExtraPaddingStyle.Render(b.coursesC.View())
}

func (b *statefulBubble) viewLessons() string {
	return listExtraPaddingStyle.Render(b.lessonsC.View())
}

func (b *statefulBubble) viewDownload() string {
	var lessonName string
	if idx := len(b.results); idx < len(b.queue) {
		lessonName = b.queue[idx].Title
	}

	lines := []string{
		style.Title("Downloading"),
		"",
		style.Truncate(b.width)(fmt.Sprintf(icon.Get(icon.Download)+" %s %s", style.Fg(color.Purple)(lessonName), style.Faint(fmt.Sprintf("(%d/%d)", len(b.results)+1, len(b.queue))))),
		"",
		b.progressC.ViewAs(b.percent),
		"",
		style.Truncate(b.width)(b.spinnerC.View() + " " + b.progressStatus),
	}

	if b.segmentsTotal > 0 {
		lines = append(lines, "", style.Faint(fmt.Sprintf("%d of %s", b.segmentsDone, util.Quantify(b.segmentsTotal, "segment", "segments"))))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewDone() string {
	lines := []string{
		style.Title("Done"),
		"",
	}

	for _, result := range b.results {
		if result.err == nil {
			lines = append(lines, style.Truncate(b.width)(fmt.Sprintf("%s %s", icon.Get(icon.Success), result.lesson.Title)))
		} else {
			lines = append(lines, style.Truncate(b.width)(fmt.Sprintf("%s %s %s", icon.Get(icon.Fail), result.lesson.Title, style.Faint(result.err.Error()))))
		}
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorBody := errorStyle.Render(fmt.Sprintf("Critical Failure: %v", b.lastError.Error()))
	errorMsg := wrap.String(errorBody, b.width)
	return b.renderLines(
		true,
		append([]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
		},
			errorMsg,
		),
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
