// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"

	"github.com/gcourse-cli/gcourse/catalog"
	"github.com/gcourse-cli/gcourse/hls"
	"github.com/gcourse-cli/gcourse/icon"
	"github.com/gcourse-cli/gcourse/util"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Process Ephemeral UI Notifications (captures `string` and `ui.ClearNotificationMsg`)
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = tea.Batch(cmd, uiCmd)
	}

	switch msg := msg.(type) {
	case error:
		b.stopLoading()
		b.raiseError(msg)
		return b, b.waitForError()
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.forceQuit):
			if b.downloadCancel != nil {
				b.downloadCancel()
			}
			return b, tea.Quit
		}

		// Input Guard: Ignore non-priority keys during asynchronous operations.
		if b.busy && b.state != downloadState && b.state != errorState {
			return b, nil
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			onListBack := func(l *list.Model) tea.Cmd {
				l.ResetSelected()
				l.ResetFilter()
				return tea.Batch(cmd, l.NewStatusMessage(""))
			}

			switch b.state {
			case lessonsState:
				if b.lessonsC.FilterState() != list.Unfiltered {
					b.lessonsC, cmd = b.lessonsC.Update(msg)
					return b, cmd
				}
				b.selectedLessons = make(map[*catalog.Lesson]struct{})
				cmd = onListBack(&b.lessonsC)
			case coursesState:
				if b.coursesC.FilterState() != list.Unfiltered {
					b.coursesC, cmd = b.coursesC.Update(msg)
					return b, cmd
				}
				cmd = onListBack(&b.coursesC)
			case downloadState:
				// Abandon the running batch and return to the lesson picker.
				if b.downloadCancel != nil {
					b.downloadCancel()
				}
				b.busy = false
				b.setState(lessonsState)
				return b, cmd
			case doneState:
				b.setState(lessonsState)
				return b, cmd
			}

			b.previousState()
			b.stopLoading()
			return b, cmd
		}
	}

	switch b.state {
	case loadingState:
		return b.updateLoading(msg)
	case coursesState:
		return b.updateCourses(msg)
	case lessonsState:
		return b.updateLessons(msg)
	case downloadState:
		return b.updateDownload(msg)
	case doneState:
		return b.updateDone(msg)
	case errorState:
		return b.updateError(msg)
	}

	return b, cmd
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case catalogLoadedMsg:
		b.stopLoading()
		b.catalogEntries = catalog.Catalog(msg)

		var items []list.Item
		for i := range b.catalogEntries {
			items = append(items, &listItem{internal: &b.catalogEntries[i]})
		}

		b.newState(coursesState)
		return b, b.coursesC.SetItems(items)
	case spinner.TickMsg:
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	}

	return b, nil
}

func (b *statefulBubble) updateCourses(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && b.coursesC.FilterState() != list.Filtering {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			item, ok := b.coursesC.SelectedItem().(*listItem)
			if !ok {
				return b, nil
			}

			b.selectedCourse = item.internal.(*catalog.Course)
			b.selectedLessons = make(map[*catalog.Lesson]struct{})

			var items []list.Item
			for i := range b.selectedCourse.Lessons {
				items = append(items, &listItem{internal: &b.selectedCourse.Lessons[i]})
			}

			b.lessonsC.ResetSelected()
			b.newState(lessonsState)
			return b, b.lessonsC.SetItems(items)
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}
	}

	b.coursesC, cmd = b.coursesC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateLessons(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && b.lessonsC.FilterState() != list.Filtering {
		switch {
		case bubblesKey.Matches(msg, b.keymap.selectOne):
			item, ok := b.lessonsC.SelectedItem().(*listItem)
			if !ok {
				return b, nil
			}

			item.toggleMark()
			lesson := item.internal.(*catalog.Lesson)
			if item.marked {
				b.selectedLessons[lesson] = struct{}{}
			} else {
				delete(b.selectedLessons, lesson)
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.selectAll):
			for _, item := range b.lessonsC.Items() {
				item := item.(*listItem)
				if !item.marked {
					item.toggleMark()
					b.selectedLessons[item.internal.(*catalog.Lesson)] = struct{}{}
				}
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.clearSelection):
			for _, item := range b.lessonsC.Items() {
				item := item.(*listItem)
				if item.marked {
					item.toggleMark()
				}
			}
			b.selectedLessons = make(map[*catalog.Lesson]struct{})
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			queue := b.selectedLessonsOrdered()

			// Nothing marked downloads the highlighted lesson.
			if len(queue) == 0 {
				item, ok := b.lessonsC.SelectedItem().(*listItem)
				if !ok {
					return b, nil
				}
				queue = append(queue, item.internal.(*catalog.Lesson))
			}

			b.busy = true
			b.queue = queue
			b.segmentsDone = 0
			b.segmentsTotal = 0
			b.percent = 0
			b.progressStatus = "Starting"
			b.setState(downloadState)
			return b, tea.Batch(b.spinnerC.Tick, b.startDownload(queue), b.waitForDownloadUpdate())
		}
	}

	b.lessonsC, cmd = b.lessonsC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateDownload(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case progressMsg:
		event := hls.Event(msg)

		switch event.Kind {
		case hls.EventQuality:
			if event.Err == nil {
				b.progressStatus = fmt.Sprintf("Trying %sp", event.Quality)
			} else {
				b.progressStatus = fmt.Sprintf("Quality %sp failed, falling back", event.Quality)
			}
			b.segmentsDone = 0
			b.segmentsTotal = 0
			b.percent = 0
		case hls.EventResolved:
			b.segmentsDone = 0
			b.segmentsTotal = event.Total
			b.percent = 0
			b.progressStatus = fmt.Sprintf("Downloading %s", util.Quantify(event.Total, "segment", "segments"))
		case hls.EventSegment:
			b.segmentsDone++
			if b.segmentsTotal > 0 {
				b.percent = float64(b.segmentsDone) / float64(b.segmentsTotal)
			}
		case hls.EventMerging:
			b.progressStatus = "Merging segments"
		case hls.EventRemuxing:
			b.progressStatus = "Remuxing"
		}

		return b, tea.Batch(cmd, b.waitForDownloadUpdate())
	case lessonResultMsg:
		result := lessonResult(msg)
		b.results = append(b.results, result)

		if result.err == nil {
			cmd = tea.Batch(cmd, b.notifier.Update(fmt.Sprintf("%s %s", icon.Get(icon.Success), result.lesson.Title)))
		}

		return b, tea.Batch(cmd, b.waitForDownloadUpdate())
	case downloadsDoneMsg:
		b.busy = false
		b.downloadCancel = nil
		b.setState(doneState)
		return b, cmd
	case spinner.TickMsg:
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	}

	return b, cmd
}

func (b *statefulBubble) updateDone(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.confirm):
			b.setState(lessonsState)
		}
	}

	return b, nil
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}
	}

	return b, nil
}
