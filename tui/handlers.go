// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"

	"github.com/gcourse-cli/gcourse/catalog"
	"github.com/gcourse-cli/gcourse/hls"
	"github.com/gcourse-cli/gcourse/key"
	"github.com/gcourse-cli/gcourse/log"
	"github.com/gcourse-cli/gcourse/provider"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
)

type catalogLoadedMsg catalog.Catalog

type progressMsg hls.Event

type lessonResultMsg lessonResult

type downloadsDoneMsg struct{}

func (b *statefulBubble) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		path := b.options.Catalog
		if path == "" {
			path = viper.GetString(key.CatalogFile)
		}

		log.Info("loading catalog " + path)
		entries, err := catalog.Load(path)
		if err != nil {
			log.Error(err)
			b.errorChannel <- err
			return nil
		}

		b.catalogLoadedChannel <- entries
		return nil
	}
}

func (b *statefulBubble) waitForCatalogLoaded() tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg(<-b.catalogLoadedChannel)
	}
}

func (b *statefulBubble) waitForError() tea.Cmd {
	return func() tea.Msg {
		return <-b.errorChannel
	}
}

// waitForDownloadUpdate blocks until the download worker reports progress,
// a finished lesson, or completion of the whole batch.
func (b *statefulBubble) waitForDownloadUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-b.progressChannel:
			return progressMsg(e)
		case r := <-b.lessonDoneChannel:
			return lessonResultMsg(r)
		case <-b.downloadsDoneChannel:
			return downloadsDoneMsg{}
		}
	}
}

// startDownload launches the sequential lesson download worker.
// Lessons download one at a time; segment-level parallelism lives
// inside the hls pipeline.
func (b *statefulBubble) startDownload(lessons []*catalog.Lesson) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	b.downloadCancel = cancel
	b.results = nil

	course := *b.selectedCourse
	root := viper.GetString(key.DownloadPath)

	return func() tea.Msg {
		go func() {
			opts := hls.FromConfig()
			opts.Rewrite = provider.Rewrite
			opts.OnEvent = func(e hls.Event) {
				select {
				case b.progressChannel <- e:
				case <-ctx.Done():
				}
			}

			downloader := hls.New(opts)

			for _, lesson := range lessons {
				out := catalog.Outputs(root, course, *lesson, 1)[0]

				log.Info("downloading lesson " + lesson.Title)
				err := downloader.TryQualities(ctx, lesson.URL, out)
				if err != nil {
					log.Error(err)
				}

				select {
				case b.lessonDoneChannel <- lessonResult{lesson: lesson, err: err}:
				case <-ctx.Done():
					return
				}

				if ctx.Err() != nil {
					return
				}
			}

			select {
			case b.downloadsDoneChannel <- struct{}{}:
			case <-ctx.Done():
			}
		}()

		return nil
	}
}

// selectedLessonsOrdered returns the selected lessons in catalog order.
func (b *statefulBubble) selectedLessonsOrdered() []*catalog.Lesson {
	if b.selectedCourse == nil {
		return nil
	}

	var ordered []*catalog.Lesson
	for i := range b.selectedCourse.Lessons {
		lesson := &b.selectedCourse.Lessons[i]
		if _, ok := b.selectedLessons[lesson]; ok {
			ordered = append(ordered, lesson)
		}
	}
	return ordered
}
