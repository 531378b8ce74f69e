// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init initializes the terminal user interface, triggering the catalog load.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(
		b.spinnerC.Tick,
		b.startLoading(),
		b.loadCatalog(),
		b.waitForCatalogLoaded(),
		b.waitForError(),
	)
}
