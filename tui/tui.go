// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Catalog is the path to the courses.json file to browse.
	Catalog string
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	bubble := newBubble(options)
	bubble.newState(loadingState)

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
