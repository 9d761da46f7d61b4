// Package tui holds terminal presentation helpers for the CLI.
package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Completion services frequently reply in markdown; this keeps the CLI
// output readable without coupling the core packages to a terminal
// library.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Fall back to plain text when the terminal cannot be probed.
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
