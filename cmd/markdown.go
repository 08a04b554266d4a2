package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// formatMarkdown renders md for the terminal. It returns md unchanged when
// stdout is not a terminal or the rendering fails.
func formatMarkdown(md string) string {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return md
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		width = 120
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// printMarkdown prints md on stdout, rendered unless raw is set.
func printMarkdown(md string, raw bool) {
	if raw {
		fmt.Print(md)
		return
	}
	fmt.Print(formatMarkdown(md))
}
