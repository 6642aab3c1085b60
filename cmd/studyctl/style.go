package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w, headerStyle.Render(title))
}

func printEmpty(w io.Writer, what string) {
	fmt.Fprintln(w, mutedStyle.Render("no "+what))
}

// printCreated reports a new record, or only its id in quiet mode.
func printCreated(w io.Writer, kind, id, summary string) {
	if quietFlag {
		fmt.Fprintln(w, id)
		return
	}
	fmt.Fprintf(w, "%s %s %s\n", okStyle.Render("created "+kind), id, summary)
}

func row(fields ...string) string {
	return strings.Join(fields, "  ")
}
