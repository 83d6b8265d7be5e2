package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	summaryStyle = lipgloss.NewStyle().Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// ansiEnabled is a variable so tests can force plain output.
var ansiEnabled = func() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Heading styles a section heading.
func Heading(value string) string {
	return render(headingStyle, value)
}

// Summary styles the name of a summary task.
func Summary(value string) string {
	return render(summaryStyle, value)
}

// Warning styles a diagnostic line.
func Warning(value string) string {
	return render(warningStyle, value)
}

func render(style lipgloss.Style, value string) string {
	if value == "" || !ansiEnabled() {
		return value
	}
	return style.Render(value)
}

// Indent prefixes value with two spaces per level.
func Indent(value string, level int) string {
	if level <= 0 {
		return value
	}
	return strings.Repeat("  ", level) + value
}
