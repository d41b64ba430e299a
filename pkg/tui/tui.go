// Package tui holds the CLI's output styling. Plain text helpers only;
// the tool has no interactive surface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chronofmt/chronofmt/pkg/registry"
)

// Colors (Swiss minimal)
var (
	accent  = lipgloss.Color("#FF0000")
	muted   = lipgloss.Color("#666666")
	success = lipgloss.Color("#00CC66")
	white   = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(white)
	accentStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
	codeStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#1a1a1a")).Foreground(white).Padding(0, 1)
)

// Title renders a heading.
func Title(s string) string { return titleStyle.Render(s) }

// Muted renders secondary text.
func Muted(s string) string { return mutedStyle.Render(s) }

// Success renders a success marker line.
func Success(s string) string { return successStyle.Render("✓ " + s) }

// Errorf renders an error line.
func Errorf(format string, args ...any) string {
	return accentStyle.Render("✗ " + fmt.Sprintf(format, args...))
}

// Code renders inline code, e.g. a pattern or a rendered timestamp.
func Code(s string) string { return codeStyle.Render(s) }

// RenderCatalog renders the layout catalog as an aligned table.
func RenderCatalog(infos []registry.Info) string {
	var b strings.Builder

	nameWidth := len("NAME")
	for _, info := range infos {
		if len(info.Name) > nameWidth {
			nameWidth = len(info.Name)
		}
	}

	b.WriteString(mutedStyle.Render(fmt.Sprintf("%-*s  %-5s  %s", nameWidth, "NAME", "PRINT", "PARSE")))
	b.WriteString("\n")
	for _, info := range infos {
		// Pad before styling so ANSI codes do not skew the columns.
		name := titleStyle.Render(fmt.Sprintf("%-*s", nameWidth, info.Name))
		b.WriteString(fmt.Sprintf("%s  %s  %s\n", name, mark(info.CanPrint), mark(info.CanParse)))
	}
	return b.String()
}

func mark(ok bool) string {
	if ok {
		return successStyle.Render(fmt.Sprintf("%-5s", "yes"))
	}
	return mutedStyle.Render(fmt.Sprintf("%-5s", "-"))
}
