// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cv-builder/internal/daterange"
	"github.com/jonathan/cv-builder/internal/i18n"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		line = truncate(line, boxWidth-4)
		pad := boxWidth - 4 - utf8.RuneCountInString(line)
		fmt.Fprintf(p.out, "│ %s%s │\n", line, strings.Repeat(" ", pad))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDocument outputs a human-readable summary of the CV document.
func (p *Printer) PrintDocument(doc types.CVDocument, labels *i18n.Labels) {
	var sb strings.Builder

	name := doc.Personal.FullName()
	if name == "" {
		name = "(no name)"
	}
	sb.WriteString(fmt.Sprintf("Name:     %s\n", name))
	if doc.Personal.Role != "" {
		sb.WriteString(fmt.Sprintf("Role:     %s\n", doc.Personal.Role))
	}
	if doc.Personal.ProfessionalLevel != types.LevelNone {
		sb.WriteString(fmt.Sprintf("Level:    %s\n", doc.Personal.ProfessionalLevel))
	}
	if doc.Personal.HasPhoto() {
		sb.WriteString("Photo:    yes\n")
	}
	sb.WriteString("\n")

	for _, section := range types.ListSections {
		n := doc.Len(section)
		if n == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-22s %d\n", labels.Section(section)+":", n))
	}
	if doc.ReferencesAvailableOnRequest {
		sb.WriteString(labels.ReferencesOnRequest + "\n")
	}

	if len(doc.Experience) > 0 {
		sb.WriteString("\n")
		count := min(len(doc.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := doc.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s @ %s", e.Role, e.Company))
			if period := daterange.Format(e.Duration, labels.Present); period != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", period))
			}
			sb.WriteString("\n")
		}
		if len(doc.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Experience)-maxItemsToShow))
		}
	}

	p.printBox("CV DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSavedCVs outputs the saved CV collection, most recent first.
func (p *Printer) PrintSavedCVs(saved []types.SavedCV) {
	if len(saved) == 0 {
		p.printBox("SAVED CVS", "No saved CVs")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total saved: %d\n\n", len(saved)))
	for i, cv := range saved {
		sb.WriteString(fmt.Sprintf("%s  %s\n", truncate(cv.ID, 36), truncate(cv.Name, 16)))
		sb.WriteString(fmt.Sprintf("    %s · %s\n", cv.Template, cv.LastModified.Format("2006-01-02 15:04")))
		if i < len(saved)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SAVED CVS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPreview outputs the pagination result of a rendered preview.
func (p *Printer) PrintPreview(preview *rendering.Preview) {
	if preview == nil || preview.Visual == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Template: %s\n", preview.Visual.Template))
	sb.WriteString(fmt.Sprintf("Height:   %.0fpx\n", preview.Height))
	sb.WriteString(fmt.Sprintf("Pages:    %d\n", preview.Pages))
	if len(preview.Visual.Sections) > 0 {
		names := make([]string, len(preview.Visual.Sections))
		for i, s := range preview.Visual.Sections {
			names[i] = string(s)
		}
		sb.WriteString("\nSections:\n")
		for _, line := range wrap(strings.Join(names, ", "), boxWidth-6) {
			sb.WriteString("  " + line + "\n")
		}
	}

	p.printBox("PREVIEW", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTemplates outputs the available skins and their capabilities.
func (p *Printer) PrintTemplates(skins []rendering.Renderer, current string) {
	var sb strings.Builder
	for _, r := range skins {
		marker := " "
		if r.Name() == current {
			marker = "*"
		}
		edit := ""
		if r.SupportsInlineEdit() {
			edit = "inline-edit"
		}
		sb.WriteString(fmt.Sprintf("%s %-10s %-12s %s\n", marker, r.Name(), r.EmptyPolicy(), edit))
	}
	p.printBox("TEMPLATES", strings.TrimSuffix(sb.String(), "\n"))
}

// wrap splits s into lines of at most width runes at word boundaries.
func wrap(s string, width int) []string {
	var lines []string
	var cur string
	for _, word := range strings.Fields(s) {
		switch {
		case cur == "":
			cur = word
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(word) > width:
			lines = append(lines, cur)
			cur = word
		default:
			cur += " " + word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
