package export

import (
	"io"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
)

// DOCXContentType is the MIME type of a .docx file.
const DOCXContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// templateStyles maps paragraph roles onto style ids of the library's default template.
// Roles missing here keep the template's Normal style.
var templateStyles = map[Style]string{
	StyleTitle:    "Title",
	StyleSubtitle: "Subtitle",
	StyleHeading:  "Heading1",
	StyleBullet:   "ListBullet",
}

// WriteDOCX builds a word-processor document holding the paragraphs and writes it to w.
func WriteDOCX(w io.Writer, paragraphs []Paragraph) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return &ExportError{Format: FormatDOCX, Message: "failed to create document", Cause: err}
	}

	for _, p := range paragraphs {
		style, styled := templateStyles[p.Style]
		for _, line := range docxLines(p) {
			dp := doc.AddParagraph("")
			if styled {
				dp.Style(style)
			}
			for _, r := range line {
				run := dp.AddText(r.Text)
				if r.Bold {
					run.Bold(true)
				}
				if r.Italic {
					run.Italic(true)
				}
			}
		}
	}

	if err := doc.Write(w); err != nil {
		return &ExportError{Format: FormatDOCX, Message: "failed to write document", Cause: err}
	}
	return nil
}

// docxLines splits the runs of p at line breaks into one run list per output paragraph.
// Tabs become spaces and other control characters are dropped.
func docxLines(p Paragraph) [][]Run {
	lines := [][]Run{nil}
	for _, r := range p.Runs {
		text := strings.Map(func(c rune) rune {
			switch {
			case c == '\t':
				return ' '
			case c == '\n':
				return c
			case c < 0x20, c == '\uFFFE', c == '\uFFFF':
				return -1
			}
			return c
		}, r.Text)
		for i, part := range strings.Split(text, "\n") {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				lines[len(lines)-1] = append(lines[len(lines)-1], Run{Text: part, Bold: r.Bold, Italic: r.Italic})
			}
		}
	}
	return lines
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// DOCXFilename derives the download name from the person's full name.
func DOCXFilename(fullName string) string {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return "CV_resume.docx"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, name)
	return whitespaceRun.ReplaceAllString(name, "_") + "_resume.docx"
}
