package rendering

import (
	"context"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Layout constants shared with base.css.
const (
	pagePaddingX      = 48
	pagePaddingBottom = 48
	lineHeight        = 1.5
	photoHeight       = 96
	asideShare        = 0.32
	columnGap         = 24
	entryGap          = 10
	// avgGlyphWidth is the average advance of a proportional glyph relative to the font size.
	avgGlyphWidth = 0.5
)

// EstimateMeasurer approximates the laid-out height of a document without a browser by
// walking the #cv-root markup and counting wrapped lines. It is deterministic and is used
// when no headless browser is available.
type EstimateMeasurer struct{}

// Measure returns the estimated height in CSS pixels.
func (EstimateMeasurer) Measure(ctx context.Context, v *VisualDocument) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(v.Body))
	if err != nil {
		return 0, err
	}
	root := doc.Find("#cv-root")
	if root.Length() == 0 {
		return 0, &MeasureError{Message: "document has no #cv-root"}
	}

	fontSize := attrFloat(root, "data-font-size", float64(v.Design.FontSize))
	marginTop := attrFloat(root, "data-margin-top", float64(v.Design.MarginTop))
	gap := attrFloat(root, "data-section-gap", float64(v.Design.SectionGap))
	line := fontSize * lineHeight
	width := float64(A4WidthPx - 2*pagePaddingX)

	est := estimator{fontSize: fontSize, line: line, gap: gap}
	height := marginTop + pagePaddingBottom + est.header(root.Find(".cv-header"), width)

	if layout, _ := root.Attr("data-layout"); layout == string(LayoutSidebar) {
		asideWidth := width*asideShare - columnGap/2
		mainWidth := width - asideWidth - columnGap
		aside := est.column(root.Find(".cv-aside"), asideWidth)
		main := est.column(root.Find(".cv-main"), mainWidth)
		height += math.Max(aside, main)
	} else {
		height += est.column(root.Find(".cv-main"), width)
	}
	return math.Ceil(height), nil
}

type estimator struct {
	fontSize float64
	line     float64
	gap      float64
}

func (e estimator) header(s *goquery.Selection, width float64) float64 {
	if s.Length() == 0 {
		return 0
	}
	text := 0.0
	s.Find(".cv-identity .cv-line").Each(func(_ int, l *goquery.Selection) {
		if l.HasClass("cv-name") {
			text += e.line * 1.6
			return
		}
		text += e.lines(l.Text(), width)
	})
	s.Find(".cv-contact").Each(func(_ int, l *goquery.Selection) {
		text += e.lines(l.Text(), width) * 0.9
	})
	if s.Find(".cv-photo").Length() > 0 {
		text = math.Max(text, photoHeight)
	}
	return text + e.gap
}

func (e estimator) column(s *goquery.Selection, width float64) float64 {
	total := 0.0
	s.Find(".cv-section").Each(func(_ int, sec *goquery.Selection) {
		total += e.section(sec, width) + e.gap
	})
	return total
}

func (e estimator) section(s *goquery.Selection, width float64) float64 {
	h := e.line*1.15 + 8
	s.Children().Each(func(_ int, c *goquery.Selection) {
		switch {
		case c.HasClass("cv-section-title"):
		case c.HasClass("cv-entry"):
			c.Find(".cv-line, .cv-text").Each(func(_ int, l *goquery.Selection) {
				h += e.lines(l.Text(), width)
			})
			h += entryGap
		case c.HasClass("cv-group"):
			h += e.line
			h += e.tags(c.Find(".cv-tag"), width)
		case c.HasClass("cv-tags"):
			h += e.tags(c.Find(".cv-tag"), width)
		default:
			h += e.lines(c.Text(), width)
		}
	})
	return h
}

// lines is the height of text wrapped at width; explicit newlines start new lines.
func (e estimator) lines(text string, width float64) float64 {
	perLine := math.Max(1, math.Floor(width/(e.fontSize*avgGlyphWidth)))
	n := 0.0
	for _, para := range strings.Split(strings.TrimSpace(text), "\n") {
		chars := float64(utf8.RuneCountInString(strings.TrimSpace(para)))
		n += math.Max(1, math.Ceil(chars/perLine))
	}
	return n * e.line
}

// tags is the height of a wrapping row of tag chips.
func (e estimator) tags(s *goquery.Selection, width float64) float64 {
	if s.Length() == 0 {
		return 0
	}
	rows, used := 1.0, 0.0
	s.Each(func(_ int, t *goquery.Selection) {
		w := float64(utf8.RuneCountInString(strings.TrimSpace(t.Text())))*e.fontSize*0.9*avgGlyphWidth + 22
		if used > 0 && used+w > width {
			rows++
			used = 0
		}
		used += w
	})
	return rows * (e.line + 6)
}

func attrFloat(s *goquery.Selection, name string, fallback float64) float64 {
	v, ok := s.Attr(name)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}
