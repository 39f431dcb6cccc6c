package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/cv-builder/internal/rendering"
)

const printCSS = `@page { size: A4; margin: 0; }
html, body { margin: 0; padding: 0; background: #ffffff; }
.print-page {
  position: relative;
  width: 210mm;
  height: 297mm;
  overflow: hidden;
  break-after: page;
  page-break-after: always;
}
.print-page:last-child { break-after: auto; page-break-after: auto; }
.print-content { position: absolute; left: 0; right: 0; }
.print-content .cv { margin: 0; min-height: 0; }
@media screen {
  body { background: #e5e7eb; }
  .print-page { margin: 16px auto; box-shadow: 0 1px 4px rgba(0, 0, 0, 0.2); background: #ffffff; }
}
`

// PrintHTML lays the preview out as A4 pages: one fixed-size frame per page, each showing
// the document shifted up by the height of the pages before it.
func PrintHTML(preview *rendering.Preview) string {
	v := preview.Visual
	pages := max(1, preview.Pages)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(html.EscapeString(v.Title))
	b.WriteString("</title>\n<style>\n")
	b.WriteString(v.Style)
	b.WriteString(printCSS)
	b.WriteString("</style>\n</head>\n<body>\n")
	for i := 0; i < pages; i++ {
		fmt.Fprintf(&b, "<div class=\"print-page\" data-page=\"%d\">\n<div class=\"print-content\" style=\"top: -%dpx\">\n", i+1, i*rendering.A4HeightPx)
		b.WriteString(pageBody(v.Body, i+1))
		b.WriteString("\n</div>\n</div>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// pageBody returns the copy of body shown in the given page frame. Inline-edit attributes
// are dropped and, from the second page on, every id gets a "-p<N>" suffix.
func pageBody(body string, page int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}
	doc.Find("[contenteditable]").RemoveAttr("contenteditable")
	doc.Find("[data-field]").RemoveAttr("data-field")
	if page > 1 {
		doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
			id, _ := s.Attr("id")
			s.SetAttr("id", fmt.Sprintf("%s-p%d", id, page))
		})
	}
	out, err := doc.Find("body").Html()
	if err != nil {
		return body
	}
	return out
}
