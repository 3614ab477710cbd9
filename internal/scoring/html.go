package scoring

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// h3 and below are entry titles inside a section
const headingSelector = "h1, h2"

func parseHTML(raw string) (*Document, error) {
	page, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, &ParseError{Format: FormatHTML, Message: "failed to parse HTML", Cause: err}
	}
	doc := &Document{Format: FormatHTML}

	if n := page.Find("img, svg, canvas").Length(); n > 0 {
		doc.ATSIssues = append(doc.ATSIssues, "ATS killer: Images/Graphics")
	}
	if multiColumn(page) {
		doc.ATSIssues = append(doc.ATSIssues, "ATS killer: Multi-column layout")
	}
	doc.Tables = page.Find("table").Length()

	page.Find("script, style, noscript").Remove()
	body := page.Find("body")
	doc.Text = collapseSpace(body.Text())

	headings := body.Find(headingSelector)
	headings.Each(func(_ int, h *goquery.Selection) {
		heading := collapseSpace(h.Text())
		if heading == "" {
			return
		}
		doc.Sections = append(doc.Sections, newSection(heading, h.NextUntil(headingSelector).Text()))
	})
	if headings.Length() == 0 {
		doc.StructureIssues = append(doc.StructureIssues, "No section headings")
	}

	body.Find("li").Each(func(_ int, li *goquery.Selection) {
		if text := collapseSpace(li.Text()); text != "" {
			doc.Bullets = append(doc.Bullets, text)
		}
	})
	return doc, nil
}

// multiColumn reports CSS column layouts in inline styles or style blocks
func multiColumn(page *goquery.Document) bool {
	found := false
	page.Find("style, [style]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		css := s.Text()
		if style, ok := s.Attr("style"); ok {
			css += style
		}
		css = strings.ToLower(css)
		if strings.Contains(css, "column-count") || strings.Contains(css, "columns:") {
			found = true
		}
		return !found
	})
	return found
}
