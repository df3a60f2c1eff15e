// Package extract pulls structured fields out of article and listing pages.
// Every lookup takes an ordered list of selectors tried until one yields a
// non-empty result; a full miss is an empty value, never an error.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FirstText returns the trimmed text of the first selector that matches a
// non-empty element.
func FirstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// Text returns the trimmed text of a single selector's first match.
func Text(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// Texts returns the trimmed, non-empty texts of every match of selector, in
// document order.
func Texts(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// FirstHref returns the href attribute of the first selector that matches an
// element carrying one.
func FirstHref(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if href, ok := doc.Find(sel).First().Attr("href"); ok && href != "" {
			return href
		}
	}
	return ""
}

// Hrefs collects every href under selector, in document order, duplicates
// included.
func Hrefs(root *goquery.Selection, selector string) []string {
	var out []string
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			out = append(out, href)
		}
	})
	return out
}

// Body locates the article body. Containers are tried in priority order and
// the first non-empty match wins; when none match, the page's paragraph,
// list-item and heading elements are collected as a loose body and links are
// harvested page-wide.
func Body(doc *goquery.Document, containers []string, loose string) (*goquery.Selection, string) {
	for _, sel := range containers {
		s := doc.Find(sel)
		if s.Length() == 0 {
			continue
		}
		if html, err := goquery.OuterHtml(s.First()); err == nil && html != "" {
			return s.First(), html
		}
	}

	var b strings.Builder
	doc.Find(loose).Each(func(_ int, s *goquery.Selection) {
		if html, err := goquery.OuterHtml(s); err == nil {
			b.WriteString(html)
		}
	})
	return doc.Selection, b.String()
}
