// Package markup pulls individual fields out of feed-entry summary HTML.
// The featured feeds embed their payload (image links, descriptions,
// definitions) in rendered wikitext, so each feed trigger scrapes the
// fields it needs with CSS selectors.
package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"wiki-triggers/internal/domain/entity"
)

// Parse builds a queryable document from an entry's summary markup.
func Parse(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Select returns the first node matching the selector. The featured feeds
// are produced by MediaWiki itself and assumed well-formed, so a missing
// node is an ExtractError rather than a skip.
func Select(doc *goquery.Document, selector string) (*goquery.Selection, error) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, &entity.ExtractError{Selector: selector}
	}
	return sel, nil
}

// Attr returns an attribute of the first node matching the selector.
func Attr(doc *goquery.Document, selector, name string) (string, error) {
	sel, err := Select(doc, selector)
	if err != nil {
		return "", err
	}
	value, ok := sel.Attr(name)
	if !ok {
		return "", &entity.ExtractError{Selector: selector + "[" + name + "]"}
	}
	return value, nil
}

// Text returns the trimmed text content of the first node matching the
// selector.
func Text(doc *goquery.Document, selector string) (string, error) {
	sel, err := Select(doc, selector)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sel.Text()), nil
}
