// Package document exposes the narrow query capability the analysis engines
// read pages through: select elements, read attributes and text.
package document

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is one node matched by a selector.
type Element interface {
	// Attr returns the attribute value and whether it is present.
	Attr(name string) (string, bool)
	// Text returns the concatenated text content of the element.
	Text() string
}

// Document is a read-only view of one parsed page.
type Document interface {
	// Find returns every element matching the CSS selector, in document order.
	Find(selector string) []Element
	// HTML returns the serialized page markup as it was received.
	HTML() string
	// VisibleText returns the rendered text of the body with whitespace collapsed.
	VisibleText() string
	// URL returns the page address the document was loaded from.
	URL() *url.URL
}

type goqueryDocument struct {
	doc  *goquery.Document
	raw  string
	page *url.URL
}

type selectionElement struct {
	sel *goquery.Selection
}

// Parse reads HTML from r and returns a Document anchored at pageURL.
func Parse(pageURL string, r io.Reader) (Document, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("page url %q is not absolute", pageURL)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc.Url = u

	return &goqueryDocument{doc: doc, raw: string(raw), page: u}, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(pageURL, markup string) (Document, error) {
	return Parse(pageURL, strings.NewReader(markup))
}

func (d *goqueryDocument) Find(selector string) []Element {
	sel := d.doc.Find(selector)
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, selectionElement{sel: s})
	})
	return out
}

func (d *goqueryDocument) HTML() string {
	return d.raw
}

func (d *goqueryDocument) URL() *url.URL {
	u := *d.page
	return &u
}

func (d *goqueryDocument) VisibleText() string {
	root := d.doc.Find("body")
	if root.Length() == 0 {
		root = d.doc.Selection
	}

	var b strings.Builder
	for _, n := range root.Nodes {
		collectText(n, &b)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// hidden lists elements whose content is never rendered as text.
var hidden = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
	atom.Svg:      true,
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	case html.ElementNode:
		if hidden[n.DataAtom] {
			return
		}
	case html.CommentNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func (e selectionElement) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e selectionElement) Text() string {
	return e.sel.Text()
}

// Origin returns scheme://host of u.
func Origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// Resolve resolves ref against the document URL.
func Resolve(doc Document, ref string) (*url.URL, error) {
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, err
	}
	return doc.URL().ResolveReference(r), nil
}
