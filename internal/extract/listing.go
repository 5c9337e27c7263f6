package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Engine selects how a rule locates a node within a listing element.
type Engine string

const (
	EngineCSS   Engine = "css"
	EngineXPath Engine = "xpath"
)

// Rule locates one value inside a listing element. An empty Attribute means
// the node's text content is taken.
type Rule struct {
	Engine    Engine
	Query     string
	Attribute string
}

// Listing is one parsed listing element, queryable by CSS selector or XPath.
type Listing struct {
	doc  *goquery.Document
	root *html.Node
}

// ParseListing parses the outer HTML of a single listing element.
func ParseListing(outerHTML string) (*Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(outerHTML))
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}
	root := doc.Get(0)
	if root == nil {
		return nil, fmt.Errorf("parse listing: empty document")
	}
	return &Listing{doc: doc, root: root}, nil
}

// Lookup applies a rule and returns the first matched value. The boolean is
// false when no node matches or the matched value is empty.
func (l *Listing) Lookup(r Rule) (string, bool) {
	switch r.Engine {
	case EngineXPath:
		return l.lookupXPath(r)
	default:
		return l.lookupCSS(r)
	}
}

func (l *Listing) lookupCSS(r Rule) (string, bool) {
	sel := l.doc.Find(r.Query).First()
	if sel.Length() == 0 {
		return "", false
	}
	if r.Attribute != "" {
		v, ok := sel.Attr(r.Attribute)
		if !ok || v == "" {
			return "", false
		}
		return v, true
	}
	text := strings.TrimSpace(sel.Text())
	return text, text != ""
}

func (l *Listing) lookupXPath(r Rule) (string, bool) {
	node, err := htmlquery.Query(l.root, r.Query)
	if err != nil || node == nil {
		return "", false
	}
	if r.Attribute != "" {
		v := htmlquery.SelectAttr(node, r.Attribute)
		return v, v != ""
	}
	text := strings.TrimSpace(htmlquery.InnerText(node))
	return text, text != ""
}
