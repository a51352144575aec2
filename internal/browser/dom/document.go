// internal/browser/dom/document.go
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Document is the live page the utilities operate on. It wraps the parsed
// node tree and the event listeners registered against its nodes.
//
// A Document is not safe for concurrent use. The host drives it from a single
// goroutine, the same way a page's script context runs on one thread.
type Document struct {
	root   *html.Node
	logger *zap.Logger

	// listeners maps a node to its registered listeners, keyed by event type.
	listeners map[*html.Node]map[string][]*listenerEntry
	nextID    int
}

// NewDocument wraps an already parsed node tree.
func NewDocument(root *html.Node, logger *zap.Logger) *Document {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Document{
		root:      root,
		logger:    logger.Named("dom"),
		listeners: make(map[*html.Node]map[string][]*listenerEntry),
	}
}

// Parse reads an HTML page and returns a Document for it.
func Parse(r io.Reader, logger *zap.Logger) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML document: %w", err)
	}
	if len(gq.Nodes) == 0 {
		return nil, fmt.Errorf("parsed HTML document has no root node")
	}
	return NewDocument(gq.Nodes[0], logger), nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(src string, logger *zap.Logger) (*Document, error) {
	return Parse(strings.NewReader(src), logger)
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Logger returns the document's logger.
func (d *Document) Logger() *zap.Logger {
	return d.logger
}

// Render serializes the current state of the page.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// HTML returns the serialized page.
func (d *Document) HTML() (string, error) {
	return goquery.OuterHtml(goquery.NewDocumentFromNode(d.root).Selection)
}

// Wrap returns the Element for a node of this document. Nil and non-element
// nodes map to nil.
func (d *Document) Wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return &Element{doc: d, node: n}
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	elems := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if el := d.Wrap(n); el != nil {
			elems = append(elems, el)
		}
	}
	return elems
}

// -- Selector Resolution --

// compile parses a CSS3 selector group. Invalid selectors are reported to the
// debug log and treated as matching nothing.
func (d *Document) compile(selector string) cascadia.Matcher {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		d.logger.Debug("Invalid CSS selector; treating as no match.",
			zap.String("selector", selector), zap.Error(err))
		return nil
	}
	return sel
}

// QuerySelector returns the first element matching selector in document
// order, or nil.
func (d *Document) QuerySelector(selector string) *Element {
	return d.queryOne(d.root, selector)
}

// QuerySelectorAll returns every element matching selector in document order.
// The result is empty, never nil, when nothing matches.
func (d *Document) QuerySelectorAll(selector string) []*Element {
	return d.queryAll(d.root, selector)
}

// GetElementByID returns the first element with the given id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	return d.Wrap(findFirst(d.root, func(n *html.Node) bool {
		return attr(n, "id") == id
	}))
}

// ElementsByName returns every element whose name attribute equals name.
func (d *Document) ElementsByName(name string) []*Element {
	return d.wrapAll(findAll(d.root, func(n *html.Node) bool {
		v, ok := attrOK(n, "name")
		return ok && v == name
	}))
}

// Body returns the body element, or nil.
func (d *Document) Body() *Element {
	return d.Wrap(findFirst(d.root, func(n *html.Node) bool {
		return n.Data == "body"
	}))
}

func (d *Document) queryOne(scope *html.Node, selector string) *Element {
	if scope == nil {
		return nil
	}
	m := d.compile(selector)
	if m == nil {
		return nil
	}
	return d.Wrap(cascadia.Query(scope, m))
}

func (d *Document) queryAll(scope *html.Node, selector string) []*Element {
	if scope == nil {
		return []*Element{}
	}
	m := d.compile(selector)
	if m == nil {
		return []*Element{}
	}
	return d.wrapAll(cascadia.QueryAll(scope, m))
}

// -- Tree walking helpers --

// findFirst returns the first descendant element of n (in document order)
// satisfying pred.
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && pred(c) {
			return c
		}
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// findAll collects every descendant element of n satisfying pred.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && pred(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}
