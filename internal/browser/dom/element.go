// internal/browser/dom/element.go
package dom

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Element is a handle to an element node of a Document. Handles are cheap and
// created on demand; two handles are the same element when Node() is equal.
type Element struct {
	doc  *Document
	node *html.Node
}

// Node returns the underlying node.
func (e *Element) Node() *html.Node { return e.node }

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// Is reports whether both handles refer to the same node.
func (e *Element) Is(other *Element) bool {
	return other != nil && e.node == other.node
}

// TagName returns the lower-cased tag name.
func (e *Element) TagName() string {
	return strings.ToLower(e.node.Data)
}

// Type returns the lower-cased type attribute. Missing attributes yield "".
func (e *Element) Type() string {
	return strings.ToLower(strings.TrimSpace(e.Attr("type")))
}

// Name returns the name attribute.
func (e *Element) Name() string { return e.Attr("name") }

// ID returns the id attribute.
func (e *Element) ID() string { return e.Attr("id") }

// Attr returns the value of the named attribute, or "" when absent.
func (e *Element) Attr(name string) string {
	return htmlquery.SelectAttr(e.node, name)
}

// LookupAttr returns the attribute value and whether it is present.
func (e *Element) LookupAttr(name string) (string, bool) {
	return attrOK(e.node, name)
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := attrOK(e.node, name)
	return ok
}

// SetAttr sets or adds the attribute.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr removes the attribute if present.
func (e *Element) RemoveAttr(name string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
	}
}

// AttributeNames returns the attribute names in source order.
func (e *Element) AttributeNames() []string {
	names := make([]string, 0, len(e.node.Attr))
	for _, a := range e.node.Attr {
		names = append(names, a.Key)
	}
	return names
}

// TextContent returns the concatenated text of the element's descendants.
func (e *Element) TextContent() string {
	return htmlquery.InnerText(e.node)
}

// SetTextContent replaces the element's children with a single text node.
func (e *Element) SetTextContent(text string) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// Parent returns the parent element, or nil at the top of the tree.
func (e *Element) Parent() *Element {
	return e.doc.Wrap(e.node.Parent)
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// QuerySelector returns the first descendant matching selector, or nil.
func (e *Element) QuerySelector(selector string) *Element {
	return e.doc.queryOne(e.node, selector)
}

// QuerySelectorAll returns every descendant matching selector.
func (e *Element) QuerySelectorAll(selector string) []*Element {
	return e.doc.queryAll(e.node, selector)
}

// ElementsByName returns descendants whose name attribute equals name.
func (e *Element) ElementsByName(name string) []*Element {
	return e.doc.wrapAll(findAll(e.node, func(n *html.Node) bool {
		v, ok := attrOK(n, "name")
		return ok && v == name
	}))
}

// Contains reports whether other is this element or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// XPath returns a unique xpath locating the element, for diagnostics.
func (e *Element) XPath() string {
	return GenerateUniqueXPath(e.node)
}

// String describes the element for logs and error messages.
func (e *Element) String() string {
	var sb strings.Builder
	sb.WriteString(e.TagName())
	if id := e.ID(); id != "" {
		sb.WriteString("#" + id)
	}
	if t := e.Type(); t != "" {
		sb.WriteString(`[type="` + t + `"]`)
	}
	if name := e.Name(); name != "" {
		sb.WriteString(`[name="` + name + `"]`)
	}
	return sb.String()
}

// -- Form control state --

// Value returns the control's value slot. Inputs keep it in the value
// attribute, textareas in their text content, selects report the first
// selected option. Options fall back to their text when value is absent.
func (e *Element) Value() string {
	switch e.TagName() {
	case "textarea":
		return e.TextContent()
	case "select":
		opts := e.Options()
		for _, opt := range opts {
			if opt.Selected() {
				return opt.Value()
			}
		}
		// A single select shows its first option when none is selected.
		if !e.Multiple() && len(opts) > 0 {
			return opts[0].Value()
		}
		return ""
	case "option":
		if v, ok := e.LookupAttr("value"); ok {
			return v
		}
		return strings.TrimSpace(e.TextContent())
	default:
		return e.Attr("value")
	}
}

// SetValue writes the control's value slot.
func (e *Element) SetValue(v string) {
	switch e.TagName() {
	case "textarea":
		e.SetTextContent(v)
	case "select":
		for _, opt := range e.Options() {
			opt.SetSelected(opt.Value() == v)
		}
	default:
		e.SetAttr("value", v)
	}
}

// Checked reports the checked state of a checkbox or radio.
func (e *Element) Checked() bool { return e.HasAttr("checked") }

// SetChecked sets or clears the checked state.
func (e *Element) SetChecked(checked bool) {
	if checked {
		e.SetAttr("checked", "checked")
		return
	}
	e.RemoveAttr("checked")
}

// Selected reports whether an option is selected.
func (e *Element) Selected() bool { return e.HasAttr("selected") }

// SetSelected sets or clears an option's selected state.
func (e *Element) SetSelected(selected bool) {
	if selected {
		e.SetAttr("selected", "selected")
		return
	}
	e.RemoveAttr("selected")
}

// Disabled reports whether the control carries the disabled attribute.
func (e *Element) Disabled() bool { return e.HasAttr("disabled") }

// Multiple reports whether a select accepts several options.
func (e *Element) Multiple() bool { return e.HasAttr("multiple") }

// Options returns the option descendants of a select, including those inside
// optgroups.
func (e *Element) Options() []*Element {
	return e.doc.wrapAll(findAll(e.node, func(n *html.Node) bool {
		return n.Data == "option"
	}))
}

// Form returns the form owning this control: the element named by its form
// attribute, otherwise the nearest ancestor form.
func (e *Element) Form() *Element {
	if id, ok := e.LookupAttr("form"); ok {
		if f := e.doc.GetElementByID(id); f != nil && f.TagName() == "form" {
			return f
		}
		return nil
	}
	for n := e.node.Parent; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && n.Data == "form" {
			return e.doc.Wrap(n)
		}
	}
	return nil
}

// -- attribute helpers --

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
