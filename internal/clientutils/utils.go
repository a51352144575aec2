// internal/clientutils/utils.go
package clientutils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
)

// FillScope decides where Fill looks up the fields it was given.
type FillScope int

const (
	// ScopeForm resolves fields among the controls owned by the form.
	ScopeForm FillScope = iota
	// ScopeDocument resolves fields by name across the whole document.
	ScopeDocument
)

func (s FillScope) String() string {
	if s == ScopeDocument {
		return "document"
	}
	return "form"
}

// ParseFillScope parses "form" or "document".
func ParseFillScope(s string) (FillScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "form":
		return ScopeForm, nil
	case "document":
		return ScopeDocument, nil
	default:
		return ScopeForm, fmt.Errorf("unknown fill scope %q (want \"form\" or \"document\")", s)
	}
}

// MethodInvoker calls a named zero-argument method on an element.
type MethodInvoker interface {
	Invoke(el *dom.Element, method string) (any, error)
}

// MethodInvokerFunc adapts a function to MethodInvoker.
type MethodInvokerFunc func(el *dom.Element, method string) (any, error)

// Invoke calls f.
func (f MethodInvokerFunc) Invoke(el *dom.Element, method string) (any, error) {
	return f(el, method)
}

// nativeInvoker uses the element method table of the dom package.
var nativeInvoker = MethodInvokerFunc(func(el *dom.Element, method string) (any, error) {
	return el.Invoke(method)
})

// Utils simulates user interaction against a document. It keeps no state of
// its own: every call resolves its selectors against the live document.
type Utils struct {
	doc       *dom.Document
	logger    *zap.Logger
	fillScope FillScope
	invoker   MethodInvoker
}

// Option configures Utils.
type Option func(*Utils)

// WithFillScope sets where Fill resolves field names.
func WithFillScope(scope FillScope) Option {
	return func(u *Utils) { u.fillScope = scope }
}

// WithInvoker replaces the method invoker used by FireOn.
func WithInvoker(inv MethodInvoker) Option {
	return func(u *Utils) {
		if inv != nil {
			u.invoker = inv
		}
	}
}

// New binds the utilities to a document.
func New(doc *dom.Document, logger *zap.Logger, opts ...Option) *Utils {
	if logger == nil {
		logger = zap.NewNop()
	}
	u := &Utils{
		doc:       doc,
		logger:    logger.Named("clientutils"),
		fillScope: ScopeForm,
		invoker:   nativeInvoker,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Document returns the bound document.
func (u *Utils) Document() *dom.Document { return u.doc }

// Exists reports whether selector matches at least one element.
func (u *Utils) Exists(selector string) bool {
	return u.doc.QuerySelector(selector) != nil
}

// Click dispatches a synthetic mouse click at the first element matching
// selector. It returns false when nothing matches or when a listener
// cancelled the click.
func (u *Utils) Click(selector string) bool {
	el := u.doc.QuerySelector(selector)
	if el == nil {
		u.logger.Debug("Click target not found.", zap.String("selector", selector))
		return false
	}
	ok := el.Click()
	u.logger.Debug("Dispatched click.",
		zap.String("selector", selector),
		zap.String("xpath", el.XPath()),
		zap.Bool("not_cancelled", ok))
	return ok
}

// FireOn calls the named method on the first element matching selector and
// returns its result. Invocation errors are returned unmodified.
func (u *Utils) FireOn(selector, method string) (any, error) {
	el := u.doc.QuerySelector(selector)
	if el == nil {
		return nil, NewElementNotFoundError(selector)
	}
	u.logger.Debug("Invoking element method.", zap.String("selector", selector), zap.String("method", method))
	return u.invoker.Invoke(el, method)
}

// Fire dispatches a bubbling, cancelable event of the given type at the first
// element matching selector and returns the dispatch result.
func (u *Utils) Fire(selector, eventType string) (bool, error) {
	el := u.doc.QuerySelector(selector)
	if el == nil {
		return false, NewElementNotFoundError(selector)
	}
	u.logger.Debug("Firing event.", zap.String("selector", selector), zap.String("type", eventType))
	return el.DispatchEvent(dom.NewEvent(eventType, true, true)), nil
}
