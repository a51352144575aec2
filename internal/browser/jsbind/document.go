// internal/browser/jsbind/document.go
package jsbind

import (
	"strings"

	"github.com/dop251/goja"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
)

// newDocumentObject builds the script-side document.
func (b *Bridge) newDocumentObject() *goja.Object {
	d := b.vm.NewObject()
	_ = d.Set("nodeType", 9)
	_ = d.Set("nodeName", "#document")

	b.defineAccessor(d, "body", func() any { return b.doc.Body() }, nil)
	b.defineAccessor(d, "documentElement", func() any {
		return b.doc.QuerySelector("html")
	}, nil)

	b.setMethod(d, "querySelector", func(call goja.FunctionCall) goja.Value {
		return b.WrapElement(b.doc.QuerySelector(call.Argument(0).String()))
	})
	b.setMethod(d, "querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return b.wrapAll(b.doc.QuerySelectorAll(call.Argument(0).String()))
	})
	b.setMethod(d, "getElementById", func(call goja.FunctionCall) goja.Value {
		return b.WrapElement(b.doc.GetElementByID(call.Argument(0).String()))
	})
	b.setMethod(d, "getElementsByName", func(call goja.FunctionCall) goja.Value {
		return b.wrapAll(b.doc.ElementsByName(call.Argument(0).String()))
	})
	b.setMethod(d, "createEvent", b.createEvent)

	b.setMethod(d, "addEventListener", func(call goja.FunctionCall) goja.Value {
		b.addListener(b.doc, call)
		return goja.Undefined()
	})
	b.setMethod(d, "removeEventListener", func(call goja.FunctionCall) goja.Value {
		b.removeListener(b.doc, call)
		return goja.Undefined()
	})
	return d
}

// createEvent implements document.createEvent for the legacy event
// interfaces. The event must be initialized before it is dispatched.
func (b *Bridge) createEvent(call goja.FunctionCall) goja.Value {
	iface := strings.ToLower(call.Argument(0).String())
	var ev *dom.Event
	switch iface {
	case "mouseevent", "mouseevents":
		ev = dom.NewMouseEvent("", false, false, dom.MouseFields{})
	case "event", "events", "htmlevents", "uievent", "uievents":
		ev = dom.NewEvent("", false, false)
	default:
		panic(b.domException("NotSupportedError", "the event interface '"+call.Argument(0).String()+"' is not supported"))
	}
	return b.eventObject(ev)
}
