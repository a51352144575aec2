// internal/browser/jsbind/element.go
package jsbind

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
)

// newElementObject builds the wrapper of an element. Properties read and
// write the live node, so the wrapper never goes stale.
func (b *Bridge) newElementObject(el *dom.Element) *goja.Object {
	obj := b.vm.NewObject()
	tag := strings.ToUpper(el.TagName())
	_ = obj.Set("nodeType", 1)
	_ = obj.Set("nodeName", tag)
	_ = obj.Set("tagName", tag)

	b.defineAttrProperty(obj, el, "id", "id")
	b.defineAttrProperty(obj, el, "className", "class")
	b.defineAttrProperty(obj, el, "name", "name")

	b.defineAccessor(obj, "type", func() any { return scriptType(el) }, nil)
	b.defineAccessor(obj, "value", func() any { return el.Value() }, func(v goja.Value) {
		if goja.IsNull(v) {
			el.SetValue("")
			return
		}
		el.SetValue(v.String())
	})
	b.defineAccessor(obj, "checked", func() any { return el.Checked() }, func(v goja.Value) {
		el.SetChecked(v.ToBoolean())
	})
	b.defineAccessor(obj, "selected", func() any { return el.Selected() }, func(v goja.Value) {
		el.SetSelected(v.ToBoolean())
	})
	b.defineAccessor(obj, "disabled", func() any { return el.Disabled() }, nil)
	b.defineAccessor(obj, "multiple", func() any { return el.Multiple() }, nil)
	b.defineAccessor(obj, "options", func() any { return el.Options() }, nil)
	b.defineAccessor(obj, "form", func() any { return el.Form() }, nil)
	b.defineAccessor(obj, "parentNode", func() any { return b.wrapNode(el.Node().Parent) }, nil)

	b.defineAccessor(obj, "textContent", func() any { return el.TextContent() }, func(v goja.Value) {
		el.SetTextContent(v.String())
	})
	b.defineAccessor(obj, "innerHTML", func() any {
		inner, err := goquery.NewDocumentFromNode(el.Node()).Html()
		if err != nil {
			b.logger.Debug("Failed to render innerHTML.", zap.Error(err))
		}
		return inner
	}, nil)
	b.defineAccessor(obj, "outerHTML", func() any {
		return b.outerHTML(el)
	}, nil)

	b.setMethod(obj, "getAttribute", func(call goja.FunctionCall) goja.Value {
		if v, ok := el.LookupAttr(call.Argument(0).String()); ok {
			return b.vm.ToValue(v)
		}
		return goja.Null()
	})
	b.setMethod(obj, "setAttribute", func(call goja.FunctionCall) goja.Value {
		el.SetAttr(strings.ToLower(call.Argument(0).String()), call.Argument(1).String())
		return goja.Undefined()
	})
	b.setMethod(obj, "removeAttribute", func(call goja.FunctionCall) goja.Value {
		el.RemoveAttr(strings.ToLower(call.Argument(0).String()))
		return goja.Undefined()
	})
	b.setMethod(obj, "hasAttribute", func(call goja.FunctionCall) goja.Value {
		return b.vm.ToValue(el.HasAttr(call.Argument(0).String()))
	})

	b.setMethod(obj, "querySelector", func(call goja.FunctionCall) goja.Value {
		return b.WrapElement(el.QuerySelector(call.Argument(0).String()))
	})
	b.setMethod(obj, "querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return b.wrapAll(el.QuerySelectorAll(call.Argument(0).String()))
	})
	b.setMethod(obj, "contains", func(call goja.FunctionCall) goja.Value {
		return b.vm.ToValue(el.Contains(b.unwrapElement(call.Argument(0))))
	})

	b.setMethod(obj, "addEventListener", func(call goja.FunctionCall) goja.Value {
		b.addListener(el, call)
		return goja.Undefined()
	})
	b.setMethod(obj, "removeEventListener", func(call goja.FunctionCall) goja.Value {
		b.removeListener(el, call)
		return goja.Undefined()
	})
	b.setMethod(obj, "dispatchEvent", func(call goja.FunctionCall) goja.Value {
		ev := b.eventArgument(call.Argument(0))
		if ev.Dispatching() {
			panic(b.domException("InvalidStateError", "the event is already being dispatched"))
		}
		return b.vm.ToValue(el.DispatchEvent(ev))
	})

	// click, focus, blur, remove and the other zero-argument methods.
	for _, name := range dom.MethodNames() {
		name := name
		b.setMethod(obj, name, func(goja.FunctionCall) goja.Value {
			result, err := el.Invoke(name)
			if err != nil {
				panic(b.errorValue(err))
			}
			if result == nil {
				return goja.Undefined()
			}
			return b.toJS(result)
		})
	}

	return obj
}

// defineAttrProperty reflects a string attribute as a property.
func (b *Bridge) defineAttrProperty(obj *goja.Object, el *dom.Element, prop, attr string) {
	b.defineAccessor(obj, prop, func() any { return el.Attr(attr) }, func(v goja.Value) {
		el.SetAttr(attr, v.String())
	})
}

// scriptType is the type property as scripts observe it, including the
// defaults of elements without a type attribute.
func scriptType(el *dom.Element) string {
	t := el.Type()
	switch el.TagName() {
	case "input":
		if t == "" {
			return "text"
		}
	case "button":
		if t == "" {
			return "submit"
		}
	case "textarea":
		return "textarea"
	case "select":
		if el.Multiple() {
			return "select-multiple"
		}
		return "select-one"
	}
	return t
}

// outerHTML renders the element and its subtree.
func (b *Bridge) outerHTML(el *dom.Element) string {
	outer, err := goquery.OuterHtml(goquery.NewDocumentFromNode(el.Node()).Selection)
	if err != nil {
		b.logger.Debug("Failed to render outerHTML.", zap.Error(err))
	}
	return outer
}
