// internal/browser/jsbind/bridge.go
package jsbind

import (
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
	"github.com/xkilldash9x/pageutils/internal/clientutils"
)

// DefaultUtilsGlobal is the global name the utilities are installed under.
const DefaultUtilsGlobal = "__utils__"

// Bridge exposes a dom.Document to a Goja runtime: the document object,
// element wrappers, the Event constructors, a console, and the utilities
// namespace.
//
// A Bridge is bound to one runtime and one document and, like both, is not
// safe for concurrent use.
type Bridge struct {
	vm     *goja.Runtime
	doc    *dom.Document
	utils  *clientutils.Utils
	logger *zap.Logger

	document *goja.Object

	// Identity maps, so that a node is always represented by the same object.
	wrappers map[*html.Node]*goja.Object
	elements map[*goja.Object]*dom.Element
	events   map[*goja.Object]*dom.Event
}

// Option configures a Bridge.
type Option func(*bridgeOptions)

type bridgeOptions struct {
	utilsGlobal string
	utilsOpts   []clientutils.Option
}

// WithUtilsGlobal changes the global name of the utilities namespace.
func WithUtilsGlobal(name string) Option {
	return func(o *bridgeOptions) {
		if name = strings.TrimSpace(name); name != "" {
			o.utilsGlobal = name
		}
	}
}

// WithUtilsOptions passes options through to the utilities.
func WithUtilsOptions(opts ...clientutils.Option) Option {
	return func(o *bridgeOptions) { o.utilsOpts = append(o.utilsOpts, opts...) }
}

// NewBridge installs the document bindings into vm.
func NewBridge(vm *goja.Runtime, doc *dom.Document, logger *zap.Logger, opts ...Option) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := bridgeOptions{utilsGlobal: DefaultUtilsGlobal}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Bridge{
		vm:       vm,
		doc:      doc,
		logger:   logger.Named("jsbind"),
		wrappers: make(map[*html.Node]*goja.Object),
		elements: make(map[*goja.Object]*dom.Element),
		events:   make(map[*goja.Object]*dom.Event),
	}

	// Methods called through the utilities resolve against the script-side
	// wrapper, so script-defined methods are callable too.
	utilsOpts := append([]clientutils.Option{clientutils.WithInvoker(clientutils.MethodInvokerFunc(b.invokeMethod))}, o.utilsOpts...)
	b.utils = clientutils.New(doc, logger, utilsOpts...)

	b.initializeRuntime(o.utilsGlobal)
	return b
}

// Utils returns the utilities the namespace object is bound to.
func (b *Bridge) Utils() *clientutils.Utils { return b.utils }

// Document returns the bound document.
func (b *Bridge) Document() *dom.Document { return b.doc }

// initializeRuntime sets the globals of the script context.
func (b *Bridge) initializeRuntime(utilsGlobal string) {
	global := b.vm.GlobalObject()
	b.document = b.newDocumentObject()

	b.setGlobal(global, "window", global)
	b.setGlobal(global, "self", global)
	b.setGlobal(global, "document", b.document)
	b.setGlobal(global, "Event", b.eventConstructor(false))
	b.setGlobal(global, "MouseEvent", b.eventConstructor(true))
	b.setGlobal(global, utilsGlobal, b.newUtilsObject())
	b.initConsole()
}

func (b *Bridge) setGlobal(global *goja.Object, name string, value any) {
	if err := global.Set(name, value); err != nil {
		b.logger.Error("Failed to set global", zap.String("name", name), zap.Error(err))
	}
}

// -- Wrapping --

// WrapElement returns the script object for el, creating it on first use.
func (b *Bridge) WrapElement(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	return b.wrapNode(el.Node())
}

func (b *Bridge) wrapNode(n *html.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	if n == b.doc.Root() {
		return b.document
	}
	if obj, ok := b.wrappers[n]; ok {
		return obj
	}
	el := b.doc.Wrap(n)
	if el == nil {
		// Only elements are exposed.
		return goja.Null()
	}
	obj := b.newElementObject(el)
	b.wrappers[n] = obj
	b.elements[obj] = el
	return obj
}

func (b *Bridge) wrapAll(elems []*dom.Element) goja.Value {
	values := make([]any, len(elems))
	for i, el := range elems {
		values[i] = b.WrapElement(el)
	}
	return b.vm.NewArray(values...)
}

// unwrapElement returns the element behind a wrapper, or nil.
func (b *Bridge) unwrapElement(v goja.Value) *dom.Element {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	return b.elements[obj]
}

// -- Property helpers --

// defineAccessor defines an enumerable accessor property. A nil setter makes
// the property read-only.
func (b *Bridge) defineAccessor(obj *goja.Object, name string, get func() any, set func(goja.Value)) {
	getter := b.vm.ToValue(func(goja.FunctionCall) goja.Value {
		return b.toJS(get())
	})
	setter := goja.Undefined()
	if set != nil {
		setter = b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			set(call.Argument(0))
			return goja.Undefined()
		})
	}
	if err := obj.DefineAccessorProperty(name, getter, setter, goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
		b.logger.Error("Failed to define accessor", zap.String("property", name), zap.Error(err))
	}
}

func (b *Bridge) setMethod(obj *goja.Object, name string, fn func(goja.FunctionCall) goja.Value) {
	if err := obj.Set(name, fn); err != nil {
		b.logger.Error("Failed to set method", zap.String("method", name), zap.Error(err))
	}
}

// toJS converts Go results to script values. String lists become real
// arrays and nil becomes null.
func (b *Bridge) toJS(v any) goja.Value {
	switch x := v.(type) {
	case nil:
		return goja.Null()
	case goja.Value:
		return x
	case *dom.Element:
		return b.WrapElement(x)
	case []*dom.Element:
		return b.wrapAll(x)
	case []string:
		items := make([]any, len(x))
		for i, s := range x {
			items[i] = s
		}
		return b.vm.NewArray(items...)
	default:
		return b.vm.ToValue(v)
	}
}

// isNullish reports whether v is missing, undefined or null.
func isNullish(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

// -- Console --

// initConsole routes console output to the logger.
func (b *Bridge) initConsole() {
	console := b.vm.NewObject()
	logFunc := func(level zapcore.Level) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			args := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				args[i] = b.consoleString(arg)
			}
			b.logger.Log(level, "[JS Console]", zap.String("message", strings.Join(args, " ")))
			return goja.Undefined()
		}
	}

	b.setMethod(console, "log", logFunc(zap.InfoLevel))
	b.setMethod(console, "info", logFunc(zap.InfoLevel))
	b.setMethod(console, "warn", logFunc(zap.WarnLevel))
	b.setMethod(console, "error", logFunc(zap.ErrorLevel))
	b.setMethod(console, "debug", logFunc(zap.DebugLevel))

	b.setGlobal(b.vm.GlobalObject(), "console", console)
}

// consoleString renders plain objects and arrays as JSON, everything else
// with its string conversion.
func (b *Bridge) consoleString(v goja.Value) string {
	obj, ok := v.(*goja.Object)
	if !ok || b.elements[obj] != nil || obj == b.document {
		return v.String()
	}
	if _, isFn := goja.AssertFunction(v); isFn {
		return v.String()
	}
	jsJSON := b.vm.Get("JSON")
	if jsJSON == nil || goja.IsUndefined(jsJSON) {
		return v.String()
	}
	if stringify, ok := goja.AssertFunction(jsJSON.ToObject(b.vm).Get("stringify")); ok {
		if result, err := stringify(goja.Undefined(), v); err == nil && !goja.IsUndefined(result) {
			return result.String()
		}
	}
	return v.String()
}
