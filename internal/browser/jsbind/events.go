// internal/browser/jsbind/events.go
package jsbind

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
)

// -- Event objects --

// eventObject returns the script object bound to ev, creating it on first
// use. Every listener of a dispatch sees the same object.
func (b *Bridge) eventObject(ev *dom.Event) *goja.Object {
	if obj, ok := ev.Binding.(*goja.Object); ok {
		return obj
	}

	obj := b.vm.NewObject()
	ev.Binding = obj
	b.events[obj] = ev

	b.defineAccessor(obj, "type", func() any { return ev.Type }, nil)
	b.defineAccessor(obj, "bubbles", func() any { return ev.Bubbles }, nil)
	b.defineAccessor(obj, "cancelable", func() any { return ev.Cancelable }, nil)
	b.defineAccessor(obj, "defaultPrevented", func() any { return ev.DefaultPrevented() }, nil)
	b.defineAccessor(obj, "eventPhase", func() any { return int(ev.Phase()) }, nil)
	b.defineAccessor(obj, "target", func() any { return ev.Target() }, nil)
	b.defineAccessor(obj, "currentTarget", func() any { return b.wrapNode(ev.CurrentTargetNode()) }, nil)

	b.setMethod(obj, "preventDefault", func(goja.FunctionCall) goja.Value {
		ev.PreventDefault()
		return goja.Undefined()
	})
	b.setMethod(obj, "stopPropagation", func(goja.FunctionCall) goja.Value {
		ev.StopPropagation()
		return goja.Undefined()
	})
	b.setMethod(obj, "stopImmediatePropagation", func(goja.FunctionCall) goja.Value {
		ev.StopImmediatePropagation()
		return goja.Undefined()
	})
	b.setMethod(obj, "initEvent", func(call goja.FunctionCall) goja.Value {
		ev.InitEvent(call.Argument(0).String(), call.Argument(1).ToBoolean(), call.Argument(2).ToBoolean())
		return goja.Undefined()
	})

	if ev.Mouse != nil {
		b.defineMouseFields(obj, ev)
	}
	return obj
}

func (b *Bridge) defineMouseFields(obj *goja.Object, ev *dom.Event) {
	m := ev.Mouse
	b.defineAccessor(obj, "detail", func() any { return m.Detail }, nil)
	b.defineAccessor(obj, "screenX", func() any { return m.ScreenX }, nil)
	b.defineAccessor(obj, "screenY", func() any { return m.ScreenY }, nil)
	b.defineAccessor(obj, "clientX", func() any { return m.ClientX }, nil)
	b.defineAccessor(obj, "clientY", func() any { return m.ClientY }, nil)
	b.defineAccessor(obj, "ctrlKey", func() any { return m.CtrlKey }, nil)
	b.defineAccessor(obj, "altKey", func() any { return m.AltKey }, nil)
	b.defineAccessor(obj, "shiftKey", func() any { return m.ShiftKey }, nil)
	b.defineAccessor(obj, "metaKey", func() any { return m.MetaKey }, nil)
	b.defineAccessor(obj, "button", func() any { return m.Button }, nil)
	b.defineAccessor(obj, "relatedTarget", func() any { return m.RelatedTarget }, nil)

	// initMouseEvent(type, canBubble, cancelable, view, detail, screenX,
	// screenY, clientX, clientY, ctrlKey, altKey, shiftKey, metaKey, button,
	// relatedTarget)
	b.setMethod(obj, "initMouseEvent", func(call goja.FunctionCall) goja.Value {
		if ev.Dispatching() {
			return goja.Undefined()
		}
		ev.InitEvent(call.Argument(0).String(), call.Argument(1).ToBoolean(), call.Argument(2).ToBoolean())
		*m = dom.MouseFields{
			Detail:        int(call.Argument(4).ToInteger()),
			ScreenX:       int(call.Argument(5).ToInteger()),
			ScreenY:       int(call.Argument(6).ToInteger()),
			ClientX:       int(call.Argument(7).ToInteger()),
			ClientY:       int(call.Argument(8).ToInteger()),
			CtrlKey:       call.Argument(9).ToBoolean(),
			AltKey:        call.Argument(10).ToBoolean(),
			ShiftKey:      call.Argument(11).ToBoolean(),
			MetaKey:       call.Argument(12).ToBoolean(),
			Button:        int(call.Argument(13).ToInteger()),
			RelatedTarget: b.unwrapElement(call.Argument(14)),
		}
		return goja.Undefined()
	})
}

// eventConstructor returns the Event or MouseEvent constructor. The init
// dictionary accepts the same members as the event object exposes.
func (b *Bridge) eventConstructor(mouse bool) func(goja.ConstructorCall) *goja.Object {
	return func(call goja.ConstructorCall) *goja.Object {
		if len(call.Arguments) == 0 {
			panic(b.vm.NewTypeError("Failed to construct event: 1 argument required, but only 0 present."))
		}
		eventType := call.Argument(0).String()
		init := dictionary{vm: b.vm, v: call.Argument(1)}

		bubbles, cancelable := init.bool("bubbles"), init.bool("cancelable")
		if !mouse {
			return b.eventObject(dom.NewEvent(eventType, bubbles, cancelable))
		}
		return b.eventObject(dom.NewMouseEvent(eventType, bubbles, cancelable, dom.MouseFields{
			Detail:        init.int("detail"),
			ScreenX:       init.int("screenX"),
			ScreenY:       init.int("screenY"),
			ClientX:       init.int("clientX"),
			ClientY:       init.int("clientY"),
			CtrlKey:       init.bool("ctrlKey"),
			AltKey:        init.bool("altKey"),
			ShiftKey:      init.bool("shiftKey"),
			MetaKey:       init.bool("metaKey"),
			Button:        init.int("button"),
			RelatedTarget: b.unwrapElement(init.get("relatedTarget")),
		}))
	}
}

// dictionary reads members of an optional init object.
type dictionary struct {
	vm *goja.Runtime
	v  goja.Value
}

func (d dictionary) get(key string) goja.Value {
	if isNullish(d.v) {
		return goja.Undefined()
	}
	obj, ok := d.v.(*goja.Object)
	if !ok {
		return goja.Undefined()
	}
	if v := obj.Get(key); v != nil {
		return v
	}
	return goja.Undefined()
}

func (d dictionary) bool(key string) bool { return d.get(key).ToBoolean() }

func (d dictionary) int(key string) int { return int(d.get(key).ToInteger()) }

// eventArgument unwraps an event object passed to dispatchEvent.
func (b *Bridge) eventArgument(v goja.Value) *dom.Event {
	obj, ok := v.(*goja.Object)
	if ok {
		if ev, found := b.events[obj]; found {
			if ev.Type == "" {
				panic(b.domException("InvalidStateError", "the event is not initialized"))
			}
			return ev
		}
	}
	panic(b.vm.NewTypeError("Failed to execute 'dispatchEvent': parameter 1 is not of type 'Event'."))
}

// -- Listeners --

// listenerTarget is implemented by dom.Element and dom.Document.
type listenerTarget interface {
	AddKeyedEventListener(eventType string, key any, fn dom.Listener, opts dom.ListenerOptions)
	RemoveKeyedEventListener(eventType string, key any, capture bool)
}

// addListener implements addEventListener(type, callback, options). The
// callback object is the listener key, so adding it twice has no effect.
func (b *Bridge) addListener(target listenerTarget, call goja.FunctionCall) {
	eventType := call.Argument(0).String()
	callbackVal := call.Argument(1)
	if isNullish(callbackVal) {
		return
	}
	callback, ok := callbackVal.(*goja.Object)
	if !ok {
		panic(b.vm.NewTypeError("Failed to execute 'addEventListener': parameter 2 is not of type 'Object'."))
	}
	opts := listenerOptions(call.Argument(2))
	target.AddKeyedEventListener(eventType, callback, func(ev *dom.Event) {
		b.callListener(callback, ev)
	}, opts)
}

func (b *Bridge) removeListener(target listenerTarget, call goja.FunctionCall) {
	callback, ok := call.Argument(1).(*goja.Object)
	if !ok {
		return
	}
	target.RemoveKeyedEventListener(call.Argument(0).String(), callback, listenerOptions(call.Argument(2)).Capture)
}

// listenerOptions accepts the legacy capture boolean or an options object.
func listenerOptions(v goja.Value) dom.ListenerOptions {
	if isNullish(v) {
		return dom.ListenerOptions{}
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return dom.ListenerOptions{Capture: v.ToBoolean()}
	}
	opts := dom.ListenerOptions{}
	if c := obj.Get("capture"); c != nil {
		opts.Capture = c.ToBoolean()
	}
	if o := obj.Get("once"); o != nil {
		opts.Once = o.ToBoolean()
	}
	return opts
}

// callListener runs a script listener, either a function or an object with a
// handleEvent method. Exceptions are reported the way a browser reports them
// and do not stop the dispatch. An interrupt stops the dispatch and is raised
// again so that it reaches the running script.
func (b *Bridge) callListener(callback *goja.Object, ev *dom.Event) {
	this := b.wrapNode(ev.CurrentTargetNode())
	fn, ok := goja.AssertFunction(callback)
	if !ok {
		handle, isFn := goja.AssertFunction(callback.Get("handleEvent"))
		if !isFn {
			return
		}
		fn, this = handle, callback
	}

	_, err := fn(this, b.eventObject(ev))
	if err == nil {
		return
	}
	if interrupted, ok := err.(*goja.InterruptedError); ok {
		ev.StopImmediatePropagation()
		b.vm.Interrupt(interrupted.Value())
		return
	}
	b.logger.Warn("Uncaught exception in event listener.",
		zap.String("type", ev.Type),
		zap.Error(err))
}
