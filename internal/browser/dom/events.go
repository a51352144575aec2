// internal/browser/dom/events.go
package dom

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// EventPhase is the phase of an event dispatch.
type EventPhase int

const (
	PhaseNone      EventPhase = 0
	PhaseCapturing EventPhase = 1
	PhaseAtTarget  EventPhase = 2
	PhaseBubbling  EventPhase = 3
)

// MouseFields carries the MouseEvent specific part of an event.
type MouseFields struct {
	Detail                             int
	ScreenX, ScreenY, ClientX, ClientY int
	CtrlKey, AltKey, ShiftKey, MetaKey bool
	Button                             int
	RelatedTarget                      *Element
}

// ClickBaseline returns the fixed mouse fields used for synthetic clicks: one
// click at (1,1) with no modifiers and the primary button.
func ClickBaseline(related *Element) MouseFields {
	return MouseFields{
		Detail:        1,
		ScreenX:       1,
		ScreenY:       1,
		ClientX:       1,
		ClientY:       1,
		Button:        0,
		RelatedTarget: related,
	}
}

// Event is a synthetic DOM event.
type Event struct {
	Type       string
	Bubbles    bool
	Cancelable bool

	// Mouse is non-nil for mouse events.
	Mouse *MouseFields

	// Binding holds an object bound to this event by a script host, so that
	// every listener sees the same script-side event.
	Binding any

	target           *Element
	currentTarget    *html.Node
	phase            EventPhase
	defaultPrevented bool
	stopped          bool
	stoppedImmediate bool
	dispatching      bool
}

// NewEvent creates a plain event.
func NewEvent(eventType string, bubbles, cancelable bool) *Event {
	return &Event{Type: eventType, Bubbles: bubbles, Cancelable: cancelable}
}

// NewMouseEvent creates a mouse event with the given fields.
func NewMouseEvent(eventType string, bubbles, cancelable bool, fields MouseFields) *Event {
	ev := NewEvent(eventType, bubbles, cancelable)
	ev.Mouse = &fields
	return ev
}

// Target returns the element the event was dispatched at.
func (ev *Event) Target() *Element { return ev.target }

// CurrentTargetNode returns the node whose listeners are running. It is the
// document node while document listeners run, and nil outside a dispatch.
func (ev *Event) CurrentTargetNode() *html.Node { return ev.currentTarget }

// Phase returns the current dispatch phase.
func (ev *Event) Phase() EventPhase { return ev.phase }

// DefaultPrevented reports whether a listener cancelled the event.
func (ev *Event) DefaultPrevented() bool { return ev.defaultPrevented }

// Dispatching reports whether the event is being dispatched.
func (ev *Event) Dispatching() bool { return ev.dispatching }

// PreventDefault cancels a cancelable event.
func (ev *Event) PreventDefault() {
	if ev.Cancelable {
		ev.defaultPrevented = true
	}
}

// StopPropagation stops the event after the current node's listeners.
func (ev *Event) StopPropagation() { ev.stopped = true }

// StopImmediatePropagation stops the event before the next listener.
func (ev *Event) StopImmediatePropagation() {
	ev.stopped = true
	ev.stoppedImmediate = true
}

// InitEvent reinitializes an event that is not being dispatched, mirroring
// the legacy initEvent/initMouseEvent calls.
func (ev *Event) InitEvent(eventType string, bubbles, cancelable bool) {
	if ev.dispatching {
		return
	}
	ev.Type = eventType
	ev.Bubbles = bubbles
	ev.Cancelable = cancelable
	ev.defaultPrevented = false
	ev.stopped = false
	ev.stoppedImmediate = false
	ev.target = nil
}

// -- Listeners --

// Listener handles a dispatched event.
type Listener func(ev *Event)

// ListenerOptions mirrors the addEventListener options the engine honours.
type ListenerOptions struct {
	Capture bool
	Once    bool
}

type listenerEntry struct {
	id      int
	key     any
	fn      Listener
	opts    ListenerOptions
	removed bool
}

// AddEventListener registers fn on the element and returns a function that
// unregisters it.
func (e *Element) AddEventListener(eventType string, fn Listener, opts ListenerOptions) (remove func()) {
	return e.doc.addListener(e.node, eventType, nil, fn, opts)
}

// AddKeyedEventListener registers fn under a comparable key. Registering the
// same key, type and capture flag twice has no effect.
func (e *Element) AddKeyedEventListener(eventType string, key any, fn Listener, opts ListenerOptions) {
	e.doc.addListener(e.node, eventType, key, fn, opts)
}

// RemoveKeyedEventListener removes a listener registered with
// AddKeyedEventListener.
func (e *Element) RemoveKeyedEventListener(eventType string, key any, capture bool) {
	e.doc.removeKeyed(e.node, eventType, key, capture)
}

// AddEventListener registers fn on the document node itself.
func (d *Document) AddEventListener(eventType string, fn Listener, opts ListenerOptions) (remove func()) {
	return d.addListener(d.root, eventType, nil, fn, opts)
}

// AddKeyedEventListener is the document level variant of
// Element.AddKeyedEventListener.
func (d *Document) AddKeyedEventListener(eventType string, key any, fn Listener, opts ListenerOptions) {
	d.addListener(d.root, eventType, key, fn, opts)
}

// RemoveKeyedEventListener is the document level variant of
// Element.RemoveKeyedEventListener.
func (d *Document) RemoveKeyedEventListener(eventType string, key any, capture bool) {
	d.removeKeyed(d.root, eventType, key, capture)
}

func (d *Document) addListener(n *html.Node, eventType string, key any, fn Listener, opts ListenerOptions) func() {
	byType := d.listeners[n]
	if byType == nil {
		byType = make(map[string][]*listenerEntry)
		d.listeners[n] = byType
	}
	if key != nil {
		for _, l := range byType[eventType] {
			if l.key == key && l.opts.Capture == opts.Capture {
				return func() { d.removeKeyed(n, eventType, key, opts.Capture) }
			}
		}
	}

	d.nextID++
	entry := &listenerEntry{id: d.nextID, key: key, fn: fn, opts: opts}
	byType[eventType] = append(byType[eventType], entry)
	return func() { d.removeEntry(n, eventType, entry.id) }
}

func (d *Document) removeKeyed(n *html.Node, eventType string, key any, capture bool) {
	for _, l := range d.listeners[n][eventType] {
		if l.key == key && l.opts.Capture == capture {
			d.removeEntry(n, eventType, l.id)
			return
		}
	}
}

func (d *Document) removeEntry(n *html.Node, eventType string, id int) {
	list := d.listeners[n][eventType]
	for i, l := range list {
		if l.id == id {
			l.removed = true
			d.listeners[n][eventType] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// -- Dispatch --

// DispatchEvent dispatches ev at the element through the capture, target and
// bubble phases. It returns false if a listener cancelled the event.
//
// Mouse click events get the activation behaviour of checkable inputs: the
// checked state changes before listeners run and is restored when the event
// is cancelled; otherwise input and change events follow.
func (e *Element) DispatchEvent(ev *Event) bool {
	if ev.dispatching {
		e.doc.logger.Debug("Event is already being dispatched.", zap.String("type", ev.Type))
		return false
	}

	var restore func()
	activates := ev.Type == "click" && ev.Mouse != nil
	if activates {
		restore = e.preActivate()
	}

	ok := e.doc.dispatch(e, ev)

	if restore != nil {
		if ev.defaultPrevented {
			restore()
		} else {
			e.doc.dispatch(e, NewEvent("input", true, false))
			e.doc.dispatch(e, NewEvent("change", true, false))
		}
	}
	return ok
}

// Click dispatches a synthetic mouse click with the baseline fields.
func (e *Element) Click() bool {
	return e.DispatchEvent(NewMouseEvent("click", true, true, ClickBaseline(e)))
}

func (d *Document) dispatch(target *Element, ev *Event) bool {
	path := []*html.Node{}
	for n := target.node; n != nil; n = n.Parent {
		path = append(path, n)
	}

	ev.target = target
	ev.dispatching = true
	ev.stopped = false
	ev.stoppedImmediate = false

	for i := len(path) - 1; i >= 1 && !ev.stopped; i-- {
		d.invoke(path[i], ev, PhaseCapturing)
	}
	if !ev.stopped {
		d.invoke(path[0], ev, PhaseAtTarget)
	}
	if ev.Bubbles {
		for i := 1; i < len(path) && !ev.stopped; i++ {
			d.invoke(path[i], ev, PhaseBubbling)
		}
	}

	ev.phase = PhaseNone
	ev.currentTarget = nil
	ev.dispatching = false
	return !ev.defaultPrevented
}

func (d *Document) invoke(n *html.Node, ev *Event, phase EventPhase) {
	registered := d.listeners[n][ev.Type]
	if len(registered) == 0 {
		return
	}
	listeners := make([]*listenerEntry, len(registered))
	copy(listeners, registered)

	ev.phase = phase
	ev.currentTarget = n
	for _, l := range listeners {
		if l.removed {
			continue
		}
		if phase == PhaseCapturing && !l.opts.Capture {
			continue
		}
		if phase == PhaseBubbling && l.opts.Capture {
			continue
		}
		if l.opts.Once {
			d.removeEntry(n, ev.Type, l.id)
		}
		l.fn(ev)
		if ev.stoppedImmediate {
			return
		}
	}
}

// -- Activation behaviour --

// preActivate applies the checked-state change of a click on a checkbox or
// radio and returns a function restoring the previous state. It returns nil
// for elements without activation behaviour.
func (e *Element) preActivate() func() {
	switch Classify(e) {
	case KindCheckbox:
		was := e.Checked()
		e.SetChecked(!was)
		return func() { e.SetChecked(was) }
	case KindRadio:
		group := e.radioGroup()
		previous := make([]bool, len(group))
		for i, r := range group {
			previous[i] = r.Checked()
			r.SetChecked(r.Is(e))
		}
		return func() {
			for i, r := range group {
				r.SetChecked(previous[i])
			}
		}
	default:
		return nil
	}
}

// radioGroup returns the radios sharing this radio's name and form owner.
// An unnamed radio forms a group of its own.
func (e *Element) radioGroup() []*Element {
	name := e.Name()
	if name == "" {
		return []*Element{e}
	}
	owner := e.Form()
	var group []*Element
	for _, candidate := range e.doc.ElementsByName(name) {
		if Classify(candidate) != KindRadio {
			continue
		}
		candidateOwner := candidate.Form()
		if (owner == nil && candidateOwner == nil) || (owner != nil && owner.Is(candidateOwner)) {
			group = append(group, candidate)
		}
	}
	return group
}
