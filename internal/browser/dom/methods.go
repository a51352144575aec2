// internal/browser/dom/methods.go
package dom

import "fmt"

// TypeError is returned when a method name does not resolve to something
// callable on the element, the way a script engine reports it.
type TypeError struct {
	Method string
	Target string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("TypeError: %s.%s is not a function", e.Target, e.Method)
}

// method is a zero-argument element method.
type method func(e *Element) any

// methods is the table of element methods callable by name. Methods without a
// meaningful result return nil, the equivalent of undefined.
var methods = map[string]method{
	"click": func(e *Element) any {
		e.Click()
		return nil
	},
	// Focus is not tracked, so focus and blur exist but change nothing.
	"focus": func(e *Element) any { return nil },
	"blur":  func(e *Element) any { return nil },
	"remove": func(e *Element) any {
		e.Remove()
		return nil
	},
	"hasAttributes": func(e *Element) any {
		return len(e.node.Attr) > 0
	},
	"hasChildNodes": func(e *Element) any {
		return e.node.FirstChild != nil
	},
	"getAttributeNames": func(e *Element) any {
		return e.AttributeNames()
	},
}

// Invoke calls the named method with no arguments and returns its result.
func (e *Element) Invoke(name string) (any, error) {
	m, ok := methods[name]
	if !ok {
		return nil, &TypeError{Method: name, Target: e.String()}
	}
	return m(e), nil
}

// HasMethod reports whether name is in the element method table.
func HasMethod(name string) bool {
	_, ok := methods[name]
	return ok
}

// MethodNames lists the element method table.
func MethodNames() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	return names
}
