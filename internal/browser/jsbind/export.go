// internal/browser/jsbind/export.go
package jsbind

import (
	"errors"
	"strconv"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// ErrCyclicValue is returned by Export for a value that contains itself.
var ErrCyclicValue = errors.New("cyclic object value")

// Export converts a script value into plain Go data that can be encoded as
// JSON. Element wrappers become their outer HTML, the document object its
// serialized page and event objects their type. Functions and undefined
// become nil. Plain objects and arrays are walked property by property, so
// the accessors of bridge objects are never followed into the node graph.
func (b *Bridge) Export(v goja.Value) (any, error) {
	return b.export(v, make(map[*goja.Object]bool))
}

func (b *Bridge) export(v goja.Value, seen map[*goja.Object]bool) (any, error) {
	if isNullish(v) {
		return nil, nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return v.Export(), nil
	}

	if el := b.elements[obj]; el != nil {
		return b.outerHTML(el), nil
	}
	if obj == b.document {
		page, err := b.doc.HTML()
		if err != nil {
			b.logger.Debug("Failed to render document.", zap.Error(err))
		}
		return page, nil
	}
	if ev := b.events[obj]; ev != nil {
		return ev.Type, nil
	}
	if _, isFn := goja.AssertFunction(obj); isFn {
		return nil, nil
	}

	switch obj.ClassName() {
	case "Array":
		if seen[obj] {
			return nil, ErrCyclicValue
		}
		seen[obj] = true
		defer delete(seen, obj)

		length := int(obj.Get("length").ToInteger())
		items := make([]any, length)
		for i := 0; i < length; i++ {
			item, err := b.export(obj.Get(strconv.Itoa(i)), seen)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items, nil
	case "Object":
		if seen[obj] {
			return nil, ErrCyclicValue
		}
		seen[obj] = true
		defer delete(seen, obj)

		keys := obj.Keys()
		out := make(map[string]any, len(keys))
		for _, key := range keys {
			item, err := b.export(obj.Get(key), seen)
			if err != nil {
				return nil, err
			}
			out[key] = item
		}
		return out, nil
	default:
		// Dates, regexps, promises, wrapped Go values and the like.
		return obj.Export(), nil
	}
}
