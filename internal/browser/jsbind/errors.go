// internal/browser/jsbind/errors.go
package jsbind

import (
	"errors"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
	"github.com/xkilldash9x/pageutils/internal/clientutils"
)

// Go errors cross into scripts as Error objects whose name is the Go type
// name, so scripts can branch on e.name the way Go callers use errors.As.
// The original Go error stays reachable through the GoError value, which
// lets the runtime hand it back to Go callers unchanged.

// errorValue converts err into the value thrown to the script.
func (b *Bridge) errorValue(err error) goja.Value {
	// Exceptions raised by script code are rethrown as they are.
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return ex.Value()
	}

	var typeErr *dom.TypeError
	if errors.As(err, &typeErr) {
		return b.vm.NewTypeError("%s.%s is not a function", typeErr.Target, typeErr.Method)
	}

	obj := b.vm.NewGoError(err)
	var (
		notFound    *clientutils.ElementNotFoundError
		unsupported *clientutils.UnsupportedFieldError
	)
	switch {
	case errors.As(err, &notFound):
		b.setProps(obj, map[string]any{
			"name":     "ElementNotFoundError",
			"selector": notFound.Selector,
		})
	case errors.As(err, &unsupported):
		b.setProps(obj, map[string]any{
			"name":    "UnsupportedFieldError",
			"field":   unsupported.Field,
			"tagName": unsupported.Tag,
			"type":    unsupported.Type,
		})
	}
	return obj
}

// domException builds an Error named like the DOMException the browser
// would throw.
func (b *Bridge) domException(name, message string) goja.Value {
	obj, err := b.vm.New(b.vm.Get("Error"), b.vm.ToValue(message))
	if err != nil {
		return b.vm.ToValue(name + ": " + message)
	}
	b.setProps(obj, map[string]any{"name": name})
	return obj
}

func (b *Bridge) setProps(obj *goja.Object, props map[string]any) {
	for k, v := range props {
		if err := obj.Set(k, v); err != nil {
			b.logger.Debug("Failed to set error property", zap.String("property", k), zap.Error(err))
		}
	}
}
