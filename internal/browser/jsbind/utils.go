// internal/browser/jsbind/utils.go
package jsbind

import (
	"github.com/dop251/goja"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
	"github.com/xkilldash9x/pageutils/internal/clientutils"
)

// newUtilsObject builds the utilities namespace. Each function delegates to
// the bound clientutils.Utils; errors are thrown as script exceptions while
// click and fill keep reporting a missing target as false.
func (b *Bridge) newUtilsObject() *goja.Object {
	u := b.vm.NewObject()

	b.setMethod(u, "click", func(call goja.FunctionCall) goja.Value {
		return b.vm.ToValue(b.utils.Click(call.Argument(0).String()))
	})
	b.setMethod(u, "exists", func(call goja.FunctionCall) goja.Value {
		return b.vm.ToValue(b.utils.Exists(call.Argument(0).String()))
	})
	b.setMethod(u, "fireOn", func(call goja.FunctionCall) goja.Value {
		result, err := b.utils.FireOn(call.Argument(0).String(), call.Argument(1).String())
		b.throwIf(err)
		if result == nil {
			return goja.Undefined()
		}
		return b.toJS(result)
	})
	b.setMethod(u, "fire", func(call goja.FunctionCall) goja.Value {
		ok, err := b.utils.Fire(call.Argument(0).String(), call.Argument(1).String())
		b.throwIf(err)
		return b.vm.ToValue(ok)
	})

	b.setMethod(u, "setFieldValue", func(call goja.FunctionCall) goja.Value {
		b.throwIf(b.utils.SetFieldValue(b.fieldRef(call.Argument(0), clientutils.ByName), call.Argument(1).Export()))
		return goja.Undefined()
	})
	b.setMethod(u, "setCheckboxValue", func(call goja.FunctionCall) goja.Value {
		b.throwIf(b.utils.SetCheckboxValue(b.fieldRef(call.Argument(0), clientutils.BySelector), call.Argument(1).Export()))
		return goja.Undefined()
	})
	b.setMethod(u, "setRadioValue", func(call goja.FunctionCall) goja.Value {
		b.throwIf(b.utils.SetRadioValue(b.fieldRef(call.Argument(0), clientutils.BySelector), call.Argument(1).Export()))
		return goja.Undefined()
	})
	b.setMethod(u, "setSelectValue", func(call goja.FunctionCall) goja.Value {
		b.throwIf(b.utils.SetSelectValue(b.fieldRef(call.Argument(0), clientutils.BySelector), call.Argument(1).Export()))
		return goja.Undefined()
	})
	b.setMethod(u, "getFieldValue", func(call goja.FunctionCall) goja.Value {
		value, err := b.utils.GetFieldValue(b.fieldRef(call.Argument(0), clientutils.ByName))
		b.throwIf(err)
		return b.toJS(value)
	})

	b.setMethod(u, "fill", func(call goja.FunctionCall) goja.Value {
		ok, err := b.utils.Fill(call.Argument(0).String(), b.fieldsArgument(call.Argument(1)))
		b.throwIf(err)
		return b.vm.ToValue(ok)
	})
	b.setMethod(u, "getFormValues", func(call goja.FunctionCall) goja.Value {
		values, err := b.utils.FormValues(call.Argument(0).String())
		b.throwIf(err)
		items := make([]any, len(values))
		for i, v := range values {
			entry := b.vm.NewObject()
			_ = entry.Set("name", v.Name)
			_ = entry.Set("value", v.Value)
			items[i] = entry
		}
		return b.vm.NewArray(items...)
	})

	return u
}

// throwIf raises err in the script. An interrupt is raised again so that
// it cannot be caught.
func (b *Bridge) throwIf(err error) {
	if err == nil {
		return
	}
	if interrupted, ok := err.(*goja.InterruptedError); ok {
		b.vm.Interrupt(interrupted.Value())
	}
	panic(b.errorValue(err))
}

// fieldRef turns a field argument into a reference: element wrappers refer
// to the element, anything else is a string interpreted by byString.
func (b *Bridge) fieldRef(v goja.Value, byString func(string) clientutils.FieldRef) clientutils.FieldRef {
	if el := b.unwrapElement(v); el != nil {
		return clientutils.ByElement(el)
	}
	return byString(v.String())
}

// fieldsArgument reads the fill mapping in property order.
func (b *Bridge) fieldsArgument(v goja.Value) clientutils.Fields {
	if isNullish(v) {
		return nil
	}
	obj := v.ToObject(b.vm)
	keys := obj.Keys()
	fields := make(clientutils.Fields, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, clientutils.Field{Name: key, Value: obj.Get(key).Export()})
	}
	return fields
}

// invokeMethod calls a method on the element's wrapper, so methods defined
// by scripts are found as well as the built-in ones.
func (b *Bridge) invokeMethod(el *dom.Element, method string) (any, error) {
	obj, _ := b.WrapElement(el).(*goja.Object)
	if obj == nil {
		return nil, &dom.TypeError{Method: method, Target: el.String()}
	}
	fn, ok := goja.AssertFunction(obj.Get(method))
	if !ok {
		return nil, &dom.TypeError{Method: method, Target: el.String()}
	}
	result, err := fn(obj)
	if err != nil {
		return nil, err
	}
	if target := b.unwrapElement(result); target != nil {
		return target, nil
	}
	return b.Export(result)
}
