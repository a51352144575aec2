// internal/clientutils/fill.go
package clientutils

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
)

// Field is one name/value pair handed to Fill.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered list of fields. Fill applies them in this order.
type Fields []Field

// FieldsFromMap builds a field list sorted by name, since map iteration order
// is not stable.
func FieldsFromMap(m map[string]any) Fields {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make(Fields, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name, Value: m[name]})
	}
	return fields
}

// Fill assigns each field of the form matching formSelector, in order. A
// missing form yields false and no error. The first failing field stops the
// fill and its error is returned as is; fields already written stay written.
func (u *Utils) Fill(formSelector string, fields Fields) (bool, error) {
	form := u.doc.QuerySelector(formSelector)
	if form == nil {
		u.logger.Debug("Form not found.", zap.String("selector", formSelector))
		return false, nil
	}

	for i, f := range fields {
		if err := u.SetFieldValue(u.fieldRef(form, f.Name), f.Value); err != nil {
			u.logger.Debug("Fill stopped.",
				zap.String("form", formSelector),
				zap.String("field", f.Name),
				zap.Int("applied", i),
				zap.Error(err))
			return false, err
		}
	}
	u.logger.Debug("Filled form.", zap.String("form", formSelector), zap.Int("fields", len(fields)))
	return true, nil
}

// fieldRef scopes a field name according to the configured fill scope.
func (u *Utils) fieldRef(form *dom.Element, name string) FieldRef {
	if u.fillScope == ScopeDocument {
		return ByName(name)
	}
	return formNameRef{form: form, name: name}
}

// -- Form serialization --

// FormValue is one entry of a form data set.
type FormValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

const submittableSelector = "input,select,textarea"

// FormValues returns the successful controls of the form matching
// formSelector in document order, the way a browser builds the data set for
// submission: controls must be named and enabled, buttons and file inputs are
// skipped, and checkboxes and radios count only when checked. Each selected
// option of a select yields its own entry.
func (u *Utils) FormValues(formSelector string) ([]FormValue, error) {
	form := u.doc.QuerySelector(formSelector)
	if form == nil {
		return nil, NewElementNotFoundError(formSelector)
	}

	controls := goquery.NewDocumentFromNode(u.doc.Root()).Find(submittableSelector).
		FilterFunction(func(_ int, sel *goquery.Selection) bool {
			el := u.doc.Wrap(sel.Get(0))
			if !form.Contains(el) && !form.Is(el.Form()) {
				return false
			}
			inputType := el.Type()
			return el.Name() != "" &&
				!el.Disabled() &&
				inputType != "submit" &&
				inputType != "button" &&
				inputType != "reset" &&
				inputType != "image" &&
				inputType != "file" &&
				(el.Checked() || (inputType != "checkbox" && inputType != "radio"))
		})

	values := []FormValue{}
	controls.Each(func(_ int, sel *goquery.Selection) {
		el := u.doc.Wrap(sel.Get(0))
		switch dom.Classify(el) {
		case dom.KindSelect:
			if !el.Multiple() {
				if len(el.Options()) > 0 {
					values = append(values, FormValue{Name: el.Name(), Value: el.Value()})
				}
				return
			}
			for _, opt := range el.Options() {
				if opt.Selected() {
					values = append(values, FormValue{Name: el.Name(), Value: opt.Value()})
				}
			}
		case dom.KindCheckbox, dom.KindRadio:
			values = append(values, FormValue{Name: el.Name(), Value: checkableValue(el)})
		default:
			values = append(values, FormValue{Name: el.Name(), Value: el.Value()})
		}
	})
	return values, nil
}

// EncodeFormValues encodes a form data set as
// application/x-www-form-urlencoded in the order given, keeping repeated
// names, the way a browser submits it.
func EncodeFormValues(values []FormValue) string {
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(v.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(v.Value))
	}
	return sb.String()
}
