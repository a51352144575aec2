// internal/clientutils/field.go
package clientutils

import (
	"go.uber.org/zap"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
)

// FieldRef identifies the field a value is assigned to: a field name, a CSS
// selector, or an element the caller already holds.
type FieldRef interface {
	// String identifies the reference in errors and logs.
	String() string
	// resolve returns the element to classify and the group it belongs to,
	// in document order. A nil primary means nothing matched.
	resolve(doc *dom.Document) (primary *dom.Element, group []*dom.Element)
}

type nameRef string

// ByName refers to the controls whose name attribute equals name.
func ByName(name string) FieldRef { return nameRef(name) }

func (r nameRef) String() string { return string(r) }

func (r nameRef) resolve(doc *dom.Document) (*dom.Element, []*dom.Element) {
	return first(doc.ElementsByName(string(r)))
}

type selectorRef string

// BySelector refers to every element matching a CSS selector.
func BySelector(selector string) FieldRef { return selectorRef(selector) }

func (r selectorRef) String() string { return string(r) }

func (r selectorRef) resolve(doc *dom.Document) (*dom.Element, []*dom.Element) {
	return first(doc.QuerySelectorAll(string(r)))
}

type elementRef struct{ el *dom.Element }

// ByElement refers to a resolved element. Checkable elements bring the rest
// of their name group along.
func ByElement(el *dom.Element) FieldRef { return elementRef{el: el} }

func (r elementRef) String() string {
	if r.el == nil {
		return "<nil>"
	}
	return r.el.String()
}

func (r elementRef) resolve(doc *dom.Document) (*dom.Element, []*dom.Element) {
	if r.el == nil {
		return nil, nil
	}
	name := r.el.Name()
	if name == "" || !dom.Classify(r.el).IsCheckable() {
		return r.el, []*dom.Element{r.el}
	}
	return r.el, r.el.Document().ElementsByName(name)
}

// formNameRef resolves a name among the controls of a form: its descendants
// and the controls whose form attribute names it.
type formNameRef struct {
	form *dom.Element
	name string
}

func (r formNameRef) String() string { return r.name }

func (r formNameRef) resolve(doc *dom.Document) (*dom.Element, []*dom.Element) {
	var owned []*dom.Element
	for _, el := range doc.ElementsByName(r.name) {
		if r.form.Contains(el) || r.form.Is(el.Form()) {
			owned = append(owned, el)
		}
	}
	return first(owned)
}

func first(elems []*dom.Element) (*dom.Element, []*dom.Element) {
	if len(elems) == 0 {
		return nil, nil
	}
	return elems[0], elems
}

// sameKind keeps the group members of the given kind.
func sameKind(group []*dom.Element, kind dom.ControlKind) []*dom.Element {
	out := make([]*dom.Element, 0, len(group))
	for _, el := range group {
		if dom.Classify(el) == kind {
			out = append(out, el)
		}
	}
	return out
}

func (u *Utils) resolveField(ref FieldRef) (*dom.Element, []*dom.Element, error) {
	primary, group := ref.resolve(u.doc)
	if primary == nil {
		return nil, nil, NewElementNotFoundError(ref.String())
	}
	return primary, group, nil
}

func unsupported(ref FieldRef, el *dom.Element) error {
	return &UnsupportedFieldError{Field: ref.String(), Tag: el.TagName(), Type: el.Type()}
}

// -- Field Value Dispatcher --

// SetFieldValue assigns value to the field according to its control kind:
//
//   - text-like inputs and textareas take the stringified value as is;
//   - radios in the name group are checked iff their value equals value;
//   - a lone checkbox is checked iff value is truthy;
//   - a checkbox group treats value as the set of values to check;
//   - selects select the options whose value matches.
//
// Anything else fails with an UnsupportedFieldError.
func (u *Utils) SetFieldValue(ref FieldRef, value any) error {
	primary, group, err := u.resolveField(ref)
	if err != nil {
		return err
	}

	kind := dom.Classify(primary)
	u.logger.Debug("Setting field value.",
		zap.Stringer("field", ref),
		zap.Stringer("kind", kind),
		zap.Int("group_size", len(group)))

	switch kind {
	case dom.KindText, dom.KindTextarea:
		primary.SetValue(Stringify(value))
	case dom.KindRadio:
		setRadio(sameKind(group, dom.KindRadio), value)
	case dom.KindCheckbox:
		setCheckbox(sameKind(group, dom.KindCheckbox), value)
	case dom.KindSelect:
		setSelect(primary, value)
	case dom.KindUnsupported:
		return unsupported(ref, primary)
	default:
		return unsupported(ref, primary)
	}
	return nil
}

// SetCheckboxValue runs the checkbox branch of SetFieldValue directly.
func (u *Utils) SetCheckboxValue(ref FieldRef, value any) error {
	primary, group, err := u.resolveField(ref)
	if err != nil {
		return err
	}
	if dom.Classify(primary) != dom.KindCheckbox {
		return unsupported(ref, primary)
	}
	setCheckbox(sameKind(group, dom.KindCheckbox), value)
	return nil
}

// SetRadioValue runs the radio branch of SetFieldValue directly.
func (u *Utils) SetRadioValue(ref FieldRef, value any) error {
	primary, group, err := u.resolveField(ref)
	if err != nil {
		return err
	}
	if dom.Classify(primary) != dom.KindRadio {
		return unsupported(ref, primary)
	}
	setRadio(sameKind(group, dom.KindRadio), value)
	return nil
}

// SetSelectValue runs the select branch of SetFieldValue directly.
func (u *Utils) SetSelectValue(ref FieldRef, value any) error {
	primary, _, err := u.resolveField(ref)
	if err != nil {
		return err
	}
	if dom.Classify(primary) != dom.KindSelect {
		return unsupported(ref, primary)
	}
	setSelect(primary, value)
	return nil
}

// setRadio checks the radios whose value equals value and unchecks the rest.
// A value matching no radio leaves the whole group unchecked.
func setRadio(group []*dom.Element, value any) {
	want := Stringify(value)
	for _, radio := range group {
		radio.SetChecked(radio.Attr("value") == want)
	}
}

// setCheckbox sets a lone checkbox from the truthiness of value, and a group
// from membership of each box's value in value.
func setCheckbox(group []*dom.Element, value any) {
	if len(group) == 1 {
		group[0].SetChecked(Truthy(value))
		return
	}
	wanted := Scalars(value)
	for _, box := range group {
		box.SetChecked(contains(wanted, box.Attr("value")))
	}
}

// setSelect selects matching options. Multiple selects accept a list; a
// single select keeps at most the first match.
func setSelect(sel *dom.Element, value any) {
	if sel.Multiple() {
		wanted := Scalars(value)
		for _, opt := range sel.Options() {
			opt.SetSelected(contains(wanted, opt.Value()))
		}
		return
	}
	want := Stringify(value)
	matched := false
	for _, opt := range sel.Options() {
		hit := !matched && opt.Value() == want
		opt.SetSelected(hit)
		matched = matched || hit
	}
}

// GetFieldValue reads a field back: a string for text-like controls, a bool
// for a lone checkbox, the checked values of a checkbox group, the checked
// radio's value (nil when none is checked), and the selected value of a
// select (all selected values for multiple selects).
func (u *Utils) GetFieldValue(ref FieldRef) (any, error) {
	primary, group, err := u.resolveField(ref)
	if err != nil {
		return nil, err
	}

	switch dom.Classify(primary) {
	case dom.KindText, dom.KindTextarea:
		return primary.Value(), nil
	case dom.KindRadio:
		for _, radio := range sameKind(group, dom.KindRadio) {
			if radio.Checked() {
				return checkableValue(radio), nil
			}
		}
		return nil, nil
	case dom.KindCheckbox:
		boxes := sameKind(group, dom.KindCheckbox)
		if len(boxes) == 1 {
			return boxes[0].Checked(), nil
		}
		checked := []string{}
		for _, box := range boxes {
			if box.Checked() {
				checked = append(checked, checkableValue(box))
			}
		}
		return checked, nil
	case dom.KindSelect:
		if !primary.Multiple() {
			return primary.Value(), nil
		}
		selected := []string{}
		for _, opt := range primary.Options() {
			if opt.Selected() {
				selected = append(selected, opt.Value())
			}
		}
		return selected, nil
	default:
		return nil, unsupported(ref, primary)
	}
}

// checkableValue is the value a checked checkbox or radio reports. Without a
// value attribute it is "on". Assignment still compares the attribute
// itself, so a box without one only matches the empty string.
func checkableValue(el *dom.Element) string {
	if v, ok := el.LookupAttr("value"); ok {
		return v
	}
	return "on"
}
