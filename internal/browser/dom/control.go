// internal/browser/dom/control.go
package dom

// ControlKind classifies a form control by the assignment strategy it needs.
// The set is closed; Classify is the only producer.
type ControlKind uint8

const (
	// KindUnsupported covers every element without an assignment strategy.
	KindUnsupported ControlKind = iota
	// KindText is an input whose value slot takes free text.
	KindText
	KindRadio
	KindCheckbox
	KindTextarea
	KindSelect
)

func (k ControlKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindRadio:
		return "radio"
	case KindCheckbox:
		return "checkbox"
	case KindTextarea:
		return "textarea"
	case KindSelect:
		return "select"
	default:
		return "unsupported"
	}
}

// textInputTypes are the input types whose value is assigned verbatim.
// The empty string stands for a missing type attribute.
var textInputTypes = map[string]struct{}{
	"":               {},
	"text":           {},
	"email":          {},
	"url":            {},
	"number":         {},
	"date":           {},
	"color":          {},
	"password":       {},
	"range":          {},
	"search":         {},
	"tel":            {},
	"time":           {},
	"week":           {},
	"hidden":         {},
	"month":          {},
	"datetime":       {},
	"datetime-local": {},
}

// Classify derives the control kind from the tag name and, for inputs, the
// type attribute. Nothing else about the element is consulted.
func Classify(e *Element) ControlKind {
	if e == nil {
		return KindUnsupported
	}
	switch e.TagName() {
	case "input":
		inputType := e.Type()
		switch inputType {
		case "radio":
			return KindRadio
		case "checkbox":
			return KindCheckbox
		}
		if _, ok := textInputTypes[inputType]; ok {
			return KindText
		}
		// file, submit, button, reset, image and unknown types.
		return KindUnsupported
	case "textarea":
		return KindTextarea
	case "select":
		return KindSelect
	default:
		return KindUnsupported
	}
}

// IsCheckable reports whether the kind carries a checked state.
func (k ControlKind) IsCheckable() bool {
	return k == KindRadio || k == KindCheckbox
}
