package htmlutil

import "golang.org/x/net/html"

// FormElement is a form control found in a document. Input is the only control
// extracted today, other controls (select, textarea) are meant to be added as
// new implementations so callers relying on the accessors keep working.
type FormElement interface {
	Name() (string, bool)
	ID() (string, bool)
	Value() (string, bool)

	formElement()
}

// Input is an <input> element, each field is nil when the attribute is absent.
type Input struct {
	name  *string
	id    *string
	value *string
}

func NewInput(name, id, value *string) Input {
	return Input{name: name, id: id, value: value}
}

func (i Input) Name() (string, bool)  { return deref(i.name) }
func (i Input) ID() (string, bool)    { return deref(i.id) }
func (i Input) Value() (string, bool) { return deref(i.value) }
func (Input) formElement()            {}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

func optionalAttr(node *html.Node, name string) *string {
	value, ok := Attr(node, name)
	if !ok {
		return nil
	}
	return &value
}

// FindForms returns every <form> element under root.
func FindForms(root *html.Node) []*html.Node {
	var forms []*html.Node
	Walk(root, func(node *html.Node) bool {
		if name, ok := TagName(node); ok && name == "form" {
			forms = append(forms, node)
		}
		return true
	})
	return forms
}

// FindFormByID returns the first <form> under root whose id attribute is `id`.
func FindFormByID(root *html.Node, id string) (*html.Node, bool) {
	for _, form := range FindForms(root) {
		formId, ok := Attr(form, "id")
		if ok && formId == id {
			return form, true
		}
	}
	return nil, false
}

// FindInputs returns every <input> element under root.
func FindInputs(root *html.Node) []FormElement {
	var inputs []FormElement
	Walk(root, func(node *html.Node) bool {
		if name, ok := TagName(node); ok && name == "input" {
			inputs = append(inputs, Input{
				name:  optionalAttr(node, "name"),
				id:    optionalAttr(node, "id"),
				value: optionalAttr(node, "value"),
			})
		}
		return true
	})
	return inputs
}
