package htmlutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type inputFields struct {
	Name, ID, Value          string
	HasName, HasID, HasValue bool
}

func fields(elements []FormElement) []inputFields {
	out := make([]inputFields, len(elements))
	for i, e := range elements {
		f := inputFields{}
		f.Name, f.HasName = e.Name()
		f.ID, f.HasID = e.ID()
		f.Value, f.HasValue = e.Value()
		out[i] = f
	}
	return out
}

func TestFindFormsNone(t *testing.T) {
	root := mustParse(t, `<body><div><input name="a"></div><svg><form></form></svg></body>`)
	require.Empty(t, FindForms(root))

	_, ok := FindFormByID(root, "signonForm")
	require.False(t, ok)
}

func TestFindForms(t *testing.T) {
	root := mustParse(t, `<body>
		<form id="search"></form>
		<div><form id="signonForm"></form></div>
	</body>`)

	forms := FindForms(root)
	require.Len(t, forms, 2)

	id, _ := Attr(forms[0], "id")
	require.Equal(t, "search", id)

	form, ok := FindFormByID(root, "signonForm")
	require.True(t, ok)
	require.Same(t, forms[1], form)
}

func TestFindInputs(t *testing.T) {
	root := mustParse(t, `<form id="signonForm">
		<input name="card">
		<input name="password" id="pw" value="">
		<input id="nextSequenceID" value="42">
		<input>
		<svg><input name="foreign"></svg>
	</form>`)

	form, ok := FindFormByID(root, "signonForm")
	require.True(t, ok)

	expected := []inputFields{
		{Name: "card", HasName: true},
		{Name: "password", HasName: true, ID: "pw", HasID: true, Value: "", HasValue: true},
		{ID: "nextSequenceID", HasID: true, Value: "42", HasValue: true},
		{},
	}
	diff := cmp.Diff(expected, fields(FindInputs(form)))
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestFindInputsScopedToRoot(t *testing.T) {
	root := mustParse(t, `<input name="outside"><form id="f"><input name="inside"></form>`)

	form, ok := FindFormByID(root, "f")
	require.True(t, ok)

	inputs := FindInputs(form)
	require.Len(t, inputs, 1)
	name, _ := inputs[0].Name()
	require.Equal(t, "inside", name)

	require.Len(t, FindInputs(root), 2)
}

func TestNewInput(t *testing.T) {
	name := "op"
	var element FormElement = NewInput(&name, nil, nil)

	got, ok := element.Name()
	require.True(t, ok)
	require.Equal(t, "op", got)
	_, ok = element.ID()
	require.False(t, ok)
	_, ok = element.Value()
	require.False(t, ok)
}
