package clientutils_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
	"github.com/xkilldash9x/pageutils/internal/clientutils"
)

const formHTML = `<html><body>
	<input name="q" id="outside-q" value="keep">
	<form id="signup">
		<input name="q" id="inside-q">
		<input name="email" id="email">
		<input type="checkbox" name="news" id="news" value="yes">
		<input type="radio" name="plan" value="free" id="free" checked>
		<input type="radio" name="plan" value="pro" id="pro">
		<input type="file" name="avatar">
		<input type="submit" name="send" value="Send">
		<input name="locked" value="l" disabled>
		<input value="anonymous">
		<select name="lang" multiple><option selected>go</option><option value="js" selected>JS</option><option>c</option></select>
	</form>
	<input name="extra" id="extra" form="signup">
	<form id="other"><input name="email" id="other-email"></form>
</body></html>`

func TestFill(t *testing.T) {
	t.Run("applies fields in order", func(t *testing.T) {
		u, doc := newUtils(t, formHTML)

		var fired []string
		doc.AddEventListener("change", func(ev *dom.Event) { fired = append(fired, ev.Target().ID()) }, dom.ListenerOptions{})

		ok, err := u.Fill("#signup", clientutils.Fields{
			{Name: "email", Value: "a@b.c"},
			{Name: "plan", Value: "pro"},
			{Name: "news", Value: true},
		})
		require.NoError(t, err)
		assert.True(t, ok)

		assert.Equal(t, "a@b.c", doc.GetElementByID("email").Value())
		assert.Equal(t, "", doc.GetElementByID("other-email").Value())
		assert.True(t, doc.GetElementByID("pro").Checked())
		assert.False(t, doc.GetElementByID("free").Checked())
		assert.True(t, doc.GetElementByID("news").Checked())
		assert.Empty(t, fired, "assignment does not fire events")
	})

	t.Run("missing form", func(t *testing.T) {
		u, doc := newUtils(t, formHTML)
		before, err := doc.HTML()
		require.NoError(t, err)

		ok, err := u.Fill("#nope", clientutils.Fields{{Name: "email", Value: "x"}})
		require.NoError(t, err)
		assert.False(t, ok)

		after, err := doc.HTML()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("failure keeps earlier writes and stops", func(t *testing.T) {
		u, doc := newUtils(t, formHTML)

		ok, err := u.Fill("#signup", clientutils.Fields{
			{Name: "email", Value: "first"},
			{Name: "avatar", Value: "/etc/passwd"},
			{Name: "q", Value: "never"},
		})
		assert.False(t, ok)
		var unsupported *clientutils.UnsupportedFieldError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, "avatar", unsupported.Field)

		assert.Equal(t, "first", doc.GetElementByID("email").Value())
		assert.Equal(t, "", doc.GetElementByID("inside-q").Value())
	})

	t.Run("unknown field name", func(t *testing.T) {
		u, _ := newUtils(t, formHTML)

		ok, err := u.Fill("#signup", clientutils.Fields{{Name: "ghost", Value: 1}})
		assert.False(t, ok)
		assert.ErrorAs(t, err, new(*clientutils.ElementNotFoundError))
	})
}

func TestFill_Scope(t *testing.T) {
	t.Run("form scope ignores same-named fields elsewhere", func(t *testing.T) {
		u, doc := newUtils(t, formHTML)

		ok, err := u.Fill("#signup", clientutils.Fields{{Name: "q", Value: "mine"}, {Name: "extra", Value: "owned"}})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "keep", doc.GetElementByID("outside-q").Value())
		assert.Equal(t, "mine", doc.GetElementByID("inside-q").Value())
		assert.Equal(t, "owned", doc.GetElementByID("extra").Value(), "form attribute makes the control part of the form")
	})

	t.Run("form scope rejects fields of other forms", func(t *testing.T) {
		u, _ := newUtils(t, formHTML)

		_, err := u.Fill("#other", clientutils.Fields{{Name: "q", Value: "x"}})
		assert.ErrorAs(t, err, new(*clientutils.ElementNotFoundError))
	})

	t.Run("document scope resolves by name anywhere", func(t *testing.T) {
		u, doc := newUtils(t, formHTML, clientutils.WithFillScope(clientutils.ScopeDocument))

		ok, err := u.Fill("#other", clientutils.Fields{{Name: "q", Value: "loose"}})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "loose", doc.GetElementByID("outside-q").Value())
		assert.Equal(t, "", doc.GetElementByID("inside-q").Value())
	})
}

func TestFieldsFromMap(t *testing.T) {
	got := clientutils.FieldsFromMap(map[string]any{"b": 2, "a": "1", "c": []string{"x"}})
	want := clientutils.Fields{{Name: "a", Value: "1"}, {Name: "b", Value: 2}, {Name: "c", Value: []string{"x"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FieldsFromMap mismatch (-want +got):\n%s", diff)
	}
}

func TestFormValues(t *testing.T) {
	u, _ := newUtils(t, formHTML)

	_, err := u.Fill("#signup", clientutils.Fields{
		{Name: "q", Value: "query"},
		{Name: "news", Value: true},
		{Name: "extra", Value: "e"},
	})
	require.NoError(t, err)

	got, err := u.FormValues("#signup")
	require.NoError(t, err)

	want := []clientutils.FormValue{
		{Name: "q", Value: "query"},
		{Name: "email", Value: ""},
		{Name: "news", Value: "yes"},
		{Name: "plan", Value: "free"},
		{Name: "lang", Value: "go"},
		{Name: "lang", Value: "js"},
		{Name: "extra", Value: "e"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FormValues mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "q=query&email=&news=yes&plan=free&lang=go&lang=js&extra=e", clientutils.EncodeFormValues(got),
		"encoding keeps document order")

	_, err = u.FormValues("#nope")
	assert.ErrorAs(t, err, new(*clientutils.ElementNotFoundError))
}

func TestEncodeFormValues(t *testing.T) {
	tests := []struct {
		name   string
		values []clientutils.FormValue
		want   string
	}{
		{"empty", nil, ""},
		{"order and repeats kept", []clientutils.FormValue{
			{Name: "z", Value: "1"},
			{Name: "a", Value: "2"},
			{Name: "z", Value: "3"},
		}, "z=1&a=2&z=3"},
		{"escaping", []clientutils.FormValue{
			{Name: "full name", Value: "Ada Lovelace"},
			{Name: "q", Value: "a&b=c"},
		}, "full+name=Ada+Lovelace&q=a%26b%3Dc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clientutils.EncodeFormValues(tt.values))
		})
	}
}
