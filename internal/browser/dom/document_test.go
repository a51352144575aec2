package dom_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
)

const pageHTML = `<html><body>
	<form id="login" action="/login">
		<input id="user" name="user" value="a">
		<input name="pass" type="password">
		<textarea name="bio">hello</textarea>
		<select name="color">
			<option value="r">Red</option>
			<optgroup label="more"><option selected>Blue</option></optgroup>
		</select>
	</form>
	<input name="outside" form="login">
	<p class="note">one</p><p class="note">two</p>
</body></html>`

func mustParse(t *testing.T, src string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(src, zaptest.NewLogger(t))
	require.NoError(t, err)
	return doc
}

func TestQuerySelector(t *testing.T) {
	doc := mustParse(t, pageHTML)

	el := doc.QuerySelector("#login input[name=user]")
	require.NotNil(t, el)
	assert.Equal(t, "user", el.ID())
	assert.Equal(t, "input", el.TagName())

	assert.Nil(t, doc.QuerySelector("#missing"))
}

func TestQuerySelectorAll_DocumentOrder(t *testing.T) {
	doc := mustParse(t, pageHTML)

	notes := doc.QuerySelectorAll("p.note")
	require.Len(t, notes, 2)
	assert.Equal(t, "one", notes[0].TextContent())
	assert.Equal(t, "two", notes[1].TextContent())

	none := doc.QuerySelectorAll("blink")
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestQuerySelector_InvalidSelectorIsNoMatch(t *testing.T) {
	doc := mustParse(t, pageHTML)

	assert.NotPanics(t, func() {
		assert.Nil(t, doc.QuerySelector("input[name="))
		assert.Empty(t, doc.QuerySelectorAll("//input"))
	})
}

func TestElementsByName(t *testing.T) {
	doc := mustParse(t, pageHTML)

	assert.Len(t, doc.ElementsByName("user"), 1)
	assert.Empty(t, doc.ElementsByName("nobody"))

	form := doc.GetElementByID("login")
	require.NotNil(t, form)
	assert.Len(t, form.ElementsByName("pass"), 1)
	assert.Empty(t, form.ElementsByName("outside"), "scoped lookup only sees descendants")
}

func TestElementValueSlots(t *testing.T) {
	doc := mustParse(t, pageHTML)

	user := doc.QuerySelector("[name=user]")
	assert.Equal(t, "a", user.Value())
	user.SetValue("b")
	assert.Equal(t, "b", user.Value())

	bio := doc.QuerySelector("textarea")
	assert.Equal(t, "hello", bio.Value())
	bio.SetValue("bye")
	assert.Equal(t, "bye", bio.Value())

	color := doc.QuerySelector("select")
	assert.Equal(t, "Blue", color.Value(), "option without value falls back to its text")
	color.SetValue("r")
	assert.Equal(t, "r", color.Value())
	assert.Len(t, color.Options(), 2)
}

func TestElementCheckedState(t *testing.T) {
	doc := mustParse(t, `<input type="checkbox" name="agree">`)
	box := doc.QuerySelector("input")

	assert.False(t, box.Checked())
	box.SetChecked(true)
	assert.True(t, box.Checked())
	box.SetChecked(true)
	assert.Equal(t, []string{"type", "name", "checked"}, box.AttributeNames())
	box.SetChecked(false)
	assert.False(t, box.Checked())
}

func TestElementForm(t *testing.T) {
	doc := mustParse(t, pageHTML)
	form := doc.GetElementByID("login")

	assert.True(t, form.Is(doc.QuerySelector("[name=pass]").Form()))
	assert.True(t, form.Is(doc.QuerySelector("[name=outside]").Form()), "form attribute names the owner")
	assert.Nil(t, doc.QuerySelector("p").Form())
}

func TestDocumentRender(t *testing.T) {
	doc := mustParse(t, `<input name="q">`)
	doc.QuerySelector("input").SetValue("go")

	out, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, `<input name="q" value="go"/>`)

	var sb strings.Builder
	require.NoError(t, doc.Render(&sb))
	assert.Equal(t, out, sb.String())
}

func TestElementString(t *testing.T) {
	doc := mustParse(t, pageHTML)
	assert.Equal(t, `input#user[name="user"]`, doc.QuerySelector("#user").String())
	assert.Equal(t, `input[type="password"][name="pass"]`, doc.QuerySelector("[name=pass]").String())
}
