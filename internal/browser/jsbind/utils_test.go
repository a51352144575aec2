package jsbind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pageutils/internal/browser/jsbind"
	"github.com/xkilldash9x/pageutils/internal/clientutils"
)

const utilsHTML = `<html><body>
	<form id="f">
		<input name="user" id="user" value="a">
		<input type="radio" name="choice" value="x" id="cx" checked>
		<input type="radio" name="choice" value="y" id="cy">
		<input type="radio" name="choice" value="z" id="cz">
		<input type="checkbox" name="tags" value="a" id="ta">
		<input type="checkbox" name="tags" value="b" id="tb">
		<input type="checkbox" name="tags" value="c" id="tc">
		<input type="checkbox" name="agree" id="agree">
		<select name="size"><option>s</option><option>m</option></select>
		<input type="file" name="upload">
	</form>
	<p id="para">text</p>
</body></html>`

func TestUtils_ClickAndExists(t *testing.T) {
	env := setupTest(t, utilsHTML)

	assert.False(t, env.run(t, `__utils__.click("#missing")`).ToBoolean())
	assert.True(t, env.run(t, `__utils__.click("#agree")`).ToBoolean())
	assert.True(t, env.doc.GetElementByID("agree").Checked())
	assert.True(t, env.run(t, `__utils__.exists("form input")`).ToBoolean())
	assert.True(t, env.run(t, `__utils__.fire("#para", "custom")`).ToBoolean())
}

func TestUtils_FireOn(t *testing.T) {
	env := setupTest(t, utilsHTML)

	assert.True(t, env.run(t, `__utils__.fireOn("#para", "hasChildNodes")`).ToBoolean())
	assert.Equal(t, "ok:para", env.run(t, `
		var p = document.getElementById("para");
		p.greet = function() { return "ok:" + this.id; };
		__utils__.fireOn("#para", "greet");
	`).String(), "script-defined methods are callable")
	assert.Equal(t, "boom", env.run(t, `
		p.explode = function() { throw new Error("boom"); };
		try { __utils__.fireOn("#para", "explode"); } catch (e) { e.message }
	`).String(), "script exceptions pass through unchanged")
	assert.Equal(t, "TypeError", env.run(t, `
		try { __utils__.fireOn("#para", "nothing"); } catch (e) { e.name }
	`).String())
	assert.Equal(t, "ElementNotFoundError:#nope", env.run(t, `
		try { __utils__.fireOn("#nope", "click"); } catch (e) { e.name + ":" + e.selector }
	`).String())
}

func TestUtils_SetFieldValue(t *testing.T) {
	env := setupTest(t, utilsHTML)

	env.run(t, `
		__utils__.setFieldValue("user", "b");
		__utils__.setFieldValue("choice", "y");
		__utils__.setCheckboxValue("input[name=tags]", ["a", "c"]);
		__utils__.setFieldValue(document.getElementById("agree"), 1);
		__utils__.setSelectValue("select", "m");
	`)
	assert.Equal(t, "b", env.doc.GetElementByID("user").Value())
	assert.True(t, env.doc.GetElementByID("cy").Checked())
	assert.False(t, env.doc.GetElementByID("cx").Checked())
	assert.True(t, env.doc.GetElementByID("ta").Checked())
	assert.False(t, env.doc.GetElementByID("tb").Checked())
	assert.True(t, env.doc.GetElementByID("tc").Checked())
	assert.True(t, env.doc.GetElementByID("agree").Checked())

	assert.Equal(t, "m", env.run(t, `__utils__.getFieldValue("size")`).String())
	assert.Equal(t, "a,c", env.run(t, `__utils__.getFieldValue("tags").join(",")`).String())
	assert.True(t, env.run(t, `Array.isArray(__utils__.getFieldValue("tags"))`).ToBoolean())

	env.run(t, `__utils__.setRadioValue("input[name=choice]", "w")`)
	assert.True(t, env.run(t, `__utils__.getFieldValue("choice") === null`).ToBoolean())

	assert.Equal(t, "UnsupportedFieldError:upload:file", env.run(t, `
		try { __utils__.setFieldValue("upload", "x"); } catch (e) { [e.name, e.field, e.type].join(":") }
	`).String())
	assert.Equal(t, "ElementNotFoundError", env.run(t, `
		try { __utils__.setFieldValue("ghost", "x"); } catch (e) { e.name }
	`).String())
}

func TestUtils_Fill(t *testing.T) {
	env := setupTest(t, utilsHTML)

	assert.False(t, env.run(t, `__utils__.fill("#nope", {user: "x"})`).ToBoolean())
	assert.Equal(t, "a", env.doc.GetElementByID("user").Value())

	assert.True(t, env.run(t, `__utils__.fill("#f", {user: "filled", tags: "b", agree: ""})`).ToBoolean())
	assert.Equal(t, "filled", env.doc.GetElementByID("user").Value())
	assert.True(t, env.doc.GetElementByID("tb").Checked())
	assert.False(t, env.doc.GetElementByID("agree").Checked())

	result := env.run(t, `
		var caught;
		try { __utils__.fill("#f", {user: "first", upload: "x", choice: "z"}); } catch (e) { caught = e.name; }
		caught;
	`)
	assert.Equal(t, "UnsupportedFieldError", result.String())
	assert.Equal(t, "first", env.doc.GetElementByID("user").Value())
	assert.True(t, env.doc.GetElementByID("cx").Checked(), "fields after the failure are not applied")
}

func TestUtils_GetFormValues(t *testing.T) {
	env := setupTest(t, utilsHTML)

	got := env.run(t, `
		__utils__.getFormValues("#f").map(function(v) { return v.name + "=" + v.value; }).join("&")
	`)
	assert.Equal(t, "user=a&choice=x&size=s", got.String())
}

func TestUtils_GoSideSharesTheBinding(t *testing.T) {
	env := setupTest(t, utilsHTML, jsbind.WithUtilsGlobal("casper"), jsbind.WithUtilsOptions(clientutils.WithFillScope(clientutils.ScopeDocument)))

	env.run(t, `document.getElementById("para").shout = function() { return "HEY"; }`)
	got, err := env.bridge.Utils().FireOn("#para", "shout")
	require.NoError(t, err)
	assert.Equal(t, "HEY", got)

	assert.True(t, env.run(t, `typeof casper.fill === "function"`).ToBoolean())
	el := env.doc.GetElementByID("para")
	assert.True(t, env.run(t, `document.getElementById("para")`).SameAs(env.bridge.WrapElement(el)))
}
