package clientutils_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
	"github.com/xkilldash9x/pageutils/internal/clientutils"
)

const interactHTML = `<html><body>
	<div id="wrap"><a id="link" href="#">go</a></div>
	<input type="checkbox" id="agree" name="agree">
	<p id="text">hi</p>
</body></html>`

// mockInvoker records element method invocations.
type mockInvoker struct {
	mock.Mock
}

func (m *mockInvoker) Invoke(el *dom.Element, method string) (any, error) {
	args := m.Called(el.ID(), method)
	return args.Get(0), args.Error(1)
}

func newUtils(t *testing.T, src string, opts ...clientutils.Option) (*clientutils.Utils, *dom.Document) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	doc, err := dom.ParseString(src, logger)
	require.NoError(t, err)
	return clientutils.New(doc, logger, opts...), doc
}

func TestClick(t *testing.T) {
	t.Run("dispatches a bubbling click", func(t *testing.T) {
		u, doc := newUtils(t, interactHTML)

		var seen *dom.Event
		doc.GetElementByID("wrap").AddEventListener("click", func(ev *dom.Event) { seen = ev }, dom.ListenerOptions{})

		assert.True(t, u.Click("#link"))
		require.NotNil(t, seen)
		assert.Equal(t, "link", seen.Target().ID())
		require.NotNil(t, seen.Mouse)
		assert.Equal(t, 1, seen.Mouse.Detail)
	})

	t.Run("missing element returns false without mutation", func(t *testing.T) {
		u, doc := newUtils(t, interactHTML)
		before, err := doc.HTML()
		require.NoError(t, err)

		assert.False(t, u.Click("#nope"))
		assert.False(t, u.Click("input[type=checkbox].missing"))

		after, err := doc.HTML()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("cancelled click returns false", func(t *testing.T) {
		u, doc := newUtils(t, interactHTML)
		doc.AddEventListener("click", func(ev *dom.Event) { ev.PreventDefault() }, dom.ListenerOptions{})

		assert.False(t, u.Click("#link"))
	})

	t.Run("checkbox toggles", func(t *testing.T) {
		u, doc := newUtils(t, interactHTML)
		assert.True(t, u.Click("#agree"))
		assert.True(t, doc.GetElementByID("agree").Checked())
		assert.True(t, u.Click("#agree"))
		assert.False(t, doc.GetElementByID("agree").Checked())
	})
}

func TestFireOn(t *testing.T) {
	t.Run("missing element", func(t *testing.T) {
		u, _ := newUtils(t, interactHTML)

		_, err := u.FireOn("#nope", "click")
		var notFound *clientutils.ElementNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "#nope", notFound.Selector)
	})

	t.Run("returns the method result", func(t *testing.T) {
		u, _ := newUtils(t, interactHTML)

		got, err := u.FireOn("#text", "hasChildNodes")
		require.NoError(t, err)
		assert.Equal(t, true, got)

		got, err = u.FireOn("#link", "getAttributeNames")
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "href"}, got)
	})

	t.Run("unknown method error passes through", func(t *testing.T) {
		u, _ := newUtils(t, interactHTML)

		_, err := u.FireOn("#text", "explode")
		var typeErr *dom.TypeError
		require.ErrorAs(t, err, &typeErr)
		assert.Equal(t, "explode", typeErr.Method)
	})

	t.Run("invoker sees the first match", func(t *testing.T) {
		inv := new(mockInvoker)
		inv.On("Invoke", "link", "focus").Return("focused", nil).Once()
		u, _ := newUtils(t, interactHTML, clientutils.WithInvoker(inv))

		got, err := u.FireOn("#wrap a", "focus")
		require.NoError(t, err)
		assert.Equal(t, "focused", got)

		_, err = u.FireOn("#absent", "focus")
		require.Error(t, err)
		inv.AssertExpectations(t)
		inv.AssertNumberOfCalls(t, "Invoke", 1)
	})

	t.Run("custom invoker", func(t *testing.T) {
		sentinel := errors.New("boom")
		var called string
		inv := clientutils.MethodInvokerFunc(func(el *dom.Element, method string) (any, error) {
			called = el.ID() + "." + method
			return nil, sentinel
		})
		u, _ := newUtils(t, interactHTML, clientutils.WithInvoker(inv))

		_, err := u.FireOn("#text", "scrollIntoView")
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, "text.scrollIntoView", called)
	})
}

func TestFire(t *testing.T) {
	u, doc := newUtils(t, interactHTML)

	var bubbled bool
	doc.GetElementByID("wrap").AddEventListener("custom", func(ev *dom.Event) {
		bubbled = true
		assert.Nil(t, ev.Mouse)
	}, dom.ListenerOptions{})

	ok, err := u.Fire("#link", "custom")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, bubbled)

	_, err = u.Fire("#nope", "custom")
	assert.ErrorAs(t, err, new(*clientutils.ElementNotFoundError))
}

func TestExists(t *testing.T) {
	u, _ := newUtils(t, interactHTML)
	assert.True(t, u.Exists("#wrap a"))
	assert.False(t, u.Exists("#wrap p"))
	assert.False(t, u.Exists("[[invalid"))
}

func TestParseFillScope(t *testing.T) {
	for in, want := range map[string]clientutils.FillScope{
		"":          clientutils.ScopeForm,
		"form":      clientutils.ScopeForm,
		" Document": clientutils.ScopeDocument,
	} {
		got, err := clientutils.ParseFillScope(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := clientutils.ParseFillScope("page")
	assert.Error(t, err)
	assert.Equal(t, "document", clientutils.ScopeDocument.String())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "element not found matching selector '#x'", clientutils.NewElementNotFoundError("#x").Error())

	err := &clientutils.UnsupportedFieldError{Field: "upload", Tag: "input", Type: "file"}
	assert.Equal(t, `unsupported field 'upload': <input type="file">`, err.Error())

	err = &clientutils.UnsupportedFieldError{Field: "#b", Tag: "button"}
	assert.Equal(t, "unsupported field '#b': <button>", err.Error())
}
