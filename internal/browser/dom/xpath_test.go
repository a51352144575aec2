package dom_test

import (
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
)

const xpathHTML = `
	<html>
	<body>
		<div id="header">
			<h1>Welcome</h1>
		</div>
		<form class="content">
			<input name="a"><input name="b">
			<ul>
				<li>Item 1</li>
				<li>Item 2</li>
				<li id="special">Item 3</li>
			</ul>
		</form>
		<form class="content"><input name="c"></form>
	</body>
	</html>
	`

func TestGenerateUniqueXPath(t *testing.T) {
	doc, err := htmlquery.Parse(strings.NewReader(xpathHTML))
	require.NoError(t, err)

	tests := []struct {
		name          string
		targetXPath   string
		expectedXPath string
	}{
		{"Body", "//body", "/html[1]/body[1]"},
		{"Element with ID", "//div[@id='header']", `//*[@id='header']`},
		{"Child of ID element", "//h1", `//*[@id='header']/h1[1]`},
		{"Second input", "(//input)[2]", "/html[1]/body[1]/form[1]/input[2]"},
		{"Input in second form", "(//form)[2]/input", "/html[1]/body[1]/form[2]/input[1]"},
		{"List item", "//ul/li[2]", "/html[1]/body[1]/form[1]/ul[1]/li[2]"},
		{"List item with ID", "//li[@id='special']", `//*[@id='special']`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := htmlquery.FindOne(doc, tt.targetXPath)
			require.NotNil(t, target, "test setup: nothing matches %s", tt.targetXPath)

			generated := dom.GenerateUniqueXPath(target)
			assert.Equal(t, tt.expectedXPath, generated)

			// The generated path must select the original node.
			assert.Equal(t, target, htmlquery.FindOne(doc, generated))
		})
	}
}

func TestGenerateUniqueXPath_Nil(t *testing.T) {
	assert.Equal(t, "", dom.GenerateUniqueXPath(nil))
}
