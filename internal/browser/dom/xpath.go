// internal/browser/dom/xpath.go
package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// GenerateUniqueXPath builds an xpath that locates node, anchored on the
// nearest ancestor id when there is one. It is used to identify elements in
// diagnostics; lookups themselves only take CSS selectors.
func GenerateUniqueXPath(node *html.Node) string {
	if node == nil {
		return ""
	}

	var steps []string
	for n := node; n != nil && n.Type != html.DocumentNode; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		tag := strings.ToLower(n.Data)
		if tag == "" {
			continue
		}

		if id := htmlquery.SelectAttr(n, "id"); id != "" && !strings.Contains(id, "'") {
			steps = append(steps, fmt.Sprintf(`//*[@id='%s']`, id))
			break
		}

		// XPath positions are 1-based and count same-tag siblings only.
		index := 1
		for prev := n.PrevSibling; prev != nil; prev = prev.PrevSibling {
			if prev.Type == html.ElementNode && strings.ToLower(prev.Data) == tag {
				index++
			}
		}
		steps = append(steps, fmt.Sprintf("%s[%d]", tag, index))
	}

	if len(steps) == 0 {
		return "/"
	}

	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	xpath := strings.Join(steps, "/")
	if !strings.HasPrefix(xpath, "//*[@id=") {
		xpath = "/" + xpath
	}
	return xpath
}
