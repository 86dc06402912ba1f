package evidence

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Search result pages are treated as a fixed, opaque layout: snippet
// descriptions, titles and knowledge cards carry these class names, and
// the results tally sits in one identified element.
var snippetClasses = map[string]struct{}{
	"st":      {},
	"r":       {},
	"mod":     {},
	"brs_col": {},
}

const resultStatsID = "resultStats"

var digits = regexp.MustCompile(`\d+`)

// SnippetText concatenates the text of every snippet, title and card
// element of a search result page.
func SnippetText(body []byte) string {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var parts []string
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		for _, class := range strings.Fields(attr(n, "class")) {
			if _, ok := snippetClasses[class]; ok {
				parts = append(parts, nodeText(n))
				return false
			}
		}
		return true
	})
	return strings.Join(parts, " ")
}

// ResultCount extracts the numeric total-results figure of a search
// result page, 0 when the page carries none.
func ResultCount(body []byte) int64 {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return 0
	}
	var stats string
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == resultStatsID {
			stats = nodeText(n)
			return false
		}
		return true
	})
	if stats == "" {
		return 0
	}
	match := digits.FindString(strings.ReplaceAll(stats, ",", ""))
	if match == "" {
		return 0
	}
	count, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return 0
	}
	return count
}

// ParagraphText concatenates the text of every paragraph element of a
// reference page.
func ParagraphText(body []byte) string {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var parts []string
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "p" {
			parts = append(parts, nodeText(n))
			return false
		}
		return true
	})
	return strings.Join(parts, " ")
}

// walk visits nodes depth-first; visit returning false prunes the subtree.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// nodeText flattens one element subtree to whitespace-normalized text.
// Text nodes are collected directly so anchor text survives; links make
// up most of a reference paragraph.
func nodeText(n *html.Node) string {
	var buf bytes.Buffer
	walk(n, func(node *html.Node) bool {
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
			return false
		}
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
		}
		return true
	})
	return strings.Join(strings.Fields(buf.String()), " ")
}
