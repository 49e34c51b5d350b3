// Package htmldoc provides tolerant HTML fragment parsing and traversal
// primitives over golang.org/x/net/html node trees. Chapter content in book
// archives is real-world e-book markup: missing closing tags, stray text and
// unknown elements must degrade to a best-effort tree, never an error.
package htmldoc

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses an HTML fragment string and returns the node whose
// children are the fragment's top-level nodes. html.Parse wraps fragments in
// a full html/head/body scaffold; the returned node is the synthesized
// <body>, so callers traverse the fragment's own structure directly.
func ParseFragment(fragment string) *html.Node {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		// html.Parse only fails on reader errors; a strings.Reader cannot
		// produce one. Treat the degenerate case as an empty fragment.
		return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	if body := findElement(doc, atom.Body); body != nil {
		return body
	}
	return doc
}

// findElement performs a depth-first search for a node with the given atom tag.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, a); result != nil {
			return result
		}
	}
	return nil
}

// FindFirst returns the first node under root (pre-order, document order)
// satisfying pred, or nil. Traversal uses an explicit stack so pathological
// nesting cannot exhaust the goroutine stack.
func FindFirst(root *html.Node, pred func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if pred(n) {
			return n
		}
		// Push children in reverse so the first child is visited next.
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return nil
}

// FindByAttr returns the first element under root whose attribute key equals
// value, or nil.
func FindByAttr(root *html.Node, key, value string) *html.Node {
	return FindFirst(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		v, ok := Attr(n, key)
		return ok && v == value
	})
}

// FindAncestor walks strictly upward from n (excluding n itself) and returns
// the nearest ancestor satisfying pred, or nil.
func FindAncestor(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if pred(p) {
			return p
		}
	}
	return nil
}

// Attr returns the value of the named attribute on n and whether it exists.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HeadingLevel maps h1..h6 tag names to their level. Any other tag is 0.
func HeadingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// NodeHeadingLevel returns the heading level of n, or 0 when n is not a
// heading element.
func NodeHeadingLevel(n *html.Node) int {
	if n == nil || n.Type != html.ElementNode {
		return 0
	}
	return HeadingLevel(n.Data)
}

// Render serializes nodes back to HTML in the given order. Tag names and
// attributes are reproduced verbatim; text content is exact.
func Render(nodes ...*html.Node) string {
	var buf bytes.Buffer
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := html.Render(&buf, n); err != nil {
			// html.Render fails only on writer errors; bytes.Buffer has none.
			continue
		}
	}
	return buf.String()
}
