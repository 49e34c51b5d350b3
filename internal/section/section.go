// Package section narrows chapter HTML to the subsection owned by an in-page
// anchor. Given an anchor identifier it locates the target node, promotes it
// to the heading that governs it, and extracts the contiguous sibling span
// belonging to that heading's section.
package section

import (
	"golang.org/x/net/html"

	"github.com/dgallion1/bookreader/internal/htmldoc"
)

// FindAnchor resolves an anchor identifier against a parsed chapter tree.
// Strategies are tried in order, first hit wins:
//
//  1. element with id equal to the anchor
//  2. element with name equal to the anchor
//  3. an <a> whose href is "#"+anchor — some e-book markup links to a
//     vicinity anchor rather than carrying an id on the target; the anchor
//     element itself is returned so extraction promotes it to its section
//     heading the same way it would any non-heading target
//
// Returns nil when no strategy matches; callers fall back to the full
// chapter content.
func FindAnchor(root *html.Node, anchor string) *html.Node {
	if root == nil || anchor == "" {
		return nil
	}
	if n := htmldoc.FindByAttr(root, "id", anchor); n != nil {
		return n
	}
	if n := htmldoc.FindByAttr(root, "name", anchor); n != nil {
		return n
	}
	return htmldoc.FindFirst(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "a" {
			return false
		}
		href, ok := htmldoc.Attr(n, "href")
		return ok && href == "#"+anchor
	})
}

// Extract collects the section span owned by target and returns it in
// document order.
//
// The start node is the target itself when it is a heading, otherwise its
// nearest heading ancestor, otherwise the target unchanged. The span is the
// start node plus its following siblings, stopping before the first sibling
// heading of level less than or equal to the start level: a same-or-higher
// heading opens a new section, while a deeper heading is a subsection that
// stays inside the span. With no bounding heading the span runs to the end
// of the parent's children.
func Extract(target *html.Node) []*html.Node {
	if target == nil {
		return nil
	}

	start := target
	startLevel := htmldoc.NodeHeadingLevel(start)
	if startLevel == 0 {
		if h := htmldoc.FindAncestor(target, func(n *html.Node) bool {
			return htmldoc.NodeHeadingLevel(n) > 0
		}); h != nil {
			start = h
			startLevel = htmldoc.NodeHeadingLevel(h)
		}
	}

	span := []*html.Node{start}
	for sib := start.NextSibling; sib != nil; sib = sib.NextSibling {
		if level := htmldoc.NodeHeadingLevel(sib); level > 0 && startLevel > 0 && level <= startLevel {
			break
		}
		span = append(span, sib)
	}
	return span
}

// Subsection narrows a chapter HTML fragment to the section owned by anchor.
// The second return is false when the anchor is empty or resolves to nothing,
// in which case the caller keeps the full chapter content.
func Subsection(fragment, anchor string) (string, bool) {
	if anchor == "" {
		return "", false
	}
	root := htmldoc.ParseFragment(fragment)
	target := FindAnchor(root, anchor)
	if target == nil {
		return "", false
	}
	return htmldoc.Render(Extract(target)...), true
}
