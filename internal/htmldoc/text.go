package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockAtoms are tags that break the line during text extraction.
var blockAtoms = map[atom.Atom]bool{
	atom.P:          true,
	atom.Br:         true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Li:         true,
	atom.Tr:         true,
	atom.Blockquote: true,
	atom.Hr:         true,
}

// skipAtoms are tags whose content is dropped entirely.
var skipAtoms = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
}

// ExtractText returns the plain text rendering of an HTML fragment.
// Block-level elements produce line breaks; script and style content is
// skipped; runs of whitespace collapse to single spaces.
func ExtractText(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))

	var buf strings.Builder
	skipDepth := 0
	lastWasNewline := true

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF and tokenizer errors alike end extraction; whatever has
			// been accumulated so far is the best-effort text.
			return strings.TrimSpace(buf.String())

		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			a := atom.Lookup(name)
			if skipAtoms[a] {
				skipDepth++
				continue
			}
			if skipDepth > 0 {
				continue
			}
			if blockAtoms[a] && buf.Len() > 0 && !lastWasNewline {
				buf.WriteByte('\n')
				lastWasNewline = true
			}

		case html.SelfClosingTagToken:
			// Self-closing tags have no matching end tag, so they never
			// contribute to skipDepth.
			name, _ := tokenizer.TagName()
			if skipDepth > 0 {
				continue
			}
			if blockAtoms[atom.Lookup(name)] && buf.Len() > 0 && !lastWasNewline {
				buf.WriteByte('\n')
				lastWasNewline = true
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if skipAtoms[atom.Lookup(name)] && skipDepth > 0 {
				skipDepth--
			}

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := collapseWhitespace(string(tokenizer.Text()))
			if text != "" {
				buf.WriteString(text)
				lastWasNewline = strings.HasSuffix(text, "\n")
			}
		}
	}
}

// collapseWhitespace replaces whitespace runs with single spaces, keeping a
// single leading/trailing space so inline elements keep their spacing.
// Returns "" for all-whitespace input.
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out = out + " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
