package content

import (
	"strings"
	"unicode/utf8"
)

// FromPlainText wraps legacy text in a document, one paragraph per line, so
// it can be loaded into the editor.
func FromPlainText(text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var paragraphs []*Node
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			paragraphs = append(paragraphs, NewParagraph())
			continue
		}
		paragraphs = append(paragraphs, NewParagraph(NewText(line, 0)))
	}
	return NewRoot(paragraphs...)
}

// Normalize returns the stored form of raw: documents are re-serialized,
// anything else is converted with FromPlainText.
func Normalize(raw string) string {
	if doc, err := Parse(raw); err == nil {
		return doc.String()
	}
	return FromPlainText(raw).String()
}

// PlainText extracts the text of a stored body. Blocks are separated by a
// newline. Non-document values are returned trimmed.
func PlainText(raw string) string {
	doc, err := Parse(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return doc.PlainText()
}

func (d *Document) PlainText() string {
	if d == nil || d.Root == nil {
		return ""
	}
	var lines []string
	for _, n := range d.Root.Children {
		var b strings.Builder
		writeText(&b, n)
		lines = append(lines, b.String())
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func writeText(b *strings.Builder, n *Node) {
	switch n.Type {
	case TypeLineBreak:
		b.WriteString("\n")
		return
	case TypeTab:
		b.WriteString("\t")
		return
	case TypeImage:
		b.WriteString(n.AltText)
		return
	}
	b.WriteString(n.Text)
	for i, c := range n.Children {
		if i > 0 && (n.Type == TypeList || c.Type == TypeList) {
			b.WriteString("\n")
		}
		writeText(b, c)
	}
}

// Excerpt is the first n runes of the plain text, cut at a word boundary.
func Excerpt(raw string, n int) string {
	text := strings.Join(strings.Fields(PlainText(raw)), " ")
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}
