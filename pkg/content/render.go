package content

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const emptyContentHTML = "<p>Content not available</p>"

// Render turns a stored article body into HTML. A serialized document is
// rendered node by node; anything else is shown as its literal text.
func Render(raw string) template.HTML {
	if strings.TrimSpace(raw) == "" {
		return template.HTML(emptyContentHTML)
	}
	doc, err := Parse(raw)
	if err != nil {
		return template.HTML(renderVerbatim(raw))
	}
	out, err := HTML(doc)
	if err != nil {
		return template.HTML(renderVerbatim(raw))
	}
	return template.HTML(out)
}

// HTML renders a parsed document. Output is deterministic for a given tree.
func HTML(doc *Document) (string, error) {
	if doc == nil || doc.Root == nil {
		return "", ErrNotDocument
	}
	var buf bytes.Buffer
	for _, child := range doc.Root.Children {
		for _, n := range build(child) {
			if err := html.Render(&buf, n); err != nil {
				return "", fmt.Errorf("render %s node: %w", child.Type, err)
			}
		}
	}
	return buf.String(), nil
}

func renderVerbatim(raw string) string {
	p := element(atom.P, attr("style", "white-space: pre-wrap;"))
	p.AppendChild(textNode(raw))
	var buf bytes.Buffer
	if err := html.Render(&buf, p); err != nil {
		return template.HTMLEscapeString(raw)
	}
	return buf.String()
}

func build(n *Node) []*html.Node {
	if n == nil {
		return nil
	}
	switch n.Type {
	case TypeParagraph:
		p := blockElement(atom.P, n)
		if len(n.Children) == 0 {
			p.AppendChild(element(atom.Br))
		}
		return one(appendChildren(p, n.Children))
	case TypeHeading:
		return one(appendChildren(blockElement(headingAtom(n.Tag), n), n.Children))
	case TypeQuote:
		return one(appendChildren(blockElement(atom.Blockquote, n), n.Children))
	case TypeList:
		return one(appendChildren(listElement(n), n.Children))
	case TypeListItem:
		li := blockElement(atom.Li, n)
		if n.Checked != nil {
			li.Attr = append(li.Attr, attr("aria-checked", fmt.Sprint(*n.Checked)))
		}
		return one(appendChildren(li, n.Children))
	case TypeLink, TypeAutoLink:
		return one(appendChildren(linkElement(n), n.Children))
	case TypeText:
		return one(textElement(n))
	case TypeLineBreak:
		return one(element(atom.Br))
	case TypeTab:
		return one(textNode("\t"))
	case TypeCode:
		return one(codeBlock(n))
	case TypeCodeHighlight:
		return one(textNode(n.Text))
	case TypeHorizontalRule:
		return one(element(atom.Hr))
	case TypeImage:
		return imageElement(n)
	}

	if n.Text != "" {
		return one(textNode(n.Text))
	}
	var out []*html.Node
	for _, c := range n.Children {
		out = append(out, build(c)...)
	}
	return out
}

func one(n *html.Node) []*html.Node { return []*html.Node{n} }

func appendChildren(parent *html.Node, children []*Node) *html.Node {
	for _, c := range children {
		for _, h := range build(c) {
			parent.AppendChild(h)
		}
	}
	return parent
}

func blockElement(a atom.Atom, n *Node) *html.Node {
	el := element(a)
	var style []string
	switch n.Align {
	case "left", "center", "right", "justify", "start", "end":
		style = append(style, "text-align: "+n.Align+";")
	}
	if n.Indent > 0 {
		style = append(style, fmt.Sprintf("padding-inline-start: calc(%d * 40px);", n.Indent))
	}
	if len(style) > 0 {
		el.Attr = append(el.Attr, attr("style", strings.Join(style, " ")))
	}
	if n.Direction == "rtl" {
		el.Attr = append(el.Attr, attr("dir", "rtl"))
	}
	return el
}

func headingAtom(tag string) atom.Atom {
	switch tag {
	case "h1":
		return atom.H1
	case "h3":
		return atom.H3
	case "h4":
		return atom.H4
	case "h5":
		return atom.H5
	case "h6":
		return atom.H6
	}
	return atom.H2
}

func listElement(n *Node) *html.Node {
	if n.ListType == "number" || n.Tag == "ol" {
		ol := blockElement(atom.Ol, n)
		if n.Start > 1 {
			ol.Attr = append(ol.Attr, attr("start", fmt.Sprint(n.Start)))
		}
		return ol
	}
	ul := blockElement(atom.Ul, n)
	if n.ListType == "check" {
		ul.Attr = append(ul.Attr, attr("class", "checklist"))
	}
	return ul
}

func linkElement(n *Node) *html.Node {
	a := element(atom.A, attr("href", SafeURL(n.URL)))
	if n.Title != "" {
		a.Attr = append(a.Attr, attr("title", n.Title))
	}
	if n.Target == "_blank" {
		a.Attr = append(a.Attr, attr("target", "_blank"), attr("rel", "noopener noreferrer"))
	}
	return a
}

// textElement wraps the text in one element per format bit, outermost first.
func textElement(n *Node) *html.Node {
	wrappers := []struct {
		bit  int
		atom atom.Atom
	}{
		{FormatBold, atom.Strong},
		{FormatItalic, atom.Em},
		{FormatStrikethrough, atom.S},
		{FormatUnderline, atom.U},
		{FormatHighlight, atom.Mark},
		{FormatSubscript, atom.Sub},
		{FormatSuperscript, atom.Sup},
		{FormatCode, atom.Code},
	}

	var root, leaf *html.Node
	for _, w := range wrappers {
		if !n.Has(w.bit) {
			continue
		}
		el := element(w.atom)
		if root == nil {
			root = el
		} else {
			leaf.AppendChild(el)
		}
		leaf = el
	}
	text := textNode(n.Text)
	if root == nil {
		return text
	}
	leaf.AppendChild(text)
	return root
}

func codeBlock(n *Node) *html.Node {
	pre := element(atom.Pre)
	code := element(atom.Code)
	if n.Language != "" {
		code.Attr = append(code.Attr, attr("class", "language-"+n.Language))
	}
	var b strings.Builder
	writeCodeText(&b, n.Children)
	code.AppendChild(textNode(b.String()))
	pre.AppendChild(code)
	return pre
}

func writeCodeText(b *strings.Builder, nodes []*Node) {
	for _, c := range nodes {
		switch c.Type {
		case TypeLineBreak:
			b.WriteString("\n")
		case TypeTab:
			b.WriteString("\t")
		default:
			b.WriteString(c.Text)
			writeCodeText(b, c.Children)
		}
	}
}

func imageElement(n *Node) []*html.Node {
	src := SafeURL(n.Src)
	if src == "#" {
		return nil
	}
	return one(element(atom.Img, attr("src", src), attr("alt", n.AltText)))
}

// SafeURL keeps http(s), mailto and relative links; anything else becomes "#".
func SafeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "#"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return u.String()
	}
	return "#"
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}
