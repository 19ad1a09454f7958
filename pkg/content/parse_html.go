package content

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var formatTags = map[atom.Atom]int{
	atom.Strong: FormatBold,
	atom.B:      FormatBold,
	atom.Em:     FormatItalic,
	atom.I:      FormatItalic,
	atom.S:      FormatStrikethrough,
	atom.Strike: FormatStrikethrough,
	atom.Del:    FormatStrikethrough,
	atom.U:      FormatUnderline,
	atom.Code:   FormatCode,
	atom.Sub:    FormatSubscript,
	atom.Sup:    FormatSuperscript,
	atom.Mark:   FormatHighlight,
}

// FromHTML converts editor markup (the innerHTML of the browser editor) into
// a document. Unknown tags are unwrapped; scripts and styles are dropped.
func FromHTML(markup string) (*Document, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, fmt.Errorf("parse editor markup: %w", err)
	}
	return NewRoot(blocks(nodes)...), nil
}

func blocks(nodes []*html.Node) []*Node {
	var (
		out     []*Node
		pending []*Node
	)
	flush := func() {
		if len(pending) > 0 {
			out = append(out, NewParagraph(pending...))
			pending = nil
		}
	}

	for _, h := range nodes {
		if h.Type == html.TextNode && strings.TrimSpace(h.Data) == "" && len(pending) == 0 {
			continue
		}
		if b := block(h); b != nil {
			flush()
			out = append(out, b...)
			continue
		}
		pending = append(pending, inline(h, 0)...)
	}
	flush()
	return out
}

// block converts h when it is a block-level element, nil otherwise.
func block(h *html.Node) []*Node {
	if h.Type != html.ElementNode {
		return nil
	}
	switch h.DataAtom {
	case atom.P:
		return []*Node{NewParagraph(inlineChildren(h, 0)...)}
	case atom.Div, atom.Section, atom.Article:
		if hasBlockChild(h) {
			return blocks(children(h))
		}
		return []*Node{NewParagraph(inlineChildren(h, 0)...)}
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return []*Node{{Type: TypeHeading, Version: 1, Direction: "ltr", Tag: h.Data, Children: inlineChildren(h, 0)}}
	case atom.Blockquote:
		return []*Node{{Type: TypeQuote, Version: 1, Direction: "ltr", Children: inlineChildren(h, 0)}}
	case atom.Ul, atom.Ol:
		return []*Node{list(h)}
	case atom.Pre:
		return []*Node{codeFromPre(h)}
	case atom.Hr:
		return []*Node{{Type: TypeHorizontalRule, Version: 1}}
	case atom.Script, atom.Style:
		return []*Node{}
	}
	return nil
}

func hasBlockChild(h *html.Node) bool {
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if block(c) != nil {
			return true
		}
	}
	return false
}

func list(h *html.Node) *Node {
	n := &Node{Type: TypeList, Version: 1, Direction: "ltr", ListType: "bullet", Tag: "ul", Start: 1}
	if h.DataAtom == atom.Ol {
		n.ListType, n.Tag = "number", "ol"
	}
	value := 1
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Li {
			continue
		}
		item := &Node{Type: TypeListItem, Version: 1, Direction: "ltr", Value: value}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			if gc.Type == html.ElementNode && (gc.DataAtom == atom.Ul || gc.DataAtom == atom.Ol) {
				item.Children = append(item.Children, list(gc))
				continue
			}
			item.Children = append(item.Children, inline(gc, 0)...)
		}
		n.Children = append(n.Children, item)
		value++
	}
	return n
}

func codeFromPre(h *html.Node) *Node {
	n := &Node{Type: TypeCode, Version: 1, Direction: "ltr"}
	text := textContent(h)
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Code {
			for _, a := range c.Attr {
				if a.Key == "class" && strings.HasPrefix(a.Val, "language-") {
					n.Language = strings.TrimPrefix(a.Val, "language-")
				}
			}
		}
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			n.Children = append(n.Children, &Node{Type: TypeLineBreak, Version: 1})
		}
		if line != "" {
			n.Children = append(n.Children, &Node{Type: TypeCodeHighlight, Version: 1, Text: line})
		}
	}
	return n
}

func inlineChildren(h *html.Node, format int) []*Node {
	var out []*Node
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, inline(c, format)...)
	}
	return out
}

func inline(h *html.Node, format int) []*Node {
	switch h.Type {
	case html.TextNode:
		text := strings.ReplaceAll(h.Data, "\n", " ")
		if text == "" {
			return nil
		}
		return []*Node{NewText(text, format)}
	case html.ElementNode:
	default:
		return nil
	}

	if bit, ok := formatTags[h.DataAtom]; ok {
		return inlineChildren(h, format|bit)
	}
	switch h.DataAtom {
	case atom.Br:
		return []*Node{{Type: TypeLineBreak, Version: 1}}
	case atom.A:
		link := &Node{Type: TypeLink, Version: 1, Direction: "ltr", URL: attrValue(h, "href")}
		if attrValue(h, "target") == "_blank" {
			link.Target = "_blank"
		}
		link.Children = inlineChildren(h, format)
		return []*Node{link}
	case atom.Img:
		return []*Node{{Type: TypeImage, Version: 1, Src: attrValue(h, "src"), AltText: attrValue(h, "alt")}}
	case atom.Script, atom.Style:
		return nil
	}
	if b := block(h); b != nil {
		// Block inside an inline run: keep its text.
		return []*Node{NewText(textContent(h), format)}
	}
	return inlineChildren(h, format)
}

func children(h *html.Node) []*html.Node {
	var out []*html.Node
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func attrValue(h *html.Node, key string) string {
	for _, a := range h.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(h *html.Node) string {
	if h.Type == html.TextNode {
		return h.Data
	}
	var b strings.Builder
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
