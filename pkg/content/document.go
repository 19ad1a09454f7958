// Package content holds the rich-text document model produced by the article
// editor. Documents are stored on articles as JSON in the Lexical serialized
// editor-state shape and turned into HTML when read.
package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

var ErrNotDocument = errors.New("content is not a serialized document")

// Node types understood by the renderer. Anything else renders its children.
const (
	TypeRoot           = "root"
	TypeParagraph      = "paragraph"
	TypeHeading        = "heading"
	TypeQuote          = "quote"
	TypeList           = "list"
	TypeListItem       = "listitem"
	TypeLink           = "link"
	TypeAutoLink       = "autolink"
	TypeText           = "text"
	TypeLineBreak      = "linebreak"
	TypeTab            = "tab"
	TypeCode           = "code"
	TypeCodeHighlight  = "code-highlight"
	TypeHorizontalRule = "horizontalrule"
	TypeImage          = "image"
)

// Text format bits.
const (
	FormatBold = 1 << iota
	FormatItalic
	FormatStrikethrough
	FormatUnderline
	FormatCode
	FormatSubscript
	FormatSuperscript
	FormatHighlight
)

type Document struct {
	Root *Node `json:"root"`
}

// Node is one element of the document tree. Element nodes carry children and
// an alignment; text nodes carry text and a format bitmask. On the wire both
// share the "format" key with a string or a number respectively.
type Node struct {
	Type     string  `json:"type"`
	Version  int     `json:"version"`
	Children []*Node `json:"children,omitempty"`

	Direction string `json:"direction,omitempty"`
	Indent    int    `json:"indent,omitempty"`
	Tag       string `json:"tag,omitempty"`
	ListType  string `json:"listType,omitempty"`
	Start     int    `json:"start,omitempty"`
	Value     int    `json:"value,omitempty"`
	Checked   *bool  `json:"checked,omitempty"`
	URL       string `json:"url,omitempty"`
	Target    string `json:"target,omitempty"`
	Rel       string `json:"rel,omitempty"`
	Title     string `json:"title,omitempty"`
	Language  string `json:"language,omitempty"`

	Text   string `json:"text,omitempty"`
	Detail int    `json:"detail,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Style  string `json:"style,omitempty"`

	Src     string `json:"src,omitempty"`
	AltText string `json:"altText,omitempty"`

	FormatBits int    `json:"-"`
	Align      string `json:"-"`
}

func (n *Node) IsText() bool {
	return n.Type == TypeText || n.Type == TypeCodeHighlight
}

func (n *Node) Has(bit int) bool {
	return n.FormatBits&bit != 0
}

func (n Node) MarshalJSON() ([]byte, error) {
	type alias Node
	var format any = n.Align
	if n.IsText() {
		format = n.FormatBits
	}
	return json.Marshal(struct {
		alias
		Format any `json:"format"`
	}{alias: alias(n), Format: format})
}

func (n *Node) UnmarshalJSON(b []byte) error {
	type alias Node
	aux := struct {
		*alias
		Format json.RawMessage `json:"format"`
	}{alias: (*alias)(n)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	raw := strings.TrimSpace(string(aux.Format))
	switch {
	case raw == "" || raw == "null":
	case raw[0] == '"':
		return json.Unmarshal(aux.Format, &n.Align)
	default:
		return json.Unmarshal(aux.Format, &n.FormatBits)
	}
	return nil
}

// Parse decodes a stored value. Anything that is not a JSON object with a root
// node yields ErrNotDocument so callers can take the plain-text path.
func Parse(raw string) (*Document, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, ErrNotDocument
	}
	var doc Document
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocument, err)
	}
	if doc.Root == nil || doc.Root.Type != TypeRoot {
		return nil, ErrNotDocument
	}
	return &doc, nil
}

// String serializes the document into its stored form.
func (d *Document) String() string {
	b, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	return string(b)
}

func NewRoot(children ...*Node) *Document {
	return &Document{Root: &Node{
		Type:      TypeRoot,
		Version:   1,
		Direction: "ltr",
		Children:  children,
	}}
}

func NewParagraph(children ...*Node) *Node {
	return &Node{Type: TypeParagraph, Version: 1, Direction: "ltr", Children: children}
}

func NewText(text string, format int) *Node {
	return &Node{Type: TypeText, Version: 1, Mode: "normal", Text: text, FormatBits: format}
}
