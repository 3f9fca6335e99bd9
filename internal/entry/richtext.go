package entry

import (
	"html"
	"strings"
)

// Node is one element of a rich text document. Text nodes carry Value and
// Marks; every other node nests Content.
type Node struct {
	Type    string
	Value   string
	Marks   []string
	Data    map[string]any
	Content []Node
}

const (
	nodeDocument  = "document"
	nodeText      = "text"
	nodeParagraph = "paragraph"
	nodeHyperlink = "hyperlink"
	nodeHR        = "hr"
)

var blockTags = map[string]string{
	nodeParagraph:    "p",
	"heading-1":      "h1",
	"heading-2":      "h2",
	"heading-3":      "h3",
	"heading-4":      "h4",
	"heading-5":      "h5",
	"heading-6":      "h6",
	"blockquote":     "blockquote",
	"unordered-list": "ul",
	"ordered-list":   "ol",
	"list-item":      "li",
}

var markTags = map[string]string{
	"bold":      "b",
	"italic":    "i",
	"underline": "u",
	"code":      "code",
}

// PlainText flattens the document into text. Block-level nodes are
// separated by a newline; inline nodes are concatenated.
func (r RichText) PlainText() string {
	return r.Root.plainText()
}

// HTML renders the document into HTML. Unknown node types render their
// children only.
func (r RichText) HTML() string {
	var b strings.Builder
	r.Root.writeHTML(&b)
	return b.String()
}

func (n Node) plainText() string {
	if n.Type == nodeText {
		return n.Value
	}
	parts := []string{}
	var inline strings.Builder
	flush := func() {
		if inline.Len() > 0 {
			parts = append(parts, inline.String())
			inline.Reset()
		}
	}
	for _, child := range n.Content {
		if !isBlock(child.Type) {
			inline.WriteString(child.plainText())
			continue
		}
		flush()
		if text := child.plainText(); text != "" {
			parts = append(parts, text)
		}
	}
	flush()
	return strings.Join(parts, "\n")
}

func (n Node) writeHTML(b *strings.Builder) {
	switch {
	case n.Type == nodeText:
		open, closing := marksHTML(n.Marks)
		b.WriteString(open)
		b.WriteString(html.EscapeString(n.Value))
		b.WriteString(closing)
		return
	case n.Type == nodeHR:
		b.WriteString("<hr/>")
		return
	case n.Type == nodeHyperlink:
		uri, _ := n.Data["uri"].(string)
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(uri))
		b.WriteString(`">`)
		n.writeChildren(b)
		b.WriteString("</a>")
		return
	}

	tag, ok := blockTags[n.Type]
	if !ok {
		n.writeChildren(b)
		return
	}
	b.WriteString("<" + tag + ">")
	n.writeChildren(b)
	b.WriteString("</" + tag + ">")
}

func (n Node) writeChildren(b *strings.Builder) {
	for _, child := range n.Content {
		child.writeHTML(b)
	}
}

func marksHTML(marks []string) (string, string) {
	var open, closing strings.Builder
	for i := range marks {
		if tag, ok := markTags[marks[i]]; ok {
			open.WriteString("<" + tag + ">")
		}
	}
	for i := len(marks) - 1; i >= 0; i-- {
		if tag, ok := markTags[marks[i]]; ok {
			closing.WriteString("</" + tag + ">")
		}
	}
	return open.String(), closing.String()
}

func isBlock(nodeType string) bool {
	if nodeType == nodeDocument || nodeType == nodeHR {
		return true
	}
	if _, ok := blockTags[nodeType]; ok {
		return true
	}
	return strings.HasPrefix(nodeType, "embedded-") && strings.HasSuffix(nodeType, "-block")
}
