package entry

import "testing"

func sampleDocument() RichText {
	return RichText{Root: Node{Type: "document", Content: []Node{
		{Type: "heading-2", Content: []Node{{Type: "text", Value: "Jake & Finn"}}},
		{Type: "paragraph", Content: []Node{
			{Type: "text", Value: "Visit "},
			{Type: "hyperlink", Data: map[string]any{"uri": "https://example.com/?a=1&b=2"}, Content: []Node{
				{Type: "text", Value: "the land", Marks: []string{"bold", "italic"}},
			}},
		}},
		{Type: "hr"},
		{Type: "unordered-list", Content: []Node{
			{Type: "list-item", Content: []Node{{Type: "paragraph", Content: []Node{{Type: "text", Value: "one"}}}}},
			{Type: "list-item", Content: []Node{{Type: "paragraph", Content: []Node{{Type: "text", Value: "two"}}}}},
		}},
	}}}
}

func TestRichTextPlainText(t *testing.T) {
	want := "Jake & Finn\nVisit the land\none\ntwo"
	if got := sampleDocument().PlainText(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRichTextHTML(t *testing.T) {
	want := `<h2>Jake &amp; Finn</h2>` +
		`<p>Visit <a href="https://example.com/?a=1&amp;b=2"><b><i>the land</i></b></a></p>` +
		`<hr/>` +
		`<ul><li><p>one</p></li><li><p>two</p></li></ul>`
	if got := sampleDocument().HTML(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRichTextEmpty(t *testing.T) {
	if !(RichText{Root: Node{Type: "document"}}).empty() {
		t.Fatalf("expected empty document")
	}
	if sampleDocument().empty() {
		t.Fatalf("expected non-empty document")
	}
}
