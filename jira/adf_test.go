package jira

import (
	"encoding/json"
	"testing"
)

func TestTextToADF(t *testing.T) {
	doc := TextToADF("Line one\nLine two\r\n\r\nSecond paragraph\n\n\n")

	if doc.Type != ADFNodeDoc || doc.Version != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	if len(doc.Content) != 2 {
		t.Fatalf("paragraphs = %d, want 2", len(doc.Content))
	}

	first := doc.Content[0]
	wantTypes := []string{ADFNodeText, ADFNodeHardBreak, ADFNodeText}
	if len(first.Content) != len(wantTypes) {
		t.Fatalf("first paragraph = %+v", first.Content)
	}
	for i, want := range wantTypes {
		if first.Content[i].Type != want {
			t.Errorf("node %d type = %q, want %q", i, first.Content[i].Type, want)
		}
	}

	if got := doc.Text(); got != "Line one\nLine two\n\nSecond paragraph" {
		t.Errorf("Text() = %q", got)
	}
}

func TestTextToADFEmpty(t *testing.T) {
	doc := TextToADF("")
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"version":1,"type":"doc","content":[]}` {
		t.Errorf("json = %s", data)
	}
}

func TestBodyTextFromJSON(t *testing.T) {
	raw := `{"body":{"version":1,"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Hello"}]}]}}`
	var c Comment
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatal(err)
	}
	if got := c.Text(); got != "Hello" {
		t.Errorf("Text() = %q, want Hello", got)
	}
}
