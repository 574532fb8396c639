package jira

import (
	"encoding/json"
	"strings"
)

// ADFDocument is an Atlassian Document Format document, the rich text
// representation V3 endpoints use for descriptions and comment bodies.
type ADFDocument struct {
	Version int       `json:"version"`
	Type    string    `json:"type"`
	Content []ADFNode `json:"content"`
}

// ADFNode is a node of an ADF document.
type ADFNode struct {
	Type    string         `json:"type"`
	Content []ADFNode      `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// ADF node types used here.
const (
	ADFNodeDoc       = "doc"
	ADFNodeParagraph = "paragraph"
	ADFNodeText      = "text"
	ADFNodeHardBreak = "hardBreak"
)

// NewADFDocument creates an empty document.
func NewADFDocument() *ADFDocument {
	return &ADFDocument{
		Version: 1,
		Type:    ADFNodeDoc,
		Content: []ADFNode{},
	}
}

// AddParagraph appends a paragraph. Single newlines become hard breaks.
func (d *ADFDocument) AddParagraph(text string) {
	var inline []ADFNode
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			inline = append(inline, ADFNode{Type: ADFNodeHardBreak})
		}
		if line != "" {
			inline = append(inline, ADFNode{Type: ADFNodeText, Text: line})
		}
	}
	d.Content = append(d.Content, ADFNode{Type: ADFNodeParagraph, Content: inline})
}

// TextToADF converts plain text into a document; blank lines separate paragraphs.
func TextToADF(text string) *ADFDocument {
	doc := NewADFDocument()
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.Trim(para, "\n")
		if para == "" {
			continue
		}
		doc.AddParagraph(para)
	}
	return doc
}

// Text flattens the document to plain text.
func (d *ADFDocument) Text() string {
	paras := make([]string, 0, len(d.Content))
	for i := range d.Content {
		var b strings.Builder
		writeADFText(&b, &d.Content[i])
		paras = append(paras, b.String())
	}
	return strings.Join(paras, "\n\n")
}

func writeADFText(b *strings.Builder, n *ADFNode) {
	switch n.Type {
	case ADFNodeText:
		b.WriteString(n.Text)
	case ADFNodeHardBreak:
		b.WriteByte('\n')
	}
	for i := range n.Content {
		writeADFText(b, &n.Content[i])
	}
}

// BodyText returns plain text for a body decoded as either a V2 string or a
// V3 ADF object.
func BodyText(body any) string {
	switch v := body.(type) {
	case nil:
		return ""
	case string:
		return v
	case *ADFDocument:
		return v.Text()
	}

	data, err := json.Marshal(body)
	if err != nil {
		return ""
	}
	var doc ADFDocument
	if err := json.Unmarshal(data, &doc); err != nil || doc.Type != ADFNodeDoc {
		return ""
	}
	return doc.Text()
}
