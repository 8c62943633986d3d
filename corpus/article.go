// Package corpus converts downloaded article JSON into the XML corpus
// format consumed by the annotation pipeline.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Article is one article as served by the API. Field access is strict:
// decoding fails when a known field has an unexpected shape, so upstream
// content-model changes surface instead of producing a malformed corpus.
type Article struct {
	ID                 json.Number `json:"id"`
	Published          string      `json:"published"`
	Modified           string      `json:"modified"`
	Title              string      `json:"title"`
	Subtitle           string      `json:"subtitle"`
	URL                string      `json:"url"`
	SectionDisplayName string      `json:"sectionDisplayName"`
	Authors            []Name      `json:"authors"`
	Tags               []Name      `json:"tags"`
	StructuredLead     []Node      `json:"structuredLead"`
	StructuredBody     []Node      `json:"structuredBody"`
}

// Name is a named entity attached to an article, such as an author or a tag.
type Name struct {
	Name string `json:"name"`
}

// Node is one element of an article's structured lead or body tree. The
// presence of a children field is significant even when the list is empty,
// so it is tracked separately from the list itself.
type Node struct {
	Type        string
	Content     string
	Children    []Node
	HasChildren bool
}

var jsonNull = []byte("null")

// UnmarshalJSON decodes a body node, rejecting field shapes the flattener
// cannot handle.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type     json.RawMessage `json:"type"`
		Content  json.RawMessage `json:"content"`
		Children json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Type != nil && !bytes.Equal(raw.Type, jsonNull) {
		if err := json.Unmarshal(raw.Type, &n.Type); err != nil {
			return fmt.Errorf("node type is not a string: %w", err)
		}
	}
	if raw.Content != nil && !bytes.Equal(raw.Content, jsonNull) {
		if err := json.Unmarshal(raw.Content, &n.Content); err != nil {
			return fmt.Errorf("node content is not a string: %w", err)
		}
	}
	if raw.Children != nil {
		if bytes.Equal(raw.Children, jsonNull) {
			return fmt.Errorf("node children is null")
		}
		n.HasChildren = true
		if err := json.Unmarshal(raw.Children, &n.Children); err != nil {
			return fmt.Errorf("node children is not a list: %w", err)
		}
	}
	return nil
}
