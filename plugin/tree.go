package plugin

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// xmlNode is one element of a parsed report document: its attributes, child
// elements grouped by name in document order, and accumulated character data.
// CDATA sections are folded into the character data by the decoder. The
// report dialects vary too much (single element vs. repeated, optional
// attributes, text vs. CDATA payloads) for fixed struct tags, so the tree is
// kept generic and normalized by the accessors below.
type xmlNode struct {
	name     string
	attrs    map[string]string
	children map[string][]*xmlNode
	text     string
}

func newNode(name string) *xmlNode {
	return &xmlNode{
		name:     name,
		attrs:    map[string]string{},
		children: map[string][]*xmlNode{},
	}
}

// attr returns the named attribute, or "" when absent.
func (n *xmlNode) attr(name string) string {
	if n == nil {
		return ""
	}
	return n.attrs[name]
}

// first returns the first child element with the given name, or nil.
func (n *xmlNode) first(name string) *xmlNode {
	if n == nil || len(n.children[name]) == 0 {
		return nil
	}
	return n.children[name][0]
}

// has reports whether at least one child element with the given name exists.
func (n *xmlNode) has(name string) bool {
	return n != nil && len(n.children[name]) > 0
}

// payload returns the trimmed character data of the node.
func (n *xmlNode) payload() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.text)
}

// parseDocument decodes raw XML into a synthetic root whose children hold the
// document's top-level element. The shape is not validated here: absent or
// unexpected elements simply surface as missing children downstream.
func parseDocument(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	root := newNode("")
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			child, err := decodeElement(dec, start)
			if err != nil {
				return nil, err
			}
			root.children[child.name] = append(root.children[child.name], child)
		}
	}
	return root, nil
}

// decodeElement consumes one element and its entire subtree.
func decodeElement(dec *xml.Decoder, start xml.StartElement) (*xmlNode, error) {
	node := newNode(start.Name.Local)
	for _, attr := range start.Attr {
		node.attrs[attr.Name.Local] = attr.Value
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			node.children[child.name] = append(node.children[child.name], child)
		case xml.CharData:
			node.text += string(t)
		case xml.EndElement:
			return node, nil
		}
	}
}
