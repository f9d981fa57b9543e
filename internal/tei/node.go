package tei

import (
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"
)

// node is a generic element tree built from the structuring service's XML.
// Tags are matched by local name only: GROBID deployments differ in whether
// they emit the TEI namespace as the default namespace or behind a prefix,
// and the extractor must not care.
type node struct {
	tag      string
	attrs    map[string]string
	children []*node
	content  []segment
}

// segment keeps text and child elements in document order so that text split
// across inline markup can be reassembled correctly.
type segment struct {
	text  string
	child *node
}

func parse(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, errors.New("no root element")
		}
		if err != nil {
			return nil, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return parseElement(dec, se)
		}
	}
}

func parseElement(dec *xml.Decoder, se xml.StartElement) (*node, error) {
	n := &node{tag: se.Name.Local, attrs: make(map[string]string, len(se.Attr))}
	for _, a := range se.Attr {
		n.attrs[a.Name.Local] = a.Value
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, cerr := parseElement(dec, t)
			if cerr != nil {
				return nil, cerr
			}
			n.children = append(n.children, child)
			n.content = append(n.content, segment{child: child})
		case xml.CharData:
			n.content = append(n.content, segment{text: string(t)})
		case xml.EndElement:
			return n, nil
		}
	}
}

func (n *node) attr(name string) string {
	return n.attrs[name]
}

// descendants returns every descendant element with the given local name, in
// document (depth-first preorder) order.
func (n *node) descendants(tag string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.tag == tag {
			out = append(out, c)
		}
		out = append(out, c.descendants(tag)...)
	}
	return out
}

func (n *node) firstDescendant(tag string) *node {
	for _, c := range n.children {
		if c.tag == tag {
			return c
		}
		if d := c.firstDescendant(tag); d != nil {
			return d
		}
	}
	return nil
}

// allText concatenates every piece of character data under n, preserving
// document order across inline markup.
func (n *node) allText() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *node) writeText(b *strings.Builder) {
	for _, s := range n.content {
		if s.child != nil {
			s.child.writeText(b)
		} else {
			b.WriteString(s.text)
		}
	}
}

var reSpace = regexp.MustCompile(`\s+`)

// normalizeSpace collapses whitespace runs (including newlines) to single
// spaces and trims the ends.
func normalizeSpace(s string) string {
	return strings.TrimSpace(reSpace.ReplaceAllString(s, " "))
}
