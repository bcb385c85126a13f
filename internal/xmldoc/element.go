// Package xmldoc reads configuration documents (aircraft, initial conditions, scripts)
// into a small immutable element tree.
package xmldoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrWrongRoot indicates a document whose root element is not the expected type.
	ErrWrongRoot = errors.New("xmldoc: unexpected root element")

	// ErrNoValue indicates an element without numeric content.
	ErrNoValue = errors.New("xmldoc: element has no numeric value")
)

// Element is one node of a parsed document. Elements are not modified after parsing
// and may be shared between engines.
type Element struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Element
	Line     int
}

// Parse reads a whole document from r and returns its root element.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var stack []*Element
	var root *Element
	var text []*strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			line, _ := dec.InputPos()
			el := &Element{Name: t.Name.Local, Attrs: make(map[string]string, len(t.Attr)), Line: line}
			for _, a := range t.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
			text = append(text, &strings.Builder{})
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("xmldoc: unbalanced end element %s", t.Name.Local)
			}
			el := stack[len(stack)-1]
			el.Text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		}
	}

	if root == nil {
		return nil, errors.New("xmldoc: empty document")
	}
	return root, nil
}

// Attr returns the named attribute, or "" when absent.
func (e *Element) Attr(name string) string {
	if e == nil {
		return ""
	}
	return e.Attrs[name]
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	if e == nil {
		return false
	}
	_, ok := e.Attrs[name]
	return ok
}

// AttrNumber parses the named attribute as a number.
func (e *Element) AttrNumber(name string) (float64, error) {
	v := strings.TrimSpace(e.Attr(name))
	if v == "" {
		return 0, fmt.Errorf("%w: attribute %q missing on <%s>", ErrNoValue, name, e.Name)
	}
	return strconv.ParseFloat(v, 64)
}

// FindElement returns the first direct child with the given name, or nil.
func (e *Element) FindElement(name string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindAll returns every direct child with the given name, in document order.
func (e *Element) FindAll(name string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Number parses the element text as a number.
func (e *Element) Number() (float64, error) {
	if e == nil || e.Text == "" {
		return 0, ErrNoValue
	}
	v, err := strconv.ParseFloat(e.Text, 64)
	if err != nil {
		return 0, fmt.Errorf("<%s> line %d: %w", e.Name, e.Line, err)
	}
	return v, nil
}

// ChildValue returns the trimmed text of the first child with the given name.
func (e *Element) ChildValue(name string) string {
	c := e.FindElement(name)
	if c == nil {
		return ""
	}
	return c.Text
}

// ChildNumber returns the numeric value of the named child and whether it was present.
// A child whose text is not a number is reported as an error.
func (e *Element) ChildNumber(name string) (float64, bool, error) {
	c := e.FindElement(name)
	if c == nil {
		return 0, false, nil
	}
	v, err := c.Number()
	return v, true, err
}
