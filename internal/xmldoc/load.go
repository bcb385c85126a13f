package xmldoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Filename returns path with a ".xml" suffix appended when it has none.
func Filename(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".xml") {
		return path
	}
	return path + ".xml"
}

// ReadFile parses the document at path.
func ReadFile(path string) (*Element, error) {
	f, err := os.Open(Filename(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name(), err)
	}
	return root, nil
}

// Load parses the document at path and checks that its root element is rootName.
func Load(path, rootName string) (*Element, error) {
	root, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if root.Name != rootName {
		return nil, fmt.Errorf("%w: %s has <%s>, want <%s>", ErrWrongRoot, Filename(path), root.Name, rootName)
	}
	return root, nil
}

// RootName reads only as far as the first element of the document at path and returns its name.
func RootName(path string) (string, error) {
	f, err := os.Open(Filename(path))
	if err != nil {
		return "", err
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", fmt.Errorf("%s: no root element", f.Name())
		}
		if err != nil {
			return "", err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local, nil
		}
	}
}

// IsType reports whether the document at path has a root element named rootName.
// Unreadable files are not of any type.
func IsType(path, rootName string) bool {
	name, err := RootName(path)
	return err == nil && name == rootName
}
