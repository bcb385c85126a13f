package xmldoc

import (
	"fmt"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of parsed documents a Cache keeps.
const DefaultCacheSize = 64

// Cache keeps recently parsed documents keyed by absolute path. Parsed elements are
// never modified, so one Cache can be shared by concurrently running engines.
type Cache struct {
	docs *lru.Cache[string, *Element]
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *Element](size)
	if err != nil {
		return nil, fmt.Errorf("xmldoc: cache: %w", err)
	}
	return &Cache{docs: c}, nil
}

// Load behaves like the package-level Load, reusing a cached parse when present.
// A nil Cache parses every time.
func (c *Cache) Load(path, rootName string) (*Element, error) {
	if c == nil {
		return Load(path, rootName)
	}

	key, err := filepath.Abs(Filename(path))
	if err != nil {
		key = Filename(path)
	}

	root, ok := c.docs.Get(key)
	if !ok {
		root, err = ReadFile(key)
		if err != nil {
			return nil, err
		}
		c.docs.Add(key, root)
	}

	if root.Name != rootName {
		return nil, fmt.Errorf("%w: %s has <%s>, want <%s>", ErrWrongRoot, key, root.Name, rootName)
	}
	return root, nil
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.docs.Len()
}

// Purge drops every cached document.
func (c *Cache) Purge() {
	if c != nil {
		c.docs.Purge()
	}
}
