// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/abtecnologia/distritos/spatial"
	"github.com/abtecnologia/distritos/utils/textutils"
)

// ForwardKey returns the cache key of a forward lookup.
func ForwardKey(address string) string {
	return "fwd:" + textutils.Fold(address)
}

// ReverseKey returns the cache key of a reverse lookup. The coordinates are
// used verbatim, without rounding.
func ReverseKey(coords spatial.Coordinates) string {
	return "rev:" + coords.Key()
}

// Cache is the flat key -> raw answer mapping persisted between runs. It
// never evicts and is meant to be used from a single goroutine.
type Cache struct {
	path    string
	entries map[string]json.RawMessage
}

// NewCache returns an empty cache that will be saved to path.
func NewCache(path string) *Cache {
	return &Cache{path: path, entries: make(map[string]json.RawMessage)}
}

// LoadCache reads the cache stored at path. A missing file yields an empty
// cache; an unreadable one is logged and discarded.
func LoadCache(path string) (*Cache, error) {
	c := NewCache(path)
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is provided by the operator
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}

		return nil, fmt.Errorf("reading geocoding cache: %w", err)
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		log.Printf("⚠️  Ignoring unreadable geocoding cache %s: %v", path, err)

		c.entries = make(map[string]json.RawMessage)
	}

	if c.entries == nil {
		c.entries = make(map[string]json.RawMessage)
	}

	return c, nil
}

// Get returns the stored answer for key. A present key with a negative
// answer returns (nil-ish raw, true).
func (c *Cache) Get(key string) (json.RawMessage, bool) {
	raw, ok := c.entries[key]

	return raw, ok
}

// Put stores an answer; a nil raw is stored as a negative entry.
func (c *Cache) Put(key string, raw json.RawMessage) {
	if IsNegative(raw) {
		raw = json.RawMessage(jsonNull)
	}

	c.entries[key] = raw
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Path returns where the cache is saved.
func (c *Cache) Path() string {
	return c.path
}

// Save overwrites the cache file with the whole mapping. Keys are written
// sorted so the file diffs well between runs.
func (c *Cache) Save() error {
	if c.path == "" {
		return nil
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(c.entries); err != nil {
		return fmt.Errorf("marshaling geocoding cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating geocoding cache file: %w", err)
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return errors.Join(
			fmt.Errorf("writing geocoding cache: %w", err),
			tmp.Close(),
			os.Remove(tmp.Name()),
		)
	}

	if err := tmp.Close(); err != nil {
		return errors.Join(fmt.Errorf("closing geocoding cache: %w", err), os.Remove(tmp.Name()))
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return errors.Join(fmt.Errorf("replacing geocoding cache: %w", err), os.Remove(tmp.Name()))
	}

	return nil
}
