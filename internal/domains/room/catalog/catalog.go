// Package catalog holds the hotel's fixed room list and resolves free-text room
// preferences against it.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"niseko/internal/domains/room/model"

	"gopkg.in/yaml.v3"
)

//go:embed rooms.yaml
var embedded []byte

var (
	ErrMissingStandard = errors.New("catalog has no standard room")
	ErrDuplicateKey    = errors.New("catalog key is duplicated")
	ErrEmptyKey        = errors.New("catalog key is empty")
)

type document struct {
	Rooms []model.Entry `yaml:"rooms"`
}

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	entries  []model.Entry
	standard model.GuestRoom
	byNumber map[string]model.GuestRoom
}

// Load parses a YAML catalog. Entry order is the match precedence.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse room catalog: %w", err)
	}

	c := &Catalog{byNumber: make(map[string]model.GuestRoom, len(doc.Rooms))}
	seen := make(map[string]bool, len(doc.Rooms))
	hasStandard := false

	for _, entry := range doc.Rooms {
		entry.Key = strings.ToLower(strings.TrimSpace(entry.Key))

		switch {
		case entry.Key == "":
			return nil, ErrEmptyKey
		case seen[entry.Key]:
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, entry.Key)
		}

		seen[entry.Key] = true

		if entry.Key == model.KeyStandard {
			c.standard = entry.Room
			hasStandard = true
		}

		c.entries = append(c.entries, entry)
		c.byNumber[entry.Room.Number] = entry.Room
	}

	if !hasStandard {
		return nil, ErrMissingStandard
	}

	return c, nil
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	c, err := Load(embedded)
	if err != nil {
		panic(err)
	}

	return c
}

// Assign maps a room preference to a room. The first catalog key contained in the
// lower-cased preference wins; empty or unmatched preferences get the standard room.
func (c *Catalog) Assign(preference string) model.GuestRoom {
	room, _ := c.Match(preference)

	return room
}

// Match is Assign that also reports the winning key.
func (c *Catalog) Match(preference string) (model.GuestRoom, string) {
	pref := strings.ToLower(preference)
	if pref == "" {
		pref = model.KeyStandard
	}

	for _, entry := range c.entries {
		if strings.Contains(pref, entry.Key) {
			return entry.Room.Clone(), entry.Key
		}
	}

	return c.standard.Clone(), model.KeyStandard
}

// ByNumber looks a room up by its door number.
func (c *Catalog) ByNumber(number string) (model.GuestRoom, bool) {
	room, ok := c.byNumber[number]
	if !ok {
		return model.GuestRoom{}, false
	}

	return room.Clone(), true
}

// Standard returns the fallback room.
func (c *Catalog) Standard() model.GuestRoom {
	return c.standard.Clone()
}

// Entries lists the catalog in precedence order.
func (c *Catalog) Entries() []model.Entry {
	out := make([]model.Entry, len(c.entries))
	for i, entry := range c.entries {
		out[i] = model.Entry{Key: entry.Key, Room: entry.Room.Clone()}
	}

	return out
}
