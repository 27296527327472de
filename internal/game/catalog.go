package game

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed cards.yaml
var defaultCatalogYAML []byte

var ErrUnknownCard = errors.New("unknown card")

// CatalogFile represents the top-level YAML structure.
type CatalogFile struct {
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry represents a single card in the YAML file.
type CardEntry struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Level   int    `yaml:"level"`
	Ranks   []int  `yaml:"ranks"` // top, left, right, bottom
	Element string `yaml:"element"`
}

// Catalog is the set of card definitions a match deals from. Cards handed
// out by a Catalog are always fresh copies.
type Catalog struct {
	cards  []*Card
	byName map[string]*Card
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
})

// DefaultCatalog returns the built-in card catalog.
func DefaultCatalog() (*Catalog, error) {
	return defaultCatalog()
}

// LoadCatalog reads a catalog from path. An empty path selects the
// built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cat, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// ParseCatalog parses and validates YAML card data.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}

	cat := &Catalog{byName: make(map[string]*Card, len(cf.Cards))}
	for i, e := range cf.Cards {
		if e.Name == "" {
			return nil, fmt.Errorf("card #%d: missing name", i+1)
		}
		if len(e.Ranks) != 4 {
			return nil, fmt.Errorf("card %q: want 4 ranks, got %d", e.Name, len(e.Ranks))
		}
		var ranks [4]int
		for j, r := range e.Ranks {
			if r < 1 || r > MaxRank {
				return nil, fmt.Errorf("card %q: rank %d out of range [1,%d]", e.Name, r, MaxRank)
			}
			ranks[j] = r
		}
		elem, err := ParseElement(e.Element)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", e.Name, err)
		}
		key := strings.ToLower(e.Name)
		if _, dup := cat.byName[key]; dup {
			return nil, fmt.Errorf("card %q: duplicate name", e.Name)
		}
		c := NewCard(e.ID, e.Name, ranks, elem, e.Level)
		cat.cards = append(cat.cards, c)
		cat.byName[key] = c
	}
	return cat, nil
}

// Len returns the number of card definitions.
func (cat *Catalog) Len() int {
	return len(cat.cards)
}

// Cards returns copies of every card in catalog order.
func (cat *Catalog) Cards() []*Card {
	out := make([]*Card, len(cat.cards))
	for i, c := range cat.cards {
		out[i] = c.Copy()
	}
	return out
}

// Lookup returns a copy of the named card (case-insensitive).
func (cat *Catalog) Lookup(name string) (*Card, error) {
	c, ok := cat.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCard, name)
	}
	return c.Copy(), nil
}

// Hand builds a hand for owner from card names.
func (cat *Catalog) Hand(owner Owner, names ...string) (Hand, error) {
	h := make(Hand, 0, len(names))
	for _, name := range names {
		c, err := cat.Lookup(name)
		if err != nil {
			return nil, err
		}
		c.Owner = owner
		h = append(h, c)
	}
	return h, nil
}

// Deal shuffles the catalog and deals HandSize cards to each side. A nil
// rng deals in catalog order.
func (cat *Catalog) Deal(rng *rand.Rand) ([2]Hand, error) {
	var hands [2]Hand
	if cat.Len() < 2*HandSize {
		return hands, fmt.Errorf("catalog has %d cards, need %d", cat.Len(), 2*HandSize)
	}
	deck := cat.Cards()
	if rng != nil {
		rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	}
	for i, c := range deck[:2*HandSize] {
		owner := Owner(i / HandSize)
		c.Owner = owner
		hands[owner] = append(hands[owner], c)
	}
	return hands, nil
}
