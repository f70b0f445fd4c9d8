package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Item is one purchasable entry: display name plus unit price.
type Item struct {
	Name  string  `yaml:"name"`
	Price float64 `yaml:"price"`
}

// Category is an ordered group of items under a stable key (e.g. "pizzas").
type Category struct {
	Key   string `yaml:"key"`
	Items []Item `yaml:"items"`
}

type entry struct {
	display  string
	price    float64
	category string
}

// Catalog is the authoritative, immutable menu. It is built once at startup;
// all lookups are pure and safe for concurrent use.
type Catalog struct {
	categories []Category
	byName     map[string]entry
	generics   map[string]string
	names      []string // normalized, catalog order
}

type file struct {
	Categories   []Category        `yaml:"categories"`
	GenericTerms map[string]string `yaml:"generic_terms"`
}

// Normalize lowercases and collapses consecutive whitespace to single spaces.
// Every name comparison in the engine goes through this.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// New validates and indexes the given categories and generic-term mapping.
// Item names must be unique across the whole catalog (case-insensitive),
// prices must be positive, and every generic term must reference an existing
// category key.
func New(categories []Category, generics map[string]string) (*Catalog, error) {
	c := &Catalog{
		categories: categories,
		byName:     make(map[string]entry),
		generics:   make(map[string]string, len(generics)),
	}

	keys := make(map[string]bool, len(categories))
	for _, cat := range categories {
		if cat.Key == "" {
			return nil, fmt.Errorf("category with empty key")
		}
		if keys[cat.Key] {
			return nil, fmt.Errorf("duplicate category key %q", cat.Key)
		}
		keys[cat.Key] = true

		for _, it := range cat.Items {
			norm := Normalize(it.Name)
			if norm == "" {
				return nil, fmt.Errorf("empty item name in category %q", cat.Key)
			}
			if it.Price <= 0 {
				return nil, fmt.Errorf("item %q: price must be positive, got %v", it.Name, it.Price)
			}
			if _, dup := c.byName[norm]; dup {
				return nil, fmt.Errorf("duplicate item name %q", it.Name)
			}
			c.byName[norm] = entry{display: it.Name, price: it.Price, category: cat.Key}
			c.names = append(c.names, norm)
		}
	}

	for word, key := range generics {
		if !keys[key] {
			return nil, fmt.Errorf("generic term %q references unknown category %q", word, key)
		}
		c.generics[Normalize(word)] = key
	}

	return c, nil
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	return New(f.Categories, f.GenericTerms)
}

// Lookup returns the unit price for a name, matched case-insensitively with
// whitespace collapsed.
func (c *Catalog) Lookup(name string) (float64, bool) {
	e, ok := c.byName[Normalize(name)]
	if !ok {
		return 0, false
	}
	return e.price, true
}

// DisplayName returns the canonical-cased name for a catalog item.
func (c *Catalog) DisplayName(name string) (string, bool) {
	e, ok := c.byName[Normalize(name)]
	if !ok {
		return "", false
	}
	return e.display, true
}

// CategoryOf returns the category key an item belongs to.
func (c *Catalog) CategoryOf(itemName string) (string, bool) {
	e, ok := c.byName[Normalize(itemName)]
	if !ok {
		return "", false
	}
	return e.category, true
}

// HasCategory reports whether the key names an existing category.
func (c *Catalog) HasCategory(key string) bool {
	for _, cat := range c.categories {
		if cat.Key == key {
			return true
		}
	}
	return false
}

// Examples returns up to limit display names from a category, in catalog order.
func (c *Catalog) Examples(category string, limit int) []string {
	for _, cat := range c.categories {
		if cat.Key != category {
			continue
		}
		n := len(cat.Items)
		if limit > 0 && limit < n {
			n = limit
		}
		out := make([]string, 0, n)
		for _, it := range cat.Items[:n] {
			out = append(out, it.Name)
		}
		return out
	}
	return nil
}

// Names returns all normalized item names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Categories returns the catalog's categories in order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// GenericCategory resolves a generic word ("pizza", "dessert") to the category
// it denotes, when one is registered.
func (c *Catalog) GenericCategory(word string) (string, bool) {
	key, ok := c.generics[Normalize(word)]
	return key, ok
}

// GenericTerms returns the registered generic words. Used by the heuristic
// gate as food-word hints.
func (c *Catalog) GenericTerms() []string {
	out := make([]string, 0, len(c.generics))
	for w := range c.generics {
		out = append(out, w)
	}
	return out
}

// MenuText renders the human-readable menu sent to customers.
func (c *Catalog) MenuText() string {
	var b strings.Builder
	b.WriteString("Our menu:\n")
	for _, cat := range c.categories {
		for _, it := range cat.Items {
			fmt.Fprintf(&b, "- %s - $%s\n", it.Name, trimPrice(it.Price))
		}
	}
	return b.String()
}

func trimPrice(p float64) string {
	s := fmt.Sprintf("%.2f", p)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
