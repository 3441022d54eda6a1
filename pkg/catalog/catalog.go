package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CategoryOrder is the fixed walk order of a recommendation session.
// Sessions always progress top -> outer -> pants -> shoes -> bag.
var CategoryOrder = []string{"top", "outer", "pants", "shoes", "bag"}

// Item is one catalog product. Items are immutable reference data: loaded
// once at startup and shared read-only across every session.
type Item struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"product_name"`
	Brand       string `json:"brand"`
	Price       int    `json:"price"`
	ItemURL     string `json:"item_url"`
	ImageURL    string `json:"img_url"`
	Gender      string `json:"gender"`
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
	Style       string `json:"style"`
	Color       string `json:"color"`
	Fit         string `json:"fit"`
	Pattern     string `json:"pattern"`
	Texture     string `json:"texture"`
	Description string `json:"description"`
}

// PrimaryColor returns the first color token of a comma-separated color
// field ("black, white" -> "black"). Preferred-color matching only ever
// looks at this token.
func (i Item) PrimaryColor() string {
	if idx := strings.Index(i.Color, ","); idx >= 0 {
		return strings.TrimSpace(i.Color[:idx])
	}
	return strings.TrimSpace(i.Color)
}

// Catalog holds per-category item metadata keyed by product id. Product ids
// are only unique within a category.
type Catalog struct {
	items map[string]map[string]Item
}

// Load reads <root>/<category>/metadata.jsonl for every category and builds
// the in-memory catalog. A missing category file is an error: the situation
// channel needs metadata for all five categories.
func Load(root string, categories []string) (*Catalog, error) {
	c := &Catalog{items: make(map[string]map[string]Item, len(categories))}
	for _, cat := range categories {
		path := filepath.Join(root, cat, "metadata.jsonl")
		items, err := loadJSONL(path, cat)
		if err != nil {
			return nil, fmt.Errorf("load catalog %q: %w", cat, err)
		}
		c.items[cat] = items
	}
	return c, nil
}

// NewFromItems builds a catalog directly from item records. Tests and
// seeders use this instead of JSONL files.
func NewFromItems(items []Item) *Catalog {
	c := &Catalog{items: make(map[string]map[string]Item)}
	for _, it := range items {
		if c.items[it.Category] == nil {
			c.items[it.Category] = make(map[string]Item)
		}
		c.items[it.Category][it.ProductID] = it
	}
	return c
}

// Item looks up a product by category-scoped id.
func (c *Catalog) Item(category, productID string) (Item, bool) {
	it, ok := c.items[category][productID]
	return it, ok
}

// Count returns the number of items loaded for a category.
func (c *Catalog) Count(category string) int {
	return len(c.items[category])
}

func loadJSONL(path, category string) (map[string]Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	items := make(map[string]Item)
	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var it Item
		if err := json.Unmarshal(raw, &it); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if it.ProductID == "" {
			return nil, fmt.Errorf("line %d: missing product_id", line)
		}
		if it.Category == "" {
			it.Category = category
		}
		items[it.ProductID] = it
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
