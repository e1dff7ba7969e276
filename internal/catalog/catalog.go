// Package catalog is the read-only product list of the shop.
package catalog

import (
	"errors"
	"slices"
	"strings"

	"autoparts.dev/storefront/internal/domain"
)

// ErrProductNotFound is returned for unknown product ids.
var ErrProductNotFound = errors.New("catalog: product not found")

// ErrOutOfStock is returned when an unavailable product is added to the cart.
var ErrOutOfStock = errors.New("catalog: product out of stock")

// Product is an auto part.
type Product struct {
	ID            string   `json:"id"`
	NameAR        string   `json:"name_ar"`
	NameEN        string   `json:"name_en"`
	Brand         string   `json:"brand"`
	CarType       string   `json:"car_type"`
	Models        []string `json:"models"`
	Category      string   `json:"category"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"original_price,omitempty"`
	PartNumber    string   `json:"part_number"`
	Image         string   `json:"image,omitempty"`
	Stock         int      `json:"stock"`
	MaxPerOrder   int      `json:"max_per_order,omitempty"`
}

// Name returns the product name in lang ("ar" or "en").
func (p Product) Name(lang string) string {
	if lang == "en" && p.NameEN != "" {
		return p.NameEN
	}
	if p.NameAR != "" {
		return p.NameAR
	}
	return p.NameEN
}

// InStock reports whether the product can be ordered.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Category is a part category shown as a tile on the home page.
type Category struct {
	Key    string `json:"key"`
	NameAR string `json:"name_ar"`
	NameEN string `json:"name_en"`
	Count  int    `json:"count"`
}

// Catalog is an immutable product list.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New builds a catalog from products. Later duplicates of an id are ignored.
func New(products []Product) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(products))}
	for _, p := range products {
		if _, dup := c.byID[p.ID]; dup || p.ID == "" {
			continue
		}
		p.Models = slices.Clone(p.Models)
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Get returns the product with id.
func (c *Catalog) Get(id string) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return c.products[i], nil
}

// All returns every product in catalog order.
func (c *Catalog) All() []Product {
	return slices.Clone(c.products)
}

// Search returns the products matching every set filter. The term matches
// either name, the brand or the part number, ignoring case; car type, model
// and category must match exactly, ignoring case.
func (c *Catalog) Search(f domain.SearchFilters) []Product {
	term := strings.ToLower(strings.TrimSpace(f.Term))
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if term != "" && !matchesTerm(p, term) {
			continue
		}
		if f.CarType != "" && !strings.EqualFold(p.CarType, f.CarType) {
			continue
		}
		if f.Model != "" && !slices.ContainsFunc(p.Models, func(m string) bool { return strings.EqualFold(m, f.Model) }) {
			continue
		}
		if f.PartCategory != "" && !strings.EqualFold(p.Category, f.PartCategory) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesTerm(p Product, term string) bool {
	for _, field := range []string{p.NameAR, p.NameEN, p.Brand, p.PartNumber} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Categories lists the categories in use with their product counts, in the
// order they first appear.
func (c *Catalog) Categories() []Category {
	var out []Category
	index := map[string]int{}
	for _, p := range c.products {
		i, ok := index[p.Category]
		if !ok {
			names := categoryNames[p.Category]
			i = len(out)
			index[p.Category] = i
			out = append(out, Category{Key: p.Category, NameAR: names[0], NameEN: names[1]})
		}
		out[i].Count++
	}
	return out
}

// CartLine builds the cart payload of the product in lang. Prices come from
// the catalog, never from the client.
func (c *Catalog) CartLine(id string, quantity int, lang string) (domain.CartLine, error) {
	p, err := c.Get(id)
	if err != nil {
		return domain.CartLine{}, err
	}
	if !p.InStock() {
		return domain.CartLine{}, ErrOutOfStock
	}
	inStock := true
	limit := p.Stock
	if p.MaxPerOrder > 0 && p.MaxPerOrder < limit {
		limit = p.MaxPerOrder
	}
	return domain.CartLine{
		ItemID:        p.ID,
		Name:          p.Name(lang),
		UnitPrice:     p.Price,
		Quantity:      quantity,
		Brand:         p.Brand,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		PartNumber:    p.PartNumber,
		InStock:       &inStock,
		MaxQuantity:   limit,
	}, nil
}

// WishlistEntry builds the wishlist payload of the product in lang.
func (c *Catalog) WishlistEntry(id, lang string) (domain.WishlistEntry, error) {
	p, err := c.Get(id)
	if err != nil {
		return domain.WishlistEntry{}, err
	}
	inStock := p.InStock()
	return domain.WishlistEntry{
		ItemID:        p.ID,
		Name:          p.Name(lang),
		Price:         p.Price,
		Brand:         p.Brand,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		PartNumber:    p.PartNumber,
		InStock:       &inStock,
	}, nil
}
