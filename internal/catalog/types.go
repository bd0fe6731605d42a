// Package catalog holds the Localizei domain model: categories, stores,
// subcategories and the promotional banners shown on category screens.
package catalog

import "strings"

// Category groups stores on the home grid.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Subcategory is a tile shown inside a category screen.
type Subcategory struct {
	Name string
	Icon string
}

// Store mirrors a row of the hosted stores table.
type Store struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CategoryID  string  `json:"category_id"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	WhatsApp    string  `json:"whatsapp"`
	Instagram   string  `json:"instagram"`
	Hours       string  `json:"hours"`
	Rating      float64 `json:"rating"`
	Cashback    float64 `json:"cashback_percent"`
	ImageURL    string  `json:"image_url"`
	Verified    bool    `json:"verified"`
}

// HasCashback reports whether the store returns part of each purchase.
func (s Store) HasCashback() bool {
	return s.Cashback > 0
}

// InCategory matches either the category id or its display name.
func (s Store) InCategory(c Category) bool {
	if c.ID != "" && s.CategoryID == c.ID {
		return true
	}
	return c.Name != "" && strings.EqualFold(strings.TrimSpace(s.Category), strings.TrimSpace(c.Name))
}

// Banner is one slide of a category carousel.
type Banner struct {
	ImageURL string
	Caption  string
}
