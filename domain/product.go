package domain

import "github.com/google/uuid"

// PlaceholderID marks a record created in the editor that has not been saved yet.
const PlaceholderID = "new"

// SpiceType distinguishes whole spices from ground blends.
type SpiceType string

const (
	SpiceWhole    SpiceType = "Whole"
	SpicePowdered SpiceType = "Powdered"
)

// Product is a catalog entry shown on the products page.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        SpiceType `json:"type"`
	Description string    `json:"description"`
	Sizes       []string  `json:"sizes"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	IsFeatured  bool      `json:"isFeatured"`
}

// EnsureID replaces an empty or placeholder id with a generated one.
func (p *Product) EnsureID() {
	if p == nil {
		return
	}
	if isPlaceholder(p.ID) {
		p.ID = uuid.NewString()
	}
}

func (p Product) clone() Product {
	if p.Sizes != nil {
		p.Sizes = append([]string(nil), p.Sizes...)
	}
	return p
}

func isPlaceholder(id string) bool {
	return id == "" || id == PlaceholderID
}
