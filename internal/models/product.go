package models

import "encoding/json"

// Product is a catalog entry stored by the catalog service
type Product struct {
	ID       int64   `json:"id_product"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// FeedProduct is the subset of an external feed entry that is persisted.
// Raw keeps the entry exactly as the feed sent it.
type FeedProduct struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Price    float64         `json:"price"`
	Category string          `json:"category"`
	Raw      json.RawMessage `json:"-"`
}

// Product converts a feed entry into a catalog row keeping the feed id
func (f FeedProduct) Product() Product {
	return Product{
		ID:       f.ID,
		Title:    f.Title,
		Price:    f.Price,
		Category: f.Category,
	}
}

// CreateProductRequest is the body of POST /api/create-product
type CreateProductRequest struct {
	Title    string   `json:"title" validate:"required"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Category string   `json:"category" validate:"required"`
}

// UpdateProductRequest is the body of PUT /api/update-product/{id}.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Title    *string  `json:"title,omitempty" validate:"omitempty,min=1"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category *string  `json:"category,omitempty" validate:"omitempty,min=1"`
}

// Apply copies the supplied fields onto p
func (u UpdateProductRequest) Apply(p *Product) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
}
