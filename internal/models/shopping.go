package models

// DefaultQuantity is used when an add request omits quantity
const DefaultQuantity = 1

// ShoppingItem is a shopping-list row. ProductID reuses the catalog id, and
// title, price and category are copies taken when the item was first added.
type ShoppingItem struct {
	ProductID int64   `json:"id_product"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
}

// AddItemRequest is the body of POST /api/add-product-shopping-list
type AddItemRequest struct {
	ProductID int64 `json:"id_product" validate:"required,gte=1"`
	Quantity  *int  `json:"quantity,omitempty" validate:"omitempty,gte=1"`
}

// RequestedQuantity returns the quantity to add, defaulting to 1
func (r AddItemRequest) RequestedQuantity() int {
	if r.Quantity == nil {
		return DefaultQuantity
	}
	return *r.Quantity
}

// TotalResponse is returned by GET /api/total-value-shopping-list
type TotalResponse struct {
	Total float64 `json:"total"`
}

// MessageResponse carries a confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}
