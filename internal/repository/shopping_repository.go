package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Lixing-Zhang/shopping-list/internal/models"
)

var (
	ErrItemNotFound = errors.New("shopping item not found")
)

// ShoppingItemRepository defines the interface for shopping-list data access
type ShoppingItemRepository interface {
	GetAll(ctx context.Context) ([]models.ShoppingItem, error)
	GetByID(ctx context.Context, productID int64) (*models.ShoppingItem, error)
	// AddQuantity inserts item when no row exists for item.ProductID, otherwise
	// increases the stored quantity by item.Quantity keeping the stored
	// title, price and category. It returns the resulting row.
	AddQuantity(ctx context.Context, item models.ShoppingItem) (*models.ShoppingItem, error)
	Delete(ctx context.Context, productID int64) error
	DeleteAll(ctx context.Context) error
}

// InMemoryShoppingItemRepository implements ShoppingItemRepository with in-memory storage
type InMemoryShoppingItemRepository struct {
	mu    sync.RWMutex
	items map[int64]models.ShoppingItem
}

// NewInMemoryShoppingItemRepository creates an empty in-memory shopping list
func NewInMemoryShoppingItemRepository() *InMemoryShoppingItemRepository {
	return &InMemoryShoppingItemRepository{
		items: make(map[int64]models.ShoppingItem),
	}
}

// GetAll returns all items ordered by product id
func (r *InMemoryShoppingItemRepository) GetAll(ctx context.Context) ([]models.ShoppingItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.ShoppingItem, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items, nil
}

func (r *InMemoryShoppingItemRepository) GetByID(ctx context.Context, productID int64) (*models.ShoppingItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[productID]
	if !exists {
		return nil, ErrItemNotFound
	}
	return &item, nil
}

func (r *InMemoryShoppingItemRepository) AddQuantity(ctx context.Context, item models.ShoppingItem) (*models.ShoppingItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.items[item.ProductID]; exists {
		existing.Quantity += item.Quantity
		r.items[item.ProductID] = existing
		return &existing, nil
	}
	r.items[item.ProductID] = item
	return &item, nil
}

func (r *InMemoryShoppingItemRepository) Delete(ctx context.Context, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[productID]; !exists {
		return ErrItemNotFound
	}
	delete(r.items, productID)
	return nil
}

func (r *InMemoryShoppingItemRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[int64]models.ShoppingItem)
	return nil
}
