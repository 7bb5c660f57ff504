package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Lixing-Zhang/shopping-list/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for catalog product data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	// Create stores p under the next free id and returns that id.
	Create(ctx context.Context, p models.Product) (int64, error)
	Update(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	// InsertMissing stores every product whose id is not present yet, leaving
	// existing rows untouched, and reports how many rows were inserted.
	// Either all new rows are stored or none are.
	InsertMissing(ctx context.Context, products []models.Product) (int, error)
}

// InMemoryProductRepository implements ProductRepository with in-memory storage
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products map[int64]models.Product
}

// NewInMemoryProductRepository creates an in-memory product repository holding seed
func NewInMemoryProductRepository(seed ...models.Product) *InMemoryProductRepository {
	products := make(map[int64]models.Product, len(seed))
	for _, p := range seed {
		products[p.ID] = p
	}

	return &InMemoryProductRepository{
		products: products,
	}
}

// GetAll returns all products ordered by id
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// GetByID returns a product by its ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

func (r *InMemoryProductRepository) Create(ctx context.Context, p models.Product) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var maxID int64
	for id := range r.products {
		if id > maxID {
			maxID = id
		}
	}
	p.ID = maxID + 1
	r.products[p.ID] = p
	return p.ID, nil
}

func (r *InMemoryProductRepository) Update(ctx context.Context, p models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[p.ID]; !exists {
		return ErrProductNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *InMemoryProductRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; !exists {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *InMemoryProductRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = make(map[int64]models.Product)
	return nil
}

func (r *InMemoryProductRepository) InsertMissing(ctx context.Context, products []models.Product) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, p := range products {
		if _, exists := r.products[p.ID]; exists {
			continue
		}
		r.products[p.ID] = p
		inserted++
	}
	return inserted, nil
}
