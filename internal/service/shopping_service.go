package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/shopping-list/internal/models"
	"github.com/Lixing-Zhang/shopping-list/internal/repository"
	"github.com/Lixing-Zhang/shopping-list/internal/upstream"
	"github.com/shopspring/decimal"
)

// CatalogReader is what the shopping list needs from the catalog service
type CatalogReader interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListLocalProducts(ctx context.Context) (json.RawMessage, error)
}

// ShoppingService handles shopping-list business logic
type ShoppingService struct {
	repo    repository.ShoppingItemRepository
	catalog CatalogReader
	log     *slog.Logger
}

// NewShoppingService creates a new shopping-list service
func NewShoppingService(repo repository.ShoppingItemRepository, catalog CatalogReader, log *slog.Logger) *ShoppingService {
	return &ShoppingService{
		repo:    repo,
		catalog: catalog,
		log:     log,
	}
}

// ListStoreProducts returns the catalog's local product list exactly as the
// catalog sent it
func (s *ShoppingService) ListStoreProducts(ctx context.Context) (json.RawMessage, error) {
	products, err := s.catalog.ListLocalProducts(ctx)
	if err != nil {
		if code := upstream.StatusCode(err); code != 0 {
			return nil, Upstream("Erro ao buscar produtos", code, err)
		}
		return nil, Upstream(err.Error(), 0, err)
	}
	return products, nil
}

func (s *ShoppingService) GetItem(ctx context.Context, productID int64) (*models.ShoppingItem, error) {
	item, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, s.lookupError(productID, err)
	}
	return item, nil
}

func (s *ShoppingService) ListItems(ctx context.Context) ([]models.ShoppingItem, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, Unexpected(err)
	}
	return items, nil
}

// AddItem puts a catalog product on the list or raises its quantity.
// Title, price and category are copied from the catalog only when the row is created.
func (s *ShoppingService) AddItem(ctx context.Context, req models.AddItemRequest) (*models.ShoppingItem, error) {
	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		s.log.Warn("catalog lookup failed", "id_product", req.ProductID, "error", err)
		return nil, NotFound("Produto não encontrado")
	}

	item, err := s.repo.AddQuantity(ctx, models.ShoppingItem{
		ProductID: req.ProductID,
		Title:     product.Title,
		Price:     product.Price,
		Category:  product.Category,
		Quantity:  req.RequestedQuantity(),
	})
	if err != nil {
		return nil, Unexpected(err)
	}
	return item, nil
}

func (s *ShoppingService) DeleteItem(ctx context.Context, productID int64) (string, error) {
	if err := s.repo.Delete(ctx, productID); err != nil {
		return "", s.lookupError(productID, err)
	}
	return fmt.Sprintf("Item ID:%d removido com sucesso", productID), nil
}

// Total returns the sum of price * quantity over the list, 0 when empty
func (s *ShoppingService) Total(ctx context.Context) (float64, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, Unexpected(err)
	}

	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total.InexactFloat64(), nil
}

func (s *ShoppingService) Clear(ctx context.Context) (string, error) {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return "", Unexpected(err)
	}
	return "Lista de compras limpa com sucesso", nil
}

func (s *ShoppingService) lookupError(productID int64, err error) error {
	if errors.Is(err, repository.ErrItemNotFound) {
		return NotFound(fmt.Sprintf("Produto ID:%d não encontrado na lista de compras", productID))
	}
	return Unexpected(err)
}
