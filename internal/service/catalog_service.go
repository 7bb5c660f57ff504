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
)

// ProductFeed supplies the external product list
type ProductFeed interface {
	FetchProducts(ctx context.Context) ([]models.FeedProduct, error)
}

// CatalogService handles business logic for the local product catalog
type CatalogService struct {
	repo repository.ProductRepository
	feed ProductFeed
	log  *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo repository.ProductRepository, feed ProductFeed, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo: repo,
		feed: feed,
		log:  log,
	}
}

// SyncFromFeed mirrors the external feed into the store. Products whose id is
// already stored are left as they are. The feed payload is returned unchanged.
func (s *CatalogService) SyncFromFeed(ctx context.Context) ([]json.RawMessage, error) {
	feedProducts, err := s.feed.FetchProducts(ctx)
	if err != nil {
		if upstream.StatusCode(err) != 0 {
			return nil, Upstream("Falha ao acessar a API externa", 0, err)
		}
		if ctx.Err() == nil && !isDecodeError(err) {
			return nil, Upstream(fmt.Sprintf("Erro ao conectar com a API externa: %v", err), 0, err)
		}
		return nil, Unexpected(err)
	}

	rows := make([]models.Product, 0, len(feedProducts))
	payload := make([]json.RawMessage, 0, len(feedProducts))
	for _, fp := range feedProducts {
		rows = append(rows, fp.Product())
		payload = append(payload, fp.Raw)
	}

	inserted, err := s.repo.InsertMissing(ctx, rows)
	if err != nil {
		return nil, Unexpected(err)
	}

	s.log.Info("catalog synced from feed", "received", len(feedProducts), "inserted", inserted)
	return payload, nil
}

// ListProducts returns every stored product
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, Unexpected(err)
	}
	return products, nil
}

// GetProduct returns a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	return product, nil
}

// CreateProduct stores a new product under a store-assigned id
func (s *CatalogService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (string, error) {
	id, err := s.repo.Create(ctx, models.Product{
		Title:    req.Title,
		Price:    *req.Price,
		Category: req.Category,
	})
	if err != nil {
		return "", Unexpected(err)
	}
	return fmt.Sprintf("Produto ID:%d criado com sucesso", id), nil
}

// UpdateProduct changes only the fields present in req
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req models.UpdateProductRequest) (string, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", s.lookupError(id, err)
	}

	req.Apply(product)
	if err := s.repo.Update(ctx, *product); err != nil {
		return "", s.lookupError(id, err)
	}
	return fmt.Sprintf("Produto ID:%d atualizado com sucesso", id), nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) (string, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		return "", s.lookupError(id, err)
	}
	return fmt.Sprintf("Produto ID:%d deletado com sucesso", id), nil
}

func (s *CatalogService) DeleteAllProducts(ctx context.Context) (string, error) {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return "", Unexpected(err)
	}
	return "Todos os produtos foram deletados com sucesso", nil
}

func (s *CatalogService) lookupError(id int64, err error) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return NotFound(fmt.Sprintf("Produto com ID:%d não encontrado", id))
	}
	return Unexpected(err)
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
