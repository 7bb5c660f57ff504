package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/shopping-list/internal/models"
	"github.com/Lixing-Zhang/shopping-list/internal/service"
	"github.com/go-chi/chi/v5"
)

// CatalogHandler handles catalog HTTP requests
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// Routes registers the catalog endpoints on r, which is mounted at /api
func (h *CatalogHandler) Routes(r chi.Router) {
	r.Get("/", RedirectToDocs)
	r.Get("/list-products-store", h.SyncProducts)
	r.Get("/list-local-products", h.ListLocalProducts)
	r.Post("/create-product", h.CreateProduct)
	r.Get("/get-product/{id}", h.GetProduct)
	r.Put("/update-product/{id}", h.UpdateProduct)
	r.Delete("/delete-product/{id}", h.DeleteProduct)
	r.Delete("/delete-all-products", h.DeleteAllProducts)
}

// SyncProducts handles GET /api/list-products-store
// Stores feed products that are not in the catalog yet and returns the feed payload
func (h *CatalogHandler) SyncProducts(w http.ResponseWriter, r *http.Request) {
	payload, err := h.service.SyncFromFeed(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, payload, h.logger)
}

// ListLocalProducts handles GET /api/list-local-products
func (h *CatalogHandler) ListLocalProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
}

// CreateProduct handles POST /api/create-product
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	msg, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteMessage(w, msg, h.logger)
}

// GetProduct handles GET /api/get-product/{id}
// - 200: product record
// - 400: id is not an integer
// - 404: product not found
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}

// UpdateProduct handles PUT /api/update-product/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	var req models.UpdateProductRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	msg, err := h.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteMessage(w, msg, h.logger)
}

// DeleteProduct handles DELETE /api/delete-product/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	msg, err := h.service.DeleteProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteMessage(w, msg, h.logger)
}

// DeleteAllProducts handles DELETE /api/delete-all-products
func (h *CatalogHandler) DeleteAllProducts(w http.ResponseWriter, r *http.Request) {
	msg, err := h.service.DeleteAllProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteMessage(w, msg, h.logger)
}
