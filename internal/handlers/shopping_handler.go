package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/shopping-list/internal/models"
	"github.com/Lixing-Zhang/shopping-list/internal/service"
	"github.com/go-chi/chi/v5"
)

// ShoppingHandler handles shopping-list HTTP requests
type ShoppingHandler struct {
	service *service.ShoppingService
	logger  *slog.Logger
}

// NewShoppingHandler creates a new shopping-list handler
func NewShoppingHandler(service *service.ShoppingService, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{
		service: service,
		logger:  logger,
	}
}

// Routes registers the shopping-list endpoints on r, which is mounted at /api
func (h *ShoppingHandler) Routes(r chi.Router) {
	r.Get("/", RedirectToDocs)
	r.Get("/list-products-store", h.ListStoreProducts)
	r.Get("/product-detail/{id}", h.GetItem)
	r.Get("/list-products-shopping-list", h.ListItems)
	r.Post("/add-product-shopping-list", h.AddItem)
	r.Delete("/delete-product-shopping-list/{id_product}", h.DeleteItem)
	r.Get("/total-value-shopping-list", h.Total)
	r.Delete("/clear-shopping-list", h.Clear)
}

// ListStoreProducts handles GET /api/list-products-store
// Returns the catalog's local products as the catalog sent them
func (h *ShoppingHandler) ListStoreProducts(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.ListStoreProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteRawJSON(w, http.StatusOK, body, h.logger)
}

// GetItem handles GET /api/product-detail/{id}
func (h *ShoppingHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.logger)
}

// ListItems handles GET /api/list-products-shopping-list
func (h *ShoppingHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, items, h.logger)
}

// AddItem handles POST /api/add-product-shopping-list
func (h *ShoppingHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req models.AddItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	item, err := h.service.AddItem(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.logger)
	h.logger.Info("item added to shopping list", "id_product", item.ProductID, "quantity", item.Quantity)
}

// DeleteItem handles DELETE /api/delete-product-shopping-list/{id_product}
func (h *ShoppingHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id_product")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	msg, err := h.service.DeleteItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteMessage(w, msg, h.logger)
}

// Total handles GET /api/total-value-shopping-list
func (h *ShoppingHandler) Total(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.Total(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, models.TotalResponse{Total: total}, h.logger)
}

// Clear handles DELETE /api/clear-shopping-list
func (h *ShoppingHandler) Clear(w http.ResponseWriter, r *http.Request) {
	msg, err := h.service.Clear(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteMessage(w, msg, h.logger)
}
