package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Lixing-Zhang/shopping-list/internal/feed"
	"github.com/Lixing-Zhang/shopping-list/internal/models"
	"github.com/Lixing-Zhang/shopping-list/internal/repository"
	"github.com/Lixing-Zhang/shopping-list/internal/service"
	"github.com/Lixing-Zhang/shopping-list/internal/upstream"
	"github.com/Lixing-Zhang/shopping-list/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const feedBody = `[
	{"id":1,"title":"Backpack","price":109.95,"description":"bag","category":"men's clothing","image":"a.jpg","rating":{"rate":3.9,"count":120}},
	{"id":2,"title":"T-Shirt","price":22.3,"description":"shirt","category":"men's clothing","image":"b.jpg","rating":{"rate":4.1,"count":259}}
]`

func newCatalogRouter(feedURL string, repo repository.ProductRepository) http.Handler {
	log := logger.New("error")
	up := upstream.New(upstream.Config{BaseURL: feedURL, Timeout: time.Second, RetryDelay: time.Millisecond}, log)
	svc := service.NewCatalogService(repo, feed.NewClient(up), log)
	handler := NewCatalogHandler(svc, log)

	r := chi.NewRouter()
	r.Route("/api", handler.Routes)
	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeField(t *testing.T, w *httptest.ResponseRecorder, field string) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body[field]
}

func TestSyncProducts(t *testing.T) {
	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedBody))
	}))
	defer feedServer.Close()

	repo := repository.NewInMemoryProductRepository(models.Product{ID: 1, Title: "Edited", Price: 5, Category: "local"})
	router := newCatalogRouter(feedServer.URL, repo)

	w := serve(router, http.MethodGet, "/api/list-products-store", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	// The feed payload is passed through with its extra fields
	var payload []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 2 {
		t.Fatalf("expected 2 feed products, got %d", len(payload))
	}
	if payload[0]["description"] != "bag" {
		t.Errorf("expected feed fields to be kept, got %v", payload[0])
	}

	w = serve(router, http.MethodGet, "/api/list-local-products", "")
	var products []models.Product
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 stored products, got %d", len(products))
	}
	if products[0].Title != "Edited" {
		t.Errorf("existing product was overwritten: %+v", products[0])
	}
	if products[1].ID != 2 || products[1].Price != 22.3 {
		t.Errorf("unexpected synced product: %+v", products[1])
	}
}

func TestSyncProducts_FeedUnavailable(t *testing.T) {
	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer feedServer.Close()

	router := newCatalogRouter(feedServer.URL, repository.NewInMemoryProductRepository())

	w := serve(router, http.MethodGet, "/api/list-products-store", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	if got := decodeField(t, w, "error"); got != "Falha ao acessar a API externa" {
		t.Errorf("unexpected error message %q", got)
	}
}

func TestCreateProduct(t *testing.T) {
	tests := []struct {
		name       string
		seed       []models.Product
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "empty catalog starts at 1",
			body:       `{"title":"X","price":1.5,"category":"y"}`,
			wantStatus: http.StatusOK,
			wantMsg:    "Produto ID:1 criado com sucesso",
		},
		{
			name:       "next id after the largest",
			seed:       []models.Product{{ID: 1}, {ID: 7}},
			body:       `{"title":"X","price":0,"category":"y"}`,
			wantStatus: http.StatusOK,
			wantMsg:    "Produto ID:8 criado com sucesso",
		},
		{
			name:       "missing price",
			body:       `{"title":"X","category":"y"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative price",
			body:       `{"title":"X","price":-1,"category":"y"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"title":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newCatalogRouter("http://unused", repository.NewInMemoryProductRepository(tt.seed...))

			w := serve(router, http.MethodPost, "/api/create-product", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantMsg != "" {
				if got := decodeField(t, w, "message"); got != tt.wantMsg {
					t.Errorf("expected message %q, got %q", tt.wantMsg, got)
				}
			}
		})
	}
}

func TestGetProduct(t *testing.T) {
	repo := repository.NewInMemoryProductRepository(models.Product{ID: 1, Title: "A", Price: 10, Category: "c"})
	router := newCatalogRouter("http://unused", repo)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantError  string
	}{
		{"existing product", "/api/get-product/1", http.StatusOK, ""},
		{"missing product", "/api/get-product/99", http.StatusNotFound, "Produto com ID:99 não encontrado"},
		{"non-numeric id", "/api/get-product/abc", http.StatusBadRequest, "Invalid ID supplied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodGet, tt.path, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantError != "" {
				if got := decodeField(t, w, "error"); got != tt.wantError {
					t.Errorf("expected error %q, got %q", tt.wantError, got)
				}
				return
			}

			var product models.Product
			if err := json.NewDecoder(w.Body).Decode(&product); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if product != (models.Product{ID: 1, Title: "A", Price: 10, Category: "c"}) {
				t.Errorf("unexpected product %+v", product)
			}
		})
	}
}

func TestUpdateProduct_Partial(t *testing.T) {
	repo := repository.NewInMemoryProductRepository(models.Product{ID: 3, Title: "A", Price: 10, Category: "c"})
	router := newCatalogRouter("http://unused", repo)

	w := serve(router, http.MethodPut, "/api/update-product/3", `{"price":12.5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := decodeField(t, w, "message"); got != "Produto ID:3 atualizado com sucesso" {
		t.Errorf("unexpected message %q", got)
	}

	product, err := repo.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if product.Title != "A" || product.Price != 12.5 || product.Category != "c" {
		t.Errorf("unexpected product after update: %+v", product)
	}

	w = serve(router, http.MethodPut, "/api/update-product/4", `{"title":"B"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestDeleteProduct(t *testing.T) {
	repo := repository.NewInMemoryProductRepository(models.Product{ID: 1}, models.Product{ID: 2})
	router := newCatalogRouter("http://unused", repo)

	w := serve(router, http.MethodDelete, "/api/delete-product/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := decodeField(t, w, "message"); got != "Produto ID:1 deletado com sucesso" {
		t.Errorf("unexpected message %q", got)
	}

	w = serve(router, http.MethodDelete, "/api/delete-product/1", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on second delete, got %d", w.Code)
	}

	w = serve(router, http.MethodDelete, "/api/delete-all-products", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := decodeField(t, w, "message"); got != "Todos os produtos foram deletados com sucesso" {
		t.Errorf("unexpected message %q", got)
	}

	products, _ := repo.GetAll(context.Background())
	if len(products) != 0 {
		t.Errorf("expected empty catalog, got %d products", len(products))
	}
}

func TestCatalogRootRedirectsToDocs(t *testing.T) {
	router := newCatalogRouter("http://unused", repository.NewInMemoryProductRepository())

	w := serve(router, http.MethodGet, "/api/", "")
	if w.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/swagger/" {
		t.Errorf("expected redirect to /swagger/, got %q", loc)
	}
}
