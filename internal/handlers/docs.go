package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>window.ui = SwaggerUIBundle({url: "/swagger/doc.json", dom_id: "#swagger-ui"});</script>
</body>
</html>`

// DocsHandler serves the OpenAPI document and a Swagger UI page for it
type DocsHandler struct {
	title  string
	doc    []byte
	logger *slog.Logger
}

// NewDocsHandler converts the YAML OpenAPI document to JSON once at startup
func NewDocsHandler(title string, document []byte, logger *slog.Logger) (*DocsHandler, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(document, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}

	return &DocsHandler{
		title:  title,
		doc:    raw,
		logger: logger,
	}, nil
}

// Routes registers the docs endpoints on r, which is mounted at /swagger
func (h *DocsHandler) Routes(r chi.Router) {
	r.Get("/", h.UI)
	r.Get("/doc.json", h.Document)
}

// UI handles GET /swagger/
func (h *DocsHandler) UI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := fmt.Fprintf(w, swaggerPage, h.title); err != nil {
		h.logger.Error("failed to write swagger page", "error", err)
	}
}

// Document handles GET /swagger/doc.json
func (h *DocsHandler) Document(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(h.doc); err != nil {
		h.logger.Error("failed to write openapi document", "error", err)
	}
}

// RedirectToDocs handles GET /api/ by sending the client to the Swagger UI
func RedirectToDocs(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/swagger/", http.StatusFound)
}
