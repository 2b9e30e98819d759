package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/abdouthematrix/westcairostars/internal/api/middleware"
	"github.com/abdouthematrix/westcairostars/internal/api/response"
)

// OpenAPIHandler serves the OpenAPI document as JSON.
type OpenAPIHandler struct {
	toJSON func() ([]byte, error)
}

// NewOpenAPIHandler creates a handler that converts the YAML document to
// JSON once, on first request.
func NewOpenAPIHandler(yamlSpec []byte) *OpenAPIHandler {
	return &OpenAPIHandler{
		toJSON: sync.OnceValues(func() ([]byte, error) {
			return yaml.YAMLToJSON(yamlSpec)
		}),
	}
}

// ServeHTTP writes the cached JSON document.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	doc, err := h.toJSON()
	if err != nil {
		slog.Error("failed to convert OpenAPI document to JSON", "error", err)
		requestID := middleware.GetRequestID(r.Context())
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to convert OpenAPI document", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		slog.Error("failed to write OpenAPI response", "error", err)
	}
}
