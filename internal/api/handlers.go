// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the search facade over HTTP with gin.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/civic-search/internal/logging"
	"github.com/pdiddy/civic-search/internal/metrics"
	"github.com/pdiddy/civic-search/internal/provider"
	"github.com/pdiddy/civic-search/internal/search"
	"github.com/pdiddy/civic-search/pkg/types"
)

// Error codes returned in ErrorResponse.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeValidationError = "VALIDATION_ERROR"
	CodeSearchError     = "SEARCH_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

// Searcher is the facade the handlers call. *search.Service implements it.
type Searcher interface {
	Search(ctx context.Context, req types.SearchRequest) (*types.SearchResponse, error)
	Suggest(ctx context.Context, query string) []types.Suggestion
}

// Pinger checks a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds HTTP request handlers.
type Handler struct {
	searcher  Searcher
	providers []provider.Provider
	store     Pinger
	logger    *zap.Logger
}

// NewHandler creates a handler. providers and store only feed the health
// report; store may be nil.
func NewHandler(searcher Searcher, providers []provider.Provider, store Pinger, log *zap.Logger) *Handler {
	return &Handler{
		searcher:  searcher,
		providers: providers,
		store:     store,
		logger:    logging.OrNop(log),
	}
}

// SearchBody is the JSON body of POST /api/v1/search.
type SearchBody struct {
	Query    string `json:"q"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Region   string `json:"region"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// Search handles search requests (both GET and POST).
func (h *Handler) Search(c *gin.Context) {
	var req types.SearchRequest

	if c.Request.Method == http.MethodGet {
		req = search.ParseRequest(c.Query("q"), c.Query("type"), c.Query("page"), c.Query("page_size"))
		req.Category = c.Query("category")
		req.Region = c.Query("region")
	} else {
		var body SearchBody
		if err := c.ShouldBindJSON(&body); err != nil {
			h.logger.Warn("Invalid search request body", zap.Error(err))
			h.fail(c, "search", http.StatusBadRequest, CodeInvalidRequest, "Invalid request body: "+err.Error())
			return
		}
		req = search.ParseRequest(body.Query, body.Type, "", "")
		req.Category = body.Category
		req.Region = body.Region
		req.Page = body.Page
		req.PageSize = body.PageSize
	}

	resp, err := h.searcher.Search(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, search.ErrInvalidRequest) {
			h.fail(c, "search", http.StatusBadRequest, CodeValidationError, err.Error())
			return
		}
		h.logger.Error("Search failed",
			zap.Error(err),
			zap.String("query", req.Query),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
		h.fail(c, "search", http.StatusInternalServerError, CodeSearchError, err.Error())
		return
	}

	metrics.Requests.WithLabelValues("search", strconv.Itoa(http.StatusOK)).Inc()
	c.JSON(http.StatusOK, resp)
}

// Suggestions handles autocomplete requests.
func (h *Handler) Suggestions(c *gin.Context) {
	suggestions := h.searcher.Suggest(c.Request.Context(), c.Query("q"))
	metrics.Requests.WithLabelValues("suggestions", strconv.Itoa(http.StatusOK)).Inc()
	c.JSON(http.StatusOK, types.SuggestionResponse{Suggestions: suggestions})
}

// ProviderStatus describes one provider in the health report. Mode is
// "live" when the provider can reach its source and "fallback" otherwise.
type ProviderStatus struct {
	Name string     `json:"name"`
	Kind types.Kind `json:"kind"`
	Mode string     `json:"mode"`
}

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status    string           `json:"status"`
	Store     string           `json:"store"`
	Providers []ProviderStatus `json:"providers"`
	Timestamp time.Time        `json:"timestamp"`
}

// HealthCheck reports store reachability and which providers serve live
// content. Providers in fallback mode do not make the service unhealthy.
func (h *Handler) HealthCheck(c *gin.Context) {
	status := HealthStatus{
		Status:    "healthy",
		Store:     "disabled",
		Timestamp: time.Now().UTC(),
	}
	if h.store != nil {
		status.Store = "ok"
		if err := h.store.Ping(c.Request.Context()); err != nil {
			h.logger.Warn("Store health check failed", zap.Error(err))
			status.Store = "unreachable"
			status.Status = "unhealthy"
		}
	}
	for _, p := range h.providers {
		ps := ProviderStatus{Name: p.Name(), Kind: p.Kind(), Mode: "live"}
		if r, ok := p.(interface{ Ready() error }); ok && r.Ready() != nil {
			ps.Mode = "fallback"
		}
		status.Providers = append(status.Providers, ps)
	}

	if status.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) fail(c *gin.Context, endpoint string, status int, code, msg string) {
	metrics.Requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	c.JSON(status, ErrorResponse{
		Error:     msg,
		Code:      code,
		Timestamp: time.Now(),
	})
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}
