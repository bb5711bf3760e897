package api

import (
	"context"
	"errors"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/utils/v2"

	"kwresearch/internal/metrics"
	"kwresearch/internal/models"
	"kwresearch/internal/planner"
	"kwresearch/internal/validation"
)

// Client error messages.
const (
	msgKeywordRequired  = "Keyword is required"
	msgKeywordsRequired = "Valid keywords array is required"
	msgInvalidLocations = "Locations must be a JSON array of location IDs"
	msgInvalidLimit     = "Limit must be a positive integer"
	msgInvalidOperation = "Operation must be one of ideas, metrics, historical"
	msgHistoryDisabled  = "Keyword lookup history is disabled"
)

const (
	defaultPopularLimit = 10
	maxPopularLimit     = 100
)

// Planner runs keyword research against the Keyword Planner.
type Planner interface {
	GenerateKeywordIdeas(ctx context.Context, keyword, language string, locations []int64, limit int) ([]models.KeywordIdea, error)
	GetKeywordMetrics(ctx context.Context, keywords []string, language string, locations []int64) ([]models.KeywordIdea, error)
	GetHistoricalMetrics(ctx context.Context, keywords []string, language string, locations []int64) (*models.HistoricalMetrics, error)
}

// LookupStore reads recorded keyword lookups.
type LookupStore interface {
	GetTopKeywordLookups(ctx context.Context, operation string, limit int) ([]models.KeywordLookup, error)
}

// KeywordHandler serves the keyword research endpoints.
type KeywordHandler struct {
	planner Planner
	lookups LookupStore
	record  func(keyword, operation string)
}

// NewKeywordHandler creates a keyword handler. lookups may be nil when
// lookup history is not configured.
func NewKeywordHandler(p Planner, lookups LookupStore) *KeywordHandler {
	return &KeywordHandler{planner: p, lookups: lookups, record: metrics.RecordKeywordLookup}
}

// Ideas handles GET /api/keywords/ideas.
func (h *KeywordHandler) Ideas(c fiber.Ctx) error {
	// Query values alias the request buffer, which fiber reuses once the
	// handler returns.
	keyword := utils.CopyString(c.Query("keyword"))
	if strings.TrimSpace(keyword) == "" {
		return jsonError(c, fiber.StatusBadRequest, msgKeywordRequired)
	}

	locations, err := validation.ParseLocations(c.Query("locations"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, msgInvalidLocations)
	}

	limit, err := validation.ParseLimit(c.Query("limit"), planner.DefaultLimit)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, msgInvalidLimit)
	}

	ideas, err := h.planner.GenerateKeywordIdeas(c.Context(), keyword, c.Query("language", planner.DefaultLanguage), locations, limit)
	if err != nil {
		return jsonFailure(c, err)
	}

	h.record(validation.NormalizeKeyword(keyword), models.OperationIdeas)

	return jsonSuccess(c, models.KeywordIdeasData{
		SeedKeyword:  keyword,
		KeywordIdeas: nonNil(ideas),
		Count:        len(ideas),
	})
}

// Metrics handles POST /api/keywords/metrics.
func (h *KeywordHandler) Metrics(c fiber.Ctx) error {
	req, msg := parseKeywordsRequest(c.Body())
	if msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	ideas, err := h.planner.GetKeywordMetrics(c.Context(), req.Keywords, req.Language, req.Locations)
	if err != nil {
		return jsonFailure(c, err)
	}

	h.recordLookups(req.Keywords, models.OperationMetrics)

	return jsonSuccess(c, models.KeywordMetricsData{
		Keywords:       req.Keywords,
		KeywordMetrics: nonNil(ideas),
		Count:          len(ideas),
	})
}

// Historical handles POST /api/keywords/historical.
func (h *KeywordHandler) Historical(c fiber.Ctx) error {
	req, msg := parseKeywordsRequest(c.Body())
	if msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	historical, err := h.planner.GetHistoricalMetrics(c.Context(), req.Keywords, req.Language, req.Locations)
	if err != nil {
		return jsonFailure(c, err)
	}

	h.recordLookups(req.Keywords, models.OperationHistorical)

	return jsonSuccess(c, models.HistoricalMetricsData{
		Keywords:          req.Keywords,
		HistoricalMetrics: historical,
	})
}

// Popular handles GET /api/keywords/popular, listing the most researched
// keywords for one operation.
func (h *KeywordHandler) Popular(c fiber.Ctx) error {
	if h.lookups == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, msgHistoryDisabled)
	}

	operation := c.Query("operation", models.OperationIdeas)
	switch operation {
	case models.OperationIdeas, models.OperationMetrics, models.OperationHistorical:
	default:
		return jsonError(c, fiber.StatusBadRequest, msgInvalidOperation)
	}

	limit, err := validation.ParseLimit(c.Query("limit"), defaultPopularLimit)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, msgInvalidLimit)
	}
	limit = min(limit, maxPopularLimit)

	lookups, err := h.lookups.GetTopKeywordLookups(c.Context(), operation, limit)
	if err != nil {
		return jsonFailure(c, err)
	}
	if lookups == nil {
		lookups = []models.KeywordLookup{}
	}

	return jsonSuccess(c, fiber.Map{
		"operation": operation,
		"keywords":  lookups,
		"count":     len(lookups),
	})
}

// parseKeywordsRequest decodes and validates a metrics or historical body.
// It returns the client error message when the body is rejected.
func parseKeywordsRequest(body []byte) (*models.KeywordsRequest, string) {
	var req models.KeywordsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, msgKeywordsRequired
	}

	if err := validation.ValidateStruct(&req); err != nil {
		var reqErr *validation.RequestError
		if errors.As(err, &reqErr) {
			for _, f := range reqErr.Fields {
				if strings.Contains(f.Field, "locations") {
					return nil, msgInvalidLocations
				}
			}
		}
		return nil, msgKeywordsRequired
	}

	if req.Language == "" {
		req.Language = planner.DefaultLanguage
	}
	return &req, ""
}

func (h *KeywordHandler) recordLookups(keywords []string, operation string) {
	for _, k := range keywords {
		h.record(utils.CopyString(validation.NormalizeKeyword(k)), operation)
	}
}

func nonNil(ideas []models.KeywordIdea) []models.KeywordIdea {
	if ideas == nil {
		return []models.KeywordIdea{}
	}
	return ideas
}
