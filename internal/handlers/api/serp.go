package api

import (
	"github.com/gofiber/fiber/v3"

	"kwresearch/internal/models"
)

const (
	msgQueryRequired = "Search query is required"

	defaultSerpLocation = "United States"
	defaultSerpLanguage = "en"
)

// SerpAnalyze handles GET /api/serp/analyze. The payload is placeholder
// data until a SERP provider is integrated.
func SerpAnalyze(c fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return jsonError(c, fiber.StatusBadRequest, msgQueryRequired)
	}

	return jsonSuccess(c, models.SerpAnalysis{
		Query:    query,
		Location: c.Query("location", defaultSerpLocation),
		Language: c.Query("language", defaultSerpLanguage),
		Results: []models.SerpResult{
			{
				Position:    1,
				Title:       "Example Result 1",
				URL:         "https://example.com/1",
				Description: "This is an example search result description.",
				Features:    []string{"Featured Snippet", "Site Links"},
			},
			{
				Position:    2,
				Title:       "Example Result 2",
				URL:         "https://example.com/2",
				Description: "Another example search result description.",
				Features:    []string{},
			},
		},
		Features: models.SerpFeatureSummary{
			FeaturedSnippet: true,
			PeopleAlsoAsk:   true,
		},
		Stats: models.SerpStats{
			TotalResults:   2,
			OrganicResults: 2,
		},
	})
}

// SerpFeatures handles GET /api/serp/features.
func SerpFeatures(c fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return jsonError(c, fiber.StatusBadRequest, msgQueryRequired)
	}

	return jsonSuccess(c, models.SerpFeaturesData{
		Query:    query,
		Location: c.Query("location", defaultSerpLocation),
		Features: models.SerpFeatures{
			FeaturedSnippet: true,
			PeopleAlsoAsk:   true,
			ImageCarousel:   true,
			RelatedSearches: true,
		},
	})
}
