package api

import (
	"github.com/gofiber/fiber/v3"

	"kwresearch/internal/models"
	"kwresearch/internal/validation"
)

const (
	msgKeywordOrDomainRequired = "Either keyword or domain is required"
	msgDomainRequired          = "Domain is required"

	defaultCompetitorLimit = 10
	totalMockBacklinks     = 15000
)

// CompetitorsAnalyze handles GET /api/competitors/analyze. The payload is
// placeholder data.
func CompetitorsAnalyze(c fiber.Ctx) error {
	keyword := optionalQuery(c, "keyword")
	domain := optionalQuery(c, "domain")
	if keyword == nil && domain == nil {
		return jsonError(c, fiber.StatusBadRequest, msgKeywordOrDomainRequired)
	}

	competitors := []models.Competitor{
		{
			Domain:   "competitor1.com",
			Title:    "Competitor 1 Website",
			Position: 1,
			Metrics:  models.CompetitorMetrics{DomainAuthority: 85, PageAuthority: 76, Backlinks: 15000, OrganicTraffic: 250000},
			Content:  models.CompetitorContent{WordCount: 2500, Headings: 12, Images: 8, Videos: 1},
		},
		{
			Domain:   "competitor2.com",
			Title:    "Competitor 2 Website",
			Position: 2,
			Metrics:  models.CompetitorMetrics{DomainAuthority: 78, PageAuthority: 72, Backlinks: 12000, OrganicTraffic: 180000},
			Content:  models.CompetitorContent{WordCount: 1800, Headings: 9, Images: 6, Videos: 0},
		},
	}

	return jsonSuccess(c, models.CompetitorAnalysis{
		Keyword:     keyword,
		Domain:      domain,
		Competitors: competitors,
		Count:       len(competitors),
		Limit:       mockLimit(c),
	})
}

// CompetitorsBacklinks handles GET /api/competitors/backlinks.
func CompetitorsBacklinks(c fiber.Ctx) error {
	domain := c.Query("domain")
	if domain == "" {
		return jsonError(c, fiber.StatusBadRequest, msgDomainRequired)
	}

	backlinks := []models.Backlink{
		{
			SourceDomain:    "example.com",
			SourceURL:       "https://example.com/page1",
			TargetURL:       "https://" + domain + "/target-page",
			AnchorText:      "Example anchor text",
			DomainAuthority: 75,
			PageAuthority:   65,
			IsDoFollow:      true,
		},
		{
			SourceDomain:    "another-example.com",
			SourceURL:       "https://another-example.com/page2",
			TargetURL:       "https://" + domain + "/another-target",
			AnchorText:      "Another anchor text",
			DomainAuthority: 68,
			PageAuthority:   60,
			IsDoFollow:      false,
		},
	}

	return jsonSuccess(c, models.BacklinkReport{
		Domain:         domain,
		Backlinks:      backlinks,
		Count:          len(backlinks),
		Limit:          mockLimit(c),
		TotalBacklinks: totalMockBacklinks,
	})
}

func optionalQuery(c fiber.Ctx, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}

// mockLimit echoes the requested limit. Unparseable values fall back to the
// default since the payload does not depend on it.
func mockLimit(c fiber.Ctx) int {
	limit, err := validation.ParseLimit(c.Query("limit"), defaultCompetitorLimit)
	if err != nil {
		return defaultCompetitorLimit
	}
	return limit
}
