package planner

import (
	"kwresearch/internal/googleads"
	"kwresearch/internal/models"
)

// MicrosToUnits converts a micros amount to currency units.
func MicrosToUnits(micros int64) float64 {
	return float64(micros) / microsPerUnit
}

func toKeywordIdeas(results []googleads.GenerateKeywordIdeaResult) []models.KeywordIdea {
	ideas := make([]models.KeywordIdea, 0, len(results))
	for _, r := range results {
		idea := models.KeywordIdea{
			Keyword:     r.Text,
			Competition: googleads.CompetitionUnknown,
		}
		if m := r.KeywordIdeaMetrics; m != nil {
			idea.AvgMonthlySearches = int64(m.AvgMonthlySearches)
			idea.CompetitionIndex = int64(m.CompetitionIndex)
			idea.LowTopOfPageBidMicros = MicrosToUnits(int64(m.LowTopOfPageBidMicros))
			idea.HighTopOfPageBidMicros = MicrosToUnits(int64(m.HighTopOfPageBidMicros))
			if m.Competition != "" {
				idea.Competition = m.Competition
			}
		}
		ideas = append(ideas, idea)
	}
	return ideas
}

func toForecastMetrics(m googleads.ForecastMetrics) models.ForecastMetrics {
	return models.ForecastMetrics{
		Impressions: m.Impressions,
		Clicks:      m.Clicks,
		Ctr:         m.Ctr,
		AverageCpc:  MicrosToUnits(int64(m.AverageCpc)),
		Cost:        MicrosToUnits(int64(m.CostMicros)),
	}
}

func toKeywordForecastMetrics(m *googleads.KeywordForecastMetrics) models.ForecastMetrics {
	if m == nil {
		return models.ForecastMetrics{}
	}
	return models.ForecastMetrics{
		Impressions: m.Impressions,
		Clicks:      m.Clicks,
		Ctr:         m.ClickThroughRate,
		AverageCpc:  MicrosToUnits(int64(m.AverageCpcMicros)),
		Cost:        MicrosToUnits(int64(m.CostMicros)),
	}
}

// toHistoricalMetrics flattens a forecast response. texts maps plan keyword
// resource names back to the keyword text.
func toHistoricalMetrics(plan string, resp *googleads.GenerateForecastMetricsResponse, texts map[string]string) *models.HistoricalMetrics {
	out := &models.HistoricalMetrics{
		KeywordPlan: plan,
		Forecasts:   []models.KeywordForecast{},
	}
	if resp == nil {
		return out
	}

	if len(resp.CampaignForecasts) > 0 {
		campaign := toForecastMetrics(resp.CampaignForecasts[0].CampaignForecast)
		out.Campaign = &campaign
	}

	for _, f := range resp.KeywordForecasts {
		keyword, ok := texts[f.KeywordPlanAdGroupKeyword]
		if !ok {
			keyword = f.KeywordPlanAdGroupKeyword
		}
		out.Forecasts = append(out.Forecasts, models.KeywordForecast{
			Keyword:         keyword,
			ForecastMetrics: toForecastMetrics(f.KeywordForecast),
		})
	}
	return out
}
