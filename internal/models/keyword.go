package models

// KeywordIdea is a keyword with its search volume and bid estimates.
// The bid fields keep their historical names but hold currency units,
// not micros.
type KeywordIdea struct {
	Keyword                string  `json:"keyword"`
	AvgMonthlySearches     int64   `json:"avgMonthlySearches"`
	Competition            string  `json:"competition"`
	CompetitionIndex       int64   `json:"competitionIndex"`
	LowTopOfPageBidMicros  float64 `json:"lowTopOfPageBidMicros"`
	HighTopOfPageBidMicros float64 `json:"highTopOfPageBidMicros"`
}

// ForecastMetrics are projected traffic figures; money is in currency units.
type ForecastMetrics struct {
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Ctr         float64 `json:"ctr"`
	AverageCpc  float64 `json:"averageCpc"`
	Cost        float64 `json:"cost"`
}

// KeywordForecast is the forecast for one keyword.
type KeywordForecast struct {
	Keyword string `json:"keyword"`
	ForecastMetrics
}

// HistoricalMetrics is the forecast produced from a temporary keyword plan.
type HistoricalMetrics struct {
	KeywordPlan string            `json:"keywordPlan"`
	Campaign    *ForecastMetrics  `json:"campaign,omitempty"`
	Forecasts   []KeywordForecast `json:"forecasts"`
}

// KeywordsRequest is the body of the metrics and historical endpoints.
type KeywordsRequest struct {
	Keywords  []string `json:"keywords" validate:"required,min=1,dive,required"`
	Language  string   `json:"language"`
	Locations []int64  `json:"locations" validate:"omitempty,dive,gt=0"`
}

// KeywordIdeasData is the payload of GET /api/keywords/ideas.
type KeywordIdeasData struct {
	SeedKeyword  string        `json:"seedKeyword"`
	KeywordIdeas []KeywordIdea `json:"keywordIdeas"`
	Count        int           `json:"count"`
}

// KeywordMetricsData is the payload of POST /api/keywords/metrics.
type KeywordMetricsData struct {
	Keywords       []string      `json:"keywords"`
	KeywordMetrics []KeywordIdea `json:"keywordMetrics"`
	Count          int           `json:"count"`
}

// HistoricalMetricsData is the payload of POST /api/keywords/historical.
type HistoricalMetricsData struct {
	Keywords          []string           `json:"keywords"`
	HistoricalMetrics *HistoricalMetrics `json:"historicalMetrics"`
}
