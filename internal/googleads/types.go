package googleads

import (
	"strconv"

	"github.com/goccy/go-json"
)

// Int64 decodes the proto3 JSON form of int64, which Google sends as a
// quoted string, and also accepts bare numbers.
type Int64 int64

// MarshalJSON encodes the value as a quoted string.
func (i Int64) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatInt(int64(i), 10) + `"`), nil
}

// UnmarshalJSON accepts "123", 123 and null.
func (i *Int64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*i = 0
			return nil
		}
		data = []byte(s)
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*i = Int64(v)
	return nil
}

// Keyword plan network values.
const (
	NetworkGoogleSearch           = "GOOGLE_SEARCH"
	NetworkGoogleSearchAndPartner = "GOOGLE_SEARCH_AND_PARTNERS"
)

// Competition levels reported by the Keyword Planner.
const (
	CompetitionUnspecified = "UNSPECIFIED"
	CompetitionUnknown     = "UNKNOWN"
	CompetitionLow         = "LOW"
	CompetitionMedium      = "MEDIUM"
	CompetitionHigh        = "HIGH"
)

// GenerateKeywordIdeasRequest is the body of KeywordPlanIdeaService.GenerateKeywordIdeas.
type GenerateKeywordIdeasRequest struct {
	Language             string       `json:"language,omitempty"`
	GeoTargetConstants   []string     `json:"geoTargetConstants,omitempty"`
	KeywordPlanNetwork   string       `json:"keywordPlanNetwork,omitempty"`
	IncludeAdultKeywords bool         `json:"includeAdultKeywords,omitempty"`
	PageSize             int          `json:"pageSize,omitempty"`
	PageToken            string       `json:"pageToken,omitempty"`
	KeywordSeed          *KeywordSeed `json:"keywordSeed,omitempty"`
}

// KeywordSeed seeds idea generation with a list of keywords.
type KeywordSeed struct {
	Keywords []string `json:"keywords"`
}

// GenerateKeywordIdeaResponse is one page of keyword ideas.
type GenerateKeywordIdeaResponse struct {
	Results       []GenerateKeywordIdeaResult `json:"results"`
	NextPageToken string                      `json:"nextPageToken"`
	TotalSize     Int64                       `json:"totalSize"`
}

// GenerateKeywordIdeaResult is a single keyword idea.
type GenerateKeywordIdeaResult struct {
	Text               string                        `json:"text"`
	KeywordIdeaMetrics *KeywordPlanHistoricalMetrics `json:"keywordIdeaMetrics,omitempty"`
}

// KeywordPlanHistoricalMetrics holds search volume and bid estimates.
type KeywordPlanHistoricalMetrics struct {
	AvgMonthlySearches     Int64                 `json:"avgMonthlySearches"`
	Competition            string                `json:"competition"`
	CompetitionIndex       Int64                 `json:"competitionIndex"`
	LowTopOfPageBidMicros  Int64                 `json:"lowTopOfPageBidMicros"`
	HighTopOfPageBidMicros Int64                 `json:"highTopOfPageBidMicros"`
	MonthlySearchVolumes   []MonthlySearchVolume `json:"monthlySearchVolumes,omitempty"`
}

// MonthlySearchVolume is the search count for one calendar month.
type MonthlySearchVolume struct {
	Year            Int64  `json:"year"`
	Month           string `json:"month"`
	MonthlySearches Int64  `json:"monthlySearches"`
}

// KeywordPlan is the top-level forecasting container.
type KeywordPlan struct {
	Name           string                     `json:"name"`
	ForecastPeriod *KeywordPlanForecastPeriod `json:"forecastPeriod,omitempty"`
}

// KeywordPlanForecastPeriod selects the forecast window.
type KeywordPlanForecastPeriod struct {
	DateInterval string `json:"dateInterval,omitempty"`
}

// KeywordPlanCampaign is a campaign inside a keyword plan.
type KeywordPlanCampaign struct {
	KeywordPlan        string                 `json:"keywordPlan"`
	Name               string                 `json:"name"`
	CpcBidMicros       Int64                  `json:"cpcBidMicros"`
	KeywordPlanNetwork string                 `json:"keywordPlanNetwork"`
	GeoTargets         []KeywordPlanGeoTarget `json:"geoTargets,omitempty"`
	LanguageConstants  []string               `json:"languageConstants,omitempty"`
}

// KeywordPlanGeoTarget references a geo target constant.
type KeywordPlanGeoTarget struct {
	GeoTargetConstant string `json:"geoTargetConstant"`
}

// KeywordPlanAdGroup is an ad group inside a keyword plan campaign.
type KeywordPlanAdGroup struct {
	KeywordPlanCampaign string `json:"keywordPlanCampaign"`
	Name                string `json:"name"`
	CpcBidMicros        Int64  `json:"cpcBidMicros"`
}

// KeywordPlanAdGroupKeyword is a biddable keyword inside a plan ad group.
type KeywordPlanAdGroupKeyword struct {
	KeywordPlanAdGroup string `json:"keywordPlanAdGroup"`
	Text               string `json:"text"`
	MatchType          string `json:"matchType"`
	CpcBidMicros       Int64  `json:"cpcBidMicros"`
}

// GenerateForecastMetricsResponse is returned by KeywordPlanService.GenerateForecastMetrics.
type GenerateForecastMetricsResponse struct {
	CampaignForecasts []KeywordPlanCampaignForecast `json:"campaignForecasts"`
	AdGroupForecasts  []KeywordPlanAdGroupForecast  `json:"adGroupForecasts"`
	KeywordForecasts  []KeywordPlanKeywordForecast  `json:"keywordForecasts"`
}

// KeywordPlanCampaignForecast holds campaign-level totals.
type KeywordPlanCampaignForecast struct {
	KeywordPlanCampaign string          `json:"keywordPlanCampaign"`
	CampaignForecast    ForecastMetrics `json:"campaignForecast"`
}

// KeywordPlanAdGroupForecast holds ad group totals.
type KeywordPlanAdGroupForecast struct {
	KeywordPlanAdGroup string          `json:"keywordPlanAdGroup"`
	AdGroupForecast    ForecastMetrics `json:"adGroupForecast"`
}

// KeywordPlanKeywordForecast holds the forecast of one plan keyword.
type KeywordPlanKeywordForecast struct {
	KeywordPlanAdGroupKeyword string          `json:"keywordPlanAdGroupKeyword"`
	KeywordForecast           ForecastMetrics `json:"keywordForecast"`
}

// ForecastMetrics are the projected traffic figures. AverageCpc and
// CostMicros are in micros.
type ForecastMetrics struct {
	Impressions float64 `json:"impressions"`
	Ctr         float64 `json:"ctr"`
	AverageCpc  Int64   `json:"averageCpc"`
	Clicks      float64 `json:"clicks"`
	CostMicros  Int64   `json:"costMicros"`
}

// GenerateKeywordForecastMetricsRequest is the body of
// KeywordPlanIdeaService.GenerateKeywordForecastMetrics, which forecasts a
// campaign without persisting a keyword plan.
type GenerateKeywordForecastMetricsRequest struct {
	Campaign       CampaignToForecast `json:"campaign"`
	ForecastPeriod *DateRange         `json:"forecastPeriod,omitempty"`
}

// DateRange bounds a forecast. Dates are YYYY-MM-DD.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// CampaignToForecast describes the campaign being forecast.
type CampaignToForecast struct {
	LanguageConstants  []string                `json:"languageConstants,omitempty"`
	GeoModifiers       []CriterionBidModifier  `json:"geoModifiers,omitempty"`
	KeywordPlanNetwork string                  `json:"keywordPlanNetwork"`
	BiddingStrategy    CampaignBiddingStrategy `json:"biddingStrategy"`
	AdGroups           []ForecastAdGroup       `json:"adGroups"`
}

// CriterionBidModifier targets a location.
type CriterionBidModifier struct {
	GeoTargetConstant string `json:"geoTargetConstant"`
}

// CampaignBiddingStrategy holds exactly one bidding strategy.
type CampaignBiddingStrategy struct {
	ManualCpcBiddingStrategy *ManualCpcBiddingStrategy `json:"manualCpcBiddingStrategy,omitempty"`
}

// ManualCpcBiddingStrategy bids a fixed max CPC.
type ManualCpcBiddingStrategy struct {
	MaxCpcBidMicros Int64 `json:"maxCpcBidMicros"`
}

// ForecastAdGroup is an ad group inside a CampaignToForecast.
type ForecastAdGroup struct {
	MaxCpcBidMicros  Int64             `json:"maxCpcBidMicros,omitempty"`
	BiddableKeywords []BiddableKeyword `json:"biddableKeywords"`
}

// BiddableKeyword is a keyword with its bid.
type BiddableKeyword struct {
	Keyword         KeywordInfo `json:"keyword"`
	MaxCpcBidMicros Int64       `json:"maxCpcBidMicros,omitempty"`
}

// KeywordInfo is keyword text and match type.
type KeywordInfo struct {
	Text      string `json:"text"`
	MatchType string `json:"matchType"`
}

// GenerateKeywordForecastMetricsResponse holds the campaign forecast.
type GenerateKeywordForecastMetricsResponse struct {
	CampaignForecastMetrics *KeywordForecastMetrics `json:"campaignForecastMetrics,omitempty"`
}

// KeywordForecastMetrics are the projected figures of a forecast campaign.
// AverageCpcMicros and CostMicros are in micros.
type KeywordForecastMetrics struct {
	Impressions      float64 `json:"impressions"`
	ClickThroughRate float64 `json:"clickThroughRate"`
	AverageCpcMicros Int64   `json:"averageCpcMicros"`
	Clicks           float64 `json:"clicks"`
	CostMicros       Int64   `json:"costMicros"`
}

type mutateRequest[T any] struct {
	Operations []mutateOperation[T] `json:"operations"`
}

type mutateOperation[T any] struct {
	Create *T     `json:"create,omitempty"`
	Remove string `json:"remove,omitempty"`
}

type mutateResponse struct {
	Results []struct {
		ResourceName string `json:"resourceName"`
	} `json:"results"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
