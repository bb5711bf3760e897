// Package planner adapts the Google Ads Keyword Planner to the flat
// keyword research shapes served by the API.
package planner

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"kwresearch/internal/googleads"
	"kwresearch/internal/logging"
	"kwresearch/internal/models"
)

// Defaults applied when a request leaves them out.
const (
	DefaultLanguage = "en"
	DefaultLimit    = 50
)

// DefaultLocations is the geo target list used when none is given.
var DefaultLocations = []int64{2250}

// Every plan entity is created with a 1.00 max CPC.
const planCpcBidMicros = 1_000_000

const keywordMatchType = "BROAD"

const microsPerUnit = 1_000_000

// AdsClient is the subset of the Google Ads client the planner needs.
type AdsClient interface {
	GenerateKeywordIdeas(ctx context.Context, req googleads.GenerateKeywordIdeasRequest, maxResults int) ([]googleads.GenerateKeywordIdeaResult, error)
	CreateKeywordPlan(ctx context.Context, plan googleads.KeywordPlan) (string, error)
	CreateKeywordPlanCampaign(ctx context.Context, campaign googleads.KeywordPlanCampaign) (string, error)
	CreateKeywordPlanAdGroup(ctx context.Context, adGroup googleads.KeywordPlanAdGroup) (string, error)
	CreateKeywordPlanAdGroupKeyword(ctx context.Context, keyword googleads.KeywordPlanAdGroupKeyword) (string, error)
	GenerateForecastMetrics(ctx context.Context, resourceName string) (*googleads.GenerateForecastMetricsResponse, error)
	GenerateKeywordForecastMetrics(ctx context.Context, req googleads.GenerateKeywordForecastMetricsRequest) (*googleads.GenerateKeywordForecastMetricsResponse, error)
	RemoveKeywordPlan(ctx context.Context, resourceName string) error
}

// Service runs keyword research operations against the Keyword Planner.
type Service struct {
	ads AdsClient
	now func() time.Time
}

// New creates a planner service backed by ads.
func New(ads AdsClient) *Service {
	return &Service{ads: ads, now: time.Now}
}

// GenerateKeywordIdeas returns up to limit ideas for a single seed keyword,
// in the order the API returned them.
func (s *Service) GenerateKeywordIdeas(ctx context.Context, keyword, language string, locations []int64, limit int) ([]models.KeywordIdea, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	results, err := s.ads.GenerateKeywordIdeas(ctx, ideasRequest([]string{keyword}, language, locations), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to generate keyword ideas: %w", err)
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return toKeywordIdeas(results), nil
}

// GetKeywordMetrics returns volume and bid metrics for keywords and the
// related ideas the API adds to them.
func (s *Service) GetKeywordMetrics(ctx context.Context, keywords []string, language string, locations []int64) ([]models.KeywordIdea, error) {
	results, err := s.ads.GenerateKeywordIdeas(ctx, ideasRequest(keywords, language, locations), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get keyword metrics: %w", err)
	}
	return toKeywordIdeas(results), nil
}

// GetHistoricalMetrics builds a temporary keyword plan holding keywords,
// forecasts it and deletes the plan. API versions that no longer forecast
// plans get the same forecast from inline campaigns. When a step after plan creation fails
// the plan is left in the account.
func (s *Service) GetHistoricalMetrics(ctx context.Context, keywords []string, language string, locations []int64) (*models.HistoricalMetrics, error) {
	metrics, err := s.historicalMetrics(ctx, keywords, language, locations)
	if err != nil {
		return nil, fmt.Errorf("failed to get historical metrics: %w", err)
	}
	return metrics, nil
}

func (s *Service) historicalMetrics(ctx context.Context, keywords []string, language string, locations []int64) (*models.HistoricalMetrics, error) {
	if language == "" {
		language = DefaultLanguage
	}
	if len(locations) == 0 {
		locations = DefaultLocations
	}

	plan, err := s.ads.CreateKeywordPlan(ctx, googleads.KeywordPlan{
		Name:           "Keyword Plan " + strconv.FormatInt(s.now().UnixMilli(), 10),
		ForecastPeriod: &googleads.KeywordPlanForecastPeriod{DateInterval: "NEXT_MONTH"},
	})
	if err != nil {
		return nil, err
	}

	log := logging.With("planner")
	leaked := func(step string, err error) error {
		log.Warn().Err(err).Str("keyword_plan", plan).Str("step", step).Msg("keyword plan left behind")
		return err
	}

	geoTargets := make([]googleads.KeywordPlanGeoTarget, len(locations))
	for i, id := range locations {
		geoTargets[i] = googleads.KeywordPlanGeoTarget{GeoTargetConstant: googleads.GeoTargetConstant(id)}
	}

	campaign, err := s.ads.CreateKeywordPlanCampaign(ctx, googleads.KeywordPlanCampaign{
		KeywordPlan:        plan,
		Name:               "Keyword Plan Campaign",
		CpcBidMicros:       planCpcBidMicros,
		KeywordPlanNetwork: googleads.NetworkGoogleSearch,
		GeoTargets:         geoTargets,
		LanguageConstants:  []string{googleads.LanguageConstant(language)},
	})
	if err != nil {
		return nil, leaked("campaign", err)
	}

	adGroup, err := s.ads.CreateKeywordPlanAdGroup(ctx, googleads.KeywordPlanAdGroup{
		KeywordPlanCampaign: campaign,
		Name:                "Keyword Plan Ad Group",
		CpcBidMicros:        planCpcBidMicros,
	})
	if err != nil {
		return nil, leaked("ad_group", err)
	}

	// Keyword creates run to completion even when one fails, so every
	// keyword the API accepted is in the plan left behind.
	created := make([]string, len(keywords))
	var g errgroup.Group
	for i, keyword := range keywords {
		g.Go(func() error {
			name, err := s.ads.CreateKeywordPlanAdGroupKeyword(ctx, googleads.KeywordPlanAdGroupKeyword{
				KeywordPlanAdGroup: adGroup,
				Text:               keyword,
				MatchType:          keywordMatchType,
				CpcBidMicros:       planCpcBidMicros,
			})
			created[i] = name
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, leaked("keywords", err)
	}

	metrics, err := s.planForecast(ctx, plan, created, keywords)
	if googleads.IsUnimplemented(err) {
		log.Info().Str("keyword_plan", plan).Msg("plan forecasts not served by this API version, forecasting inline")
		metrics, err = s.inlineForecast(ctx, plan, keywords, language, locations)
	}
	if err != nil {
		return nil, leaked("forecast", err)
	}

	if err := s.ads.RemoveKeywordPlan(ctx, plan); err != nil {
		return nil, leaked("remove", err)
	}
	return metrics, nil
}

func (s *Service) planForecast(ctx context.Context, plan string, created, keywords []string) (*models.HistoricalMetrics, error) {
	forecast, err := s.ads.GenerateForecastMetrics(ctx, plan)
	if err != nil {
		return nil, err
	}

	texts := make(map[string]string, len(keywords))
	for i, name := range created {
		texts[name] = keywords[i]
	}
	return toHistoricalMetrics(plan, forecast, texts), nil
}

// inlineForecast forecasts through GenerateKeywordForecastMetrics for API
// versions without plan forecasts. One campaign holding every keyword gives
// the totals and one campaign per keyword gives each keyword's forecast.
func (s *Service) inlineForecast(ctx context.Context, plan string, keywords []string, language string, locations []int64) (*models.HistoricalMetrics, error) {
	period := nextMonth(s.now())
	out := &models.HistoricalMetrics{
		KeywordPlan: plan,
		Forecasts:   make([]models.KeywordForecast, len(keywords)),
	}

	var g errgroup.Group
	g.Go(func() error {
		resp, err := s.ads.GenerateKeywordForecastMetrics(ctx, forecastRequest(keywords, language, locations, period))
		if err != nil {
			return err
		}
		if resp.CampaignForecastMetrics != nil {
			totals := toKeywordForecastMetrics(resp.CampaignForecastMetrics)
			out.Campaign = &totals
		}
		return nil
	})
	for i, keyword := range keywords {
		g.Go(func() error {
			resp, err := s.ads.GenerateKeywordForecastMetrics(ctx, forecastRequest([]string{keyword}, language, locations, period))
			if err != nil {
				return err
			}
			out.Forecasts[i] = models.KeywordForecast{
				Keyword:         keyword,
				ForecastMetrics: toKeywordForecastMetrics(resp.CampaignForecastMetrics),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func forecastRequest(keywords []string, language string, locations []int64, period *googleads.DateRange) googleads.GenerateKeywordForecastMetricsRequest {
	geo := make([]googleads.CriterionBidModifier, len(locations))
	for i, id := range locations {
		geo[i] = googleads.CriterionBidModifier{GeoTargetConstant: googleads.GeoTargetConstant(id)}
	}
	biddable := make([]googleads.BiddableKeyword, len(keywords))
	for i, keyword := range keywords {
		biddable[i] = googleads.BiddableKeyword{
			Keyword:         googleads.KeywordInfo{Text: keyword, MatchType: keywordMatchType},
			MaxCpcBidMicros: planCpcBidMicros,
		}
	}
	return googleads.GenerateKeywordForecastMetricsRequest{
		Campaign: googleads.CampaignToForecast{
			LanguageConstants:  []string{googleads.LanguageConstant(language)},
			GeoModifiers:       geo,
			KeywordPlanNetwork: googleads.NetworkGoogleSearch,
			BiddingStrategy: googleads.CampaignBiddingStrategy{
				ManualCpcBiddingStrategy: &googleads.ManualCpcBiddingStrategy{MaxCpcBidMicros: planCpcBidMicros},
			},
			AdGroups: []googleads.ForecastAdGroup{{BiddableKeywords: biddable}},
		},
		ForecastPeriod: period,
	}
}

// nextMonth spans the calendar month after t, matching the NEXT_MONTH
// interval plans are created with.
func nextMonth(t time.Time) *googleads.DateRange {
	first := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return &googleads.DateRange{
		StartDate: first.Format(time.DateOnly),
		EndDate:   last.Format(time.DateOnly),
	}
}

func ideasRequest(keywords []string, language string, locations []int64) googleads.GenerateKeywordIdeasRequest {
	if language == "" {
		language = DefaultLanguage
	}
	if len(locations) == 0 {
		locations = DefaultLocations
	}
	return googleads.GenerateKeywordIdeasRequest{
		Language:           googleads.LanguageConstant(language),
		GeoTargetConstants: googleads.GeoTargetConstants(locations),
		KeywordPlanNetwork: googleads.NetworkGoogleSearchAndPartner,
		KeywordSeed:        &googleads.KeywordSeed{Keywords: keywords},
	}
}
