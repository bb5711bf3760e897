package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"kwresearch/internal/googleads"
)

// fakeAds records calls and returns canned results.
type fakeAds struct {
	mu sync.Mutex

	ideas     []googleads.GenerateKeywordIdeaResult
	ideasErr  error
	ideasReqs []googleads.GenerateKeywordIdeasRequest
	maxResult []int

	campaignErr error
	keywordErr  map[string]error
	keywordHook func(ctx context.Context, text string) error
	forecast    *googleads.GenerateForecastMetricsResponse
	forecastErr error

	// inline forecasts keyed by the comma-joined keyword texts
	inline     map[string]*googleads.KeywordForecastMetrics
	inlineErr  error
	inlineReqs []googleads.GenerateKeywordForecastMetricsRequest

	plans     []googleads.KeywordPlan
	campaigns []googleads.KeywordPlanCampaign
	adGroups  []googleads.KeywordPlanAdGroup
	keywords  []googleads.KeywordPlanAdGroupKeyword
	forecasts []string
	removed   []string
}

func (f *fakeAds) GenerateKeywordIdeas(ctx context.Context, req googleads.GenerateKeywordIdeasRequest, maxResults int) ([]googleads.GenerateKeywordIdeaResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ideasReqs = append(f.ideasReqs, req)
	f.maxResult = append(f.maxResult, maxResults)
	return f.ideas, f.ideasErr
}

func (f *fakeAds) CreateKeywordPlan(ctx context.Context, plan googleads.KeywordPlan) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans = append(f.plans, plan)
	return "customers/1/keywordPlans/10", nil
}

func (f *fakeAds) CreateKeywordPlanCampaign(ctx context.Context, campaign googleads.KeywordPlanCampaign) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.campaigns = append(f.campaigns, campaign)
	if f.campaignErr != nil {
		return "", f.campaignErr
	}
	return "customers/1/keywordPlanCampaigns/20", nil
}

func (f *fakeAds) CreateKeywordPlanAdGroup(ctx context.Context, adGroup googleads.KeywordPlanAdGroup) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adGroups = append(f.adGroups, adGroup)
	return "customers/1/keywordPlanAdGroups/30", nil
}

func (f *fakeAds) CreateKeywordPlanAdGroupKeyword(ctx context.Context, keyword googleads.KeywordPlanAdGroupKeyword) (string, error) {
	// The hook runs unlocked so it can block on other creates.
	var hookErr error
	if f.keywordHook != nil {
		hookErr = f.keywordHook(ctx, keyword.Text)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.keywords = append(f.keywords, keyword)
	if hookErr != nil {
		return "", hookErr
	}
	if err := f.keywordErr[keyword.Text]; err != nil {
		return "", err
	}
	return "customers/1/keywordPlanAdGroupKeywords/" + strings.ReplaceAll(keyword.Text, " ", "-"), nil
}

func (f *fakeAds) GenerateForecastMetrics(ctx context.Context, resourceName string) (*googleads.GenerateForecastMetricsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forecasts = append(f.forecasts, resourceName)
	return f.forecast, f.forecastErr
}

func (f *fakeAds) GenerateKeywordForecastMetrics(ctx context.Context, req googleads.GenerateKeywordForecastMetricsRequest) (*googleads.GenerateKeywordForecastMetricsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inlineReqs = append(f.inlineReqs, req)
	if f.inlineErr != nil {
		return nil, f.inlineErr
	}
	var texts []string
	for _, ag := range req.Campaign.AdGroups {
		for _, kw := range ag.BiddableKeywords {
			texts = append(texts, kw.Keyword.Text)
		}
	}
	return &googleads.GenerateKeywordForecastMetricsResponse{
		CampaignForecastMetrics: f.inline[strings.Join(texts, ",")],
	}, nil
}

func (f *fakeAds) RemoveKeywordPlan(ctx context.Context, resourceName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, resourceName)
	return nil
}

func ideas(n int) []googleads.GenerateKeywordIdeaResult {
	out := make([]googleads.GenerateKeywordIdeaResult, n)
	for i := range out {
		out[i] = googleads.GenerateKeywordIdeaResult{Text: fmt.Sprintf("idea %d", i)}
	}
	return out
}

func TestGenerateKeywordIdeasTruncatesWithoutReordering(t *testing.T) {
	ads := &fakeAds{ideas: ideas(80)}
	s := New(ads)

	got, err := s.GenerateKeywordIdeas(context.Background(), "shoes", "", nil, 0)
	if err != nil {
		t.Fatalf("GenerateKeywordIdeas() error = %v", err)
	}
	if len(got) != DefaultLimit {
		t.Fatalf("got %d ideas, want %d", len(got), DefaultLimit)
	}
	for i, idea := range got {
		if want := fmt.Sprintf("idea %d", i); idea.Keyword != want {
			t.Fatalf("idea[%d] = %q, want %q", i, idea.Keyword, want)
		}
	}

	got, err = s.GenerateKeywordIdeas(context.Background(), "shoes", "en", []int64{2840}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 || got[4].Keyword != "idea 4" {
		t.Errorf("limit 5 returned %d ideas ending with %q", len(got), got[len(got)-1].Keyword)
	}
	if ads.maxResult[1] != 5 {
		t.Errorf("maxResults passed to client = %d, want 5", ads.maxResult[1])
	}
}

func TestGenerateKeywordIdeasDefaults(t *testing.T) {
	ads := &fakeAds{}
	s := New(ads)

	if _, err := s.GenerateKeywordIdeas(context.Background(), "shoes", "", nil, 10); err != nil {
		t.Fatal(err)
	}

	req := ads.ideasReqs[0]
	if req.Language != "languageConstants/1000" {
		t.Errorf("language = %q, want English", req.Language)
	}
	if len(req.GeoTargetConstants) != 1 || req.GeoTargetConstants[0] != "geoTargetConstants/2250" {
		t.Errorf("geo targets = %v, want [geoTargetConstants/2250]", req.GeoTargetConstants)
	}
	if req.KeywordPlanNetwork != googleads.NetworkGoogleSearchAndPartner {
		t.Errorf("network = %q", req.KeywordPlanNetwork)
	}
	if req.KeywordSeed == nil || len(req.KeywordSeed.Keywords) != 1 || req.KeywordSeed.Keywords[0] != "shoes" {
		t.Errorf("seed = %+v", req.KeywordSeed)
	}
}

func TestKeywordMetricsMapping(t *testing.T) {
	ads := &fakeAds{ideas: []googleads.GenerateKeywordIdeaResult{
		{
			Text: "running shoes",
			KeywordIdeaMetrics: &googleads.KeywordPlanHistoricalMetrics{
				AvgMonthlySearches:     12000,
				Competition:            googleads.CompetitionHigh,
				CompetitionIndex:       91,
				LowTopOfPageBidMicros:  1_000_000,
				HighTopOfPageBidMicros: 2_350_000,
			},
		},
		{Text: "no metrics"},
		{Text: "empty metrics", KeywordIdeaMetrics: &googleads.KeywordPlanHistoricalMetrics{}},
	}}
	s := New(ads)

	got, err := s.GetKeywordMetrics(context.Background(), []string{"running shoes", "trail shoes"}, "fr", []int64{2250, 2276})
	if err != nil {
		t.Fatalf("GetKeywordMetrics() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3 (no truncation)", len(got))
	}

	first := got[0]
	if first.AvgMonthlySearches != 12000 || first.Competition != "HIGH" || first.CompetitionIndex != 91 {
		t.Errorf("first = %+v", first)
	}
	if first.LowTopOfPageBidMicros != 1.0 {
		t.Errorf("low bid = %v, want 1.0", first.LowTopOfPageBidMicros)
	}
	if first.HighTopOfPageBidMicros != 2.35 {
		t.Errorf("high bid = %v, want 2.35", first.HighTopOfPageBidMicros)
	}

	for _, idea := range got[1:] {
		if idea.Competition != "UNKNOWN" || idea.AvgMonthlySearches != 0 || idea.LowTopOfPageBidMicros != 0 {
			t.Errorf("missing metrics not defaulted: %+v", idea)
		}
	}

	req := ads.ideasReqs[0]
	if req.Language != "languageConstants/1002" || len(req.GeoTargetConstants) != 2 {
		t.Errorf("request = %+v", req)
	}
	if len(req.KeywordSeed.Keywords) != 2 {
		t.Errorf("seed keywords = %v", req.KeywordSeed.Keywords)
	}
}

func TestKeywordIdeasErrorWrapped(t *testing.T) {
	cause := errors.New("quota exceeded")
	s := New(&fakeAds{ideasErr: cause})

	_, err := s.GenerateKeywordIdeas(context.Background(), "shoes", "", nil, 0)
	if !errors.Is(err, cause) {
		t.Fatalf("error = %v, want wrapped cause", err)
	}
	if !strings.HasPrefix(err.Error(), "failed to generate keyword ideas: ") {
		t.Errorf("error = %q", err)
	}
}

func TestMicrosToUnits(t *testing.T) {
	tests := map[int64]float64{
		0:         0,
		1_000_000: 1.0,
		2_500_000: 2.5,
		10_000:    0.01,
	}
	for micros, want := range tests {
		if got := MicrosToUnits(micros); got != want {
			t.Errorf("MicrosToUnits(%d) = %v, want %v", micros, got, want)
		}
	}
}

func TestGetHistoricalMetricsProvisionsAndRemovesPlan(t *testing.T) {
	ads := &fakeAds{forecast: &googleads.GenerateForecastMetricsResponse{
		CampaignForecasts: []googleads.KeywordPlanCampaignForecast{{
			KeywordPlanCampaign: "customers/1/keywordPlanCampaigns/20",
			CampaignForecast:    googleads.ForecastMetrics{Impressions: 300, Clicks: 12, CostMicros: 9_000_000},
		}},
		KeywordForecasts: []googleads.KeywordPlanKeywordForecast{
			{
				KeywordPlanAdGroupKeyword: "customers/1/keywordPlanAdGroupKeywords/running-shoes",
				KeywordForecast:           googleads.ForecastMetrics{Impressions: 200, Clicks: 8, Ctr: 0.04, AverageCpc: 750_000, CostMicros: 6_000_000},
			},
			{
				KeywordPlanAdGroupKeyword: "customers/1/keywordPlanAdGroupKeywords/boots",
				KeywordForecast:           googleads.ForecastMetrics{Impressions: 100, Clicks: 4},
			},
		},
	}}
	s := New(ads)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	got, err := s.GetHistoricalMetrics(context.Background(), []string{"running shoes", "boots"}, "", nil)
	if err != nil {
		t.Fatalf("GetHistoricalMetrics() error = %v", err)
	}

	if ads.plans[0].Name != "Keyword Plan 1700000000000" {
		t.Errorf("plan name = %q", ads.plans[0].Name)
	}
	campaign := ads.campaigns[0]
	if campaign.KeywordPlan != "customers/1/keywordPlans/10" || campaign.CpcBidMicros != 1_000_000 {
		t.Errorf("campaign = %+v", campaign)
	}
	if len(campaign.GeoTargets) != 1 || campaign.GeoTargets[0].GeoTargetConstant != "geoTargetConstants/2250" {
		t.Errorf("geo targets = %+v", campaign.GeoTargets)
	}
	if len(campaign.LanguageConstants) != 1 || campaign.LanguageConstants[0] != "languageConstants/1000" {
		t.Errorf("languages = %v", campaign.LanguageConstants)
	}
	if ads.adGroups[0].KeywordPlanCampaign != "customers/1/keywordPlanCampaigns/20" {
		t.Errorf("ad group = %+v", ads.adGroups[0])
	}
	if len(ads.keywords) != 2 {
		t.Errorf("created %d keywords, want 2", len(ads.keywords))
	}
	for _, kw := range ads.keywords {
		if kw.KeywordPlanAdGroup != "customers/1/keywordPlanAdGroups/30" || kw.CpcBidMicros != 1_000_000 {
			t.Errorf("keyword = %+v", kw)
		}
	}
	if len(ads.removed) != 1 || ads.removed[0] != "customers/1/keywordPlans/10" {
		t.Errorf("removed = %v, want the plan", ads.removed)
	}

	if got.KeywordPlan != "customers/1/keywordPlans/10" {
		t.Errorf("KeywordPlan = %q", got.KeywordPlan)
	}
	if got.Campaign == nil || got.Campaign.Cost != 9 {
		t.Errorf("campaign totals = %+v", got.Campaign)
	}
	if len(got.Forecasts) != 2 {
		t.Fatalf("forecasts = %+v", got.Forecasts)
	}
	first := got.Forecasts[0]
	if first.Keyword != "running shoes" || first.AverageCpc != 0.75 || first.Cost != 6 {
		t.Errorf("first forecast = %+v", first)
	}
	if got.Forecasts[1].Keyword != "boots" {
		t.Errorf("second forecast keyword = %q", got.Forecasts[1].Keyword)
	}
}

func TestGetHistoricalMetricsKeywordFailureSkipsRemoval(t *testing.T) {
	cause := errors.New("keyword rejected")
	ads := &fakeAds{keywordErr: map[string]error{"bad keyword": cause}}
	s := New(ads)

	_, err := s.GetHistoricalMetrics(context.Background(), []string{"good keyword", "bad keyword"}, "en", []int64{2250})
	if !errors.Is(err, cause) {
		t.Fatalf("error = %v, want wrapped cause", err)
	}
	if !strings.HasPrefix(err.Error(), "failed to get historical metrics: ") {
		t.Errorf("error = %q", err)
	}

	// The plan is never removed when the keyword fan-out fails.
	if len(ads.removed) != 0 {
		t.Errorf("removed = %v, want no removal", ads.removed)
	}
	if len(ads.forecasts) != 0 {
		t.Errorf("forecast requested after failed fan-out")
	}
	if len(ads.plans) != 1 {
		t.Errorf("plans created = %d, want 1", len(ads.plans))
	}
}

func TestGetHistoricalMetricsEarlyFailureSkipsRemoval(t *testing.T) {
	ads := &fakeAds{campaignErr: errors.New("campaign failed")}
	s := New(ads)

	if _, err := s.GetHistoricalMetrics(context.Background(), []string{"shoes"}, "", nil); err == nil {
		t.Fatal("expected error")
	}
	if len(ads.adGroups) != 0 || len(ads.keywords) != 0 {
		t.Error("provisioning continued after campaign failure")
	}
	if len(ads.removed) != 0 {
		t.Errorf("removed = %v, want no removal", ads.removed)
	}
}

func TestGetHistoricalMetricsForecastFailureSkipsRemoval(t *testing.T) {
	ads := &fakeAds{forecastErr: errors.New("forecast failed")}
	s := New(ads)

	if _, err := s.GetHistoricalMetrics(context.Background(), []string{"shoes"}, "", nil); err == nil {
		t.Fatal("expected error")
	}
	if len(ads.removed) != 0 {
		t.Errorf("removed = %v, want no removal", ads.removed)
	}
}

func TestGetHistoricalMetricsKeywordFailureLetsSiblingsFinish(t *testing.T) {
	cause := errors.New("keyword rejected")
	failed := make(chan struct{})
	var siblingErr error
	ads := &fakeAds{keywordHook: func(ctx context.Context, text string) error {
		if text == "bad keyword" {
			close(failed)
			return cause
		}
		<-failed
		time.Sleep(50 * time.Millisecond)
		siblingErr = ctx.Err()
		return nil
	}}
	s := New(ads)

	_, err := s.GetHistoricalMetrics(context.Background(), []string{"slow keyword", "bad keyword"}, "en", nil)
	if !errors.Is(err, cause) {
		t.Fatalf("error = %v, want wrapped cause", err)
	}
	if siblingErr != nil {
		t.Errorf("sibling create saw %v after another keyword failed", siblingErr)
	}
	if len(ads.keywords) != 2 {
		t.Errorf("created %d keywords, want 2", len(ads.keywords))
	}
}

func TestGetHistoricalMetricsFallsBackToInlineForecast(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"bare 404", &googleads.APIError{StatusCode: 404, Message: "Not Found"}},
		{"unimplemented", &googleads.APIError{StatusCode: 501, Status: "UNIMPLEMENTED", Message: "removed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ads := &fakeAds{
				forecastErr: tt.err,
				inline: map[string]*googleads.KeywordForecastMetrics{
					"running shoes,boots": {Impressions: 300, Clicks: 12, CostMicros: 9_000_000},
					"running shoes":       {Impressions: 200, Clicks: 8, ClickThroughRate: 0.04, AverageCpcMicros: 750_000, CostMicros: 6_000_000},
					"boots":               {Impressions: 100, Clicks: 4},
				},
			}
			s := New(ads)
			s.now = func() time.Time { return time.Date(2026, time.December, 15, 10, 0, 0, 0, time.UTC) }

			got, err := s.GetHistoricalMetrics(context.Background(), []string{"running shoes", "boots"}, "fr", []int64{2250, 2276})
			if err != nil {
				t.Fatalf("GetHistoricalMetrics() error = %v", err)
			}

			if len(ads.inlineReqs) != 3 {
				t.Fatalf("inline forecast calls = %d, want 3", len(ads.inlineReqs))
			}
			req := ads.inlineReqs[0]
			if req.ForecastPeriod == nil || req.ForecastPeriod.StartDate != "2027-01-01" || req.ForecastPeriod.EndDate != "2027-01-31" {
				t.Errorf("forecast period = %+v", req.ForecastPeriod)
			}
			campaign := req.Campaign
			if len(campaign.LanguageConstants) != 1 || campaign.LanguageConstants[0] != "languageConstants/1002" {
				t.Errorf("languages = %v", campaign.LanguageConstants)
			}
			if len(campaign.GeoModifiers) != 2 || campaign.GeoModifiers[1].GeoTargetConstant != "geoTargetConstants/2276" {
				t.Errorf("geo modifiers = %+v", campaign.GeoModifiers)
			}
			if bid := campaign.BiddingStrategy.ManualCpcBiddingStrategy; bid == nil || bid.MaxCpcBidMicros != 1_000_000 {
				t.Errorf("bidding strategy = %+v", campaign.BiddingStrategy)
			}

			if len(ads.removed) != 1 || ads.removed[0] != "customers/1/keywordPlans/10" {
				t.Errorf("removed = %v, want the plan", ads.removed)
			}
			if got.KeywordPlan != "customers/1/keywordPlans/10" {
				t.Errorf("KeywordPlan = %q", got.KeywordPlan)
			}
			if got.Campaign == nil || got.Campaign.Impressions != 300 || got.Campaign.Cost != 9 {
				t.Errorf("campaign totals = %+v", got.Campaign)
			}
			if len(got.Forecasts) != 2 {
				t.Fatalf("forecasts = %+v", got.Forecasts)
			}
			first := got.Forecasts[0]
			if first.Keyword != "running shoes" || first.AverageCpc != 0.75 || first.Cost != 6 || first.Ctr != 0.04 {
				t.Errorf("first forecast = %+v", first)
			}
			if second := got.Forecasts[1]; second.Keyword != "boots" || second.Impressions != 100 {
				t.Errorf("second forecast = %+v", second)
			}
		})
	}
}

func TestGetHistoricalMetricsInlineForecastFailureSkipsRemoval(t *testing.T) {
	cause := errors.New("quota exceeded")
	ads := &fakeAds{
		forecastErr: &googleads.APIError{StatusCode: 404, Message: "Not Found"},
		inlineErr:   cause,
	}
	s := New(ads)

	_, err := s.GetHistoricalMetrics(context.Background(), []string{"shoes"}, "", nil)
	if !errors.Is(err, cause) {
		t.Fatalf("error = %v, want wrapped cause", err)
	}
	if len(ads.removed) != 0 {
		t.Errorf("removed = %v, want no removal", ads.removed)
	}
}

func TestGetHistoricalMetricsMissingPlanDoesNotFallBack(t *testing.T) {
	ads := &fakeAds{forecastErr: &googleads.APIError{StatusCode: 404, Status: "NOT_FOUND", Message: "plan not found"}}
	s := New(ads)

	if _, err := s.GetHistoricalMetrics(context.Background(), []string{"shoes"}, "", nil); err == nil {
		t.Fatal("expected error")
	}
	if len(ads.inlineReqs) != 0 {
		t.Errorf("inline forecast called %d times for a missing plan", len(ads.inlineReqs))
	}
}
