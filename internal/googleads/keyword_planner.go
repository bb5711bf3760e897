package googleads

import (
	"context"
	"fmt"
)

// GenerateKeywordIdeas returns ideas for req, following page tokens until
// the results run out or maxResults is reached (0 means no cap).
func (c *Client) GenerateKeywordIdeas(ctx context.Context, req GenerateKeywordIdeasRequest, maxResults int) ([]GenerateKeywordIdeaResult, error) {
	var results []GenerateKeywordIdeaResult
	path := c.customerPath(":generateKeywordIdeas")

	for {
		var page GenerateKeywordIdeaResponse
		if err := c.post(ctx, "generate_keyword_ideas", path, req, &page); err != nil {
			return nil, err
		}
		results = append(results, page.Results...)

		if page.NextPageToken == "" || (maxResults > 0 && len(results) >= maxResults) {
			return results, nil
		}
		req.PageToken = page.NextPageToken
	}
}

// CreateKeywordPlan creates a plan and returns its resource name.
func (c *Client) CreateKeywordPlan(ctx context.Context, plan KeywordPlan) (string, error) {
	return create(ctx, c, "create_keyword_plan", "/keywordPlans:mutate", plan)
}

// CreateKeywordPlanCampaign creates a plan campaign and returns its resource name.
func (c *Client) CreateKeywordPlanCampaign(ctx context.Context, campaign KeywordPlanCampaign) (string, error) {
	return create(ctx, c, "create_keyword_plan_campaign", "/keywordPlanCampaigns:mutate", campaign)
}

// CreateKeywordPlanAdGroup creates a plan ad group and returns its resource name.
func (c *Client) CreateKeywordPlanAdGroup(ctx context.Context, adGroup KeywordPlanAdGroup) (string, error) {
	return create(ctx, c, "create_keyword_plan_ad_group", "/keywordPlanAdGroups:mutate", adGroup)
}

// CreateKeywordPlanAdGroupKeyword creates a plan keyword and returns its resource name.
func (c *Client) CreateKeywordPlanAdGroupKeyword(ctx context.Context, keyword KeywordPlanAdGroupKeyword) (string, error) {
	return create(ctx, c, "create_keyword_plan_keyword", "/keywordPlanAdGroupKeywords:mutate", keyword)
}

// GenerateForecastMetrics forecasts traffic for the plan at resourceName.
func (c *Client) GenerateForecastMetrics(ctx context.Context, resourceName string) (*GenerateForecastMetricsResponse, error) {
	var resp GenerateForecastMetricsResponse
	if err := c.post(ctx, "generate_forecast_metrics", resourceName+":generateForecastMetrics", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateKeywordForecastMetrics forecasts a campaign described inline,
// without creating a keyword plan.
func (c *Client) GenerateKeywordForecastMetrics(ctx context.Context, req GenerateKeywordForecastMetricsRequest) (*GenerateKeywordForecastMetricsResponse, error) {
	var resp GenerateKeywordForecastMetricsResponse
	if err := c.post(ctx, "generate_keyword_forecast_metrics", c.customerPath(":generateKeywordForecastMetrics"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveKeywordPlan deletes a plan along with its campaigns, ad groups and keywords.
func (c *Client) RemoveKeywordPlan(ctx context.Context, resourceName string) error {
	body := mutateRequest[KeywordPlan]{
		Operations: []mutateOperation[KeywordPlan]{{Remove: resourceName}},
	}
	return c.post(ctx, "remove_keyword_plan", c.customerPath("/keywordPlans:mutate"), body, nil)
}

func create[T any](ctx context.Context, c *Client, operation, suffix string, resource T) (string, error) {
	body := mutateRequest[T]{
		Operations: []mutateOperation[T]{{Create: &resource}},
	}
	var resp mutateResponse
	if err := c.post(ctx, operation, c.customerPath(suffix), body, &resp); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 || resp.Results[0].ResourceName == "" {
		return "", fmt.Errorf("%s: %w", operation, ErrEmptyMutateResult)
	}
	return resp.Results[0].ResourceName, nil
}
