package models

// SerpResult is one organic result on a search results page.
type SerpResult struct {
	Position    int      `json:"position"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// SerpFeatureSummary flags the features shown alongside an analysis.
type SerpFeatureSummary struct {
	FeaturedSnippet bool `json:"featuredSnippet"`
	PeopleAlsoAsk   bool `json:"peopleAlsoAsk"`
	LocalPack       bool `json:"localPack"`
	ImageCarousel   bool `json:"imageCarousel"`
}

// SerpFeatures is the full feature set of a results page.
type SerpFeatures struct {
	FeaturedSnippet bool `json:"featuredSnippet"`
	PeopleAlsoAsk   bool `json:"peopleAlsoAsk"`
	KnowledgePanel  bool `json:"knowledgePanel"`
	LocalPack       bool `json:"localPack"`
	ImageCarousel   bool `json:"imageCarousel"`
	VideoCarousel   bool `json:"videoCarousel"`
	TopStories      bool `json:"topStories"`
	RelatedSearches bool `json:"relatedSearches"`
}

// SerpStats counts results by kind.
type SerpStats struct {
	TotalResults   int `json:"totalResults"`
	PaidResults    int `json:"paidResults"`
	OrganicResults int `json:"organicResults"`
}

// SerpAnalysis is the payload of GET /api/serp/analyze.
type SerpAnalysis struct {
	Query    string             `json:"query"`
	Location string             `json:"location"`
	Language string             `json:"language"`
	Results  []SerpResult       `json:"results"`
	Features SerpFeatureSummary `json:"features"`
	Stats    SerpStats          `json:"stats"`
}

// SerpFeaturesData is the payload of GET /api/serp/features.
type SerpFeaturesData struct {
	Query    string       `json:"query"`
	Location string       `json:"location"`
	Features SerpFeatures `json:"features"`
}

// CompetitorMetrics are authority and traffic estimates for a domain.
type CompetitorMetrics struct {
	DomainAuthority int `json:"domainAuthority"`
	PageAuthority   int `json:"pageAuthority"`
	Backlinks       int `json:"backlinks"`
	OrganicTraffic  int `json:"organicTraffic"`
}

// CompetitorContent summarizes a ranking page.
type CompetitorContent struct {
	WordCount int `json:"wordCount"`
	Headings  int `json:"headings"`
	Images    int `json:"images"`
	Videos    int `json:"videos"`
}

// Competitor is a domain ranking for the analyzed keyword.
type Competitor struct {
	Domain   string            `json:"domain"`
	Title    string            `json:"title"`
	Position int               `json:"position"`
	Metrics  CompetitorMetrics `json:"metrics"`
	Content  CompetitorContent `json:"content"`
}

// CompetitorAnalysis is the payload of GET /api/competitors/analyze.
// Keyword and Domain render as null when not supplied.
type CompetitorAnalysis struct {
	Keyword     *string      `json:"keyword"`
	Domain      *string      `json:"domain"`
	Competitors []Competitor `json:"competitors"`
	Count       int          `json:"count"`
	Limit       int          `json:"limit"`
}

// Backlink is a link from another site to the analyzed domain.
type Backlink struct {
	SourceDomain    string `json:"sourceDomain"`
	SourceURL       string `json:"sourceUrl"`
	TargetURL       string `json:"targetUrl"`
	AnchorText      string `json:"anchorText"`
	DomainAuthority int    `json:"domainAuthority"`
	PageAuthority   int    `json:"pageAuthority"`
	IsDoFollow      bool   `json:"isDoFollow"`
}

// BacklinkReport is the payload of GET /api/competitors/backlinks.
type BacklinkReport struct {
	Domain         string     `json:"domain"`
	Backlinks      []Backlink `json:"backlinks"`
	Count          int        `json:"count"`
	Limit          int        `json:"limit"`
	TotalBacklinks int        `json:"totalBacklinks"`
}
