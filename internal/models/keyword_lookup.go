package models

import "time"

// Keyword lookup operation constants
const (
	OperationIdeas      = "ideas"
	OperationMetrics    = "metrics"
	OperationHistorical = "historical"
)

// KeywordLookup represents a per-keyword research count by operation.
type KeywordLookup struct {
	Keyword    string    `json:"keyword"`
	Operation  string    `json:"operation"`
	Count      int64     `json:"count"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}
