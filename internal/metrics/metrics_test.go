package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAdsRequestOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome string
	}{
		{"success", nil, OutcomeSuccess},
		{"error", errors.New("boom"), OutcomeError},
		{"timeout", fmt.Errorf("call: %w", context.DeadlineExceeded), OutcomeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := "test_" + tt.name
			before := testutil.ToFloat64(adsRequests.WithLabelValues(op, tt.outcome))
			ObserveAdsRequest(op, 10*time.Millisecond, tt.err)
			after := testutil.ToFloat64(adsRequests.WithLabelValues(op, tt.outcome))
			if after-before != 1 {
				t.Errorf("counter delta = %v, want 1", after-before)
			}
		})
	}
}

func TestSetCredentialsValid(t *testing.T) {
	SetCredentialsValid(true)
	if got := testutil.ToFloat64(credentialsValid); got != 1 {
		t.Errorf("gauge = %v, want 1", got)
	}
	SetCredentialsValid(false)
	if got := testutil.ToFloat64(credentialsValid); got != 0 {
		t.Errorf("gauge = %v, want 0", got)
	}
}

func TestRecordKeywordLookupWithoutInit(t *testing.T) {
	// Must be a no-op when no store is configured.
	RecordKeywordLookup("shoes", "ideas")
}
