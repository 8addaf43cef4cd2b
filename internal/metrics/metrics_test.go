// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveProvider(t *testing.T) {
	ok := ProviderRequests.WithLabelValues("metrics-test", OutcomeOK)
	fb := ProviderRequests.WithLabelValues("metrics-test", OutcomeFallback)
	beforeOK, beforeFB := testutil.ToFloat64(ok), testutil.ToFloat64(fb)

	ObserveProvider("metrics-test", OutcomeOK, time.Now().Add(-50*time.Millisecond))
	ObserveProvider("metrics-test", OutcomeFallback, time.Now())
	ObserveProvider("metrics-test", OutcomeFallback, time.Now())

	assert.Equal(t, beforeOK+1, testutil.ToFloat64(ok))
	assert.Equal(t, beforeFB+2, testutil.ToFloat64(fb))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(ProviderDuration, "civic_search_provider_duration_seconds"), 1)
}
