package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyticsCmd_PrintsSummary(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf, err := execute("analytics")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "last 30 days")
	assert.Contains(t, buf.String(), "Total searches:     10")
	assert.Contains(t, buf.String(), "30.0%")
	assert.Contains(t, buf.String(), "chunking")
}

func TestAnalyticsCmd_DaysFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { analyticsDays = 30 }()

	buf, err := execute("analytics", "--days", "7")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "last 7 days")
}

func TestAnalyticsCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { analyticsJSON = false }()

	buf, err := execute("analytics", "--json")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"total_searches"`)
	assert.Contains(t, buf.String(), `"click_through_rate"`)
}

func TestAnalyticsCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	analyticsService = &fakeAnalyticsService{err: errFake}

	_, err := execute("analytics")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "analytics failed")
}
