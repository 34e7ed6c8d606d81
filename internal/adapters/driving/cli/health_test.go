package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
)

func TestHealthCmd_AllComponentsUp(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf, err := execute("health")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Status: healthy")
	assert.Contains(t, buf.String(), "vector_store")
	assert.Contains(t, buf.String(), "embedding_provider")
}

func TestHealthCmd_Degraded(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	healthService = &fakeHealthService{
		health: driving.Health{
			Status: "degraded",
			Components: map[string]string{
				"vector_store":       driving.ComponentUnavailable,
				"cache":              driving.ComponentOK,
				"embedding_provider": driving.ComponentOK,
			},
		},
	}

	buf, err := execute("health")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Status: degraded")
	assert.Contains(t, buf.String(), driving.ComponentUnavailable)
}

func TestHealthCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { healthJSON = false }()

	buf, err := execute("health", "--json")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"status"`)
	assert.Contains(t, buf.String(), `"components"`)
}
