package driving

import "context"

// Component health states.
const (
	ComponentOK          = "ok"
	ComponentUnavailable = "unavailable"
)

// Health reports the state of the optional backends.
type Health struct {
	// Status is "healthy" when every component is ok, "degraded" otherwise.
	Status string `json:"status"`

	// Components maps component name (vector_store, cache,
	// embedding_provider) to its state.
	Components map[string]string `json:"components"`
}

// HealthService probes the optional infrastructure.
type HealthService interface {
	Check(ctx context.Context) Health
}
