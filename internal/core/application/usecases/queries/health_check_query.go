package queries

import "context"

const HealthyMessage = "ProofParcel service is healthy"

// HealthCheckQuery asks for the liveness message.
type HealthCheckQuery struct{}

func NewHealthCheckQuery() HealthCheckQuery {
	return HealthCheckQuery{}
}

// HealthCheckQueryHandler answers without touching storage.
type HealthCheckQueryHandler struct{}

func NewHealthCheckQueryHandler() HealthCheckQueryHandler {
	return HealthCheckQueryHandler{}
}

// Handle reports liveness only; it does not touch storage.
func (HealthCheckQueryHandler) Handle(_ context.Context, _ HealthCheckQuery) string {
	return HealthyMessage
}
