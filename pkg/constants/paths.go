package constants

// Health and readiness paths, kept in one place for router and deployment manifests.
const (
	PathHealth = "/health"
	PathReady  = "/ready"
)
