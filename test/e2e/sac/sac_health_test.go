package sac_test

import (
	"testing"

	"github.com/minerasur/sac/pkg/sacsdk"
)

// TestLivezEndpoint verifies the liveness check endpoint works.
func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := sacsdk.NewSDKClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	t.Logf("Livez endpoint is healthy")
}

// TestReadyzEndpoint verifies the readiness check reports the database.
func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := sacsdk.NewSDKClient(baseURL)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)

	t.Logf("Readyz endpoint is healthy, database: %s", health.Checks.Database)
}
