package sac_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/minerasur/sac/pkg/sacsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for access control service
 * end-to-end tests: container setup, seeded credentials, assertions.
 */

const (
	testImageName = "sac-test:latest"

	adminRUT      = "11111111-1"
	adminPassword = "Admin123!"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building access control service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up access control service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/sac/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupContainer starts the service in a container and returns the base URL.
// Rate limits are relaxed so rapid test requests never trip them; use
// setupContainerWithDefaultRateLimits to test the limits themselves.
func setupContainer(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, map[string]string{
		"SAC_DATABASE_FILE":      "/tmp/sac.db",
		"SAC_PEPPER_FILE":        "/tmp/pepper",
		"SAC_BOOTSTRAP_RUT":      adminRUT,
		"SAC_BOOTSTRAP_PASSWORD": adminPassword,
		"ENV":                    "test",
		"LOG_LEVEL":              "info",
		"LOG_FORMAT":             "json",
		// Tests make many rapid requests which would otherwise hit the
		// strict production limits
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
		"RATELIMIT_LENIENT_REQUESTS":  "1000",
		"RATELIMIT_LENIENT_BURST":     "1000",
	})
}

// setupContainerWithDefaultRateLimits starts the service with production
// rate limits, for testing that rate limiting actually works.
func setupContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, map[string]string{
		"SAC_DATABASE_FILE":      "/tmp/sac.db",
		"SAC_PEPPER_FILE":        "/tmp/pepper",
		"SAC_BOOTSTRAP_RUT":      adminRUT,
		"SAC_BOOTSTRAP_PASSWORD": adminPassword,
		"ENV":                    "test",
		"LOG_LEVEL":              "info",
		"LOG_FORMAT":             "json",
	})
}

func startContainer(t *testing.T, env map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// loginAdmin authenticates with the seeded administrator credentials.
func loginAdmin(t *testing.T, client *sacsdk.SDKClient) *sacsdk.Session {
	t.Helper()

	session, err := client.Login(t.Context(), adminRUT, adminPassword, "e2e")
	require.NoError(t, err)
	require.NotNil(t, session)
	require.NotEmpty(t, session.Token())
	return session
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *sacsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
