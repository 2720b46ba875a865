package lib

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	sdklib "github.com/slok/tellah/pkg/lib"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	APIKey string
	Model  string
}

// NewConfig loads the Gemini integration test configuration from environment variables.
// If the activation env var or the API key are not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "TELLAH_INTEGRATION"
		envAPIKey     = "GOOGLE_AI_API_KEY"
		envModel      = "TELLAH_INTEGRATION_MODEL"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		APIKey: os.Getenv(envAPIKey),
		Model:  os.Getenv(envModel),
	}
	if c.APIKey == "" {
		t.Skipf("Skipping integration test: %s is not set", envAPIKey)
	}

	return c
}

// NewClient returns an SDK client that uses the real Gemini API and a temp database.
func NewClient(t *testing.T, config Config) *sdklib.Client {
	t.Helper()

	client, err := sdklib.New(context.Background(), sdklib.Config{
		DBPath:    filepath.Join(t.TempDir(), "tellah.db"),
		Generator: sdklib.GeneratorGemini,
		APIKey:    config.APIKey,
		Model:     config.Model,
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })

	return client
}
