package tellah

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/tellah/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		return fmt.Errorf("tellah binary path is required (TELLAH_INTEGRATION_BINARY)")
	}

	// go test changes the CWD to the test package directory, relative paths would be wrong.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("TELLAH_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("tellah binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "TELLAH_INTEGRATION"
		envBinary     = "TELLAH_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{Binary: os.Getenv(envBinary)}
	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// RunCmd runs a tellah command against a specific db path with the offline fake generator.
// The working directory .env file is ignored so the host configuration doesn't leak.
func RunCmd(ctx context.Context, config Config, dbPath string, args ...string) (stdout, stderr []byte, err error) {
	base := []string{"--generator", "fake", "--db-path", dbPath}
	env := []string{"TELLAH_ENV_FILE=" + os.DevNull}

	return testutils.RunTellah(ctx, env, config.Binary, append(base, args...), true)
}

// RunRawCmd runs a tellah command without any default flag.
func RunRawCmd(ctx context.Context, config Config, env []string, args ...string) (stdout, stderr []byte, err error) {
	return testutils.RunTellah(ctx, env, config.Binary, args, true)
}
