package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default tellah data directory name (relative to home).
	DefaultDataDir = ".tellah"
	// DBFile is the SQLite database filename inside the data directory.
	DBFile = "tellah.db"
	// EnvFile is the dotenv file loaded by default from the working directory.
	EnvFile = ".env"

	// EnvVarPrefix is the prefix of the environment variables that set CLI flags.
	EnvVarPrefix = "TELLAH"
	// APIKeyEnvVar is the environment variable with the Gemini API key.
	APIKeyEnvVar = "GOOGLE_AI_API_KEY"
)

// DBPath returns the database path inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}
