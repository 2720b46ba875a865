package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/joho/godotenv"
)

var envKeyRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadFile loads the variables of a dotenv file into the process environment.
// Variables already set in the environment are not overridden.
//
// Missing files are ignored unless required, the returned bool tells if the file
// has been loaded.
func LoadFile(path string, required bool) (bool, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return false, nil
		}
		return false, fmt.Errorf("could not read env file %q: %w", path, err)
	}

	for k, v := range vars {
		if !isValidKey(k) {
			return false, fmt.Errorf("invalid environment variable key %q on %q", k, path)
		}
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return false, fmt.Errorf("could not set %q environment variable: %w", k, err)
		}
	}

	return true, nil
}

func isValidKey(k string) bool {
	return envKeyRegexp.MatchString(k)
}
