package env_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tellah/internal/utils/env"
)

func TestLoadFile(t *testing.T) {
	tests := map[string]struct {
		content  *string
		required bool
		preset   map[string]string
		expVars  map[string]string
		expOK    bool
		expErr   bool
	}{
		"Variables of the file should be loaded.": {
			content: strPtr("TELLAH_TEST_A=one\n# comment\nexport TELLAH_TEST_B=\"two words\"\n"),
			expVars: map[string]string{"TELLAH_TEST_A": "one", "TELLAH_TEST_B": "two words"},
			expOK:   true,
		},

		"Variables already set should not be overridden.": {
			content: strPtr("TELLAH_TEST_A=from-file\n"),
			preset:  map[string]string{"TELLAH_TEST_A": "from-env"},
			expVars: map[string]string{"TELLAH_TEST_A": "from-env"},
			expOK:   true,
		},

		"A missing optional file should be ignored.": {
			expOK: false,
		},

		"A missing required file should fail.": {
			required: true,
			expErr:   true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			// Registers the variables to be restored after the test.
			for _, k := range []string{"TELLAH_TEST_A", "TELLAH_TEST_B"} {
				t.Setenv(k, "")
				require.NoError(t, os.Unsetenv(k))
			}
			for k, v := range test.preset {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), ".env")
			if test.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*test.content), 0o600))
			}

			ok, err := env.LoadFile(path, test.required)

			if test.expErr {
				assert.Error(err)
				return
			}
			require.NoError(t, err)
			assert.Equal(test.expOK, ok)
			for k, v := range test.expVars {
				assert.Equal(v, os.Getenv(k))
			}
		})
	}
}

func strPtr(s string) *string { return &s }
