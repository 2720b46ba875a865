package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tellah/internal/generate/fake"
	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/printer"
)

func TestRootCommandNewGenerator(t *testing.T) {
	tests := map[string]struct {
		root         RootCommand
		expFake      bool
		expErrSubstr string
	}{
		"The fake generator should not need an API key.": {
			root:    RootCommand{Generator: GeneratorFake},
			expFake: true,
		},

		"The gemini generator without API key should fail naming the env var.": {
			root:         RootCommand{Generator: GeneratorGemini},
			expErrSubstr: "GOOGLE_AI_API_KEY",
		},

		"Unknown generators should fail.": {
			root:         RootCommand{Generator: "openai"},
			expErrSubstr: "unknown generator",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			test.root.Logger = log.Noop

			gen, err := test.root.newGenerator(context.Background())

			if test.expErrSubstr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.expErrSubstr)
				return
			}
			require.NoError(t, err)
			_, isFake := gen.(*fake.Generator)
			assert.Equal(t, test.expFake, isFake)
		})
	}
}

func TestRootCommandNewPipeline(t *testing.T) {
	root := RootCommand{
		Generator:       GeneratorFake,
		ListFormat:      "xml",
		DoneStatus:      "Done",
		DefaultEstimate: 2,
		Logger:          log.Noop,
	}

	_, err := root.newPipeline(context.Background())
	assert.Error(t, err)

	root.ListFormat = "auto"
	p, err := root.newPipeline(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, "Done", p.DoneStatus())
}

func TestRootCommandNewPrinter(t *testing.T) {
	root := RootCommand{Stdout: &bytes.Buffer{}}

	assert.IsType(t, &printer.JSONPrinter{}, root.newPrinter(formatJSON))
	assert.IsType(t, &printer.TablePrinter{}, root.newPrinter(formatTable))
}

func TestDoctorCommandRun(t *testing.T) {
	tests := map[string]struct {
		generator string
		apiKey    string
		expOut    []string
		expErr    bool
	}{
		"The fake generator should pass with a warning.": {
			generator: GeneratorFake,
			expOut:    []string{"OK database", "schema v1", "!! generator", "1 warning(s)"},
		},

		"A missing API key should fail the checks.": {
			generator: GeneratorGemini,
			expOut:    []string{"OK database", "XX generator", "GOOGLE_AI_API_KEY", "1 error(s)"},
			expErr:    true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			root := &RootCommand{
				DBPath:    filepath.Join(t.TempDir(), "tellah.db"),
				Generator: test.generator,
				APIKey:    test.apiKey,
				Stdout:    &out,
				Logger:    log.Noop,
			}

			err := DoctorCommand{rootCmd: root}.Run(context.Background())

			if test.expErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			for _, exp := range test.expOut {
				assert.Contains(t, out.String(), exp)
			}
		})
	}
}
