package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/slok/tellah/internal/generate"
	"github.com/slok/tellah/internal/log"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// ContentGenerator is the part of the genai client used by the generator.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeneratorConfig is the configuration for the Gemini generator.
type GeneratorConfig struct {
	// APIKey is the Gemini API key, required unless Client is set.
	APIKey string
	// Model is the Gemini model name.
	// Default: gemini-2.5-flash.
	Model string
	// Temperature is the sampling temperature, the model default is used when nil.
	Temperature *float32
	// Client overrides the genai models client (used on tests).
	Client ContentGenerator
	Logger log.Logger
}

func (c *GeneratorConfig) defaults() error {
	if c.Client == nil && strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("api key is required")
	}

	if c.Model == "" {
		c.Model = DefaultModel
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "generate.Gemini", "model": c.Model})

	return nil
}

// Generator is a generate.Generator backed by the Gemini API.
type Generator struct {
	cli         ContentGenerator
	model       string
	temperature *float32
	logger      log.Logger
}

// NewGenerator returns a new Gemini generator.
func NewGenerator(ctx context.Context, cfg GeneratorConfig) (*Generator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cli := cfg.Client
	if cli == nil {
		c, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create gemini client: %w", err)
		}
		cli = c.Models
	}

	return &Generator{
		cli:         cli,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}, nil
}

// Name returns the generator name.
func (g *Generator) Name() string { return "Gemini:" + g.model }

// Complete satisfies generate.Generator interface.
func (g *Generator) Complete(ctx context.Context, prompt string) (string, error) {
	logger := g.logger.WithCtxValues(ctx).WithValues(log.Kv{"kind": generate.KindFrom(ctx)})

	var config *genai.GenerateContentConfig
	if g.temperature != nil {
		config = &genai.GenerateContentConfig{Temperature: g.temperature}
	}

	start := time.Now()
	resp, err := g.cli.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	logger.Debugf("Gemini request of %d bytes answered in %s", len(prompt), time.Since(start))

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}

	return text, nil
}

// responseText joins the text parts of the first candidate, thoughts are ignored.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", generate.ErrEmptyResponse
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}

	if b.Len() == 0 {
		return "", generate.ErrEmptyResponse
	}

	return b.String(), nil
}
