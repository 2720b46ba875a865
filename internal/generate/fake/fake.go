package fake

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/slok/tellah/internal/generate"
	"github.com/slok/tellah/internal/log"
)

// GeneratorConfig is the configuration for the fake generator.
type GeneratorConfig struct {
	// Responses are the answers returned per generation kind. Kinds without a
	// response get a deterministic answer built from the prompt.
	Responses map[generate.Kind]string
	// Err makes every call fail with this error.
	Err    error
	Logger log.Logger
}

func (c *GeneratorConfig) defaults() error {
	if c.Responses == nil {
		c.Responses = map[generate.Kind]string{}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "generate.Fake"})
	return nil
}

// Call is a call received by the fake generator.
type Call struct {
	Kind   generate.Kind
	Prompt string
}

// Generator is a fake implementation of generate.Generator.
// It answers without calling any external service.
type Generator struct {
	responses map[generate.Kind]string
	err       error
	calls     []Call
	mu        sync.Mutex
	logger    log.Logger
}

// NewGenerator creates a new fake generator.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Generator{
		responses: cfg.Responses,
		err:       cfg.Err,
		logger:    cfg.Logger,
	}, nil
}

// Complete satisfies generate.Generator interface.
func (g *Generator) Complete(ctx context.Context, prompt string) (string, error) {
	kind := generate.KindFrom(ctx)

	g.mu.Lock()
	g.calls = append(g.calls, Call{Kind: kind, Prompt: prompt})
	g.mu.Unlock()

	if g.err != nil {
		return "", g.err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if resp, ok := g.responses[kind]; ok {
		return resp, nil
	}

	g.logger.Debugf("Generating fake %s answer", kind)
	return defaultResponse(kind, prompt), nil
}

// Calls returns the calls received by the generator.
func (g *Generator) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()

	calls := make([]Call, len(g.calls))
	copy(calls, g.calls)
	return calls
}

// CallCount returns the number of calls received by the generator.
func (g *Generator) CallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func defaultResponse(kind generate.Kind, prompt string) string {
	switch kind {
	case generate.KindTaskList:
		return "```json\n[\"Define scope\", \"Design solution\", \"Implement core features\", \"Test\", \"Release\"]\n```"
	case generate.KindTimeEstimate:
		return "2"
	case generate.KindNextTask:
		// First listed candidate.
		for _, line := range strings.Split(prompt, "\n") {
			if task, ok := strings.CutPrefix(strings.TrimSpace(line), "- "); ok {
				return task
			}
		}
		return "none"
	case generate.KindStatusUpdate:
		return statusFromInstruction(promptField(prompt, "Instruction:"))
	case generate.KindReport:
		var b strings.Builder
		b.WriteString("Project report.\n")
		for _, field := range []string{"Project Name:", "Total Tasks:", "Completed Tasks:", "Progress:"} {
			if v := promptField(prompt, field); v != "" {
				fmt.Fprintf(&b, "%s %s\n", field, v)
			}
		}
		return b.String()
	case generate.KindProjectName:
		return "Fake Project"
	}

	return ""
}

func promptField(prompt, field string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), field); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func statusFromInstruction(instruction string) string {
	instruction = strings.ToLower(instruction)
	switch {
	case containsAny(instruction, "done", "finish", "complete"):
		return "Completed"
	case containsAny(instruction, "start", "working", "progress"):
		return "In Progress"
	case containsAny(instruction, "block", "stuck", "wait"):
		return "Blocked"
	}
	return "Not Started"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
