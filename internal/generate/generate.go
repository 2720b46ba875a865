package generate

import (
	"context"
	"errors"
	"fmt"
)

// Generator is the text generation capability used by the pipeline.
//
// Complete receives a fully assembled prompt and returns the text completion. Any
// returned error is considered a transport level failure (network, auth, quota,
// cancellation...) and is never recovered by the pipeline.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

//go:generate mockery --case underscore --output generatemock --outpkg generatemock --name Generator --structname MockGenerator

// GeneratorFunc is a helper to use functions as Generators.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Complete satisfies Generator interface.
func (f GeneratorFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Kind is the kind of generation requested to the generator.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindTaskList     Kind = "task-list"
	KindTimeEstimate Kind = "time-estimate"
	KindNextTask     Kind = "next-task-suggestion"
	KindStatusUpdate Kind = "status-update"
	KindReport       Kind = "report"
	KindProjectName  Kind = "project-name"
)

type contextKey string

const contextKindKey = contextKey("generation-kind")

// WithKind returns a copy of parent that carries the generation kind.
func WithKind(parent context.Context, kind Kind) context.Context {
	return context.WithValue(parent, contextKindKey, kind)
}

// KindFrom returns the generation kind stored in the context.
func KindFrom(ctx context.Context) Kind {
	kind, ok := ctx.Value(contextKindKey).(Kind)
	if !ok {
		return KindUnknown
	}
	return kind
}

// ErrEmptyResponse is returned by generators when the service answered without any text.
var ErrEmptyResponse = errors.New("empty response from generator")

// TransportError is returned when the call to the generator fails.
type TransportError struct {
	Kind Kind
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s generation failed: %s", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
