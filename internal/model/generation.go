package model

import (
	"fmt"
	"strings"
)

// NoSuggestionValue is the value of a proposal that has nothing to propose.
const NoSuggestionValue = "none"

// Proposal is a value proposed by the generator (a task name, a status...).
//
// Generated values are not trusted: before using a proposal as state the caller
// must accept it against its own canonical set of values.
type Proposal struct {
	Value string
	None  bool
}

// NoSuggestion returns the proposal used when there is nothing to propose.
func NoSuggestion() Proposal {
	return Proposal{Value: NoSuggestionValue, None: true}
}

// NewProposal returns a proposal for a raw generated value.
func NewProposal(raw string) Proposal {
	return Proposal{Value: strings.TrimSpace(raw)}
}

// Accept validates the proposal against the allowed values and returns the canonical
// allowed value that matches. An empty allowed set accepts any non empty value.
func (p Proposal) Accept(allowed []string) (string, error) {
	if p.None {
		return "", fmt.Errorf("nothing was proposed: %w", ErrNotFound)
	}

	v := normalizeProposal(p.Value)
	if v == "" {
		return "", fmt.Errorf("empty proposal: %w", ErrNotValid)
	}

	if len(allowed) == 0 {
		return v, nil
	}

	for _, a := range allowed {
		if strings.EqualFold(normalizeProposal(a), v) {
			return a, nil
		}
	}

	return "", fmt.Errorf("%q is not one of the allowed values: %w", p.Value, ErrNotValid)
}

var proposalBulletPrefixes = []string{"- ", "* ", "• "}

// normalizeProposal strips bullets, quotes and trailing dots until the value is stable,
// decorations can come in any order (e.g: `"Build API".`).
func normalizeProposal(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range proposalBulletPrefixes {
		s = strings.TrimPrefix(s, prefix)
	}

	for {
		prev := s
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, ".")
		s = strings.Trim(s, "`\"' ")
		if s == prev {
			return s
		}
	}
}

// StatusUpdateRequest is the context used to ask the generator for a new task status.
type StatusUpdateRequest struct {
	Instruction     string
	ProjectName     string
	TaskDescription string
	CurrentStatus   TaskStatus
	// KnownStatuses are hinted to the generator when set, they don't constrain the answer.
	KnownStatuses []string
}

// Report is a generated project report.
type Report struct {
	ProjectName string
	Text        string
	Progress    TaskProgress
}
