package generate

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
)

// DefaultProjectName is used when the generator doesn't give us a project name.
const DefaultProjectName = "Untitled Project"

// PipelineConfig is the configuration for the generation pipeline.
type PipelineConfig struct {
	Generator Generator
	Logger    log.Logger
	// DoneStatus is the task status that marks a task as completed.
	// Default: "Completed".
	DoneStatus model.TaskStatus
	// DefaultEstimateHours is returned when the generated estimation can't be parsed,
	// 0 is a valid value.
	// Default: 1 hour.
	DefaultEstimateHours *float64
	// ListFormats are the list encodings tried in order to parse generated lists.
	// The first one is the one requested to the generator.
	// Default: JSON, literal.
	ListFormats []ListFormat
}

func (c *PipelineConfig) defaults() error {
	if c.Generator == nil {
		return fmt.Errorf("generator is required")
	}

	if strings.TrimSpace(string(c.DoneStatus)) == "" {
		c.DoneStatus = model.TaskStatusCompleted
	}

	if c.DefaultEstimateHours == nil {
		h := DefaultEstimateHours
		c.DefaultEstimateHours = &h
	}
	if h := *c.DefaultEstimateHours; h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return fmt.Errorf("default estimate hours can't be negative or non finite")
	}

	if len(c.ListFormats) == 0 {
		c.ListFormats = DefaultListFormats()
	}
	for _, f := range c.ListFormats {
		if _, ok := listDecoders[f]; !ok {
			return fmt.Errorf("unknown list format %q", f)
		}
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "generate.Pipeline"})

	return nil
}

// Pipeline builds prompts, asks the generator and converts the generated text into
// typed values. Every operation calls the generator once, without retries.
//
// Malformed answers are recovered with fallback values, generator failures are returned
// as *TransportError. A Pipeline has no mutable state and is safe for concurrent use.
type Pipeline struct {
	gen             Generator
	doneStatus      model.TaskStatus
	defaultEstimate float64
	listFormats     []ListFormat
	logger          log.Logger
}

// NewPipeline returns a new generation pipeline.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Pipeline{
		gen:             cfg.Generator,
		doneStatus:      cfg.DoneStatus,
		defaultEstimate: *cfg.DefaultEstimateHours,
		listFormats:     cfg.ListFormats,
		logger:          cfg.Logger,
	}, nil
}

// DoneStatus returns the status the pipeline considers as completed.
func (p *Pipeline) DoneStatus() model.TaskStatus { return p.doneStatus }

// GenerateTaskList generates between 5 and 7 high level tasks for a project.
//
// The returned list is never empty, when the answer can't be parsed as a list
// it is split by lines, and if nothing is left a placeholder list is returned.
func (p *Pipeline) GenerateTaskList(ctx context.Context, projectDescription string) ([]string, error) {
	text, err := p.complete(ctx, KindTaskList, taskListPrompt(projectDescription, p.listFormats))
	if err != nil {
		return nil, err
	}

	tasks, ok := ParseTaskList(text, p.listFormats)
	if !ok {
		p.logger.Warningf("Could not get any task from generated task list, using fallback tasks")
	}

	return tasks, nil
}

// EstimateTime estimates the hours required to complete a task.
func (p *Pipeline) EstimateTime(ctx context.Context, taskDescription string) (float64, error) {
	text, err := p.complete(ctx, KindTimeEstimate, estimatePrompt(taskDescription))
	if err != nil {
		return 0, err
	}

	hours, err := ParseHours(text)
	if err != nil {
		p.logger.Warningf("Could not parse time estimate, using default %.2fh: %s", p.defaultEstimate, err)
		return p.defaultEstimate, nil
	}

	return hours, nil
}

// SuggestNextTask asks which of the not completed candidates should be done next.
//
// If every candidate is completed the generator is not called and a no suggestion
// proposal is returned. The proposal is not validated against the candidates.
func (p *Pipeline) SuggestNextTask(ctx context.Context, candidates []string, completed []string) (model.Proposal, error) {
	done := make(map[string]struct{}, len(completed))
	for _, c := range completed {
		done[strings.TrimSpace(c)] = struct{}{}
	}

	remaining := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := done[strings.TrimSpace(c)]; ok {
			continue
		}
		remaining = append(remaining, c)
	}

	if len(remaining) == 0 {
		p.logger.Debugf("No pending tasks, skipping next task suggestion")
		return model.NoSuggestion(), nil
	}

	text, err := p.complete(ctx, KindNextTask, nextTaskPrompt(remaining))
	if err != nil {
		return model.Proposal{}, err
	}

	return model.NewProposal(text), nil
}

// UpdateStatus asks for the new status of a task based on a user instruction. The
// proposal is not validated against any status set.
func (p *Pipeline) UpdateStatus(ctx context.Context, req model.StatusUpdateRequest) (model.Proposal, error) {
	text, err := p.complete(ctx, KindStatusUpdate, statusPrompt(req))
	if err != nil {
		return model.Proposal{}, err
	}

	return model.NewProposal(text), nil
}

// GenerateReport generates a free text report of the project progress.
func (p *Pipeline) GenerateReport(ctx context.Context, projectName, projectDescription string, tasks []model.Task) (model.Report, error) {
	progress := model.ComputeProgress(tasks, p.doneStatus)

	text, err := p.complete(ctx, KindReport, reportPrompt(projectName, projectDescription, tasks, progress))
	if err != nil {
		return model.Report{}, err
	}

	return model.Report{
		ProjectName: projectName,
		Text:        strings.TrimSpace(text),
		Progress:    progress,
	}, nil
}

// GenerateProjectName generates a short name for a project description.
func (p *Pipeline) GenerateProjectName(ctx context.Context, projectDescription string) (string, error) {
	text, err := p.complete(ctx, KindProjectName, projectNamePrompt(projectDescription))
	if err != nil {
		return "", err
	}

	name := strings.Trim(StripCodeFences(text), "\"'`*# \n")
	if name == "" {
		p.logger.Warningf("Generated project name is empty, using %q", DefaultProjectName)
		return DefaultProjectName, nil
	}

	return name, nil
}

func (p *Pipeline) complete(ctx context.Context, kind Kind, prompt string) (string, error) {
	ctx = WithKind(ctx, kind)
	logger := p.logger.WithCtxValues(ctx).WithValues(log.Kv{"kind": kind})

	text, err := p.gen.Complete(ctx, prompt)
	if err != nil {
		return "", &TransportError{Kind: kind, Err: err}
	}
	logger.Debugf("Generated %d bytes: %q", len(text), text)

	return text, nil
}
