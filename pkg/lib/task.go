package lib

import (
	"context"
	"fmt"

	"github.com/slok/tellah/internal/app/addtask"
	"github.com/slok/tellah/internal/app/breakdown"
	"github.com/slok/tellah/internal/app/estimate"
	"github.com/slok/tellah/internal/app/nexttask"
	"github.com/slok/tellah/internal/app/report"
	"github.com/slok/tellah/internal/app/updatestatus"
	"github.com/slok/tellah/internal/model"
)

// AddTask appends a task to a project.
func (c *Client) AddTask(ctx context.Context, project string, opts AddTaskOpts) (*Task, error) {
	svc, err := addtask.NewService(addtask.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	t, err := svc.Run(ctx, addtask.Request{
		Project:        project,
		Description:    opts.Description,
		Status:         model.TaskStatus(opts.Status),
		EstimatedHours: opts.EstimatedHours,
	})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalTask(*t)
	return &result, nil
}

// BreakdownProject generates tasks from the project description and appends
// them to the project. Pass nil opts for defaults.
func (c *Client) BreakdownProject(ctx context.Context, project string, opts *BreakdownOpts) ([]Task, error) {
	svc, err := breakdown.NewService(breakdown.ServiceConfig{
		Repository: c.repo,
		Generator:  c.pipeline,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	req := breakdown.Request{Project: project}
	if opts != nil {
		req.DryRun = opts.DryRun
	}

	tasks, err := svc.Run(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalTaskList(tasks), nil
}

// EstimateTask estimates the hours of a task referenced by number or ID. When
// task is empty every project task without estimation is estimated.
// Pass nil opts for defaults.
func (c *Client) EstimateTask(ctx context.Context, project, task string, opts *EstimateOpts) ([]Task, error) {
	svc, err := estimate.NewService(estimate.ServiceConfig{
		Repository: c.repo,
		Generator:  c.pipeline,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	req := estimate.Request{Project: project, Task: task}
	if opts != nil {
		req.Force = opts.Force
	}

	tasks, err := svc.Run(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalTaskList(tasks), nil
}

// SuggestNextTask returns the task to work on next, nil when every task is
// completed. Pass nil opts for defaults.
func (c *Client) SuggestNextTask(ctx context.Context, project string, opts *SuggestNextTaskOpts) (*Task, error) {
	svc, err := nexttask.NewService(nexttask.ServiceConfig{
		Repository: c.repo,
		Generator:  c.pipeline,
		DoneStatus: c.doneStatus,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	req := nexttask.Request{Project: project}
	if opts != nil {
		req.Start = opts.Start
	}

	res, err := svc.Run(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}
	if res.Task == nil {
		return nil, nil
	}

	result := fromInternalTask(*res.Task)
	return &result, nil
}

// UpdateTaskStatus sets the status of a task referenced by number or ID.
func (c *Client) UpdateTaskStatus(ctx context.Context, project, task string, opts UpdateTaskStatusOpts) (*Task, error) {
	svc, err := updatestatus.NewService(updatestatus.ServiceConfig{
		Repository:      c.repo,
		Generator:       c.pipeline,
		AllowedStatuses: c.allowedStatuses,
		Logger:          c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, updatestatus.Request{
		Project:     project,
		Task:        task,
		Status:      string(opts.Status),
		Instruction: opts.Instruction,
	})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalTask(res.Task)
	return &result, nil
}

// Report generates a progress report of a project.
func (c *Client) Report(ctx context.Context, project string) (*Report, error) {
	svc, err := report.NewService(report.ServiceConfig{
		Repository: c.repo,
		Generator:  c.pipeline,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	r, err := svc.Run(ctx, report.Request{Project: project})
	if err != nil {
		return nil, mapError(err)
	}

	return &Report{
		ProjectName: r.ProjectName,
		Progress:    fromInternalProgress(r.Progress),
		Text:        r.Text,
	}, nil
}
