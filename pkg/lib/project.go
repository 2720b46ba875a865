package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slok/tellah/internal/app/createproject"
	"github.com/slok/tellah/internal/app/importproject"
	"github.com/slok/tellah/internal/app/listprojects"
	"github.com/slok/tellah/internal/app/projectstatus"
	"github.com/slok/tellah/internal/app/removeproject"
	"github.com/slok/tellah/internal/model"
	storageio "github.com/slok/tellah/internal/storage/io"
)

// CreateProject creates a new project, optionally naming it and breaking it
// down into tasks with the generator.
func (c *Client) CreateProject(ctx context.Context, opts CreateProjectOpts) (*ProjectStatus, error) {
	svc, err := createproject.NewService(createproject.ServiceConfig{
		Repository: c.repo,
		Generator:  c.pipeline,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, createproject.Request{
		Name:        opts.Name,
		Description: opts.Description,
		Breakdown:   opts.Breakdown,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return c.projectStatus(res.Project, res.Tasks), nil
}

// ImportProject creates a project with its tasks from a YAML plan file.
func (c *Client) ImportProject(ctx context.Context, opts ImportProjectOpts) (*ProjectStatus, error) {
	absPath, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid plan path: %w", err)
	}

	svc, err := importproject.NewService(importproject.ServiceConfig{
		Repository: c.repo,
		PlanLoader: storageio.NewPlanYAMLRepository(os.DirFS(filepath.Dir(absPath))),
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, importproject.Request{
		Path: filepath.Base(absPath),
		Name: opts.Name,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return c.projectStatus(res.Project, res.Tasks), nil
}

// ListProjects lists the projects with their progress, oldest first.
// Pass nil opts for defaults.
func (c *Client) ListProjects(ctx context.Context, opts *ListProjectsOpts) ([]ProjectSummary, error) {
	svc, err := listprojects.NewService(listprojects.ServiceConfig{
		Repository: c.repo,
		DoneStatus: c.doneStatus,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	var req listprojects.Request
	if opts != nil {
		req.PendingOnly = opts.PendingOnly
	}

	summaries, err := svc.Run(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	result := make([]ProjectSummary, len(summaries))
	for i, s := range summaries {
		result[i] = ProjectSummary{
			Project:  fromInternalProject(s.Project),
			Progress: fromInternalProgress(s.Progress),
		}
	}

	return result, nil
}

// GetProject returns a project with its tasks by name or ID.
func (c *Client) GetProject(ctx context.Context, nameOrID string) (*ProjectStatus, error) {
	svc, err := projectstatus.NewService(projectstatus.ServiceConfig{
		Repository: c.repo,
		DoneStatus: c.doneStatus,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, projectstatus.Request{Project: nameOrID})
	if err != nil {
		return nil, mapError(err)
	}

	return c.projectStatus(res.Project, res.Tasks), nil
}

// RemoveProject removes a project and all its tasks by name or ID.
func (c *Client) RemoveProject(ctx context.Context, nameOrID string) (*Project, error) {
	svc, err := removeproject.NewService(removeproject.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	p, err := svc.Run(ctx, removeproject.Request{Project: nameOrID})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalProject(*p)
	return &result, nil
}

func (c *Client) projectStatus(p model.Project, tasks []model.Task) *ProjectStatus {
	return &ProjectStatus{
		Project:  fromInternalProject(p),
		Tasks:    fromInternalTaskList(tasks),
		Progress: fromInternalProgress(model.ComputeProgress(tasks, c.doneStatus)),
	}
}
