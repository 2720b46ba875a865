// Package lookup resolves the user facing references of projects and tasks.
//
// Projects are referenced by name or ID, tasks by their sequence inside the
// project or by ID.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage"
)

// Project returns a project by name, or by ID if the reference looks like one.
func Project(ctx context.Context, repo storage.Repository, nameOrID string) (*model.Project, error) {
	nameOrID = strings.TrimSpace(nameOrID)
	if nameOrID == "" {
		return nil, fmt.Errorf("project name or id is required: %w", model.ErrNotValid)
	}

	p, err := repo.GetProjectByName(ctx, nameOrID)
	if errors.Is(err, model.ErrNotFound) && LooksLikeULID(nameOrID) {
		p, err = repo.GetProject(ctx, nameOrID)
	}
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("project not found: %s: %w", nameOrID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get project: %w", err)
	}

	return p, nil
}

// Task returns a task of a project by sequence number or ID.
func Task(ctx context.Context, repo storage.Repository, projectID, ref string) (*model.Task, error) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	if ref == "" {
		return nil, fmt.Errorf("task reference is required: %w", model.ErrNotValid)
	}

	var (
		t   *model.Task
		err error
	)
	if seq, convErr := strconv.Atoi(ref); convErr == nil {
		t, err = repo.GetTaskBySequence(ctx, projectID, seq)
	} else if LooksLikeULID(ref) {
		t, err = repo.GetTask(ctx, ref)
		if err == nil && t.ProjectID != projectID {
			err = fmt.Errorf("task %s belongs to another project: %w", ref, model.ErrNotFound)
		}
	} else {
		return nil, fmt.Errorf("%q is not a task number or id: %w", ref, model.ErrNotValid)
	}

	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("task not found: %s: %w", ref, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get task: %w", err)
	}

	return t, nil
}

// LooksLikeULID checks if a string looks like a ULID (26 characters, alphanumeric uppercase).
func LooksLikeULID(s string) bool {
	if len(s) != 26 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
