package lib_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slok/tellah/pkg/lib"
)

// This example shows how to create a client using the fake generator for testing.
func Example_testing() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "tellah-example-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	client, err := lib.New(ctx, lib.Config{
		DBPath:    filepath.Join(dir, "tellah.db"),
		Generator: lib.GeneratorFake,
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	ps, err := client.CreateProject(ctx, lib.CreateProjectOpts{
		Name:        "blog",
		Description: "A personal blog about Go",
		Breakdown:   true,
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Created: %s (%d tasks)\n", ps.Project.Name, len(ps.Tasks))
	for _, t := range ps.Tasks {
		fmt.Printf("#%d %s [%s]\n", t.Sequence, t.Description, t.Status)
	}

	// Output:
	// Created: blog (5 tasks)
	// #1 Define scope [Not Started]
	// #2 Design solution [Not Started]
	// #3 Implement core features [Not Started]
	// #4 Test [Not Started]
	// #5 Release [Not Started]
}

// This example shows how to track a project progress.
func Example_progress() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "tellah-example-progress-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	client, err := lib.New(ctx, lib.Config{
		DBPath:    filepath.Join(dir, "tellah.db"),
		Generator: lib.GeneratorFake,
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	if _, err := client.CreateProject(ctx, lib.CreateProjectOpts{Name: "shop", Description: "An online shop"}); err != nil {
		panic(err)
	}
	for _, desc := range []string{"Catalog", "Cart", "Payments", "Shipping"} {
		if _, err := client.AddTask(ctx, "shop", lib.AddTaskOpts{Description: desc}); err != nil {
			panic(err)
		}
	}
	for _, ref := range []string{"1", "2"} {
		if _, err := client.UpdateTaskStatus(ctx, "shop", ref, lib.UpdateTaskStatusOpts{Status: lib.TaskStatusCompleted}); err != nil {
			panic(err)
		}
	}

	next, err := client.SuggestNextTask(ctx, "shop", nil)
	if err != nil {
		panic(err)
	}

	ps, err := client.GetProject(ctx, "shop")
	if err != nil {
		panic(err)
	}

	fmt.Printf("Progress: %d/%d (%.0f%%)\n", ps.Progress.Done, ps.Progress.Total, ps.Progress.Percent)
	fmt.Printf("Next: %s\n", next.Description)

	// Output:
	// Progress: 2/4 (50%)
	// Next: Payments
}

// This example shows how to check errors.
func Example_errorHandling() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "tellah-example-errors-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	client, err := lib.New(ctx, lib.Config{
		DBPath:    filepath.Join(dir, "tellah.db"),
		Generator: lib.GeneratorFake,
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	_, err = client.GetProject(ctx, "missing")
	if errors.Is(err, lib.ErrNotFound) {
		fmt.Println("Project not found")
	}

	// Output:
	// Project not found
}
