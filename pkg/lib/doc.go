// Package lib provides a Go SDK to track projects and tasks with tellah programmatically.
//
// It gives applications the same operations as the tellah CLI (projects, tasks,
// AI assisted breakdowns, estimations, next task suggestions, status updates
// and reports) without shelling out to the binary.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Create a project and generate its tasks.
//	ps, err := client.CreateProject(ctx, lib.CreateProjectOpts{
//	    Description: "A personal blog about Go",
//	    Breakdown:   true,
//	})
//
//	// Estimate, pick the next task and update it.
//	client.EstimateTask(ctx, ps.Project.Name, "", nil)
//	next, _ := client.SuggestNextTask(ctx, ps.Project.Name, &lib.SuggestNextTaskOpts{Start: true})
//	client.UpdateTaskStatus(ctx, ps.Project.Name, "1", lib.UpdateTaskStatusOpts{
//	    Instruction: "I finished it this morning",
//	})
//
//	report, _ := client.Report(ctx, ps.Project.Name)
//	fmt.Println(report.Text)
//
// # References
//
// Projects are referenced by name or ID. Tasks are referenced inside their
// project by number ("3" or "#3") or ID.
//
// # Generators
//
//   - [GeneratorGemini]: Google Gemini API. Needs an API key, by default taken
//     from the GOOGLE_AI_API_KEY environment variable.
//   - [GeneratorFake]: deterministic offline answers for tests.
//
// Generated content is never trusted: task lists fall back to line splitting
// or a fixed list, unparseable estimations to [Config].DefaultEstimateHours and
// suggestions or statuses that don't match a known value are rejected with
// [ErrNotValid].
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: project or task does not exist.
//   - [ErrAlreadyExists]: a project with the same name already exists.
//   - [ErrNotValid]: invalid input or unusable generated content.
//   - [ErrGeneration]: the generator could not be reached.
//
// # Thread Safety
//
// A [Client] is safe for concurrent use from multiple goroutines. The underlying
// storage uses SQLite with WAL mode.
package lib
