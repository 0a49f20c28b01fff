package async

import (
	"context"
	"errors"
	"fmt"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel executes tasks concurrently and waits for all of them. Every
// failure is returned, joined, with the task name attached.
//
// With failFast set, the context handed to the tasks is cancelled on the
// first failure so that tasks still waiting can stop early.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "mods/a.esp", Func: copyA},
//	    {Name: "mods/b.esp", Func: copyB},
//	}
//	if err := RunParallel(ctx, tasks, false); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task, failFast bool) error {
	if len(tasks) == 0 {
		return nil
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		name string
		err  error
	}

	resultChan := make(chan result, len(tasks))

	for _, task := range tasks {
		go func() {
			err := task.Func(taskCtx)
			resultChan <- result{name: task.Name, err: err}
		}()
	}

	var errs []error
	for range len(tasks) {
		res := <-resultChan
		if res.err == nil {
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w", res.name, res.err))
		if failFast {
			cancel()
		}
	}

	return errors.Join(errs...)
}
