// Package async runs independent named tasks concurrently and joins on all
// of their results. The dashboard fan-out is its only consumer; results stay
// untyped because each panel produces a different record type.
package async

import (
	"context"
	"sync"
)

// Task is one unit of work identified by name.
type Task struct {
	Name    string
	Execute func() (interface{}, error)
}

// Result pairs a task's name with its outcome.
type Result struct {
	Name string
	Data interface{}
	Err  error
}

// Pool bounds how many tasks run at once.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given concurrency. Values below one are
// treated as one.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Execute runs all tasks and blocks until every started task finishes or ctx
// is cancelled. The returned map may be missing entries for tasks never
// started due to cancellation; callers must treat an incomplete map as a
// failed join.
func (p *Pool) Execute(ctx context.Context, tasks []Task) map[string]Result {
	queue := make(chan Task)
	out := make(chan Result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				data, err := task.Execute()
				out <- Result{Name: task.Name, Data: data, Err: err}
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, task := range tasks {
			select {
			case queue <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make(map[string]Result, len(tasks))
	for r := range out {
		results[r.Name] = r
	}
	return results
}
