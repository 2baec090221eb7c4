package domain

import (
	"context"
	"io"
	"time"
)

// ProgressManager tracks the progress of one or more named tasks running
// concurrently, optionally rendering progress bars when the output stream
// is an interactive terminal.
type ProgressManager interface {
	Initialize(totalFiles int)
	StartTask(taskName string)
	CompleteTask(taskName string, success bool)
	UpdateProgress(taskName string, processed, total int)
	SetWriter(writer io.Writer)
	IsInteractive() bool
	Close()
}

// ProgressReporter reports coarse-grained progress for a single analysis
// run (as opposed to ProgressManager, which tracks multiple named tasks).
type ProgressReporter interface {
	StartProgress(totalFiles int)
	UpdateProgress(currentFile string, processed, total int)
	FinishProgress()
}

// ExecutableTask is a unit of work a ParallelExecutor can run.
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) (interface{}, error)
	IsEnabled() bool
}

// ParallelExecutor runs a set of ExecutableTasks under a bounded
// concurrency limit and an overall timeout.
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
	SetMaxConcurrency(max int)
	SetTimeout(timeout time.Duration)
}
