// Package orchestrator runs the external tool steps of a transcode in
// dependency order, one at a time.
package orchestrator

import (
	"fmt"
	"io"
	"time"

	"vidplan/command"
	"vidplan/models"
)

// Task represents one step with its dependencies and process wiring.
type Task struct {
	ID           string
	Command      command.Command
	Dependencies []string // IDs of tasks that must complete before this one

	// FeedInput streams the orchestrator's Feeder into the command's stdin.
	FeedInput bool
	// PipeTo, when set, reads the command's stdout on its stdin.
	PipeTo command.Command
	// Progress receives ffmpeg status updates parsed from stderr.
	Progress models.ProgressCallback
	// Length is the expected output length in seconds; zero when unknown.
	Length float64

	Status    TaskStatus
	Error     error
	Result    *models.StepResult
	StartTime time.Time
	EndTime   time.Time
}

// OutputPath returns the file the step produces: the piped consumer's output
// when there is one.
func (t *Task) OutputPath() string {
	if t.PipeTo != nil {
		return t.PipeTo.GetOutputPath()
	}
	return t.Command.GetOutputPath()
}

// TaskStatus represents the current state of a task
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskRunning
	TaskCompleted
	TaskFailed
	TaskSkipped // Not run because an earlier step failed
)

func (s TaskStatus) String() string {
	switch s {
	case TaskRunning:
		return "running"
	case TaskCompleted:
		return "completed"
	case TaskFailed:
		return "failed"
	case TaskSkipped:
		return "skipped"
	default:
		return "pending"
	}
}

// Feeder is the input stream shared by every task with FeedInput set. It is
// rewound after each task that consumed it.
type Feeder interface {
	WriteAll(sink io.WriteCloser) error
	Rewind() error
}

// Orchestrator runs tasks sequentially in dependency order. Ties are broken
// by insertion order, so a run is deterministic.
type Orchestrator struct {
	tasks  map[string]*Task
	order  []string
	feeder Feeder

	onProgress func(completed, total int, task *Task)
}

// NewOrchestrator creates an empty orchestrator.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		tasks: make(map[string]*Task),
	}
}

// SetFeeder sets the stream fed to FeedInput tasks.
func (o *Orchestrator) SetFeeder(feeder Feeder) {
	o.feeder = feeder
}

// SetProgressCallback sets a callback invoked after each finished task.
func (o *Orchestrator) SetProgressCallback(callback func(completed, total int, task *Task)) {
	o.onProgress = callback
}

// AddTask adds a task to the orchestrator
func (o *Orchestrator) AddTask(task *Task) error {
	if task.ID == "" {
		return fmt.Errorf("task id cannot be empty")
	}
	if task.Command == nil {
		return fmt.Errorf("task %s has no command", task.ID)
	}
	if _, exists := o.tasks[task.ID]; exists {
		return fmt.Errorf("task %s already exists", task.ID)
	}

	task.Status = TaskPending
	o.tasks[task.ID] = task
	o.order = append(o.order, task.ID)
	return nil
}

// GetTaskStatus returns the status of a task
func (o *Orchestrator) GetTaskStatus(taskID string) (TaskStatus, error) {
	task, exists := o.tasks[taskID]
	if !exists {
		return TaskPending, fmt.Errorf("task %s not found", taskID)
	}
	return task.Status, nil
}

// Order validates the graph and returns the tasks in execution order.
func (o *Orchestrator) Order() ([]*Task, error) {
	if err := o.validateDAG(); err != nil {
		return nil, err
	}

	ordered := make([]*Task, 0, len(o.tasks))
	visited := make(map[string]bool)

	var visit func(taskID string)
	visit = func(taskID string) {
		if visited[taskID] {
			return
		}
		visited[taskID] = true
		task := o.tasks[taskID]
		for _, depID := range task.Dependencies {
			visit(depID)
		}
		ordered = append(ordered, task)
	}

	for _, taskID := range o.order {
		visit(taskID)
	}
	return ordered, nil
}

// validateDAG checks that every dependency exists and that there is no cycle.
func (o *Orchestrator) validateDAG() error {
	for _, taskID := range o.order {
		for _, depID := range o.tasks[taskID].Dependencies {
			if _, exists := o.tasks[depID]; !exists {
				return fmt.Errorf("task %s depends on non-existent task %s", taskID, depID)
			}
		}
	}

	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	var hasCycle func(taskID string) bool
	hasCycle = func(taskID string) bool {
		visited[taskID] = true
		recStack[taskID] = true

		for _, depID := range o.tasks[taskID].Dependencies {
			if !visited[depID] {
				if hasCycle(depID) {
					return true
				}
			} else if recStack[depID] {
				return true
			}
		}

		recStack[taskID] = false
		return false
	}

	for _, taskID := range o.order {
		if !visited[taskID] && hasCycle(taskID) {
			return fmt.Errorf("cycle detected in task dependencies")
		}
	}
	return nil
}
