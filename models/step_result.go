package models

import (
	"fmt"
	"strings"
	"time"
)

// StepResult is the outcome of one external tool invocation in a transcode run.
//
// A successful result names the file it produced (possibly empty for steps
// that only write to the null device) and carries no error. A failed result
// always carries an error.
type StepResult struct {
	TaskID     string        `json:"task_id"`
	OutputPath string        `json:"output_path,omitempty"`
	Success    bool          `json:"success"`
	Err        error         `json:"-"`
	Duration   time.Duration `json:"duration"`
}

// NewStepSuccess records a completed step.
func NewStepSuccess(taskID, outputPath string, took time.Duration) (*StepResult, error) {
	r := &StepResult{TaskID: taskID, OutputPath: outputPath, Success: true, Duration: took}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid step result: %w", err)
	}
	return r, nil
}

// NewStepFailure records a failed step. stepErr must not be nil.
func NewStepFailure(taskID string, stepErr error, took time.Duration) (*StepResult, error) {
	if stepErr == nil {
		return nil, fmt.Errorf("invalid step result: error cannot be nil for failed step")
	}
	r := &StepResult{TaskID: taskID, Success: false, Err: stepErr, Duration: took}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid step result: %w", err)
	}
	return r, nil
}

// Validate checks that Success and Err agree and that a task id is present.
func (r *StepResult) Validate() error {
	if strings.TrimSpace(r.TaskID) == "" {
		return fmt.Errorf("task_id cannot be empty")
	}
	if r.Success && r.Err != nil {
		return fmt.Errorf("inconsistent state: Success is true but Err is not nil")
	}
	if !r.Success && r.Err == nil {
		return fmt.Errorf("failed result must have an error")
	}
	if !r.Success && r.OutputPath != "" {
		return fmt.Errorf("failed result should not have output_path")
	}
	return nil
}

func (r *StepResult) String() string {
	if r.Success {
		if r.OutputPath == "" {
			return fmt.Sprintf("%s: ok (%s)", r.TaskID, r.Duration.Round(time.Millisecond))
		}
		return fmt.Sprintf("%s: ok -> %s (%s)", r.TaskID, r.OutputPath, r.Duration.Round(time.Millisecond))
	}
	return fmt.Sprintf("%s: failed: %v", r.TaskID, r.Err)
}
