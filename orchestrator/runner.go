package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"vidplan/command"
	"vidplan/ffmpeg"
	"vidplan/internal/logging"
	"vidplan/internal/metrics"
	"vidplan/models"
)

// Execute runs all tasks in order and stops at the first failure. Tasks after
// a failure are marked TaskSkipped. The results of the tasks that ran are
// returned together with the failure.
func (o *Orchestrator) Execute(ctx context.Context) ([]*models.StepResult, error) {
	logger := logging.GetLogger("orchestrator")

	ordered, err := o.Order()
	if err != nil {
		return nil, err
	}

	results := make([]*models.StepResult, 0, len(ordered))
	var failure error

	for i, task := range ordered {
		if failure == nil && ctx.Err() != nil {
			failure = fmt.Errorf("run cancelled before step %s: %w", task.ID, ctx.Err())
		}
		if failure != nil {
			task.Status = TaskSkipped
			continue
		}

		task.Status = TaskRunning
		task.StartTime = time.Now()
		if line, err := o.describe(task); err == nil {
			logger.Info("Starting step", "task", task.ID, "command", line)
		}

		err := o.runTask(ctx, task)

		task.EndTime = time.Now()
		took := task.EndTime.Sub(task.StartTime)
		metrics.ObserveStep(task.ID, took.Seconds(), err)

		if err != nil {
			task.Status = TaskFailed
			task.Error = err
			task.Result, _ = models.NewStepFailure(task.ID, err, took)
			failure = fmt.Errorf("step %s failed: %w", task.ID, err)
			logger.Error("Step failed", "task", task.ID, "error", err, "duration", took)
		} else {
			task.Status = TaskCompleted
			task.Result, _ = models.NewStepSuccess(task.ID, task.OutputPath(), took)
			logger.Info("Step completed", "task", task.ID, "duration", took)
		}
		results = append(results, task.Result)

		if o.onProgress != nil {
			o.onProgress(i+1, len(ordered), task)
		}
	}

	return results, failure
}

// DryRun returns the command line of every task in execution order. Piped
// consumers follow a "|"; fed tasks are preceded by the input files.
func (o *Orchestrator) DryRun() ([]string, error) {
	ordered, err := o.Order()
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(ordered))
	for _, task := range ordered {
		line, err := o.describe(task)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", task.ID, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (o *Orchestrator) describe(task *Task) (string, error) {
	line, err := task.Command.DryRun()
	if err != nil {
		return "", err
	}
	if task.PipeTo != nil {
		next, err := task.PipeTo.DryRun()
		if err != nil {
			return "", err
		}
		line += " | " + next
	}
	if task.FeedInput {
		if p, ok := o.feeder.(interface{ Paths() []string }); ok {
			line = command.Line("cat", p.Paths()) + " | " + line
		}
	}
	return line, nil
}

// runTask starts the task's process, and its consumer when piped, feeds
// stdin when requested and waits for everything to finish.
//
// stderr of the main process always goes through the ffmpeg status parser,
// whose tail of other lines is attached to a failure.
func (o *Orchestrator) runTask(ctx context.Context, task *Task) error {
	proc, err := command.Exec(ctx, task.Command)
	if err != nil {
		return err
	}

	var feed func() error
	if task.FeedInput {
		if o.feeder == nil {
			return fmt.Errorf("task %s reads the input group but no feeder is set", task.ID)
		}
		stdin, err := proc.StdinPipe()
		if err != nil {
			return fmt.Errorf("failed to get stdin pipe: %w", err)
		}
		feed = func() error { return o.feeder.WriteAll(stdin) }
	}

	stderr, err := proc.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to get stderr pipe: %w", err)
	}

	var consumer *consumerProcess
	if task.PipeTo != nil {
		consumer, err = startConsumer(ctx, task.PipeTo, proc)
		if err != nil {
			return err
		}
	}

	if err := proc.Start(); err != nil {
		if consumer != nil {
			consumer.abort()
		}
		return fmt.Errorf("failed to start %s: %w", task.Command.Binary(), err)
	}
	if consumer != nil {
		consumer.started()
	}

	progress := models.NewPassProgress(task.ID, task.Length)
	progress.State = models.StepRunning
	parser := ffmpeg.NewProgressParser()
	parsed := make(chan error, 1)
	go func() {
		parsed <- parser.StreamProgress(stderr, progress, task.Progress)
	}()

	fed := make(chan error, 1)
	if feed != nil {
		go func() { fed <- feed() }()
	} else {
		fed <- nil
	}

	// stderr must be drained before Wait closes it.
	parseErr := <-parsed
	procErr := proc.Wait()
	feedErr := <-fed

	var consumerErr error
	if consumer != nil {
		consumerErr = consumer.wait()
	}

	if feed != nil {
		if err := o.feeder.Rewind(); err != nil && feedErr == nil {
			feedErr = fmt.Errorf("failed to rewind input: %w", err)
		}
	}

	progress.State = models.StepCompleted
	err = nil
	switch {
	case procErr != nil && consumerErr != nil:
		// Either side may have broken the pipe; report both.
		err = errors.Join(stepError(task.Command.Binary(), procErr, parser.Tail()), consumerErr)
	case procErr != nil:
		err = stepError(task.Command.Binary(), procErr, parser.Tail())
	case consumerErr != nil:
		err = consumerErr
	case feedErr != nil:
		err = fmt.Errorf("failed to stream input to %s: %w", task.Command.Binary(), feedErr)
	case parseErr != nil:
		logging.GetLogger("orchestrator").Warn("Progress parsing error", "task", task.ID, "error", parseErr)
	}
	if err != nil {
		progress.State = models.StepFailed
	}
	if task.Progress != nil {
		task.Progress(progress)
	}
	return err
}

// consumerProcess is the second process of a pipe. It reads the producer's
// stdout through an os.Pipe, so it sees EOF as soon as the producer exits
// and the producer gets EPIPE if the consumer dies first.
type consumerProcess struct {
	cmd    command.Command
	proc   *exec.Cmd
	writer *os.File
	parser *ffmpeg.ProgressParser
	parsed chan error
}

func startConsumer(ctx context.Context, c command.Command, producer *exec.Cmd) (*consumerProcess, error) {
	proc, err := command.Exec(ctx, c)
	if err != nil {
		return nil, err
	}
	stderr, err := proc.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stderr pipe: %w", err)
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create pipe: %w", err)
	}
	proc.Stdin = r
	producer.Stdout = w

	if err := proc.Start(); err != nil {
		r.Close()
		w.Close()
		return nil, fmt.Errorf("failed to start %s: %w", c.Binary(), err)
	}
	// Only the child keeps the read end.
	r.Close()

	cp := &consumerProcess{
		cmd:    c,
		proc:   proc,
		writer: w,
		parser: ffmpeg.NewProgressParser(),
		parsed: make(chan error, 1),
	}
	go func() {
		cp.parsed <- cp.parser.StreamProgress(stderr, models.NewPassProgress(c.Binary(), 0), nil)
	}()
	return cp, nil
}

// started releases the parent's write end once the producer holds it.
func (c *consumerProcess) started() {
	c.writer.Close()
}

// abort closes the pipe after the producer failed to start, so the consumer
// sees EOF, and reaps it.
func (c *consumerProcess) abort() {
	c.writer.Close()
	<-c.parsed
	c.proc.Wait()
}

func (c *consumerProcess) wait() error {
	<-c.parsed
	if err := c.proc.Wait(); err != nil {
		return stepError(c.cmd.Binary(), err, c.parser.Tail())
	}
	return nil
}

func stepError(binary string, err error, tail string) error {
	tail = strings.TrimSpace(tail)
	if tail == "" {
		return fmt.Errorf("%s failed: %w", binary, err)
	}
	return fmt.Errorf("%s failed: %w (output: %s)", binary, err, tail)
}
