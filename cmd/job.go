package cmd

import (
	"fmt"
	"path/filepath"

	"vidplan/command/audio"
	"vidplan/command/mixing"
	"vidplan/command/video"
	"vidplan/config"
	"vidplan/models"
	"vidplan/orchestrator"
)

// Work directory file names.
const (
	AudioFileName   = "output-audio.aac"
	PassLogFileName = "x264"
)

// Step IDs of a transcode run.
const (
	StepAudio = "audio"
	StepPass1 = "pass1"
	StepFinal = "final"
)

// job is one planned transcode.
type job struct {
	id      string
	workDir string

	inputs []string
	output string
	fed    bool // inputs are streamed on stdin

	profile *models.MediaProfile
	plan    *models.EncodePlan

	offset float64
	length float64
	nero   bool
}

// input is what the ffmpeg steps read: the single input file, or stdin.
func (j *job) input() string {
	if j.fed {
		return video.StdinInput
	}
	return j.inputs[0]
}

func (j *job) audioPath() string {
	return filepath.Join(j.workDir, AudioFileName)
}

// tasks lays out the steps of j: the neroAacEnc audio encode, the first pass
// and the final pass, each only when the job needs it.
func (j *job) tasks(cfg *config.Config, progress models.ProgressCallback) []*orchestrator.Task {
	var tasks []*orchestrator.Task
	var finalDeps []string

	if j.nero {
		extract := audio.NewExtractBuilder(j.input(), j.plan.AudioChannels, j.plan.AudioSampleRate).
			SetBinary(cfg.Tools.FFmpeg).
			SetWindow(j.offset, j.length)
		encode := audio.NewNeroBuilder(j.audioPath(), j.plan.AudioBitrateKbps).
			SetBinary(cfg.Tools.NeroAacEnc)
		tasks = append(tasks, &orchestrator.Task{
			ID:        StepAudio,
			Command:   extract,
			PipeTo:    encode,
			FeedInput: j.fed,
		})
		finalDeps = append(finalDeps, StepAudio)
	}

	if j.plan.TwoPass {
		tasks = append(tasks, &orchestrator.Task{
			ID:        StepPass1,
			Command:   j.videoBuilder(cfg, video.PassFirst),
			FeedInput: j.fed,
			Progress:  progress,
			Length:    j.length,
		})
		finalDeps = append(finalDeps, StepPass1)
	}

	finalPass := video.PassSingle
	if j.plan.TwoPass {
		finalPass = video.PassSecond
	}
	tasks = append(tasks, &orchestrator.Task{
		ID:           StepFinal,
		Command:      j.videoBuilder(cfg, finalPass),
		Dependencies: finalDeps,
		FeedInput:    j.fed,
		Progress:     progress,
		Length:       j.length,
	})
	return tasks
}

func (j *job) videoBuilder(cfg *config.Config, pass video.Pass) *video.VideoBuilder {
	b := video.NewVideoBuilder(j.plan, j.input(), j.output).
		SetBinary(cfg.Tools.FFmpeg).
		SetWindow(j.offset, j.length).
		SetAudioCodec(cfg.AudioCodec).
		SetPass(pass)
	if pass != video.PassSingle {
		b.SetPassLogFile(filepath.Join(j.workDir, PassLogFileName))
	}
	if j.nero {
		b.SetExternalAudio(j.audioPath(), mixing.MapStreams(j.profile))
	}
	return b
}

// orchestrate adds the tasks of j to a new orchestrator.
func (j *job) orchestrate(cfg *config.Config, feeder orchestrator.Feeder, progress models.ProgressCallback) (*orchestrator.Orchestrator, error) {
	o := orchestrator.NewOrchestrator()
	if j.fed {
		if feeder == nil {
			return nil, fmt.Errorf("multiple inputs need a feeder")
		}
		o.SetFeeder(feeder)
	}
	for _, task := range j.tasks(cfg, progress) {
		if err := o.AddTask(task); err != nil {
			return nil, err
		}
	}
	return o, nil
}
