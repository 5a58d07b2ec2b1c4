package models

import (
	"time"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

type JobType string

const (
	JobTypeTranscribe   JobType = "transcribe"
	JobTypeSummarize    JobType = "summarize"
	JobTypeFullPipeline JobType = "full-pipeline"
)

// Progress checkpoints emitted at stage boundaries.
const (
	ProgressValidated    = 10
	ProgressConditioned  = 30
	ProgressTranscribed  = 70
	ProgressSummarized   = 100
)

// JobError is the caller-visible failure detail: a stable code plus a
// human-readable message, never a stack trace.
type JobError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JobResult carries the terminal output of a completed job.
type JobResult struct {
	Transcript           string        `json:"transcript,omitempty"`
	TranscriptionBackend string        `json:"transcription_backend,omitempty"`
	Confidence           float64       `json:"confidence,omitempty"`
	Summary              string        `json:"summary,omitempty"`
	SummaryBackend       string        `json:"summary_backend,omitempty"`
	Elapsed              time.Duration `json:"elapsed,omitempty"`
}

// Job is a trackable unit of pipeline work. Instances handed out by the
// store are snapshots; only the worker that claimed a job mutates the
// stored copy, and terminal jobs are immutable.
type Job struct {
	ID        string            `json:"id"`
	Type      JobType           `json:"type"`
	Status    JobStatus         `json:"status"`
	Progress  int               `json:"progress"`
	CreatedAt time.Time         `json:"created_at"`
	StartedAt time.Time         `json:"started_at,omitempty"`
	Duration  time.Duration     `json:"duration,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Result    *JobResult        `json:"result,omitempty"`
	Error     *JobError         `json:"error,omitempty"`
}

func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// Clone returns a deep copy safe to hand to readers while the worker keeps
// mutating the stored original.
func (j *Job) Clone() *Job {
	cp := *j
	if j.Metadata != nil {
		cp.Metadata = make(map[string]string, len(j.Metadata))
		for k, v := range j.Metadata {
			cp.Metadata[k] = v
		}
	}
	if j.Result != nil {
		r := *j.Result
		cp.Result = &r
	}
	if j.Error != nil {
		e := *j.Error
		cp.Error = &e
	}
	return &cp
}
