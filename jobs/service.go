package jobs

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/config"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/errors"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

// Runner is the unit of work a worker executes. *Pipeline is the production
// implementation.
type Runner interface {
	ValidateAsset(asset *models.AudioAsset) error
	Run(ctx context.Context, req *Request, progress func(int)) (*models.JobResult, error)
}

// HistorySink receives terminal job records for durable history. Optional.
type HistorySink interface {
	SaveJob(ctx context.Context, job *models.Job) error
}

// Request is one submitted unit of work.
type Request struct {
	JobID      string
	Type       models.JobType
	Asset      *models.AudioAsset
	Transcript string
	Options    models.SummaryOptions
	Metadata   map[string]string
}

// Service is the caller-facing surface: Submit, Status, Cancel. It owns the
// job store and the worker pool.
type Service struct {
	cfg      config.JobsConfig
	store    *Store
	pipeline Runner
	history  HistorySink

	queue chan *Request
	quit  chan struct{}
	wg    sync.WaitGroup
}

func NewService(cfg config.JobsConfig, pipeline Runner, history HistorySink) *Service {
	return &Service{
		cfg:      cfg,
		store:    NewStore(cfg.RetainedJobs),
		pipeline: pipeline,
		history:  history,
		queue:    make(chan *Request, cfg.QueueSize),
		quit:     make(chan struct{}),
	}
}

// Start launches the worker pool.
func (s *Service) Start() {
	for i := 0; i < s.cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop shuts down the pool after in-flight jobs finish their current stage.
func (s *Service) Stop() {
	close(s.quit)
	s.wg.Wait()
}

// Submit validates the request synchronously and creates a pending job.
// Structural problems surface as a VALIDATION_ERROR before any job exists.
func (s *Service) Submit(req *Request) (string, error) {
	const op = "jobs.Service.Submit"

	if req == nil {
		return "", errors.Validation(op, nil, "Request is required")
	}
	if err := req.Options.Normalize(); err != nil {
		return "", errors.Validation(op, err, "Invalid summary options")
	}

	switch req.Type {
	case models.JobTypeSummarize:
		if strings.TrimSpace(req.Transcript) == "" {
			return "", errors.Validation(op, nil, "Transcript is empty")
		}
	case models.JobTypeTranscribe, models.JobTypeFullPipeline, "":
		if req.Type == "" {
			req.Type = models.JobTypeFullPipeline
		}
		if err := s.pipeline.ValidateAsset(req.Asset); err != nil {
			return "", err
		}
	default:
		return "", errors.Validation(op, nil, "Unknown job type "+string(req.Type))
	}

	job := &models.Job{
		ID:        uuid.NewString(),
		Type:      req.Type,
		Status:    models.JobStatusPending,
		CreatedAt: time.Now(),
		Metadata:  req.Metadata,
	}
	req.JobID = job.ID

	s.store.Add(job)

	select {
	case s.queue <- req:
	default:
		// The caller gets no id back, so the record must not linger.
		s.store.Remove(job.ID)
		return "", errors.Processing(op, nil, "Job queue is full")
	}

	logrus.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"job_type": job.Type,
	}).Info("Job submitted")
	return job.ID, nil
}

// Status returns a snapshot of the job. Terminal results are stable across
// repeated calls.
func (s *Service) Status(id string) (*models.Job, error) {
	const op = "jobs.Service.Status"

	job, ok := s.store.Get(id)
	if !ok {
		return nil, errors.Validation(op, nil, "Unknown job id")
	}
	return job, nil
}

// Cancel requests cancellation. Returns false when the job is unknown or
// already terminal.
func (s *Service) Cancel(id string) bool {
	accepted := s.store.RequestCancel(id)
	if accepted {
		logrus.WithField("job_id", id).Info("Job cancellation requested")
	}
	return accepted
}
