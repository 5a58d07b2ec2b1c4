package jobs

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/errors"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

// worker pulls requests off the queue and drives them through the pipeline.
// A panic in one job fails that job only; the worker keeps serving.
func (s *Service) worker(id int) {
	defer s.wg.Done()

	logger := logrus.WithField("worker_id", id)
	logger.Info("Starting worker")

	for {
		select {
		case <-s.quit:
			logger.Info("Worker shutting down")
			return
		case req := <-s.queue:
			s.execute(logger, req)
		}
	}
}

func (s *Service) execute(logger *logrus.Entry, req *Request) {
	jobCtx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
	defer cancel()

	// Claim is the only pending->running edge; losing it means the job was
	// cancelled before it started.
	if !s.store.Claim(req.JobID, cancel) {
		logger.WithField("job_id", req.JobID).Info("Job no longer claimable, skipping")
		return
	}

	logger = logger.WithFields(logrus.Fields{
		"job_id":   req.JobID,
		"job_type": req.Type,
	})
	logger.Info("Started processing job")
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("Job panicked")
			s.store.Fail(req.JobID, errors.CodeProcessing, fmt.Sprintf("Internal failure: %v", r))
			s.persist(req.JobID)
		}
	}()

	result, err := s.pipeline.Run(jobCtx, req, func(p int) {
		s.store.SetProgress(req.JobID, p)
	})

	switch {
	case err == nil:
		s.store.Complete(req.JobID, result)
		logger.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Job completed")
	case s.store.CancelRequested(req.JobID) || errors.IsCancelled(err):
		s.store.Fail(req.JobID, errors.CodeCancelled, "Job cancelled")
		logger.Info("Job cancelled")
	default:
		appErr := asJobError(err)
		s.store.Fail(req.JobID, appErr.Code, appErr.Message)
		logger.WithError(err).WithField("code", appErr.Code).Error("Job failed")
	}

	s.persist(req.JobID)
}

// persist forwards the terminal record to the optional history sink.
func (s *Service) persist(jobID string) {
	if s.history == nil {
		return
	}
	job, ok := s.store.Get(jobID)
	if !ok || !job.IsTerminal() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.history.SaveJob(ctx, job); err != nil {
		logrus.WithError(err).WithField("job_id", jobID).Warn("Failed to persist job history")
	}
}

// asJobError maps any stage error onto the caller-visible taxonomy without
// leaking internals.
func asJobError(err error) *models.JobError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return &models.JobError{Code: appErr.Code, Message: appErr.Message}
	}
	return &models.JobError{Code: errors.CodeProcessing, Message: "Pipeline stage failed"}
}
