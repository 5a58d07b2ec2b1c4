package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/audio"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/errors"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/summarization"
)

// Stage dependencies, narrowed to what the pipeline calls so tests can stub
// each one.
type (
	Validator interface {
		Validate(asset *models.AudioAsset) (*audio.Report, error)
	}
	Conditioner interface {
		Condition(ctx context.Context, asset *models.AudioAsset) (*audio.CanonicalAudio, error)
	}
	Transcriber interface {
		Transcribe(ctx context.Context, audioPath string) (*models.TranscriptionResult, error)
	}
	Summarizer interface {
		Summarize(ctx context.Context, transcript string, opts models.SummaryOptions) (*summarization.Summary, error)
	}
)

// Pipeline runs the stages of one job sequentially: validate, condition,
// transcribe, summarize. Stages are skipped according to job type.
type Pipeline struct {
	validator   Validator
	conditioner Conditioner
	transcriber Transcriber
	summarizer  Summarizer
}

func NewPipeline(v Validator, c Conditioner, t Transcriber, s Summarizer) *Pipeline {
	return &Pipeline{
		validator:   v,
		conditioner: c,
		transcriber: t,
		summarizer:  s,
	}
}

// ValidateAsset is the synchronous pre-submission check: structural
// validity, format allow-list, duration bounds. No job exists yet when it
// fails.
func (p *Pipeline) ValidateAsset(asset *models.AudioAsset) error {
	_, err := p.validator.Validate(asset)
	return err
}

// Run executes the stages for one request, publishing progress at each
// checkpoint. The caller's context carries cancellation; every stage
// boundary observes it.
func (p *Pipeline) Run(ctx context.Context, req *Request, progress func(int)) (*models.JobResult, error) {
	const op = "jobs.Pipeline.Run"
	start := time.Now()
	logger := logrus.WithFields(logrus.Fields{
		"job_id":   req.JobID,
		"job_type": req.Type,
	})

	result := &models.JobResult{}
	transcript := req.Transcript

	if req.Type != models.JobTypeSummarize {
		report, err := p.validator.Validate(req.Asset)
		if err != nil {
			return nil, err
		}
		for _, w := range report.Warnings {
			logger.WithField("warning", w).Warn("Validator warning")
		}
		progress(models.ProgressValidated)
		if err := checkCancelled(ctx, op); err != nil {
			return nil, err
		}

		canonical, err := p.conditioner.Condition(ctx, req.Asset)
		if err != nil {
			return nil, err
		}
		defer canonical.Close()
		progress(models.ProgressConditioned)
		if err := checkCancelled(ctx, op); err != nil {
			return nil, err
		}

		tr, err := p.transcriber.Transcribe(ctx, canonical.Path)
		if err != nil {
			return nil, err
		}
		transcript = tr.Text
		result.Transcript = tr.Text
		result.TranscriptionBackend = tr.Backend
		result.Confidence = tr.Confidence
	} else {
		result.Transcript = transcript
	}
	progress(models.ProgressTranscribed)
	if err := checkCancelled(ctx, op); err != nil {
		return nil, err
	}

	if req.Type != models.JobTypeTranscribe {
		summary, err := p.summarizer.Summarize(ctx, transcript, req.Options)
		if err != nil {
			return nil, err
		}
		result.Summary = summary.Text
		result.SummaryBackend = summary.Tier
	}
	progress(models.ProgressSummarized)

	result.Elapsed = time.Since(start)
	return result, nil
}

func checkCancelled(ctx context.Context, op string) error {
	if ctx.Err() != nil {
		return errors.Cancelled(op, "Job cancelled")
	}
	return nil
}
