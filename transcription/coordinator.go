package transcription

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/errors"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

// Coordinator walks an ordered backend list until one returns usable text.
// Ordering encodes quality preference; there is no cross-backend comparison.
type Coordinator struct {
	backends []Backend
	timeout  time.Duration
}

func NewCoordinator(backends []Backend, perBackendTimeout time.Duration) *Coordinator {
	return &Coordinator{
		backends: backends,
		timeout:  perBackendTimeout,
	}
}

// Transcribe tries each backend under its own timeout. The first backend to
// return non-empty text wins. A backend succeeding with empty text is kept
// as a last resort so that silent recordings still complete rather than
// fail. Exhaustion yields a TRANSCRIPTION_ERROR aggregating every backend's
// failure reason.
func (c *Coordinator) Transcribe(ctx context.Context, audioPath string) (*models.TranscriptionResult, error) {
	const op = "transcription.Coordinator.Transcribe"

	agg := errors.NewAggregate(op)
	var emptyResult *models.TranscriptionResult

	for _, backend := range c.backends {
		if ctx.Err() != nil {
			return nil, errors.Cancelled(op, "Transcription cancelled")
		}

		logger := logrus.WithField("backend", backend.Name())

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		result, err := backend.Transcribe(attemptCtx, audioPath)
		timedOut := attemptCtx.Err() == context.DeadlineExceeded
		cancel()

		if err != nil {
			if timedOut {
				logger.WithField("timeout", c.timeout).Warn("Backend timed out, trying next")
				agg.Add(backend.Name(), errors.Timeout(op, err, "backend timed out"))
			} else {
				logger.WithError(err).Warn("Backend failed, trying next")
				agg.Add(backend.Name(), err)
			}
			continue
		}

		if strings.TrimSpace(result.Text) == "" {
			logger.Warn("Backend returned empty transcript")
			if emptyResult == nil {
				emptyResult = result
			}
			continue
		}

		logger.WithField("elapsed_sec", result.ElapsedSec).Info("Transcription completed")
		return result, nil
	}

	if emptyResult != nil {
		return emptyResult, nil
	}

	return nil, errors.Transcription(op, agg, "All transcription backends failed")
}
