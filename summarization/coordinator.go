package summarization

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/errors"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

// NoContentSummary is returned for transcripts with no spoken content, so
// silent captures complete instead of erroring.
const NoContentSummary = "No spoken content was detected in this recording."

// Summary is the coordinator's output: formatted text plus the tier that
// produced it.
type Summary struct {
	Text string
	Tier string
}

// Coordinator applies the three-tier fallback chain in strict order. A
// tier's timeout is treated identically to a tier failure: log, advance.
type Coordinator struct {
	tiers []Tier
	bands map[models.SummaryLength]models.WordBand
}

func NewCoordinator(tiers []Tier, bands map[models.SummaryLength]models.WordBand) *Coordinator {
	return &Coordinator{
		tiers: tiers,
		bands: bands,
	}
}

func (c *Coordinator) Summarize(ctx context.Context, transcript string, opts models.SummaryOptions) (*Summary, error) {
	const op = "summarization.Coordinator.Summarize"

	if err := opts.Normalize(); err != nil {
		return nil, errors.Validation(op, err, "Invalid summary options")
	}
	band := c.band(opts.Length)

	if strings.TrimSpace(transcript) == "" {
		return &Summary{
			Text: applyFormat(NoContentSummary, opts.Format),
			Tier: "extractive",
		}, nil
	}

	agg := errors.NewAggregate(op)
	for _, tier := range c.tiers {
		if ctx.Err() != nil {
			return nil, errors.Cancelled(op, "Summarization cancelled")
		}

		logger := logrus.WithFields(logrus.Fields{
			"tier":   tier.Name(),
			"length": opts.Length,
			"format": opts.Format,
		})

		tierCtx, cancel := context.WithTimeout(ctx, tier.Timeout())
		raw, err := tier.Summarize(tierCtx, transcript, opts, band)
		timedOut := tierCtx.Err() == context.DeadlineExceeded
		cancel()

		if err != nil {
			if timedOut {
				logger.Warn("Tier timed out, trying next")
				agg.Add(tier.Name(), errors.Timeout(op, err, "tier timed out"))
			} else {
				logger.WithError(err).Warn("Tier failed, trying next")
				agg.Add(tier.Name(), err)
			}
			continue
		}

		raw = strings.TrimSpace(raw)
		if raw == "" {
			logger.Warn("Tier produced empty summary, trying next")
			agg.Add(tier.Name(), errors.Summarization(op, nil, "empty summary"))
			continue
		}

		fitted := fitToBand(raw, band)
		logger.WithField("words", wordCount(fitted)).Info("Summary produced")
		return &Summary{
			Text: applyFormat(fitted, opts.Format),
			Tier: tier.Name(),
		}, nil
	}

	return nil, errors.Summarization(op, agg, "All summarization tiers failed")
}

func (c *Coordinator) band(length models.SummaryLength) models.WordBand {
	if band, ok := c.bands[length]; ok {
		return band
	}
	return models.WordBand{Min: 50, Max: 150}
}
