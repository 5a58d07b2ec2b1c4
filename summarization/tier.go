package summarization

import (
	"context"
	"time"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

// Tier is one summarization strategy in the fallback chain. Tiers return
// raw prose; the coordinator enforces the word band and applies formatting.
type Tier interface {
	Name() string
	Timeout() time.Duration
	Summarize(ctx context.Context, transcript string, opts models.SummaryOptions, band models.WordBand) (string, error)
}
