package summarization

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/scripts"
)

// localModelTier loads a small summarization model in a helper process.
// Used only when the LLM server is unreachable or times out.
type localModelTier struct {
	runner  *scripts.Runner
	model   string
	tempDir string
	timeout time.Duration
}

func NewLocalModelTier(runner *scripts.Runner, model, tempDir string, timeout time.Duration) Tier {
	return &localModelTier{
		runner:  runner,
		model:   model,
		tempDir: tempDir,
		timeout: timeout,
	}
}

func (t *localModelTier) Name() string           { return "localmodel" }
func (t *localModelTier) Timeout() time.Duration { return t.timeout }

func (t *localModelTier) Summarize(ctx context.Context, transcript string, opts models.SummaryOptions, band models.WordBand) (string, error) {
	// Transcripts overflow argv; hand the script a file.
	f, err := os.CreateTemp(t.tempDir, "transcript-*.txt")
	if err != nil {
		return "", err
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString(transcript); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	var out scripts.SummarizeOutput
	args := map[string]string{
		"input":      f.Name(),
		"model":      t.model,
		"min-length": strconv.Itoa(band.Min),
		"max-length": strconv.Itoa(band.Max),
	}
	if err := t.runner.RunInto(ctx, "summarize.py", args, []string{"json"}, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", fmt.Errorf("local model: %s", out.Error)
	}
	return out.Summary, nil
}
