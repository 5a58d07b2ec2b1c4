package transcription

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/scripts"
)

// whisperBackend runs the local faster-whisper helper script. Audio never
// leaves the host.
type whisperBackend struct {
	runner *scripts.Runner
	model  string
}

func NewWhisperBackend(runner *scripts.Runner, model string) Backend {
	return &whisperBackend{runner: runner, model: model}
}

func (w *whisperBackend) Name() string { return "whisper" }

func (w *whisperBackend) Transcribe(ctx context.Context, audioPath string) (*models.TranscriptionResult, error) {
	logrus.WithFields(logrus.Fields{
		"backend": w.Name(),
		"model":   w.model,
	}).Info("Starting transcription")

	start := time.Now()

	var out scripts.TranscribeOutput
	args := map[string]string{
		"input": audioPath,
		"model": w.model,
	}
	if err := w.runner.RunInto(ctx, "transcribe.py", args, []string{"json"}, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("whisper: %s", out.Error)
	}

	return &models.TranscriptionResult{
		Text:       out.Text,
		Backend:    w.Name(),
		Confidence: out.LanguageProbability,
		ElapsedSec: time.Since(start).Seconds(),
	}, nil
}
