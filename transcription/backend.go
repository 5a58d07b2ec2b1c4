package transcription

import (
	"context"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

// Backend is a pluggable transcription engine. Implementations must be pure
// functions of the audio input: no mutable state shared across invocations.
type Backend interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string) (*models.TranscriptionResult, error)
}
