package models

// AudioAsset is the raw capture handed to the pipeline: either in-memory
// bytes or a path to a file on disk, plus whatever the caller declared about
// it. The pipeline run that validates an asset owns it exclusively and
// discards it once a canonical copy exists.
type AudioAsset struct {
	Data       []byte
	Path       string
	MIMEType   string
	Extension  string
	Duration   float64 // seconds, declared by caller or parsed from header
	SampleRate int
	Channels   int
}

func (a *AudioAsset) Empty() bool {
	return len(a.Data) == 0 && a.Path == ""
}

// TranscriptionResult is the output of one successful backend attempt.
// Consumed by the summarizer and the final job result, never mutated after.
type TranscriptionResult struct {
	Text       string  `json:"text"`
	Backend    string  `json:"backend"`
	Confidence float64 `json:"confidence,omitempty"`
	ElapsedSec float64 `json:"elapsed_sec"`
}
