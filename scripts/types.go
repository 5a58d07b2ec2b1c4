package scripts

// TranscribeOutput is the JSON contract of the whisper helper script.
type TranscribeOutput struct {
	Text                string  `json:"text"`
	ModelName           string  `json:"model_name"`
	Duration            float64 `json:"duration"`
	Language            string  `json:"language,omitempty"`
	LanguageProbability float64 `json:"language_probability,omitempty"`
	Error               string  `json:"error,omitempty"`
}

// SummarizeOutput is the JSON contract of the local summarizer script.
type SummarizeOutput struct {
	Summary   string `json:"summary"`
	ModelName string `json:"model_name"`
	Error     string `json:"error,omitempty"`
}
