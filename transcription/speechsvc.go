package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

// speechSvcBackend posts canonical audio to a speech-to-text service on the
// local network, used when the in-process whisper engine is unavailable.
type speechSvcBackend struct {
	endpoint string
	client   *http.Client
}

func NewSpeechServiceBackend(endpoint string, timeout time.Duration) Backend {
	return &speechSvcBackend{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *speechSvcBackend) Name() string { return "speechsvc" }

type speechSvcResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func (s *speechSvcBackend) Transcribe(ctx context.Context, audioPath string) (*models.TranscriptionResult, error) {
	start := time.Now()

	f, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("speech service http %d: %s", resp.StatusCode, string(b))
	}

	var sr speechSvcResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	if sr.Error != "" {
		return nil, fmt.Errorf("speech service: %s", sr.Error)
	}

	return &models.TranscriptionResult{
		Text:       sr.Text,
		Backend:    s.Name(),
		Confidence: sr.Confidence,
		ElapsedSec: time.Since(start).Seconds(),
	}, nil
}
