package summarization

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/config"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

// llmTier talks to a local LLM server (Ollama generate API). A rate limiter
// keeps bursts of jobs from flooding the single-model server.
type llmTier struct {
	endpoint  string
	model     string
	maxTokens int
	timeout   time.Duration
	client    *http.Client
	limiter   *rate.Limiter
}

func NewLLMTier(cfg config.SummarizationConfig) Tier {
	rpm := cfg.LLMRequestsPerMin
	if rpm <= 0 {
		rpm = 30
	}
	return &llmTier{
		endpoint:  strings.TrimSuffix(cfg.LLMEndpoint, "/"),
		model:     cfg.LLMModel,
		maxTokens: cfg.LLMMaxTokens,
		timeout:   cfg.LLMTimeout,
		client:    &http.Client{Timeout: cfg.LLMTimeout},
		limiter:   rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 2),
	}
}

func (l *llmTier) Name() string           { return "llm" }
func (l *llmTier) Timeout() time.Duration { return l.timeout }

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict  int     `json:"num_predict"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (l *llmTier) Summarize(ctx context.Context, transcript string, opts models.SummaryOptions, band models.WordBand) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}

	// Token budget follows the length option; a word is roughly 1.5 tokens.
	budget := band.Max * 2
	if l.maxTokens > 0 && budget > l.maxTokens {
		budget = l.maxTokens
	}

	body, err := json.Marshal(generateRequest{
		Model:  l.model,
		Prompt: buildPrompt(transcript, opts, band),
		System: "You summarize meeting and video transcripts. Respond with plain prose sentences only, no markdown, no preamble.",
		Stream: false,
		Options: generateOptions{
			NumPredict:  budget,
			Temperature: 0.3,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm server http %d: %s", resp.StatusCode, string(b))
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", err
	}
	return strings.TrimSpace(gr.Response), nil
}

func buildPrompt(transcript string, opts models.SummaryOptions, band models.WordBand) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the following transcript in %d to %d words.", band.Min, band.Max)
	if opts.HasFocus(models.FocusDetailed) {
		b.WriteString(" Preserve concrete details, names, and figures.")
	}
	if opts.HasFocus(models.FocusKeyPoints) {
		b.WriteString(" Concentrate on the main points and decisions.")
	}
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(transcript)
	return b.String()
}
