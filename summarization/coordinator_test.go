package summarization

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/errors"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

var testBands = map[models.SummaryLength]models.WordBand{
	models.LengthShort:  {Min: 30, Max: 100},
	models.LengthMedium: {Min: 50, Max: 150},
	models.LengthLong:   {Min: 100, Max: 250},
}

type fakeTier struct {
	name    string
	timeout time.Duration
	fn      func(ctx context.Context, transcript string, band models.WordBand) (string, error)
}

func (f *fakeTier) Name() string           { return f.name }
func (f *fakeTier) Timeout() time.Duration { return f.timeout }

func (f *fakeTier) Summarize(ctx context.Context, transcript string, opts models.SummaryOptions, band models.WordBand) (string, error) {
	return f.fn(ctx, transcript, band)
}

func workingTier(name, output string) Tier {
	return &fakeTier{name: name, timeout: time.Second, fn: func(ctx context.Context, transcript string, band models.WordBand) (string, error) {
		return output, nil
	}}
}

func brokenTier(name string) Tier {
	return &fakeTier{name: name, timeout: time.Second, fn: func(ctx context.Context, transcript string, band models.WordBand) (string, error) {
		return "", fmt.Errorf("%s unreachable", name)
	}}
}

func hangingTier(name string) Tier {
	return &fakeTier{name: name, timeout: 20 * time.Millisecond, fn: func(ctx context.Context, transcript string, band models.WordBand) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
}

// transcriptOfSentences builds a transcript with n sentences of about ten
// words each, varied enough for salience scoring to have signal.
func transcriptOfSentences(n int) string {
	topics := []string{"budget planning", "release schedule", "customer feedback", "hiring pipeline", "infrastructure costs"}
	var b strings.Builder
	for i := 0; i < n; i++ {
		topic := topics[i%len(topics)]
		fmt.Fprintf(&b, "The team discussed the %s and agreed on item number %d. ", topic, i+1)
	}
	return strings.TrimSpace(b.String())
}

func defaultOpts() models.SummaryOptions {
	return models.DefaultSummaryOptions()
}

func TestPrimaryTierWins(t *testing.T) {
	prose := transcriptOfSentences(8)
	c := NewCoordinator([]Tier{
		workingTier("llm", prose),
		brokenTier("localmodel"),
	}, testBands)

	opts := defaultOpts()
	opts.Format = models.FormatParagraph
	summary, err := c.Summarize(context.Background(), transcriptOfSentences(40), opts)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Tier != "llm" {
		t.Errorf("tier = %s, want llm", summary.Tier)
	}
}

func TestFallbackToExtractive(t *testing.T) {
	// LLM endpoint unreachable, local model broken: tier 3 must carry it and
	// the result records the extractive backend.
	c := NewCoordinator([]Tier{
		brokenTier("llm"),
		brokenTier("localmodel"),
		NewExtractiveTier(5 * time.Second),
	}, testBands)

	opts := defaultOpts()
	opts.Format = models.FormatParagraph
	summary, err := c.Summarize(context.Background(), transcriptOfSentences(40), opts)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Tier != "extractive" {
		t.Errorf("tier = %s, want extractive", summary.Tier)
	}
	band := testBands[models.LengthMedium]
	if n := wordCount(summary.Text); n < band.Min || n > band.Max {
		t.Errorf("word count %d outside band [%d,%d]", n, band.Min, band.Max)
	}
}

func TestTimeoutTreatedAsTierFailure(t *testing.T) {
	c := NewCoordinator([]Tier{
		hangingTier("llm"),
		NewExtractiveTier(5 * time.Second),
	}, testBands)

	opts := defaultOpts()
	opts.Format = models.FormatParagraph
	summary, err := c.Summarize(context.Background(), transcriptOfSentences(40), opts)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Tier != "extractive" {
		t.Errorf("tier = %s, want extractive", summary.Tier)
	}
}

func TestAllTiersExhausted(t *testing.T) {
	c := NewCoordinator([]Tier{
		brokenTier("llm"),
		brokenTier("localmodel"),
	}, testBands)

	_, err := c.Summarize(context.Background(), transcriptOfSentences(20), defaultOpts())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.CodeSummarization) {
		t.Errorf("error code = %s, want %s", errors.Code(err), errors.CodeSummarization)
	}
	for _, want := range []string{"llm", "localmodel"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("aggregate %q missing tier %q", err.Error(), want)
		}
	}
}

func TestEmptyTranscriptYieldsNoContentSummary(t *testing.T) {
	c := NewCoordinator([]Tier{brokenTier("llm")}, testBands)

	summary, err := c.Summarize(context.Background(), "   \n  ", defaultOpts())
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if !strings.Contains(summary.Text, "No spoken content") {
		t.Errorf("summary = %q, want no-content text", summary.Text)
	}
	if summary.Tier != "extractive" {
		t.Errorf("tier = %s, want extractive", summary.Tier)
	}
}

func TestOversizedTierOutputTruncatedAtSentenceBoundary(t *testing.T) {
	// Tier emits far more than the short band allows; the coordinator must
	// cut at a sentence boundary, never mid-sentence.
	c := NewCoordinator([]Tier{
		workingTier("llm", transcriptOfSentences(30)),
	}, testBands)

	opts := defaultOpts()
	opts.Length = models.LengthShort
	opts.Format = models.FormatParagraph
	summary, err := c.Summarize(context.Background(), transcriptOfSentences(50), opts)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if n := wordCount(summary.Text); n > 100 {
		t.Errorf("word count %d exceeds short band max 100", n)
	}
	if !strings.HasSuffix(strings.TrimSpace(summary.Text), ".") {
		t.Errorf("summary does not end at a sentence boundary: %q", summary.Text)
	}
}

func TestBulletFormat(t *testing.T) {
	c := NewCoordinator([]Tier{
		brokenTier("llm"),
		NewExtractiveTier(5 * time.Second),
	}, testBands)

	opts := models.SummaryOptions{Length: models.LengthShort, Format: models.FormatBullets}
	summary, err := c.Summarize(context.Background(), transcriptOfSentences(40), opts)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	lines := strings.Split(summary.Text, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected multiple bullet lines, got %q", summary.Text)
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "- ") {
			t.Errorf("line %q is not a bullet", line)
		}
	}

	band := testBands[models.LengthShort]
	if n := contentWords(summary.Text); n < band.Min || n > band.Max {
		t.Errorf("content word count %d outside band [%d,%d]", n, band.Min, band.Max)
	}
}

func TestInvalidOptionsRejected(t *testing.T) {
	c := NewCoordinator([]Tier{workingTier("llm", "text.")}, testBands)

	opts := models.SummaryOptions{Length: "enormous"}
	_, err := c.Summarize(context.Background(), "some transcript.", opts)
	if !errors.IsValidation(err) {
		t.Errorf("error = %v, want validation error", err)
	}
}

// contentWords counts words excluding list markers and headings.
func contentWords(summary string) int {
	n := 0
	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimPrefix(line, "- ")
		if line == "KEY POINTS:" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 0 && strings.HasSuffix(fields[0], ".") && len(fields[0]) <= 3 {
			fields = fields[1:] // numbered marker
		}
		n += len(fields)
	}
	return n
}
