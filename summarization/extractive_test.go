package summarization

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

func TestExtractiveDeterministic(t *testing.T) {
	tier := NewExtractiveTier(5 * time.Second)
	transcript := transcriptOfSentences(60)
	band := models.WordBand{Min: 50, Max: 150}

	first, err := tier.Summarize(context.Background(), transcript, models.DefaultSummaryOptions(), band)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := tier.Summarize(context.Background(), transcript, models.DefaultSummaryOptions(), band)
		if err != nil {
			t.Fatalf("summarize: %v", err)
		}
		if again != first {
			t.Fatal("extractive summarizer is not deterministic")
		}
	}
}

func TestExtractiveBands(t *testing.T) {
	tier := NewExtractiveTier(5 * time.Second)

	tests := []struct {
		name      string
		sentences int
		band      models.WordBand
	}{
		{"short band large transcript", 100, models.WordBand{Min: 30, Max: 100}},
		{"medium band large transcript", 100, models.WordBand{Min: 50, Max: 150}},
		{"long band large transcript", 100, models.WordBand{Min: 100, Max: 250}},
		{"medium band modest transcript", 25, models.WordBand{Min: 50, Max: 150}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tier.Summarize(context.Background(), transcriptOfSentences(tt.sentences), models.DefaultSummaryOptions(), tt.band)
			if err != nil {
				t.Fatalf("summarize: %v", err)
			}
			n := wordCount(out)
			if n < tt.band.Min || n > tt.band.Max {
				t.Errorf("word count %d outside band [%d,%d]", n, tt.band.Min, tt.band.Max)
			}
		})
	}
}

func TestExtractiveUnpunctuatedTranscript(t *testing.T) {
	// Speech-to-text output frequently carries no terminal punctuation, so
	// the whole transcript is one oversized sentence. The tier must still
	// produce a summary inside the band.
	tier := NewExtractiveTier(5 * time.Second)
	words := make([]string, 0, 300)
	for i := 0; i < 100; i++ {
		words = append(words, "the", "team", "discussed", "the", "quarterly", "budget")
	}
	transcript := strings.Join(words, " ")
	band := models.WordBand{Min: 30, Max: 100}

	out, err := tier.Summarize(context.Background(), transcript, models.DefaultSummaryOptions(), band)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	n := wordCount(out)
	if n == 0 {
		t.Fatal("empty summary for unpunctuated transcript")
	}
	if n < band.Min || n > band.Max {
		t.Errorf("word count %d outside band [%d,%d]", n, band.Min, band.Max)
	}
}

func TestExtractiveShortInputPassedThrough(t *testing.T) {
	tier := NewExtractiveTier(5 * time.Second)
	transcript := "Only two sentences here. That is the whole recording."

	out, err := tier.Summarize(context.Background(), transcript, models.DefaultSummaryOptions(), models.WordBand{Min: 30, Max: 100})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if out != transcript {
		t.Errorf("short input should pass through, got %q", out)
	}
}

func TestExtractiveKeepsDocumentOrder(t *testing.T) {
	tier := NewExtractiveTier(5 * time.Second)
	transcript := transcriptOfSentences(80)

	out, err := tier.Summarize(context.Background(), transcript, models.DefaultSummaryOptions(), models.WordBand{Min: 50, Max: 150})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	// Sentences end with their original index ("... item number N."); the
	// output must be ascending.
	last := -1
	for _, s := range splitSentences(out) {
		fields := strings.Fields(s)
		raw := strings.TrimSuffix(fields[len(fields)-1], ".")
		idx, err := strconv.Atoi(raw)
		if err != nil {
			t.Fatalf("cannot find index in %q", s)
		}
		if idx <= last {
			t.Fatalf("sentence order violated: %d after %d", idx, last)
		}
		last = idx
	}
}
