package summarization

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

// extractiveTier is the deterministic last resort: no model, no subprocess,
// no network. Sentences are ranked by term-frequency overlap with the
// whole-document centroid and reassembled in document order until the word
// band is satisfied.
type extractiveTier struct {
	timeout time.Duration
}

func NewExtractiveTier(timeout time.Duration) Tier {
	return &extractiveTier{timeout: timeout}
}

func (e *extractiveTier) Name() string           { return "extractive" }
func (e *extractiveTier) Timeout() time.Duration { return e.timeout }

func (e *extractiveTier) Summarize(ctx context.Context, transcript string, opts models.SummaryOptions, band models.WordBand) (string, error) {
	sentences := splitSentences(transcript)
	if len(sentences) == 0 {
		return "", nil
	}

	// Whole text already inside the band (or too short to meet it): nothing
	// to select.
	if wordCount(transcript) <= band.Max {
		return transcript, nil
	}

	scores := scoreSentences(sentences)

	type ranked struct {
		index int
		score float64
	}
	order := make([]ranked, len(sentences))
	for i, s := range scores {
		order[i] = ranked{index: i, score: s}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return order[a].score > order[b].score
	})

	// Greedily take the most salient sentences that fit under the band
	// ceiling, then restore document order.
	selected := make(map[int]bool)
	total := 0
	for _, r := range order {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		n := wordCount(sentences[r.index])
		if total+n > band.Max {
			continue
		}
		selected[r.index] = true
		total += n
		if total >= band.Min {
			break
		}
	}

	// If salience-first packing fell short of the floor, top up with the
	// remaining sentences that still fit.
	if total < band.Min {
		for _, r := range order {
			if selected[r.index] {
				continue
			}
			n := wordCount(sentences[r.index])
			if total+n > band.Max {
				continue
			}
			selected[r.index] = true
			total += n
			if total >= band.Min {
				break
			}
		}
	}

	// ASR output often arrives with no terminal punctuation, so the whole
	// transcript segments into one sentence larger than the ceiling and
	// nothing gets selected. Cut the top-ranked sentence at a word boundary
	// instead of returning nothing.
	if len(selected) == 0 {
		words := strings.Fields(sentences[order[0].index])
		if len(words) > band.Max {
			words = words[:band.Max]
		}
		return strings.Join(words, " "), nil
	}

	var parts []string
	for i, s := range sentences {
		if selected[i] {
			parts = append(parts, s)
		}
	}
	return joinSentences(parts), nil
}

// scoreSentences computes term-frequency centroid salience: a sentence
// scores by the document frequency of its non-stopword terms, normalized by
// sentence length so long sentences do not dominate.
func scoreSentences(sentences []string) []float64 {
	docFreq := make(map[string]float64)
	for _, s := range sentences {
		for _, tok := range tokenize(s) {
			if !stopwords[tok] {
				docFreq[tok]++
			}
		}
	}

	scores := make([]float64, len(sentences))
	for i, s := range sentences {
		tokens := tokenize(s)
		if len(tokens) == 0 {
			continue
		}
		var sum float64
		for _, tok := range tokens {
			sum += docFreq[tok]
		}
		scores[i] = sum / float64(len(tokens))
	}
	return scores
}
