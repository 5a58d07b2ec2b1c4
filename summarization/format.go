package summarization

import (
	"fmt"
	"strings"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

func joinSentences(sentences []string) string {
	return strings.Join(sentences, " ")
}

// fitToBand truncates prose exceeding the band ceiling at a sentence
// boundary, never mid-sentence. A single over-long sentence is cut at a
// word boundary as the last resort, and the same cut tops the summary up
// when whole sentences alone land below the band floor.
func fitToBand(text string, band models.WordBand) string {
	if wordCount(text) <= band.Max {
		return text
	}

	sentences := splitSentences(text)
	var kept []string
	total := 0
	for _, s := range sentences {
		n := wordCount(s)
		if total+n > band.Max {
			break
		}
		kept = append(kept, s)
		total += n
	}

	if len(kept) == 0 {
		words := strings.Fields(text)
		return strings.Join(words[:band.Max], " ")
	}

	if total < band.Min && len(kept) < len(sentences) {
		words := strings.Fields(sentences[len(kept)])
		if room := band.Max - total; len(words) > room {
			words = words[:room]
		}
		kept = append(kept, strings.Join(words, " "))
	}
	return joinSentences(kept)
}

// applyFormat renders band-fitted prose in the requested output shape.
func applyFormat(text string, format models.SummaryFormat) string {
	switch format {
	case models.FormatBullets:
		return bulletize(text, "- ")
	case models.FormatNumbered:
		return enumerate(text)
	case models.FormatKeyPoints:
		return "KEY POINTS:\n" + bulletize(text, "- ")
	default:
		return text
	}
}

func bulletize(text string, marker string) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return text
	}
	lines := make([]string, len(sentences))
	for i, s := range sentences {
		lines[i] = marker + s
	}
	return strings.Join(lines, "\n")
}

func enumerate(text string) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return text
	}
	lines := make([]string, len(sentences))
	for i, s := range sentences {
		lines[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}
