package models

import "fmt"

type SummaryLength string

const (
	LengthShort  SummaryLength = "short"
	LengthMedium SummaryLength = "medium"
	LengthLong   SummaryLength = "long"
)

type SummaryFormat string

const (
	FormatParagraph SummaryFormat = "paragraph"
	FormatBullets   SummaryFormat = "bullets"
	FormatNumbered  SummaryFormat = "numbered"
	FormatKeyPoints SummaryFormat = "key_points"
)

type SummaryFocus string

const (
	FocusKeyPoints SummaryFocus = "key_points"
	FocusDetailed  SummaryFocus = "detailed"
)

// SummaryOptions controls the summarizer. Immutable once a job starts.
type SummaryOptions struct {
	Length SummaryLength  `json:"length"`
	Format SummaryFormat  `json:"format"`
	Focus  []SummaryFocus `json:"focus,omitempty"`
}

func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{
		Length: LengthMedium,
		Format: FormatBullets,
		Focus:  []SummaryFocus{FocusKeyPoints},
	}
}

// Normalize fills zero values with defaults and rejects unknown enums.
func (o *SummaryOptions) Normalize() error {
	if o.Length == "" {
		o.Length = LengthMedium
	}
	if o.Format == "" {
		o.Format = FormatBullets
	}
	if len(o.Focus) == 0 {
		o.Focus = []SummaryFocus{FocusKeyPoints}
	}

	switch o.Length {
	case LengthShort, LengthMedium, LengthLong:
	default:
		return fmt.Errorf("unknown summary length %q", o.Length)
	}
	switch o.Format {
	case FormatParagraph, FormatBullets, FormatNumbered, FormatKeyPoints:
	default:
		return fmt.Errorf("unknown summary format %q", o.Format)
	}
	for _, f := range o.Focus {
		switch f {
		case FocusKeyPoints, FocusDetailed:
		default:
			return fmt.Errorf("unknown summary focus %q", f)
		}
	}
	return nil
}

func (o SummaryOptions) HasFocus(f SummaryFocus) bool {
	for _, v := range o.Focus {
		if v == f {
			return true
		}
	}
	return false
}

// WordBand is the inclusive word-count range a summary must satisfy.
type WordBand struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}
