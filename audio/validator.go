package audio

import (
	"bytes"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/config"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/errors"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

// Report is the validator verdict. Warnings do not block processing; a
// mostly-silent capture is still a legitimate capture.
type Report struct {
	Format   string
	Duration float64
	Warnings []string
}

type Validator struct {
	cfg config.AudioConfig
}

func NewValidator(cfg config.AudioConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate checks an asset before any subprocess is spawned: container in
// the allow-list, duration within bounds, and a silence scan for PCM
// payloads. Hard failures return a VALIDATION_ERROR.
func (v *Validator) Validate(asset *models.AudioAsset) (*Report, error) {
	const op = "audio.Validator.Validate"

	if asset == nil || asset.Empty() {
		return nil, errors.Validation(op, nil, "Audio payload is empty")
	}

	format := detectFormat(asset)
	if format == "" {
		return nil, errors.Validation(op, nil, "Unrecognized audio format")
	}
	if !v.formatAllowed(format) {
		return nil, errors.Validation(op, nil, "Audio format "+format+" is not supported")
	}

	report := &Report{Format: format}

	var info *wavInfo
	if format == "wav" && len(asset.Data) > 0 {
		parsed, err := parseWAV(asset.Data)
		if err != nil {
			return nil, errors.Validation(op, err, "Corrupt WAV header")
		}
		info = parsed
		report.Duration = parsed.Duration()
	} else {
		report.Duration = asset.Duration
	}

	if report.Duration <= 0 {
		return nil, errors.Validation(op, nil, "Audio duration is unknown or zero")
	}
	dur := time.Duration(report.Duration * float64(time.Second))
	if dur < v.cfg.MinDuration {
		return nil, errors.Validation(op, nil, "Audio is shorter than the minimum duration")
	}
	if dur > v.cfg.MaxDuration {
		return nil, errors.Validation(op, nil, "Audio exceeds the maximum duration")
	}

	if info != nil && info.AudioFormat == 1 && info.BitsPerSample == 16 {
		pcm := asset.Data[info.DataOffset : info.DataOffset+info.DataSize]
		if frac := silentFraction(pcm, v.cfg.SilenceThreshold); frac > v.cfg.SilenceFraction {
			logrus.WithFields(logrus.Fields{
				"silent_fraction": frac,
				"duration":        report.Duration,
			}).Warn("Audio is near-silent")
			report.Warnings = append(report.Warnings, "audio is mostly silent")
		}
	}

	return report, nil
}

func (v *Validator) formatAllowed(format string) bool {
	for _, f := range v.cfg.AllowedFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// detectFormat sniffs magic bytes when raw data is present, falling back to
// the declared extension for file-handle assets.
func detectFormat(asset *models.AudioAsset) string {
	if len(asset.Data) >= 12 {
		d := asset.Data
		switch {
		case bytes.Equal(d[0:4], []byte("RIFF")) && bytes.Equal(d[8:12], []byte("WAVE")):
			return "wav"
		case bytes.Equal(d[0:3], []byte("ID3")) || (d[0] == 0xFF && d[1]&0xE0 == 0xE0):
			return "mp3"
		case bytes.Equal(d[0:4], []byte("OggS")):
			return "ogg"
		case bytes.Equal(d[0:4], []byte{0x1A, 0x45, 0xDF, 0xA3}):
			return "webm"
		case bytes.Equal(d[4:8], []byte("ftyp")):
			return "mp4"
		case bytes.Equal(d[0:4], []byte("fLaC")):
			return "flac"
		}
	}

	ext := strings.TrimPrefix(strings.ToLower(asset.Extension), ".")
	if ext == "" && asset.Path != "" {
		if i := strings.LastIndex(asset.Path, "."); i >= 0 {
			ext = strings.ToLower(asset.Path[i+1:])
		}
	}
	return ext
}
