package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/config"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/errors"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

// CanonicalAudio is the normalized mono PCM file every downstream stage
// consumes. Close removes the file; the pipeline defers it on every path.
type CanonicalAudio struct {
	Path       string
	SampleRate int
}

func (c *CanonicalAudio) Close() error {
	if c.Path == "" {
		return nil
	}
	err := os.Remove(c.Path)
	c.Path = ""
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Conditioner extracts the audio track into canonical form: mono, fixed
// sample rate, signed 16-bit PCM, loudness-normalized with a high-pass
// filter to cut the noise floor.
type Conditioner struct {
	cfg     config.AudioConfig
	tempDir string

	// CommandFunc builds the ffmpeg command; tests replace it.
	CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewConditioner(cfg config.AudioConfig, tempDir string) *Conditioner {
	return &Conditioner{
		cfg:         cfg,
		tempDir:     tempDir,
		CommandFunc: exec.CommandContext,
	}
}

// Condition transcodes a validated asset into canonical form. The ffmpeg
// invocation is retried once with a permissive decode parameter set before
// the error surfaces. Intermediates are removed on every exit path.
func (c *Conditioner) Condition(ctx context.Context, asset *models.AudioAsset) (out *CanonicalAudio, err error) {
	const op = "audio.Conditioner.Condition"

	inputPath := asset.Path
	if inputPath == "" {
		inputPath, err = c.writeInputTemp(asset)
		if err != nil {
			return nil, errors.Processing(op, err, "Failed to stage audio for conditioning")
		}
		defer os.Remove(inputPath)
	}

	outFile, err := os.CreateTemp(c.tempDir, "canonical-*.wav")
	if err != nil {
		return nil, errors.Processing(op, err, "Failed to create canonical audio file")
	}
	outPath := outFile.Name()
	outFile.Close()
	defer func() {
		if err != nil {
			os.Remove(outPath)
		}
	}()

	var lastErr error
	for attempt, permissive := range []bool{false, true} {
		lastErr = c.runFFmpeg(ctx, inputPath, outPath, permissive)
		if lastErr == nil {
			return &CanonicalAudio{Path: outPath, SampleRate: c.cfg.SampleRate}, nil
		}
		if ctx.Err() == context.Canceled {
			return nil, errors.Cancelled(op, "Audio conditioning cancelled")
		}
		logrus.WithError(lastErr).WithField("attempt", attempt+1).Warn("Audio extraction attempt failed")
	}

	if errors.IsTimeout(lastErr) {
		return nil, lastErr
	}
	return nil, errors.Processing(op, lastErr, "Audio extraction failed")
}

func (c *Conditioner) runFFmpeg(ctx context.Context, inputPath, outPath string, permissive bool) error {
	const op = "audio.Conditioner.runFFmpeg"

	runCtx, cancel := context.WithTimeout(ctx, c.cfg.ExtractTimeout)
	defer cancel()

	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	if permissive {
		args = append(args, "-err_detect", "ignore_err", "-fflags", "+genpts+igndts")
	}
	args = append(args,
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(c.cfg.SampleRate),
		"-af", "highpass=f=100,loudnorm=I=-16:TP=-1.5:LRA=11",
		"-c:a", "pcm_s16le",
		"-f", "wav",
		outPath,
	)

	cmd := c.CommandFunc(runCtx, c.cfg.FFmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return errors.Timeout(op, runCtx.Err(), "Audio extraction timed out")
		}
		if s := stderr.String(); s != "" {
			return fmt.Errorf("ffmpeg: %w: %s", err, s)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

func (c *Conditioner) writeInputTemp(asset *models.AudioAsset) (string, error) {
	ext := asset.Extension
	if ext == "" {
		ext = ".bin"
	} else if ext[0] != '.' {
		ext = "." + ext
	}

	f, err := os.CreateTemp(c.tempDir, "capture-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(asset.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return filepath.Clean(f.Name()), nil
}
