package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/audio"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/config"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/jobs"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/logger"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/repository/sqlite"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/scripts"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/summarization"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/transcription"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		inputPath  = flag.String("file", "", "audio/video capture to process")
		length     = flag.String("length", "medium", "summary length: short|medium|long")
		format     = flag.String("format", "bullets", "summary format: paragraph|bullets|numbered|key_points")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: svs -file <capture> [-length L] [-format F]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.LogDir, cfg.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	service, cleanup, err := buildService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to build pipeline")
	}
	defer cleanup()

	service.Start()
	defer service.Stop()

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to read input file")
	}

	jobID, err := service.Submit(&jobs.Request{
		Type: models.JobTypeFullPipeline,
		Asset: &models.AudioAsset{
			Data:      data,
			Extension: filepath.Ext(*inputPath),
		},
		Options: models.SummaryOptions{
			Length: models.SummaryLength(*length),
			Format: models.SummaryFormat(*format),
		},
		Metadata: map[string]string{"source": *inputPath},
	})
	if err != nil {
		logrus.WithError(err).Fatal("Submission rejected")
	}

	job := poll(service, jobID)
	if job.Status == models.JobStatusFailed {
		logrus.WithFields(logrus.Fields{
			"code":    job.Error.Code,
			"message": job.Error.Message,
		}).Fatal("Job failed")
	}

	fmt.Println(strings.TrimSpace(job.Result.Summary))
}

func buildService(cfg *config.Config) (*jobs.Service, func(), error) {
	runner := scripts.NewRunner(scripts.Config{
		PythonPath:  cfg.Transcription.PythonPath,
		ScriptsPath: cfg.Transcription.ScriptsPath,
	})

	var backends []transcription.Backend
	for _, name := range cfg.Transcription.Backends {
		switch name {
		case "whisper":
			backends = append(backends, transcription.NewWhisperBackend(runner, cfg.Transcription.WhisperModel))
		case "speechsvc":
			backends = append(backends, transcription.NewSpeechServiceBackend(cfg.Transcription.SpeechEndpoint, cfg.Transcription.SpeechTimeout))
		default:
			return nil, nil, fmt.Errorf("unknown transcription backend %q", name)
		}
	}

	tiers := []summarization.Tier{
		summarization.NewLLMTier(cfg.Summarization),
		summarization.NewLocalModelTier(runner, cfg.Summarization.LocalModel, cfg.TempDir, cfg.Summarization.LocalModelTimeout),
		summarization.NewExtractiveTier(cfg.Summarization.ExtractiveTimeout),
	}

	pipeline := jobs.NewPipeline(
		audio.NewValidator(cfg.Audio),
		audio.NewConditioner(cfg.Audio, cfg.TempDir),
		transcription.NewCoordinator(backends, cfg.Transcription.BackendTimeout),
		summarization.NewCoordinator(tiers, cfg.Summarization.Bands),
	)

	cleanup := func() {}
	var history jobs.HistorySink
	if cfg.HistoryDBPath != "" {
		db, err := sqlite.InitDB(cfg.HistoryDBPath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := sqlite.NewHistoryRepository(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		history = repo
		cleanup = func() { repo.Close() }
	}

	return jobs.NewService(cfg.Jobs, pipeline, history), cleanup, nil
}

func poll(service *jobs.Service, jobID string) *models.Job {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastProgress := -1
	for range ticker.C {
		job, err := service.Status(jobID)
		if err != nil {
			logrus.WithError(err).Fatal("Status poll failed")
		}
		if job.Progress != lastProgress {
			logrus.WithFields(logrus.Fields{
				"status":   job.Status,
				"progress": job.Progress,
			}).Info("Job progress")
			lastProgress = job.Progress
		}
		if job.IsTerminal() {
			return job
		}
	}
	return nil
}
