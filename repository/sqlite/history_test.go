package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

func testRepo(t *testing.T) *HistoryRepository {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	repo, err := NewHistoryRepository(db)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndLoadCompletedJob(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	job := &models.Job{
		ID:        "job-1",
		Type:      models.JobTypeFullPipeline,
		Status:    models.JobStatusCompleted,
		CreatedAt: time.Now().UTC(),
		Duration:  42 * time.Second,
		Result: &models.JobResult{
			Transcript:           "hello",
			TranscriptionBackend: "whisper",
			Summary:              "- hello",
			SummaryBackend:       "llm",
		},
	}
	if err := repo.SaveJob(ctx, job); err != nil {
		t.Fatalf("save: %v", err)
	}

	jobs, err := repo.RecentJobs(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(jobs))
	}
	got := jobs[0]
	if got.ID != "job-1" || got.Status != models.JobStatusCompleted {
		t.Errorf("job = %+v", got)
	}
	if got.Result == nil || got.Result.Summary != "- hello" {
		t.Errorf("result = %+v", got.Result)
	}
	if got.Duration != 42*time.Second {
		t.Errorf("duration = %v", got.Duration)
	}
}

func TestSaveFailedJobKeepsError(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	job := &models.Job{
		ID:        "job-2",
		Type:      models.JobTypeTranscribe,
		Status:    models.JobStatusFailed,
		CreatedAt: time.Now().UTC(),
		Error: &models.JobError{
			Code:    "TRANSCRIPTION_ERROR",
			Message: "All transcription backends failed",
		},
	}
	if err := repo.SaveJob(ctx, job); err != nil {
		t.Fatalf("save: %v", err)
	}

	jobs, err := repo.RecentJobs(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(jobs))
	}
	got := jobs[0]
	if got.Error == nil || got.Error.Code != "TRANSCRIPTION_ERROR" {
		t.Errorf("error = %+v", got.Error)
	}
	if got.Result != nil {
		t.Errorf("failed job carried a result: %+v", got.Result)
	}
}

func TestSaveIsIdempotentPerJobID(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	job := &models.Job{
		ID:        "job-3",
		Type:      models.JobTypeSummarize,
		Status:    models.JobStatusCompleted,
		CreatedAt: time.Now().UTC(),
		Result:    &models.JobResult{Summary: "first"},
	}
	if err := repo.SaveJob(ctx, job); err != nil {
		t.Fatalf("save: %v", err)
	}
	job.Result.Summary = "second"
	if err := repo.SaveJob(ctx, job); err != nil {
		t.Fatalf("resave: %v", err)
	}

	jobs, err := repo.RecentJobs(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1 after replace", len(jobs))
	}
	if jobs[0].Result == nil || jobs[0].Result.Summary != "second" {
		t.Errorf("result = %+v, want replaced summary", jobs[0].Result)
	}
}
