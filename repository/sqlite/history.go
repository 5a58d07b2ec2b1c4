package sqlite

import (
	"context"
	"database/sql"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

const (
	saveJobQuery = `
        INSERT OR REPLACE INTO jobs (
            id, type, status, transcript, transcription_backend,
            summary, summary_backend, error_code, error_message,
            created_at, duration_ms
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	recentJobsQuery = `
        SELECT id, type, status, transcript, transcription_backend,
               summary, summary_backend, error_code, error_message,
               created_at, duration_ms
        FROM jobs ORDER BY created_at DESC LIMIT ?
    `
)

// HistoryRepository stores terminal job records so the dashboard has
// history beyond the in-memory retention window.
type HistoryRepository struct {
	db   *sql.DB
	save *sql.Stmt
}

func NewHistoryRepository(db *sql.DB) (*HistoryRepository, error) {
	save, err := db.Prepare(saveJobQuery)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to prepare save statement")
	}
	return &HistoryRepository{db: db, save: save}, nil
}

func (r *HistoryRepository) SaveJob(ctx context.Context, job *models.Job) error {
	var transcript, trBackend, summary, sumBackend, errCode, errMsg string
	if job.Result != nil {
		transcript = job.Result.Transcript
		trBackend = job.Result.TranscriptionBackend
		summary = job.Result.Summary
		sumBackend = job.Result.SummaryBackend
	}
	if job.Error != nil {
		errCode = job.Error.Code
		errMsg = job.Error.Message
	}

	_, err := r.save.ExecContext(ctx,
		job.ID, string(job.Type), string(job.Status),
		transcript, trBackend, summary, sumBackend,
		errCode, errMsg,
		job.CreatedAt, job.Duration.Milliseconds(),
	)
	return pkgerrors.Wrap(err, "failed to save job")
}

// RecentJobs returns up to limit terminal records, newest first.
func (r *HistoryRepository) RecentJobs(ctx context.Context, limit int) ([]*models.Job, error) {
	rows, err := r.db.QueryContext(ctx, recentJobsQuery, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to query jobs")
	}
	defer rows.Close()

	var out []*models.Job
	for rows.Next() {
		var (
			job        models.Job
			result     models.JobResult
			errCode    string
			errMsg     string
			durationMS int64
			createdAt  time.Time
		)
		if err := rows.Scan(
			&job.ID, &job.Type, &job.Status,
			&result.Transcript, &result.TranscriptionBackend,
			&result.Summary, &result.SummaryBackend,
			&errCode, &errMsg, &createdAt, &durationMS,
		); err != nil {
			return nil, pkgerrors.Wrap(err, "failed to scan job row")
		}
		job.CreatedAt = createdAt
		job.Duration = time.Duration(durationMS) * time.Millisecond
		if job.Status == models.JobStatusCompleted {
			job.Result = &result
		}
		if errCode != "" {
			job.Error = &models.JobError{Code: errCode, Message: errMsg}
		}
		out = append(out, &job)
	}
	return out, rows.Err()
}

func (r *HistoryRepository) Close() error {
	if r.save != nil {
		r.save.Close()
	}
	return r.db.Close()
}
