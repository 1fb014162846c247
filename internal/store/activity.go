package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KnightCoder27/Skael/internal/model"
)

// ActivityStore appends and reads the append-only event and artifact rows:
// user activity, generated resumes and match scores. Rows here are only
// ever created, never updated.
type ActivityStore struct {
	pool *pgxpool.Pool
}

// NewActivityStore returns an ActivityStore over pool.
func NewActivityStore(pool *pgxpool.Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

// LogActivity appends one activity row and returns its id.
func (s *ActivityStore) LogActivity(ctx context.Context, userID int64, jobID *int64, actionType string, metadata map[string]any) (int64, error) {
	var meta any
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return 0, fmt.Errorf("marshal activity metadata: %w", err)
		}
		meta = raw
	}

	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO user_activity_log (user_id, job_id, action_type, activity_metadata)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		userID, jobID, actionType, meta,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("activity insert: %w", err)
	}
	return id, nil
}

// ActivitiesByUser lists a user's activity rows, newest first.
func (s *ActivityStore) ActivitiesByUser(ctx context.Context, userID int64) ([]model.UserActivityLog, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, job_id, action_type, activity_metadata, created_at
		 FROM user_activity_log
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("activity list: %w", err)
	}
	defer rows.Close()

	out := make([]model.UserActivityLog, 0)
	for rows.Next() {
		var a model.UserActivityLog
		var meta []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.JobID, &a.ActionType, &meta, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("activity scan: %w", err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &a.Metadata); err != nil {
				return nil, fmt.Errorf("activity metadata decode: %w", err)
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateResume appends one generated-resume artifact and returns its id.
func (s *ActivityStore) CreateResume(ctx context.Context, userID int64, jobID *int64, source, content string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO user_resume (user_id, job_id, source, content)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		userID, jobID, source, content,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("resume insert: %w", err)
	}
	return id, nil
}

// ResumesByUser lists a user's generated resumes, newest first.
func (s *ActivityStore) ResumesByUser(ctx context.Context, userID int64) ([]model.UserResume, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, job_id, source, content, created_at
		 FROM user_resume
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("resume list: %w", err)
	}
	defer rows.Close()

	out := make([]model.UserResume, 0)
	for rows.Next() {
		var r model.UserResume
		if err := rows.Scan(&r.ID, &r.UserID, &r.JobID, &r.Source, &r.Content, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("resume scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LogMatchScore appends one match-score row and returns its id.
func (s *ActivityStore) LogMatchScore(ctx context.Context, userID, jobID int64, score int, explanation string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO match_score_log (user_id, job_id, score, explanation)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		userID, jobID, score, explanation,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("match score insert: %w", err)
	}
	return id, nil
}
