package repository

import (
	"database/sql"
	"time"
)

// SubmissionRecord is one submit attempt, successful or not.
type SubmissionRecord struct {
	ID         int       `db:"id" json:"id"`
	SessionID  string    `db:"session_id" json:"session_id"`
	CampaignID string    `db:"campaign_id" json:"campaign_id,omitempty"`
	Mode       string    `db:"mode" json:"mode"`
	Succeeded  bool      `db:"succeeded" json:"succeeded"`
	Error      string    `db:"error" json:"error,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type AuditRepositoryInterface interface {
	Record(rec *SubmissionRecord) error
	ListRecent(limit int) ([]SubmissionRecord, error)
}

type AuditRepository struct {
	DB *sql.DB
}

func (r *AuditRepository) Record(rec *SubmissionRecord) error {
	rec.CreatedAt = time.Now()
	query := `
        INSERT INTO submission_audit (session_id, campaign_id, mode, succeeded, error, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	return r.DB.QueryRow(query, rec.SessionID, rec.CampaignID, rec.Mode, rec.Succeeded, rec.Error, rec.CreatedAt).Scan(&rec.ID)
}

func (r *AuditRepository) ListRecent(limit int) ([]SubmissionRecord, error) {
	query := `
        SELECT id, session_id, campaign_id, mode, succeeded, error, created_at
        FROM submission_audit
        ORDER BY id DESC
        LIMIT $1
    `
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []SubmissionRecord{}
	for rows.Next() {
		var rec SubmissionRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.CampaignID, &rec.Mode, &rec.Succeeded, &rec.Error, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

var _ AuditRepositoryInterface = (*AuditRepository)(nil)
