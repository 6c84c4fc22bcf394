package repository

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Draft is one autosaved composer session, recoverable after a crash.
// Payload holds the serialized form state.
type Draft struct {
	SessionID  string          `db:"session_id" json:"session_id"`
	Mode       string          `db:"mode" json:"mode"`
	CampaignID string          `db:"campaign_id" json:"campaign_id,omitempty"`
	Payload    json.RawMessage `db:"payload" json:"payload"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

type DraftRepositoryInterface interface {
	Save(d *Draft) error
	GetBySession(sessionID string) (*Draft, error)
	Delete(sessionID string) error
	ListRecent(limit int) ([]Draft, error)
}

type DraftRepository struct {
	DB *sql.DB
}

// Save upserts the draft for a session; the composer autosaves on every
// mutating call, so the last write wins.
func (r *DraftRepository) Save(d *Draft) error {
	d.UpdatedAt = time.Now()
	query := `
        INSERT INTO composer_drafts (session_id, mode, campaign_id, payload, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (session_id)
        DO UPDATE SET mode=$2, campaign_id=$3, payload=$4, updated_at=$5
    `
	_, err := r.DB.Exec(query, d.SessionID, d.Mode, d.CampaignID, d.Payload, d.UpdatedAt)
	return err
}

func (r *DraftRepository) GetBySession(sessionID string) (*Draft, error) {
	query := `
        SELECT session_id, mode, campaign_id, payload, updated_at
        FROM composer_drafts WHERE session_id=$1
    `
	var d Draft
	err := r.DB.QueryRow(query, sessionID).Scan(&d.SessionID, &d.Mode, &d.CampaignID, &d.Payload, &d.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DraftRepository) Delete(sessionID string) error {
	_, err := r.DB.Exec(`DELETE FROM composer_drafts WHERE session_id=$1`, sessionID)
	return err
}

// ListRecent returns the newest drafts first, for crash recovery.
func (r *DraftRepository) ListRecent(limit int) ([]Draft, error) {
	query := `
        SELECT session_id, mode, campaign_id, payload, updated_at
        FROM composer_drafts
        ORDER BY updated_at DESC
        LIMIT $1
    `
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drafts := []Draft{}
	for rows.Next() {
		var d Draft
		if err := rows.Scan(&d.SessionID, &d.Mode, &d.CampaignID, &d.Payload, &d.UpdatedAt); err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

var _ DraftRepositoryInterface = (*DraftRepository)(nil)
