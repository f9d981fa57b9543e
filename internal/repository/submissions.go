package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/paperdesk/prefill/internal/common"
	"github.com/paperdesk/prefill/internal/prefill"
)

// Submission is a finalized, human-reviewed prefill record as stored. The
// columns duplicate the fields list views need; Record holds the full JSON.
type Submission struct {
	ID            string    `db:"id" json:"id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	Title         string    `db:"title" json:"title"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	Amount        string    `db:"amount" json:"amount"`
	Record        string    `db:"record" json:"record"`
}

// Decode unmarshals the stored record JSON.
func (s Submission) Decode() (prefill.Record, error) {
	var rec prefill.Record
	if err := json.Unmarshal([]byte(s.Record), &rec); err != nil {
		return prefill.Record{}, fmt.Errorf("decode submission %s: %w", s.ID, err)
	}
	return rec, nil
}

// SubmissionRepository persists finalized submissions.
type SubmissionRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewSubmissionRepository(db *sqlx.DB, logger *slog.Logger) *SubmissionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmissionRepository{db: db, logger: logger}
}

// Create stores the record and returns the row, id assigned here.
func (r *SubmissionRepository) Create(ctx context.Context, rec prefill.Record) (Submission, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return Submission{}, fmt.Errorf("%w: marshal record: %w", common.ErrInternal, err)
	}

	sub := Submission{
		ID:            uuid.New().String(),
		CreatedAt:     time.Now().UTC(),
		Title:         rec.Title,
		TransactionID: rec.TransactionID,
		Amount:        rec.Amount,
		Record:        string(raw),
	}

	q := r.db.Rebind(`INSERT INTO submissions (id, created_at, title, transaction_id, amount, record)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, q,
		sub.ID, sub.CreatedAt, sub.Title, sub.TransactionID, sub.Amount, sub.Record); err != nil {
		return Submission{}, fmt.Errorf("%w: insert submission: %w", common.ErrDatabase, err)
	}

	r.logger.Info("submission.created", "id", sub.ID, "transaction_id", sub.TransactionID)
	return sub, nil
}

// List returns all submissions, newest first.
func (r *SubmissionRepository) List(ctx context.Context) ([]Submission, error) {
	var subs []Submission
	q := `SELECT id, created_at, title, transaction_id, amount, record
		FROM submissions ORDER BY created_at DESC, id`
	if err := r.db.SelectContext(ctx, &subs, q); err != nil {
		return nil, fmt.Errorf("%w: list submissions: %w", common.ErrDatabase, err)
	}
	if subs == nil {
		subs = []Submission{}
	}
	return subs, nil
}

// GetByID returns one submission or common.ErrNotFound.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (Submission, error) {
	var sub Submission
	q := r.db.Rebind(`SELECT id, created_at, title, transaction_id, amount, record
		FROM submissions WHERE id = ?`)
	if err := r.db.GetContext(ctx, &sub, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, fmt.Errorf("%w: submission %s", common.ErrNotFound, id)
		}
		return Submission{}, fmt.Errorf("%w: get submission: %w", common.ErrDatabase, err)
	}
	return sub, nil
}

// Ping reports whether the backing database is reachable.
func (r *SubmissionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
