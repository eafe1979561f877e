package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/fricsignage/signage-api/internal/model"
)

// SubmissionRepo provides persistence for the submission ledger: the record
// of each applicant request, its verbatim schedule payload and its review
// state.  Slot and file rows hang off a submission via cascading foreign
// keys, so deleting a submission removes everything it owns.
type SubmissionRepo struct {
    db *sql.DB
}

// NewSubmissionRepo returns a new SubmissionRepo bound to the given database.
func NewSubmissionRepo(db *sql.DB) *SubmissionRepo { return &SubmissionRepo{db: db} }

// DB exposes the underlying handle for handlers that open transactions.
func (r *SubmissionRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new submission within the caller's transaction and
// populates the generated ID on the record.  The submission starts in
// pending status.  The caller must commit or roll back.
func (r *SubmissionRepo) CreateTx(ctx context.Context, tx *sql.Tx, sub *model.Submission) error {
    const q = `INSERT INTO submissions (kind, title, company_name, schedule_json) VALUES (?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q, sub.Kind, sub.Title, sub.CompanyName, sub.ScheduleJSON)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    sub.ID = uint64(id)
    sub.Status = model.StatusPending
    return nil
}

// ReviewItem is one row of the admin review queue: the submission's display
// labels plus the path of its first uploaded file, used as the preview
// image.  FirstPath is empty when no file was uploaded.
type ReviewItem struct {
    ID          uint64
    CompanyName string
    Title       string
    CreatedAt   time.Time
    FirstPath   string
}

// ListByStatus returns the review queue for one status, newest first.  The
// first attached file per submission is fetched with a correlated subquery
// so the queue stays a single round trip.
func (r *SubmissionRepo) ListByStatus(ctx context.Context, status string) ([]ReviewItem, error) {
    const q = `SELECT s.id, s.company_name, s.title, s.created_at,
                      COALESCE((
                        SELECT sf.path FROM submission_files sf
                        WHERE sf.submission_id = s.id
                        ORDER BY sf.id ASC
                        LIMIT 1
                      ), '') AS first_path
               FROM submissions s
               WHERE s.status = ?
               ORDER BY s.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, status)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    items := make([]ReviewItem, 0)
    for rows.Next() {
        var it ReviewItem
        if err := rows.Scan(&it.ID, &it.CompanyName, &it.Title, &it.CreatedAt, &it.FirstPath); err != nil {
            return nil, err
        }
        items = append(items, it)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return items, nil
}

// Decide sets the review status and decision timestamp of a submission.  It
// returns ErrSubmissionNotFound for an unknown id.  Re-deciding an already
// decided submission is allowed and overwrites the previous outcome; the
// decision timestamp is refreshed either way.
func (r *SubmissionRepo) Decide(ctx context.Context, id uint64, status string) error {
    var current string
    err := r.db.QueryRowContext(ctx, `SELECT status FROM submissions WHERE id = ?`, id).Scan(&current)
    if err == sql.ErrNoRows {
        return ErrSubmissionNotFound
    }
    if err != nil {
        return err
    }
    _, err = r.db.ExecContext(ctx,
        `UPDATE submissions SET status = ?, decided_at = NOW() WHERE id = ?`, status, id)
    return err
}
