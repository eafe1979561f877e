package repository

import (
    "context"
    "database/sql"

    "github.com/fricsignage/signage-api/internal/model"
)

// FileRepo persists submission_files rows, one per uploaded media file.
type FileRepo struct {
    db *sql.DB
}

// NewFileRepo returns a new FileRepo bound to the given database.
func NewFileRepo(db *sql.DB) *FileRepo { return &FileRepo{db: db} }

// CreateTx inserts a file record within the caller's transaction so that a
// failed upload rolls back together with the submission and its slots.  The
// generated ID is populated on the record.
func (r *FileRepo) CreateTx(ctx context.Context, tx *sql.Tx, f *model.SubmissionFile) error {
    const q = `INSERT INTO submission_files (submission_id, path, original_name, mime, size)
               VALUES (?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q, f.SubmissionID, f.Path, f.OriginalName, f.Mime, f.Size)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    f.ID = uint64(id)
    return nil
}
