package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/fricsignage/signage-api/internal/model"
    "github.com/fricsignage/signage-api/internal/schedule"
)

// SlotRepo is the durable registry of reservation slots.  The table's
// composite primary key (kind, day, time) enforces the one invariant of the
// whole system: a given slot is held by at most one submission, ever.
// Application code never pre-locks; the key is the authoritative guard and
// concurrent submissions racing for the same slot are resolved by it.
type SlotRepo struct {
    db *sql.DB
}

// NewSlotRepo returns a new SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span the submission row, its slots and its file rows.
func (r *SlotRepo) DB() *sql.DB { return r.db }

// BookedSlot is one row returned by the range query, with day and time
// already formatted for clients.
type BookedSlot struct {
    Day  string // "2006-01-02"
    Time string // "15:04"
}

// InsertTx inserts a single reservation slot within the caller's
// transaction.  A duplicate-key rejection from MySQL (error 1062) is mapped
// to a *SlotTakenError naming the colliding pair.
func (r *SlotRepo) InsertTx(ctx context.Context, tx *sql.Tx, s model.ReservationSlot) error {
    const q = `INSERT INTO reservation_slots (kind, day, time, submission_id) VALUES (?, ?, ?, ?)`
    if _, err := tx.ExecContext(ctx, q, s.Kind, s.Day, s.Time, s.SubmissionID); err != nil {
        if strings.Contains(err.Error(), "1062") {
            return &SlotTakenError{Kind: s.Kind, Day: s.Day, Time: s.Time}
        }
        return err
    }
    return nil
}

// AllocateTx expands a schedule into individual slot rows tied to the given
// submission, all within the caller's transaction.  The first insert lost to
// an existing row aborts with a *SlotTakenError; the caller must roll back
// the whole transaction so a partially allocated schedule is never
// observable.  Duplicate times within one day collide against themselves.
func (r *SlotRepo) AllocateTx(ctx context.Context, tx *sql.Tx, kind string, submissionID uint64, sched schedule.Schedule) error {
    for _, e := range sched.Entries() {
        slot := model.ReservationSlot{Kind: kind, Day: e.Day, Time: e.Time, SubmissionID: submissionID}
        if err := r.InsertTx(ctx, tx, slot); err != nil {
            return err
        }
    }
    return nil
}

// FindConflicts reports every (day, time) pair of the schedule that is
// already booked for the given kind.  This is a non-atomic advisory check
// used to produce an itemized rejection before the expensive insert; it
// holds no lock, so AllocateTx remains the real gate.  Pairs are returned in
// schedule expansion order (day, then position).
func (r *SlotRepo) FindConflicts(ctx context.Context, kind string, sched schedule.Schedule) ([]schedule.Entry, error) {
    const q = `SELECT 1 FROM reservation_slots WHERE kind = ? AND day = ? AND time = ? LIMIT 1`
    conflicts := make([]schedule.Entry, 0)
    for _, e := range sched.Entries() {
        var one int
        err := r.db.QueryRowContext(ctx, q, kind, e.Day, e.Time).Scan(&one)
        if err == sql.ErrNoRows {
            continue
        }
        if err != nil {
            return nil, err
        }
        conflicts = append(conflicts, e)
    }
    return conflicts, nil
}

// ListBooked returns every slot whose day falls within [start, end]
// inclusive and whose kind is in the given set, ordered by day then time.
// Day and time are formatted in SQL so rows come back as plain strings.
func (r *SlotRepo) ListBooked(ctx context.Context, kinds []string, start, end string) ([]BookedSlot, error) {
    placeholders := make([]string, 0, len(kinds))
    args := make([]interface{}, 0, len(kinds)+2)
    for _, k := range kinds {
        placeholders = append(placeholders, "?")
        args = append(args, k)
    }
    args = append(args, start, end)
    query := `SELECT DATE_FORMAT(day, '%Y-%m-%d'), TIME_FORMAT(time, '%H:%i')
              FROM reservation_slots
              WHERE kind IN (` + strings.Join(placeholders, ",") + `)
                AND day BETWEEN ? AND ?
              ORDER BY day, time`
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    booked := make([]BookedSlot, 0)
    for rows.Next() {
        var b BookedSlot
        if err := rows.Scan(&b.Day, &b.Time); err != nil {
            return nil, err
        }
        booked = append(booked, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return booked, nil
}
