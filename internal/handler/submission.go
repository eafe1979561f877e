package handler

import (
    "context"
    "database/sql"
    "errors"
    "log"
    "mime/multipart"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/fricsignage/signage-api/internal/config"
    "github.com/fricsignage/signage-api/internal/model"
    "github.com/fricsignage/signage-api/internal/queue"
    "github.com/fricsignage/signage-api/internal/repository"
    "github.com/fricsignage/signage-api/internal/schedule"
    queue_publisher "github.com/fricsignage/signage-api/internal/service"
    "github.com/fricsignage/signage-api/internal/storage"
)

// SubmissionLedger is the slice of the submission store the intake endpoint
// writes through.  Satisfied by repository.SubmissionRepo; tests substitute
// a fake backed by a stub database.
type SubmissionLedger interface {
    DB() *sql.DB
    CreateTx(ctx context.Context, tx *sql.Tx, sub *model.Submission) error
}

// SlotAllocator is the slot store as the intake endpoint sees it: the
// advisory conflict scan plus in-transaction allocation.  Satisfied by
// repository.SlotRepo.
type SlotAllocator interface {
    FindConflicts(ctx context.Context, kind string, sched schedule.Schedule) ([]schedule.Entry, error)
    AllocateTx(ctx context.Context, tx *sql.Tx, kind string, submissionID uint64, sched schedule.Schedule) error
}

// FileLedger records uploaded file metadata inside the intake transaction.
// Satisfied by repository.FileRepo.
type FileLedger interface {
    CreateTx(ctx context.Context, tx *sql.Tx, f *model.SubmissionFile) error
}

// UserLookup resolves an account for confirmation-mail personalization.
// Satisfied by repository.UserRepo.
type UserLookup interface {
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// SubmissionHandler serves the intake endpoint: one multipart request
// carrying the advertising kind, display labels, the requested schedule and
// any number of media files.  Everything durable happens in one transaction;
// the composite key on reservation_slots is the final arbiter when two
// requests race for the same slot.
type SubmissionHandler struct {
    Cfg   config.Config
    Subs  SubmissionLedger
    Slots SlotAllocator
    Files FileLedger
    Users UserLookup
    Store *storage.Store

    // Publish ships the post-commit notification event.  Overridable so
    // tests can capture the event without a broker.
    Publish func(ctx context.Context, ev queue.SubmissionReceivedEvent) error
}

func NewSubmissionHandler(cfg config.Config, subs SubmissionLedger, slots SlotAllocator, files FileLedger, users UserLookup, store *storage.Store) *SubmissionHandler {
    return &SubmissionHandler{
        Cfg:     cfg,
        Subs:    subs,
        Slots:   slots,
        Files:   files,
        Users:   users,
        Store:   store,
        Publish: queue_publisher.PublishSubmissionReceived,
    }
}

// conflictPair is one already-booked (day, time) reported back to the
// applicant.  The wire name "date" matches what the booking UI renders.
type conflictPair struct {
    Date string `json:"date"`
    Time string `json:"time"`
}

func conflictPayload(entries []schedule.Entry) []conflictPair {
    out := make([]conflictPair, 0, len(entries))
    for _, e := range entries {
        out = append(out, conflictPair{Date: e.Day, Time: e.Time})
    }
    return out
}

// Create handles POST /v1/submissions.
//
// Validation happens before any durable write: unknown kind and malformed
// schedule are client errors with nothing persisted.  The advisory conflict
// scan then produces an itemized 409 for the common case.  The transaction
// that follows is the correctness boundary: submission row, slot rows and
// file rows commit together or not at all, and a duplicate-key rejection
// inside it (a race the advisory scan missed) rolls everything back.
func (h *SubmissionHandler) Create(c echo.Context) error {
    kind := strings.TrimSpace(c.FormValue("kind"))
    if !model.ValidKind(kind) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown kind"})
    }
    title := strings.TrimSpace(c.FormValue("title"))
    company := strings.TrimSpace(c.FormValue("company"))

    rawSchedule := c.FormValue("schedule")
    if strings.TrimSpace(rawSchedule) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule required"})
    }
    sched, err := schedule.Parse([]byte(rawSchedule))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule: " + err.Error()})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
    defer cancel()

    // Advisory pre-check: no lock held, exists only to itemize the common
    // rejection.  The insert below remains the authoritative gate.
    conflicts, err := h.Slots.FindConflicts(ctx, kind, sched)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "conflict check failed"})
    }
    if len(conflicts) > 0 {
        return c.JSON(http.StatusConflict, echo.Map{
            "error":     "slot already booked",
            "conflicts": conflictPayload(conflicts),
        })
    }

    var fhs []*multipart.FileHeader
    if form, err := c.MultipartForm(); err == nil && form != nil {
        fhs = form.File["files"]
    }

    tx, err := h.Subs.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
    }
    committed := false
    var savedNames []string
    defer func() {
        if !committed {
            _ = tx.Rollback()
            // Files already on disk belong to a submission that never
            // happened; remove them so the directory stays consistent
            // with the file rows.
            for _, name := range savedNames {
                h.Store.Remove(name)
            }
        }
    }()

    sub := &model.Submission{
        Kind:         kind,
        Title:        title,
        CompanyName:  company,
        ScheduleJSON: rawSchedule,
    }
    if err := h.Subs.CreateTx(ctx, tx, sub); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create submission failed"})
    }

    if err := h.Slots.AllocateTx(ctx, tx, kind, sub.ID, sched); err != nil {
        var taken *repository.SlotTakenError
        if errors.As(err, &taken) {
            return c.JSON(http.StatusConflict, echo.Map{
                "error":     "slot already booked",
                "conflicts": []conflictPair{{Date: taken.Day, Time: taken.Time}},
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "allocate slots failed"})
    }

    filePaths := make([]string, 0, len(fhs))
    for _, fh := range fhs {
        sf, err := h.Store.Save(fh)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store file failed"})
        }
        savedNames = append(savedNames, sf.Name)
        rec := &model.SubmissionFile{
            SubmissionID: sub.ID,
            Path:         sf.Path,
            OriginalName: sf.OriginalName,
            Mime:         sf.ContentType,
            Size:         sf.Size,
        }
        if err := h.Files.CreateTx(ctx, tx, rec); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record file failed"})
        }
        filePaths = append(filePaths, sf.Path)
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
    }
    committed = true

    h.notifyReceived(c, sub, sched, len(filePaths))

    return c.JSON(http.StatusCreated, echo.Map{
        "submission_id": sub.ID,
        "files":         filePaths,
    })
}

// notifyReceived queues the confirmation event after commit.  When the
// request carried a valid bearer token of an active staff account the mail
// is personalized to that account; otherwise the event goes out without a
// recipient.  Failures never reach the applicant.
func (h *SubmissionHandler) notifyReceived(c echo.Context, sub *model.Submission, sched schedule.Schedule, fileCount int) {
    ev := queue.SubmissionReceivedEvent{
        SubmissionID: sub.ID,
        Kind:         sub.Kind,
        Title:        sub.Title,
        CompanyName:  sub.CompanyName,
        Schedule:     sched,
        FileCount:    fileCount,
        ReceivedAt:   time.Now().UTC().Format(time.RFC3339),
    }

    if uid, ok := bearerSubject(c, h.Cfg.JWTSecret); ok && h.Users != nil {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        u, err := h.Users.GetByID(ctx, uid)
        cancel()
        if err == nil && u.IsActive {
            ev.RecipientEmail = u.Email
            ev.RecipientName = u.DisplayName
        } else if err != nil && err != sql.ErrNoRows {
            log.Printf("intake: personalization lookup failed: %v", err)
        }
    }

    if h.Publish == nil {
        return
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = h.Publish(ctx, ev)
    }()
}
