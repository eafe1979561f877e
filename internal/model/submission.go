package model

import "time"

// Advertising kinds a submission may target.  The set is closed; intake
// rejects anything else before touching storage.
const (
    KindTruck       = "truck"        // truck-mounted display
    KindLargeVision = "large_vision" // large vision screen
    KindSignage     = "signage"      // signage
)

// ValidKind reports whether k is one of the closed advertising kinds.
func ValidKind(k string) bool {
    switch k {
    case KindTruck, KindLargeVision, KindSignage:
        return true
    }
    return false
}

// Review states of a submission.  A submission starts pending and moves to
// approved or rejected through the admin review endpoints.
const (
    StatusPending  = "pending"
    StatusApproved = "approved"
    StatusRejected = "rejected"
)

// ValidStatus reports whether s is a known review status.
func ValidStatus(s string) bool {
    switch s {
    case StatusPending, StatusApproved, StatusRejected:
        return true
    }
    return false
}

// Submission is one applicant request: the advertising kind, display labels,
// the schedule exactly as submitted (kept verbatim for audit), and the
// review state.  The normalized reservation_slots rows derived from
// ScheduleJSON, not the blob itself, are authoritative for booking
// decisions.
//
// Fields:
//  ID           – primary key identifier.
//  Kind         – advertising kind (truck / large_vision / signage).
//  Title        – free-form title supplied by the applicant.
//  CompanyName  – optional company display label.
//  ScheduleJSON – the submitted day→times mapping, verbatim JSON.
//  Status       – review state (pending, approved, rejected).
//  CreatedAt    – creation timestamp.
//  DecidedAt    – when an admin decided the submission (nil while pending).
type Submission struct {
    ID           uint64     // submissions.id
    Kind         string     // submissions.kind
    Title        string     // submissions.title
    CompanyName  string     // submissions.company_name
    ScheduleJSON string     // submissions.schedule_json
    Status       string     // submissions.status
    CreatedAt    time.Time  // submissions.created_at
    DecidedAt    *time.Time // submissions.decided_at (nullable)
}

// SubmissionFile is one media file uploaded with a submission.  Rows are
// cascade-deleted with their owning submission.
type SubmissionFile struct {
    ID           uint64 // submission_files.id
    SubmissionID uint64 // submission_files.submission_id
    Path         string // submission_files.path (location on disk)
    OriginalName string // submission_files.original_name
    Mime         string // submission_files.mime
    Size         int64  // submission_files.size in bytes
}

// ReservationSlot is one concrete (kind, day, time) unit of ad inventory.
// The composite key is globally unique: at most one submission may ever hold
// a given slot.  Day and Time are kept as their wire strings ("2006-01-02",
// "15:04") because every consumer renders them verbatim.
type ReservationSlot struct {
    Kind         string    // reservation_slots.kind
    Day          string    // reservation_slots.day
    Time         string    // reservation_slots.time
    SubmissionID uint64    // reservation_slots.submission_id
    CreatedAt    time.Time // reservation_slots.created_at
}
