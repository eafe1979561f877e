// Package queue defines message payloads exchanged over the message broker.
package queue

// UserRegisteredEvent is published after a staff account is created so the
// mail worker can send the welcome message without holding up the signup
// response.
type UserRegisteredEvent struct {
    UserID       uint64 `json:"user_id"`
    Username     string `json:"username"`
    DisplayName  string `json:"display_name"`
    Email        string `json:"email"`
    RegisteredAt string `json:"registered_at"`
}

// SubmissionReceivedEvent is published once an ad submission and its slot
// reservations have been committed.  It carries the accepted schedule as
// day -> times so the notification can list the booked slots without
// querying the primary database.
type SubmissionReceivedEvent struct {
    SubmissionID uint64              `json:"submission_id"`
    Kind         string              `json:"kind"`
    Title        string              `json:"title"`
    CompanyName  string              `json:"company_name"`
    Schedule     map[string][]string `json:"schedule"`
    FileCount    int                 `json:"file_count"`
    // Recipient fields are filled when the submitter was authenticated;
    // otherwise the notification goes to the operations address only.
    RecipientEmail string `json:"recipient_email,omitempty"`
    RecipientName  string `json:"recipient_name,omitempty"`
    ReceivedAt     string `json:"received_at"`
}
