package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/fricsignage/signage-api/internal/repository"
)

// SlotLister is the read side of the slot store used by the booked-range
// endpoint.  Satisfied by repository.SlotRepo; tests substitute a fake.
type SlotLister interface {
    ListBooked(ctx context.Context, kinds []string, start, end string) ([]repository.BookedSlot, error)
}

// BookedHandler serves the range query a booking UI uses to gray out taken
// slots.  Results may be seconds stale (the response is cacheable); the slot
// table's primary key still decides actual bookings.
type BookedHandler struct {
    Slots SlotLister
}

func NewBookedHandler(s SlotLister) *BookedHandler { return &BookedHandler{Slots: s} }

// List handles GET /v1/slots/booked?start=YYYY-MM-DD&end=YYYY-MM-DD&kind=…
// (kind may repeat).  The response maps each day with at least one booked
// slot to its ascending list of times; empty days are absent.
func (h *BookedHandler) List(c echo.Context) error {
    start := strings.TrimSpace(c.QueryParam("start"))
    end := strings.TrimSpace(c.QueryParam("end"))
    if _, err := time.Parse("2006-01-02", start); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start date"})
    }
    if _, err := time.Parse("2006-01-02", end); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end date"})
    }
    if end < start {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "end before start"})
    }

    kinds := cleanKinds(c.QueryParams()["kind"])
    if len(kinds) == 0 {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "at least one kind required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    slots, err := h.Slots.ListBooked(ctx, kinds, start, end)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, groupBooked(slots))
}

// cleanKinds trims each kind filter of surrounding whitespace, including the
// full-width space that Japanese IMEs insert, and drops the blanks.  The
// match against stored kinds stays case-sensitive and exact.
func cleanKinds(raw []string) []string {
    const cutset = " \t\r\n　"
    out := make([]string, 0, len(raw))
    for _, k := range raw {
        k = strings.Trim(k, cutset)
        if k != "" {
            out = append(out, k)
        }
    }
    return out
}

// groupBooked folds the day-then-time ordered rows into the day → times
// response shape.  One entry per slot row; rows sharing a time across kinds
// are kept, since the caller asked for the union.
func groupBooked(slots []repository.BookedSlot) map[string][]string {
    grouped := make(map[string][]string)
    for _, s := range slots {
        grouped[s.Day] = append(grouped[s.Day], s.Time)
    }
    return grouped
}
