package handler

import (
    "context"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/fricsignage/signage-api/internal/model"
    "github.com/fricsignage/signage-api/internal/repository"
)

// ReviewStore is the slice of the submission ledger the review surface
// needs.  Satisfied by repository.SubmissionRepo; tests substitute a fake.
type ReviewStore interface {
    ListByStatus(ctx context.Context, status string) ([]repository.ReviewItem, error)
    Decide(ctx context.Context, id uint64, status string) error
}

// ReviewHandler serves the admin review queue and the approve/reject
// transitions.  All routes sit behind RequireAdmin.
type ReviewHandler struct {
    Store  ReviewStore
    Origin string // public origin for building absolute image URLs
}

func NewReviewHandler(s ReviewStore, origin string) *ReviewHandler {
    return &ReviewHandler{Store: s, Origin: strings.TrimRight(origin, "/")}
}

type reviewItemResp struct {
    ID          uint64    `json:"id"`
    CompanyName string    `json:"company_name"`
    Title       string    `json:"title"`
    CreatedAt   time.Time `json:"created_at"`
    ImageURL    string    `json:"image_url,omitempty"`
}

// Queue handles GET /v1/review?status=….  Status defaults to pending;
// anything outside the closed status set is a client error rather than an
// empty list, so typos don't read as "queue is clear".
func (h *ReviewHandler) Queue(c echo.Context) error {
    status := strings.TrimSpace(c.QueryParam("status"))
    if status == "" {
        status = model.StatusPending
    }
    if !model.ValidStatus(status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Store.ListByStatus(ctx, status)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }

    resp := make([]reviewItemResp, 0, len(items))
    for _, it := range items {
        r := reviewItemResp{ID: it.ID, CompanyName: it.CompanyName, Title: it.Title, CreatedAt: it.CreatedAt}
        if it.FirstPath != "" {
            r.ImageURL = h.Origin + it.FirstPath
        }
        resp = append(resp, r)
    }
    return c.JSON(http.StatusOK, resp)
}

// Approve handles POST /v1/review/:id/approve.
func (h *ReviewHandler) Approve(c echo.Context) error {
    return h.decide(c, model.StatusApproved)
}

// Reject handles POST /v1/review/:id/reject.
func (h *ReviewHandler) Reject(c echo.Context) error {
    return h.decide(c, model.StatusRejected)
}

// decide applies a review outcome.  Re-deciding an already decided
// submission is allowed and overwrites the previous outcome; the slots stay
// reserved either way, so flipping a decision never frees inventory.
func (h *ReviewHandler) decide(c echo.Context, status string) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Store.Decide(ctx, id, status); err != nil {
        if err == repository.ErrSubmissionNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "submission not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}
