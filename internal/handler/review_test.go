package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fricsignage/signage-api/internal/repository"
)

// fakeReviewStore keeps submissions in memory and records decisions so the
// transition tests can assert on the outcome that reached the ledger.
type fakeReviewStore struct {
	items    map[uint64]string // id -> status
	queue    []repository.ReviewItem
	decided  map[uint64]string
	listErr  error
	gotState string
}

func newFakeReviewStore(ids ...uint64) *fakeReviewStore {
	f := &fakeReviewStore{items: map[uint64]string{}, decided: map[uint64]string{}}
	for _, id := range ids {
		f.items[id] = "pending"
	}
	return f
}

func (f *fakeReviewStore) ListByStatus(_ context.Context, status string) ([]repository.ReviewItem, error) {
	f.gotState = status
	return f.queue, f.listErr
}

func (f *fakeReviewStore) Decide(_ context.Context, id uint64, status string) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrSubmissionNotFound
	}
	f.items[id] = status
	f.decided[id] = status
	return nil
}

func reviewContext(method, target string, paramID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if paramID != "" {
		c.SetParamNames("id")
		c.SetParamValues(paramID)
	}
	return c, rec
}

func TestReviewQueueDefaultsToPending(t *testing.T) {
	store := newFakeReviewStore()
	store.queue = []repository.ReviewItem{
		{ID: 7, CompanyName: "Acme", Title: "Spring sale", CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), FirstPath: "/uploads/ab12.png"},
		{ID: 6, CompanyName: "Beta", Title: "No media", CreatedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)},
	}
	h := NewReviewHandler(store, "https://api.example.com/")

	c, rec := reviewContext(http.MethodGet, "/v1/review", "")
	if err := h.Queue(c); err != nil {
		t.Fatalf("Queue: %v", err)
	}
	if store.gotState != "pending" {
		t.Errorf("listed status = %q, want pending", store.gotState)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var items []reviewItemResp
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items", len(items))
	}
	if items[0].ImageURL != "https://api.example.com/uploads/ab12.png" {
		t.Errorf("ImageURL = %q", items[0].ImageURL)
	}
	if items[1].ImageURL != "" {
		t.Errorf("submission without files got ImageURL %q", items[1].ImageURL)
	}
}

func TestReviewQueueUnknownStatus(t *testing.T) {
	h := NewReviewHandler(newFakeReviewStore(), "")
	c, rec := reviewContext(http.MethodGet, "/v1/review?status=archived", "")
	if err := h.Queue(c); err != nil {
		t.Fatalf("Queue: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestReviewApproveAndReject(t *testing.T) {
	store := newFakeReviewStore(5)
	h := NewReviewHandler(store, "")

	c, rec := reviewContext(http.MethodPost, "/v1/review/5/approve", "5")
	if err := h.Approve(c); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if store.items[5] != "approved" {
		t.Errorf("stored status = %q, want approved", store.items[5])
	}

	// Re-deciding is allowed; the later outcome wins.
	c, rec = reviewContext(http.MethodPost, "/v1/review/5/reject", "5")
	if err := h.Reject(c); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("re-decide status = %d", rec.Code)
	}
	if store.items[5] != "rejected" {
		t.Errorf("stored status after re-decide = %q, want rejected", store.items[5])
	}
}

func TestReviewDecideUnknownID(t *testing.T) {
	h := NewReviewHandler(newFakeReviewStore(), "")
	c, rec := reviewContext(http.MethodPost, "/v1/review/99/approve", "99")
	if err := h.Approve(c); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not found") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestReviewDecideBadID(t *testing.T) {
	h := NewReviewHandler(newFakeReviewStore(), "")
	for _, bad := range []string{"abc", "0", "-3"} {
		c, rec := reviewContext(http.MethodPost, "/v1/review/"+bad+"/approve", bad)
		if err := h.Approve(c); err != nil {
			t.Fatalf("Approve(%q): %v", bad, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("id %q: status = %d, want 400", bad, rec.Code)
		}
	}
}
