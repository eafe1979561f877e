package handler

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fricsignage/signage-api/internal/model"
	"github.com/fricsignage/signage-api/internal/queue"
	"github.com/fricsignage/signage-api/internal/repository"
	"github.com/fricsignage/signage-api/internal/schedule"
	"github.com/fricsignage/signage-api/internal/storage"
)

func TestConflictPayload(t *testing.T) {
	entries := []schedule.Entry{
		{Day: "2026-09-10", Time: "09:00"},
		{Day: "2026-09-10", Time: "10:00"},
	}
	got := conflictPayload(entries)
	if len(got) != 2 {
		t.Fatalf("got %d pairs", len(got))
	}
	if got[0].Date != "2026-09-10" || got[0].Time != "09:00" {
		t.Errorf("first pair = %+v", got[0])
	}
	if got[1].Time != "10:00" {
		t.Errorf("second pair = %+v", got[1])
	}
	if out := conflictPayload(nil); out == nil || len(out) != 0 {
		t.Errorf("nil entries should yield empty non-nil slice, got %#v", out)
	}
}

// intakeForm builds a multipart body with the given fields and no files.
func intakeForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s): %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

// Validation failures must reject before any repository call, so a handler
// with nil repositories exercises exactly the pre-storage path.
func TestSubmissionCreateRejectsBeforeStorage(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]string
		want   int
	}{
		{
			name:   "unknown kind",
			fields: map[string]string{"kind": "blimp", "schedule": `{"2026-09-10":["09:00"]}`},
			want:   http.StatusBadRequest,
		},
		{
			name:   "missing kind",
			fields: map[string]string{"schedule": `{"2026-09-10":["09:00"]}`},
			want:   http.StatusBadRequest,
		},
		{
			name:   "missing schedule",
			fields: map[string]string{"kind": "truck"},
			want:   http.StatusBadRequest,
		},
		{
			name:   "schedule not json",
			fields: map[string]string{"kind": "truck", "schedule": "not-json"},
			want:   http.StatusBadRequest,
		},
		{
			name:   "time missing leading zero",
			fields: map[string]string{"kind": "truck", "schedule": `{"2026-09-10":["9:00"]}`},
			want:   http.StatusBadRequest,
		},
		{
			name:   "day key not a date",
			fields: map[string]string{"kind": "truck", "schedule": `{"next tuesday":["09:00"]}`},
			want:   http.StatusBadRequest,
		},
	}

	h := &SubmissionHandler{} // nil deps: any storage access would panic
	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, ctype := intakeForm(t, tc.fields)
			req := httptest.NewRequest(http.MethodPost, "/v1/submissions", body)
			req.Header.Set(echo.HeaderContentType, ctype)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if err := h.Create(c); err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

// ----- transaction-observing stub database -----

// txRecorder counts the transaction lifecycle events the stub driver sees,
// so tests can assert that a failed allocation rolled back and a successful
// intake committed exactly once.
type txRecorder struct {
	mu        sync.Mutex
	begins    int
	commits   int
	rollbacks int
}

func (r *txRecorder) counts() (begins, commits, rollbacks int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.begins, r.commits, r.rollbacks
}

type stubDriver struct{ rec *txRecorder }

func (d stubDriver) Open(string) (driver.Conn, error) { return stubConn{rec: d.rec}, nil }

type stubConn struct{ rec *txRecorder }

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("statements unsupported") }
func (stubConn) Close() error                        { return nil }
func (c stubConn) Begin() (driver.Tx, error) {
	c.rec.mu.Lock()
	c.rec.begins++
	c.rec.mu.Unlock()
	return stubTx{rec: c.rec}, nil
}

type stubTx struct{ rec *txRecorder }

func (t stubTx) Commit() error {
	t.rec.mu.Lock()
	t.rec.commits++
	t.rec.mu.Unlock()
	return nil
}
func (t stubTx) Rollback() error {
	t.rec.mu.Lock()
	t.rec.rollbacks++
	t.rec.mu.Unlock()
	return nil
}

var stubDriverSeq int64

// newStubDB registers a fresh stub driver instance (driver names are global
// to the process) and opens a handle on it.
func newStubDB(t *testing.T) (*sql.DB, *txRecorder) {
	t.Helper()
	rec := &txRecorder{}
	name := fmt.Sprintf("intake-stub-%d", atomic.AddInt64(&stubDriverSeq, 1))
	sql.Register(name, stubDriver{rec: rec})
	db, err := sql.Open(name, "")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, rec
}

// ----- fakes -----

type fakeSlotStore struct {
	conflicts []schedule.Entry
	findErr   error
	allocErr  error

	gotKind   string
	gotSubID  uint64
	allocated []schedule.Entry
}

func (f *fakeSlotStore) FindConflicts(_ context.Context, kind string, _ schedule.Schedule) ([]schedule.Entry, error) {
	f.gotKind = kind
	return f.conflicts, f.findErr
}

func (f *fakeSlotStore) AllocateTx(_ context.Context, _ *sql.Tx, kind string, submissionID uint64, sched schedule.Schedule) error {
	if f.allocErr != nil {
		return f.allocErr
	}
	f.gotKind = kind
	f.gotSubID = submissionID
	f.allocated = append(f.allocated, sched.Entries()...)
	return nil
}

type fakeSubmissionLedger struct {
	db      *sql.DB
	nextID  uint64
	created []model.Submission
	err     error
}

func (f *fakeSubmissionLedger) DB() *sql.DB { return f.db }

func (f *fakeSubmissionLedger) CreateTx(_ context.Context, _ *sql.Tx, sub *model.Submission) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	sub.ID = f.nextID
	sub.Status = model.StatusPending
	f.created = append(f.created, *sub)
	return nil
}

type fakeFileLedger struct {
	recs []model.SubmissionFile
	err  error
}

func (f *fakeFileLedger) CreateTx(_ context.Context, _ *sql.Tx, rec *model.SubmissionFile) error {
	if f.err != nil {
		return f.err
	}
	rec.ID = uint64(len(f.recs) + 1)
	f.recs = append(f.recs, *rec)
	return nil
}

// intakeFixture wires a SubmissionHandler onto fakes, a stub database and a
// real upload directory.  Published events land on the returned channel.
func intakeFixture(t *testing.T) (*SubmissionHandler, *fakeSlotStore, *fakeSubmissionLedger, *fakeFileLedger, *txRecorder, chan queue.SubmissionReceivedEvent) {
	t.Helper()
	db, rec := newStubDB(t)
	slots := &fakeSlotStore{}
	subs := &fakeSubmissionLedger{db: db}
	files := &fakeFileLedger{}
	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	events := make(chan queue.SubmissionReceivedEvent, 1)
	h := &SubmissionHandler{
		Subs:  subs,
		Slots: slots,
		Files: files,
		Store: store,
		Publish: func(_ context.Context, ev queue.SubmissionReceivedEvent) error {
			events <- ev
			return nil
		},
	}
	return h, slots, subs, files, rec, events
}

// intakeRequest posts a multipart intake form, optionally with one file.
func intakeRequest(t *testing.T, h *SubmissionHandler, fields map[string]string, fileName, fileContent string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s): %v", k, err)
		}
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("files", fileName)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write([]byte(fileContent)); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/submissions", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return rec
}

func uploadDirEntries(t *testing.T, h *SubmissionHandler) int {
	t.Helper()
	entries, err := os.ReadDir(h.Store.Dir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	return len(entries)
}

func TestSubmissionCreateAdvisoryConflict(t *testing.T) {
	h, slots, subs, _, rec, _ := intakeFixture(t)
	slots.conflicts = []schedule.Entry{{Day: "2026-09-10", Time: "09:00"}}

	resp := intakeRequest(t, h, map[string]string{
		"kind":     "truck",
		"schedule": `{"2026-09-10":["09:00","10:00"]}`,
	}, "", "")

	if resp.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", resp.Code, resp.Body.String())
	}
	var body struct {
		Conflicts []conflictPair `json:"conflicts"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if len(body.Conflicts) != 1 || body.Conflicts[0].Date != "2026-09-10" || body.Conflicts[0].Time != "09:00" {
		t.Errorf("conflicts = %+v", body.Conflicts)
	}
	if slots.gotKind != "truck" {
		t.Errorf("conflict scan kind = %q", slots.gotKind)
	}
	if len(subs.created) != 0 {
		t.Errorf("submission persisted despite advisory conflict: %+v", subs.created)
	}
	if begins, _, _ := rec.counts(); begins != 0 {
		t.Errorf("transaction begun before advisory rejection (begins=%d)", begins)
	}
}

func TestSubmissionCreateRaceLossRollsBack(t *testing.T) {
	h, slots, subs, files, rec, events := intakeFixture(t)
	// Advisory scan sees nothing, but allocation loses the race.
	slots.allocErr = &repository.SlotTakenError{Kind: "signage", Day: "2026-04-01", Time: "08:00"}

	resp := intakeRequest(t, h, map[string]string{
		"kind":     "signage",
		"schedule": `{"2026-04-01":["08:00"]}`,
	}, "clip.mp4", "video bytes")

	if resp.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "2026-04-01") || !strings.Contains(resp.Body.String(), "08:00") {
		t.Errorf("colliding pair missing from body: %s", resp.Body.String())
	}
	begins, commits, rollbacks := rec.counts()
	if begins != 1 || commits != 0 || rollbacks != 1 {
		t.Errorf("tx counts = begins %d commits %d rollbacks %d, want 1/0/1", begins, commits, rollbacks)
	}
	if len(files.recs) != 0 {
		t.Errorf("file rows recorded despite rollback: %+v", files.recs)
	}
	if got := uploadDirEntries(t, h); got != 0 {
		t.Errorf("%d files left on disk after rollback", got)
	}
	if len(subs.created) != 1 {
		// The row was written inside the transaction; the rollback is what
		// discards it.
		t.Errorf("CreateTx calls = %d, want 1", len(subs.created))
	}
	select {
	case ev := <-events:
		t.Errorf("notification published for rolled-back submission: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubmissionCreateFileFailureCleansUp(t *testing.T) {
	h, _, _, files, rec, _ := intakeFixture(t)
	files.err = errors.New("insert failed")

	resp := intakeRequest(t, h, map[string]string{
		"kind":     "truck",
		"schedule": `{"2026-09-10":["09:00"]}`,
	}, "poster.png", "image bytes")

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.Code)
	}
	begins, commits, rollbacks := rec.counts()
	if begins != 1 || commits != 0 || rollbacks != 1 {
		t.Errorf("tx counts = begins %d commits %d rollbacks %d, want 1/0/1", begins, commits, rollbacks)
	}
	if got := uploadDirEntries(t, h); got != 0 {
		t.Errorf("%d saved files left on disk after rollback", got)
	}
}

func TestSubmissionCreateHappyPath(t *testing.T) {
	h, slots, subs, files, rec, events := intakeFixture(t)

	resp := intakeRequest(t, h, map[string]string{
		"kind":     "truck",
		"title":    "Spring sale",
		"company":  "Acme",
		"schedule": `{"2026-09-10":["09:00","10:00"]}`,
	}, "poster.png", "image bytes")

	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", resp.Code, resp.Body.String())
	}
	var body struct {
		SubmissionID uint64   `json:"submission_id"`
		Files        []string `json:"files"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.SubmissionID != 1 {
		t.Errorf("submission_id = %d", body.SubmissionID)
	}
	if len(body.Files) != 1 || !strings.HasPrefix(body.Files[0], "/uploads/") {
		t.Errorf("files = %v", body.Files)
	}

	if slots.gotSubID != 1 {
		t.Errorf("slots allocated for submission %d, want 1", slots.gotSubID)
	}
	wantSlots := []schedule.Entry{
		{Day: "2026-09-10", Time: "09:00"},
		{Day: "2026-09-10", Time: "10:00"},
	}
	if len(slots.allocated) != len(wantSlots) {
		t.Fatalf("allocated = %+v, want %+v", slots.allocated, wantSlots)
	}
	for i := range wantSlots {
		if slots.allocated[i] != wantSlots[i] {
			t.Errorf("allocated[%d] = %+v, want %+v", i, slots.allocated[i], wantSlots[i])
		}
	}

	if len(subs.created) != 1 || subs.created[0].Kind != "truck" || subs.created[0].Title != "Spring sale" {
		t.Errorf("created = %+v", subs.created)
	}
	if len(files.recs) != 1 || files.recs[0].SubmissionID != 1 || files.recs[0].OriginalName != "poster.png" {
		t.Errorf("file rows = %+v", files.recs)
	}
	if got := uploadDirEntries(t, h); got != 1 {
		t.Errorf("%d files on disk, want 1", got)
	}

	begins, commits, rollbacks := rec.counts()
	if begins != 1 || commits != 1 || rollbacks != 0 {
		t.Errorf("tx counts = begins %d commits %d rollbacks %d, want 1/1/0", begins, commits, rollbacks)
	}

	select {
	case ev := <-events:
		if ev.SubmissionID != 1 || ev.Kind != "truck" || ev.FileCount != 1 {
			t.Errorf("event = %+v", ev)
		}
		if len(ev.Schedule["2026-09-10"]) != 2 {
			t.Errorf("event schedule = %v", ev.Schedule)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no notification event published after commit")
	}
}
