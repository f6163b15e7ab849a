// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/ballot-ledger/ledger"
	"github.com/danielhkuo/ballot-ledger/middleware"
	"github.com/danielhkuo/ballot-ledger/models"
	"github.com/danielhkuo/ballot-ledger/testutil"
)

const (
	alice models.Identity = "0xA11CE"
	bob   models.Identity = "0xB0B"
)

var ctx = context.Background()

func TestCreateElection(t *testing.T) {
	cfg := testutil.GetTestConfig()
	t0 := testutil.Epoch

	tests := []struct {
		name           string
		headers        map[string]string
		requestBody    interface{}
		expectedStatus int
		expectedKind   string
	}{
		{
			name:    "valid election",
			headers: testutil.AuthHeaders(cfg, testutil.Admin),
			requestBody: models.CreateElectionRequest{
				Title: "Board", StartTime: t0, EndTime: t0.Add(time.Hour),
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:    "missing identity",
			headers: nil,
			requestBody: models.CreateElectionRequest{
				Title: "Board", StartTime: t0, EndTime: t0.Add(time.Hour),
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:    "forged identity",
			headers: map[string]string{middleware.IdentityHeader: "MHhBRDMxTg.bm90LWEtc2ln"},
			requestBody: models.CreateElectionRequest{
				Title: "Board", StartTime: t0, EndTime: t0.Add(time.Hour),
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:    "not admin",
			headers: testutil.AuthHeaders(cfg, alice),
			requestBody: models.CreateElectionRequest{
				Title: "Board", StartTime: t0, EndTime: t0.Add(time.Hour),
			},
			expectedStatus: http.StatusForbidden,
			expectedKind:   "NotAdmin",
		},
		{
			name:    "invalid schedule",
			headers: testutil.AuthHeaders(cfg, testutil.Admin),
			requestBody: models.CreateElectionRequest{
				Title: "Board", StartTime: t0.Add(time.Hour), EndTime: t0,
			},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "InvalidSchedule",
		},
		{
			name:    "empty title",
			headers: testutil.AuthHeaders(cfg, testutil.Admin),
			requestBody: models.CreateElectionRequest{
				StartTime: t0, EndTime: t0.Add(time.Hour),
			},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "EmptyTitle",
		},
		{
			name:           "invalid JSON",
			headers:        testutil.AuthHeaders(cfg, testutil.Admin),
			requestBody:    "not an object",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := testutil.NewTestLedger(t)
			handler := NewElectionHandler(l, cfg)

			req := testutil.MakeRequest("POST", "/elections", tt.requestBody, tt.headers)
			w := httptest.NewRecorder()
			handler.CreateElection(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var view models.ElectionView
				testutil.AssertJSON(t, w, &view)
				if view.ID != 0 || view.Title != "Board" {
					t.Errorf("Unexpected election: %+v", view.Election)
				}
				if view.Status != models.StatusOpen {
					t.Errorf("Expected status open, got %s", view.Status)
				}
				if view.Closes != "1 hour from now" {
					t.Errorf("Expected closes '1 hour from now', got '%s'", view.Closes)
				}
				if l.ElectionCount() != 1 {
					t.Errorf("Expected 1 election, got %d", l.ElectionCount())
				}
				return
			}

			if l.ElectionCount() != 0 {
				t.Errorf("Rejected request created an election")
			}
			if tt.expectedKind != "" {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Kind != tt.expectedKind {
					t.Errorf("Expected kind %s, got %s", tt.expectedKind, resp.Kind)
				}
			}
		})
	}
}

func TestListElections(t *testing.T) {
	cfg := testutil.GetTestConfig()
	l, clock := testutil.NewTestLedger(t)
	handler := NewElectionHandler(l, cfg)
	t0 := testutil.Epoch

	open := testutil.CreateTestElection(t, l)
	future, err := l.CreateElection(ctx, testutil.Admin, "Future", t0.Add(time.Hour), t0.Add(2*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	paused := testutil.CreateTestElection(t, l)
	if _, err := l.ToggleElectionActive(ctx, testutil.Admin, paused.ID); err != nil {
		t.Fatal(err)
	}
	ended := testutil.CreateTestElection(t, l)
	if _, err := l.EndElection(ctx, testutil.Admin, ended.ID); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Minute)

	tests := []struct {
		query       string
		expectedIDs []uint64
	}{
		{"", []uint64{open.ID, future.ID, paused.ID, ended.ID}},
		{"?status=open", []uint64{open.ID}},
		{"?status=scheduled", []uint64{future.ID}},
		{"?status=paused", []uint64{paused.ID}},
		{"?status=ended", []uint64{ended.ID}},
		{"?status=closed", []uint64{}},
	}

	for _, tt := range tests {
		t.Run("list"+tt.query, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/elections"+tt.query, nil)
			w := httptest.NewRecorder()
			handler.ListElections(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			var views []models.ElectionView
			testutil.AssertJSON(t, w, &views)
			if len(views) != len(tt.expectedIDs) {
				t.Fatalf("Expected %d elections, got %d", len(tt.expectedIDs), len(views))
			}
			for i, v := range views {
				if v.ID != tt.expectedIDs[i] {
					t.Errorf("Expected election %d at %d, got %d", tt.expectedIDs[i], i, v.ID)
				}
			}
		})
	}

	t.Run("unknown status", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/elections?status=bogus", nil)
		w := httptest.NewRecorder()
		handler.ListElections(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestGetElection(t *testing.T) {
	cfg := testutil.GetTestConfig()
	l, _ := testutil.NewTestLedger(t)
	handler := NewElectionHandler(l, cfg)
	e := testutil.CreateTestElection(t, l, "Alice", "Bob")

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{"existing", "0", http.StatusOK},
		{"unknown", "5", http.StatusNotFound},
		{"not a number", "abc", http.StatusBadRequest},
		{"negative", "-1", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/elections/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			handler.GetElection(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var view models.ElectionView
				testutil.AssertJSON(t, w, &view)
				if view.ID != e.ID || view.CandidateCount != 2 {
					t.Errorf("Unexpected election: %+v", view.Election)
				}
			}
		})
	}
}

func TestToggleAndEndElection(t *testing.T) {
	cfg := testutil.GetTestConfig()
	l, _ := testutil.NewTestLedger(t)
	handler := NewElectionHandler(l, cfg)
	e := testutil.CreateTestElection(t, l)
	adminHeaders := testutil.AuthHeaders(cfg, testutil.Admin)

	call := func(fn http.HandlerFunc, headers map[string]string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/elections/0/x", nil, headers)
		req.SetPathValue("id", "0")
		w := httptest.NewRecorder()
		fn(w, req)
		return w
	}

	w := call(handler.ToggleElection, testutil.AuthHeaders(cfg, bob))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = call(handler.ToggleElection, adminHeaders)
	testutil.AssertStatus(t, w, http.StatusOK)
	var view models.ElectionView
	testutil.AssertJSON(t, w, &view)
	if view.IsActive || view.Status != models.StatusPaused {
		t.Errorf("Expected paused election, got %+v", view)
	}

	w = call(handler.EndElection, adminHeaders)
	testutil.AssertStatus(t, w, http.StatusOK)

	// ending is idempotent, toggling an ended election is not allowed
	w = call(handler.EndElection, adminHeaders)
	testutil.AssertStatus(t, w, http.StatusOK)

	w = call(handler.ToggleElection, adminHeaders)
	testutil.AssertStatus(t, w, http.StatusConflict)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Kind != "ElectionEnded" {
		t.Errorf("Expected kind ElectionEnded, got %s", resp.Kind)
	}

	got, _ := l.GetElection(e.ID)
	if !got.IsEnded || got.IsActive {
		t.Errorf("Unexpected election state: %+v", got)
	}
}

func TestWhoAmI(t *testing.T) {
	cfg := testutil.GetTestConfig()
	l, _ := testutil.NewTestLedger(t)
	handler := NewElectionHandler(l, cfg)

	tests := []struct {
		name           string
		identity       models.Identity
		expectedStatus int
		expectedAdmin  bool
	}{
		{"admin", testutil.Admin, http.StatusOK, true},
		{"voter", alice, http.StatusOK, false},
		{"anonymous", "", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers map[string]string
			if tt.identity != "" {
				headers = testutil.AuthHeaders(cfg, tt.identity)
			}
			req := testutil.MakeRequest("GET", "/me", nil, headers)
			w := httptest.NewRecorder()
			handler.WhoAmI(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp models.WhoAmIResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Identity != tt.identity || resp.IsAdmin != tt.expectedAdmin {
				t.Errorf("Unexpected response: %+v", resp)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{ledger.ErrNotAdmin, http.StatusForbidden},
		{ledger.ErrMissingIdentity, http.StatusUnauthorized},
		{ledger.ErrUnknownElection, http.StatusNotFound},
		{ledger.ErrUnknownCandidate, http.StatusNotFound},
		{ledger.ErrInvalidSchedule, http.StatusBadRequest},
		{ledger.ErrEmptyTitle, http.StatusBadRequest},
		{ledger.ErrElectionEnded, http.StatusConflict},
		{ledger.ErrElectionNotActive, http.StatusConflict},
		{ledger.ErrOutsideVotingWindow, http.StatusConflict},
		{ledger.ErrCandidateHidden, http.StatusConflict},
		{ledger.ErrAlreadyVoted, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(ledger.KindOf(tt.err), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}
