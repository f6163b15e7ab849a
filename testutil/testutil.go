// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/ballot-ledger/auth"
	"github.com/danielhkuo/ballot-ledger/cliparse"
	"github.com/danielhkuo/ballot-ledger/db"
	"github.com/danielhkuo/ballot-ledger/ledger"
	"github.com/danielhkuo/ballot-ledger/middleware"
	"github.com/danielhkuo/ballot-ledger/models"
)

// Admin is the admin identity used by GetTestConfig.
const Admin models.Identity = "0xAD31N"

// Epoch is the starting time of every test Clock.
var Epoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// Clock is a settable ledger clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: Epoch}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseType:  db.TypeSQLite,
		AdminIdentity: string(Admin),
		IdentitySalt:  "test-identity-salt",
	}
}

// SetupTestStore opens a SQLite store in a temporary directory.
func SetupTestStore(t *testing.T) ledger.Store {
	t.Helper()

	store, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	return store
}

// NewTestLedger returns a ledger over a fresh SQLite store, administered by
// Admin and driven by the returned clock.
func NewTestLedger(t *testing.T) (*ledger.Ledger, *Clock) {
	t.Helper()

	clock := NewClock()
	l, err := ledger.Open(context.Background(), Admin, SetupTestStore(t), clock)
	if err != nil {
		t.Fatalf("Failed to open test ledger: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l, clock
}

// CreateTestElection creates an election open from Epoch for a day, with one
// candidate per name.
func CreateTestElection(t *testing.T, l *ledger.Ledger, names ...string) models.Election {
	t.Helper()

	ctx := context.Background()
	e, err := l.CreateElection(ctx, Admin, "Test Election", Epoch, Epoch.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}
	for _, name := range names {
		if _, err := l.AddCandidate(ctx, Admin, e.ID, name, "", "", ""); err != nil {
			t.Fatalf("Failed to add test candidate %q: %v", name, err)
		}
	}
	e, _ = l.GetElection(e.ID)
	return e
}

// AuthHeaders returns the identity header for identity under cfg's salt.
func AuthHeaders(cfg cliparse.Config, identity models.Identity) map[string]string {
	return map[string]string{middleware.IdentityHeader: auth.SignIdentity(identity, cfg.IdentitySalt)}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
