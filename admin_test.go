package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/page"
	"github.com/Zachkp/portfolio/internal/store"
)

func loginRequest(username, password string) *http.Request {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// login signs in and returns the session cookie.
func (ts *testSite) login(t *testing.T) *http.Cookie {
	t.Helper()
	w := ts.do(loginRequest("admin", testPassword))
	require.Equal(t, http.StatusFound, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == adminCookie {
			return c
		}
	}
	t.Fatal("no admin cookie set")
	return nil
}

func adminRequest(method, path string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestAdminLoginPage(t *testing.T) {
	ts := newTestSite(t, testConfig(t), page.Options{})

	w := ts.do(httptest.NewRequest(http.MethodGet, "/admin/login", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/admin/login"`)
}

func TestAdminLogin(t *testing.T) {
	ts := newTestSite(t, testConfig(t), page.Options{})

	w := ts.do(loginRequest("admin", testPassword))

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
	cookie := w.Result().Cookies()[0]
	assert.Equal(t, adminCookie, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/admin", cookie.Path)

	claims, err := ts.parseAdminToken(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestSite(t, testConfig(t), page.Options{})

	for _, tc := range []struct{ user, pass string }{
		{"admin", "wrong"},
		{"root", testPassword},
		{"", ""},
	} {
		w := ts.do(loginRequest(tc.user, tc.pass))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s/%s", tc.user, tc.pass)
		assert.Contains(t, w.Body.String(), "Invalid credentials")
		assert.Empty(t, w.Result().Cookies())
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	ts := newTestSite(t, testConfig(t), page.Options{})

	expired, err := ts.issueAdminToken("admin", time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	other := newTestSite(t, testConfig(t), page.Options{})
	other.cfg.JWTSecret = "a-completely-different-secret-of-enough-length"
	foreign, err := other.issueAdminToken("admin", time.Now())
	require.NoError(t, err)

	for name, cookie := range map[string]*http.Cookie{
		"missing": nil,
		"garbage": {Name: adminCookie, Value: "not-a-token"},
		"expired": {Name: adminCookie, Value: expired},
		"foreign": {Name: adminCookie, Value: foreign},
	} {
		t.Run(name, func(t *testing.T) {
			w := ts.do(adminRequest(http.MethodGet, "/admin/dashboard", cookie))
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/admin/login", w.Header().Get("Location"))
		})
	}
}

func TestAdminDashboard(t *testing.T) {
	ts := newTestSite(t, testConfig(t), page.Options{})
	cookie := ts.login(t)
	ctx := context.Background()

	require.NoError(t, ts.store.RecordVisit(ctx, "abc123", "curl/8", "/"))
	require.NoError(t, ts.store.RecordReveal(ctx, uuid.New(), "about"))

	w := ts.do(adminRequest(http.MethodGet, "/admin/dashboard", cookie))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "abc123")
	assert.Contains(t, w.Body.String(), "curl/8")
}

func TestAdminStatsAPI(t *testing.T) {
	ts := newTestSite(t, testConfig(t), page.Options{})
	cookie := ts.login(t)
	ctx := context.Background()

	sessionID := uuid.New()
	require.NoError(t, ts.store.RecordVisit(ctx, "abc123", "curl/8", "/"))
	require.NoError(t, ts.store.RecordReveal(ctx, sessionID, "about"))
	require.NoError(t, ts.store.RecordReveal(ctx, sessionID, "skills"))

	w := ts.do(adminRequest(http.MethodGet, "/admin/api/stats", cookie))

	require.Equal(t, http.StatusOK, w.Code)
	var stats store.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 1, stats.TotalVisits)
	assert.EqualValues(t, 2, stats.TotalReveals)
	assert.EqualValues(t, 1, stats.RevealSessions)
}

func TestAdminExportStats(t *testing.T) {
	ts := newTestSite(t, testConfig(t), page.Options{})
	cookie := ts.login(t)

	w := ts.do(adminRequest(http.MethodGet, "/admin/export/stats", cookie))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=portfolio-stats.json", w.Header().Get("Content-Disposition"))
	assert.True(t, json.Valid(w.Body.Bytes()))
}

func TestAdminPrivacyCleanup(t *testing.T) {
	ts := newTestSite(t, testConfig(t), page.Options{})
	cookie := ts.login(t)
	require.NoError(t, ts.store.RecordVisit(context.Background(), "abc123", "curl/8", "/"))

	w := ts.do(adminRequest(http.MethodPost, "/admin/privacy/cleanup", cookie))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Removed int64 `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Zero(t, body.Removed)

	stats, err := ts.store.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalVisits)
}

func TestAdminLogout(t *testing.T) {
	ts := newTestSite(t, testConfig(t), page.Options{})

	w := ts.do(httptest.NewRequest(http.MethodGet, "/admin/logout", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
	require.NotEmpty(t, w.Result().Cookies())
	assert.Negative(t, w.Result().Cookies()[0].MaxAge)
}

func TestVisitorTracking(t *testing.T) {
	ts := newTestSite(t, testConfig(t), page.Options{})
	ctx := context.Background()

	dnt := httptest.NewRequest(http.MethodGet, "/", nil)
	dnt.Header.Set("DNT", "1")
	require.Equal(t, http.StatusOK, ts.do(dnt).Code)

	for _, path := range []string{"/health", "/privacy", "/admin/login"} {
		ts.do(httptest.NewRequest(http.MethodGet, path, nil))
	}

	tracked := httptest.NewRequest(http.MethodGet, "/", nil)
	tracked.Header.Set("User-Agent", "firefox")
	require.Equal(t, http.StatusOK, ts.do(tracked).Code)

	assert.Eventually(t, func() bool {
		stats, err := ts.store.Stats(ctx)
		return err == nil && stats.TotalVisits == 1
	}, 2*time.Second, 10*time.Millisecond)

	stats, err := ts.store.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats.RecentVisits, 1)
	visit := stats.RecentVisits[0]
	assert.Equal(t, "/", visit.Path)
	assert.Equal(t, "firefox", visit.UserAgent)
	assert.Equal(t, ts.hashIP(tracked.RemoteAddr[:strings.LastIndex(tracked.RemoteAddr, ":")]), visit.HashedIP)
	assert.Len(t, visit.HashedIP, 16)
}

func TestHashIP(t *testing.T) {
	ts := newTestSite(t, testConfig(t), page.Options{})

	assert.Equal(t, ts.hashIP("192.0.2.1"), ts.hashIP("192.0.2.1"))
	assert.NotEqual(t, ts.hashIP("192.0.2.1"), ts.hashIP("192.0.2.2"))
	assert.NotContains(t, ts.hashIP("192.0.2.1"), "192")
}

func TestRecordRevealHook(t *testing.T) {
	ts := newTestSite(t, testConfig(t), page.Options{})

	ts.recordReveal(uuid.New(), "projects")

	assert.Eventually(t, func() bool {
		stats, err := ts.store.Stats(context.Background())
		return err == nil && stats.TotalReveals == 1
	}, 2*time.Second, 10*time.Millisecond)
}
