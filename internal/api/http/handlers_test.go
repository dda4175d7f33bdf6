package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "portfolio-access-backend/internal/api/http"
	"portfolio-access-backend/internal/clock"
	"portfolio-access-backend/internal/domain"
	"portfolio-access-backend/internal/repository/memory"
	"portfolio-access-backend/internal/security"
	"portfolio-access-backend/internal/service"
)

// stubEmailService answers without touching the network; individual sends can
// be made to fail.
type stubEmailService struct {
	failOwner     bool
	failApproved  bool
	failDeclined  bool
	failTest      bool
	ownerNotified int
}

func (s *stubEmailService) NotifyOwnerOfRequest(ctx context.Context, req *domain.AccessRequest) error {
	s.ownerNotified++
	if s.failOwner {
		return errors.New("smtp down")
	}
	return nil
}

func (s *stubEmailService) NotifyRequesterApproved(ctx context.Context, req *domain.AccessRequest, password string, expiresAt time.Time) error {
	if s.failApproved {
		return errors.New("smtp down")
	}
	return nil
}

func (s *stubEmailService) NotifyRequesterDeclined(ctx context.Context, req *domain.AccessRequest) error {
	if s.failDeclined {
		return errors.New("smtp down")
	}
	return nil
}

func (s *stubEmailService) SendTestEmail(ctx context.Context) error {
	if s.failTest {
		return errors.New("smtp down")
	}
	return nil
}

type testServer struct {
	router   http.Handler
	store    *memory.Store
	email    *stubEmailService
	clk      *clock.Manual
	access   service.AccessService
	sessions security.SessionManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	clk := clock.NewManual(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC))
	store := memory.NewStore(clk)
	email := &stubEmailService{}
	access := service.NewAccessService(
		store.RequestRepository,
		store.CredentialRepository,
		email,
		clk,
		72*time.Hour,
		"",
	)
	sessions := security.NewSessionManager("0123456789abcdef0123456789abcdef", time.Hour)
	handler := httpapi.NewGateHandler(access, email, sessions)

	return &testServer{
		router:   httpapi.NewRouter(handler, t.TempDir()),
		store:    store,
		email:    email,
		clk:      clk,
		access:   access,
		sessions: sessions,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func submitRequest(t *testing.T, ts *testServer) string {
	t.Helper()
	id, err := ts.access.Submit(context.Background(), &domain.Submission{
		Name: "A", Email: "a@x.com", Reason: "eval",
	})
	require.NoError(t, err)
	return id
}

func TestHandlePasswordRequest(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/password-request", map[string]string{
		"name": "A", "email": "a@x.com", "reason": "eval",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 1, ts.email.ownerNotified)
}

func TestHandlePasswordRequest_MissingFields(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/password-request", map[string]string{"name": "A"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Missing required fields", body["message"])
}

func TestHandlePasswordRequest_MailFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.email.failOwner = true

	rec := ts.do(t, http.MethodPost, "/api/password-request", map[string]string{
		"name": "A", "email": "a@x.com", "reason": "eval",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Request received but email delivery failed", body["message"])
}

func TestHandleApproveRequest(t *testing.T) {
	ts := newTestServer(t)
	id := submitRequest(t, ts)

	rec := ts.do(t, http.MethodGet, "/api/approve-request/"+id, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Request Approved")
	assert.Contains(t, rec.Body.String(), "a@x.com")

	// Second click on the same link conflicts.
	rec = ts.do(t, http.MethodGet, "/api/approve-request/"+id, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "Request has already been processed", body["message"])
}

func TestHandleApproveRequest_NotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/approve-request/deadbeef", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "Request not found", body["message"])
}

func TestHandleApproveRequest_MailFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.email.failApproved = true
	id := submitRequest(t, ts)

	rec := ts.do(t, http.MethodGet, "/api/approve-request/"+id, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to send password email")

	// The approval itself stands.
	req, err := ts.store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusApproved, req.Status)
}

func TestHandleDeclineRequest(t *testing.T) {
	ts := newTestServer(t)
	id := submitRequest(t, ts)

	rec := ts.do(t, http.MethodGet, "/api/decline-request/"+id, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request Declined")

	rec = ts.do(t, http.MethodGet, "/api/decline-request/"+id, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleVerifyPassword(t *testing.T) {
	ts := newTestServer(t)
	id := submitRequest(t, ts)
	_, password, err := ts.access.Approve(context.Background(), id)
	require.NoError(t, err)

	rec := ts.do(t, http.MethodPost, "/api/verify-password", map[string]string{"password": password})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Password valid", body["message"])
	assert.NotEmpty(t, body["token"])

	// The token is bound to the requester the password was granted to.
	claims, err := ts.sessions.Validate(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)

	// The issued token opens a session.
	rec = ts.do(t, http.MethodPost, "/api/session", map[string]string{"token": body["token"].(string)})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleVerifyPassword_Empty(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/verify-password", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "Password required", body["message"])
}

func TestHandleVerifyPassword_Invalid(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/verify-password", map[string]string{"password": "0000000000000000"})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid password", body["message"])
}

func TestHandleVerifyPassword_Expired(t *testing.T) {
	ts := newTestServer(t)
	id := submitRequest(t, ts)
	_, password, err := ts.access.Approve(context.Background(), id)
	require.NoError(t, err)

	ts.clk.Advance(73 * time.Hour)

	rec := ts.do(t, http.MethodPost, "/api/verify-password", map[string]string{"password": password})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Password expired", body["message"])
}

func TestHandleSession_Invalid(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/session", map[string]string{"token": "garbage"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleTestEmail(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/test-email", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, true, body["success"])

	ts.email.failTest = true
	rec = ts.do(t, http.MethodGet, "/api/test-email", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body = decodeResponse(t, rec)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodOptions, "/api/verify-password", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
