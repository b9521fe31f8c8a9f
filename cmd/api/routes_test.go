package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskboard/internal/account"
	"taskboard/internal/audit"
	"taskboard/internal/auth"
	"taskboard/internal/httpapi"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type testAPI struct {
	router *gin.Engine
	audit  *audit.MemoryRepo
}

func newTestAPI(t *testing.T, issueLimit int) testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	tokens, err := auth.NewTokenService(secret, 36000000)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	auditRepo := audit.NewMemoryRepo()
	h := httpapi.Handlers{
		Tokens: tokens,
		Accounts: account.NewService(account.NewMemoryRepo(
			account.Account{UserID: "u1", Username: "alice", Email: "alice@example.com"},
		)),
		Audit:   audit.NewService(auditRepo),
		Limiter: httpapi.NewRedisLimiter(rdb, "verify-issue:", issueLimit, time.Minute),
	}

	r := gin.New()
	registerRoutes(r, h)
	return testAPI{router: r, audit: auditRepo}
}

func (a testAPI) do(t *testing.T, method, path, bearer string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, out
}

func TestRoutes_SessionAndVerificationFlow(t *testing.T) {
	api := newTestAPI(t, 5)

	code, body := api.do(t, http.MethodPost, "/v1/auth/session", "", map[string]string{"user_id": "u1"})
	if code != http.StatusOK {
		t.Fatalf("session: expected 200, got %d %v", code, body)
	}
	session, _ := body["token"].(string)
	if session == "" || body["token_type"] != "Bearer" || body["expires_in_ms"] != float64(36000000) {
		t.Fatalf("unexpected session response: %v", body)
	}

	code, body = api.do(t, http.MethodGet, "/v1/me", session, nil)
	if code != http.StatusOK || body["username"] != "alice" {
		t.Fatalf("me: got %d %v", code, body)
	}
	if code, _ := api.do(t, http.MethodGet, "/v1/me", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("me without token: expected 401, got %d", code)
	}

	code, body = api.do(t, http.MethodPost, "/v1/auth/verification", "", map[string]string{"username": "alice"})
	if code != http.StatusOK || body["expires_in_ms"] != float64(300000) {
		t.Fatalf("verification: got %d %v", code, body)
	}
	verify, _ := body["token"].(string)

	code, body = api.do(t, http.MethodGet, "/v1/me", verify, nil)
	if code != http.StatusUnauthorized || body["error"] != "claim_missing" {
		t.Fatalf("me with verification token: got %d %v", code, body)
	}

	code, body = api.do(t, http.MethodPost, "/v1/auth/verify-email", "", map[string]string{"token": session})
	if code != http.StatusUnauthorized || body["error"] != "claim_missing" {
		t.Fatalf("verify-email with session token: got %d %v", code, body)
	}

	code, body = api.do(t, http.MethodPost, "/v1/auth/verify-email", "", map[string]string{"token": verify})
	if code != http.StatusOK || body["email_verified"] != true || body["username"] != "alice" {
		t.Fatalf("verify-email: got %d %v", code, body)
	}

	code, body = api.do(t, http.MethodGet, "/v1/me", session, nil)
	if code != http.StatusOK || body["email_verified_at"] == nil {
		t.Fatalf("me after verification: got %d %v", code, body)
	}

	evs := api.audit.Events()
	if len(evs) != 3 {
		t.Fatalf("expected 3 audit events, got %d", len(evs))
	}
	if evs[0].Type != audit.EventTypeSessionTokenIssued || evs[2].Type != audit.EventTypeEmailVerified {
		t.Fatalf("unexpected audit trail: %+v", evs)
	}
}

func TestRoutes_Introspect(t *testing.T) {
	api := newTestAPI(t, 5)

	_, body := api.do(t, http.MethodPost, "/v1/auth/session", "", map[string]string{"user_id": "u1"})
	session, _ := body["token"].(string)

	for tok, want := range map[string]bool{session: true, "": false, "garbage": false, session + "x": false} {
		code, body := api.do(t, http.MethodPost, "/v1/auth/introspect", "", map[string]string{"token": tok})
		if code != http.StatusOK || body["valid"] != want {
			t.Fatalf("introspect %q: got %d %v", tok, code, body)
		}
	}
}

func TestRoutes_UnknownAccountsAndLimits(t *testing.T) {
	api := newTestAPI(t, 2)

	if code, body := api.do(t, http.MethodPost, "/v1/auth/session", "", map[string]string{"user_id": "nobody"}); code != http.StatusNotFound {
		t.Fatalf("unknown user: got %d %v", code, body)
	}
	if code, body := api.do(t, http.MethodPost, "/v1/auth/session", "", map[string]string{}); code != http.StatusBadRequest {
		t.Fatalf("missing user_id: got %d %v", code, body)
	}
	if code, body := api.do(t, http.MethodPost, "/v1/auth/verification", "", map[string]string{"username": "mallory"}); code != http.StatusNotFound {
		t.Fatalf("unknown username: got %d %v", code, body)
	}

	for i := 0; i < 2; i++ {
		if code, body := api.do(t, http.MethodPost, "/v1/auth/verification", "", map[string]string{"username": "alice"}); code != http.StatusOK {
			t.Fatalf("verification %d: got %d %v", i+1, code, body)
		}
	}
	code, body := api.do(t, http.MethodPost, "/v1/auth/verification", "", map[string]string{"username": "alice"})
	if code != http.StatusTooManyRequests || body["error"] != "too_many_requests" {
		t.Fatalf("expected 429, got %d %v", code, body)
	}
}

func TestRoutes_Health(t *testing.T) {
	api := newTestAPI(t, 1)

	for _, path := range []string{"/healthz", "/readyz"} {
		if code, body := api.do(t, http.MethodGet, path, "", nil); code != http.StatusOK || body["status"] != "ok" {
			t.Fatalf("%s: got %d %v", path, code, body)
		}
	}
}
