package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fulfillcore/internal/config"
	"github.com/fulfillcore/internal/metrics"
	"github.com/fulfillcore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Member: config.JWTConfig{SecretKey: "member-secret", ExpireHours: 1},
		Admin:  config.JWTConfig{SecretKey: "admin-secret", ExpireHours: 1},
	}
}

func newJWTTestEngine(middleware gin.HandlerFunc, key string) *gin.Engine {
	r := gin.New()
	r.Use(middleware)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "data": c.GetString(key)})
	})
	return r
}

func serveWithAuth(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestMemberJWTMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newJWTTestEngine(MemberJWTMiddleware(""), memberIDContextKey)
	resp := decodeEnvelope(t, serveWithAuth(r, "Bearer whatever"))
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}

func TestMemberJWTMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testAuthConfig()
	auth := service.NewAuthService(cfg)

	memberToken, _, err := auth.GenerateMemberToken("m-1")
	if err != nil {
		t.Fatalf("generate member token failed: %v", err)
	}
	adminToken, _, err := auth.GenerateAdminToken("admin-1")
	if err != nil {
		t.Fatalf("generate admin token failed: %v", err)
	}

	r := newJWTTestEngine(MemberJWTMiddleware(cfg.Member.SecretKey), memberIDContextKey)

	resp := decodeEnvelope(t, serveWithAuth(r, "Bearer "+memberToken))
	if resp.StatusCode != 0 || string(resp.Data) != `"m-1"` {
		t.Fatalf("valid member token should pass with member id, got %+v", resp)
	}

	cases := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "bad scheme", header: "Token " + memberToken},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "admin token", header: "Bearer " + adminToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := decodeEnvelope(t, serveWithAuth(r, tc.header))
			if resp.StatusCode != 401 {
				t.Fatalf("status_code want 401 got %d", resp.StatusCode)
			}
		})
	}
}

func TestAdminJWTMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testAuthConfig()
	auth := service.NewAuthService(cfg)

	adminToken, _, err := auth.GenerateAdminToken("admin-1")
	if err != nil {
		t.Fatalf("generate admin token failed: %v", err)
	}
	memberToken, _, err := auth.GenerateMemberToken("m-1")
	if err != nil {
		t.Fatalf("generate member token failed: %v", err)
	}

	r := newJWTTestEngine(AdminJWTMiddleware(cfg.Admin.SecretKey), adminIDContextKey)

	resp := decodeEnvelope(t, serveWithAuth(r, "Bearer "+adminToken))
	if resp.StatusCode != 0 || string(resp.Data) != `"admin-1"` {
		t.Fatalf("valid admin token should pass with admin id, got %+v", resp)
	}

	resp = decodeEnvelope(t, serveWithAuth(r, "Bearer "+memberToken))
	if resp.StatusCode != 401 {
		t.Fatalf("member token must not pass admin middleware, got %d", resp.StatusCode)
	}
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/items/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "204")
	before := testutil.ToFloat64(counter)
	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}
	after := testutil.ToFloat64(counter)
	if after-before != 2 {
		t.Fatalf("route counter should grow by 2, got %v -> %v", before, after)
	}
}
