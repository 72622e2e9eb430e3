package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
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

func TestOrderAndCartRouteShapesDispatch(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// /orders 下静态段与 :id 参数段并存，静态路由优先
	r := gin.New()
	r.POST("/cart", func(c *gin.Context) { c.String(http.StatusOK, "add") })
	r.GET("/cart", func(c *gin.Context) { c.String(http.StatusOK, "list") })
	r.PUT("/cart/:id", func(c *gin.Context) { c.String(http.StatusOK, "update:"+c.Param("id")) })
	r.DELETE("/cart/:id", func(c *gin.Context) { c.String(http.StatusOK, "remove:"+c.Param("id")) })
	r.DELETE("/cart", func(c *gin.Context) { c.String(http.StatusOK, "clear") })
	r.POST("/orders", func(c *gin.Context) { c.String(http.StatusOK, "create") })
	r.GET("/orders/my-orders", func(c *gin.Context) { c.String(http.StatusOK, "mine") })
	r.GET("/orders/seller/orders", func(c *gin.Context) { c.String(http.StatusOK, "seller") })
	r.GET("/orders/:id", func(c *gin.Context) { c.String(http.StatusOK, "get:"+c.Param("id")) })
	r.PUT("/orders/:id/status", func(c *gin.Context) { c.String(http.StatusOK, "status:"+c.Param("id")) })
	r.DELETE("/orders/:id", func(c *gin.Context) { c.String(http.StatusOK, "cancel:"+c.Param("id")) })

	cases := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/orders/my-orders", "mine"},
		{http.MethodGet, "/orders/seller/orders", "seller"},
		{http.MethodGet, "/orders/7", "get:7"},
		{http.MethodPut, "/orders/7/status", "status:7"},
		{http.MethodDelete, "/orders/7", "cancel:7"},
		{http.MethodDelete, "/cart/3", "remove:3"},
		{http.MethodDelete, "/cart", "clear"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK || w.Body.String() != tc.want {
			t.Fatalf("%s %s want %q got code=%d body=%q", tc.method, tc.path, tc.want, w.Code, w.Body.String())
		}
	}
}

func TestLoggerMiddlewarePassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	// nil 时退回全局 zap.L()
	r.Use(LoggerMiddleware(nil))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r2 := gin.New()
	r2.Use(LoggerMiddleware(zap.NewNop()))
	r2.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r2.ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("status with explicit logger want 200 got %d", w2.Code)
	}
}

func TestJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware("", nil))
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}
