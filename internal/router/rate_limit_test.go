package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/saya-shop/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"email":" Test@Example.com "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("email")(c)
	if key != "test@example.com|1.2.3.4" {
		t.Fatalf("key want test@example.com|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Test@Example.com") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestRateLimitMiddlewareFailsOpenWhenRedisDown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	r := gin.New()
	r.Use(RateLimitMiddleware(client, RateLimitRule{Prefix: "saya:rate:checkout", WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.POST("/checkout", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/checkout", nil))
		if !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("request %d should pass through, got %s", i, w.Body.String())
		}
	}
}

func TestNewRateLimitRule(t *testing.T) {
	rule := newRateLimitRule("saya", "login", config.RateLimitConfig{WindowSeconds: 300, MaxAttempts: 5}, "too many login attempts")
	if rule.Prefix != "saya:rate:login" || rule.WindowSeconds != 300 || rule.MaxRequests != 5 {
		t.Fatalf("unexpected rule: %+v", rule)
	}
	if !rule.enabled() {
		t.Fatalf("rule should be enabled")
	}
	if newRateLimitRule("saya", "email", config.RateLimitConfig{}, "").enabled() {
		t.Fatalf("zero config should disable the rule")
	}
}

func TestReadJSONFieldIgnoresNonString(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":42}`))

	if got := readJSONField(c, "email"); got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}
}

func TestAdminPermissionCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	noop := func(c *gin.Context) {}
	r.GET("/api/v1/admin/orders", noop)
	r.PATCH("/api/v1/admin/orders/:id/status", noop)
	r.POST("/api/v1/admin/products", noop)
	r.GET("/api/v1/public/products", noop)

	items := buildAdminPermissionCatalog(r)
	if len(items) != 3 {
		t.Fatalf("catalog should only list admin routes, got %+v", items)
	}
	if items[0].Module != "orders" || items[len(items)-1].Module != "products" {
		t.Fatalf("catalog should be sorted by module, got %+v", items)
	}
	for _, item := range items {
		if strings.HasPrefix(item.Object, "/api/v1") {
			t.Fatalf("object should be normalized, got %s", item.Object)
		}
	}
}
