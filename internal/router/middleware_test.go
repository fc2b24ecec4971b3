package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/saya-shop/internal/authz"
	"github.com/saya-shop/internal/constants"
	handlershared "github.com/saya-shop/internal/http/handlers/shared"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
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

func TestUserJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware("", nil))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if got := decodeStatusCode(t, w); got != 401 {
		t.Fatalf("status_code want 401 got %d", got)
	}
}

func TestOptionalUserAuthMiddlewareGuest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(OptionalUserAuthMiddleware("secret", nil))
	r.GET("/cart", func(c *gin.Context) {
		_, exists := c.Get(constants.ContextKeyUserID)
		c.JSON(http.StatusOK, gin.H{"authenticated": exists})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))
	if !strings.Contains(w.Body.String(), `"authenticated":false`) {
		t.Fatalf("guest request should pass through, got %s", w.Body.String())
	}
}

func TestAdminRBACMiddlewareRejectsCustomer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("init authz failed: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}

	serve := func(role, method, path string) int {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set(constants.ContextKeyUserRole, role)
			c.Next()
		}, AdminRBACMiddleware(authzService))
		r.GET("/api/v1/admin/orders", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status_code": 0}) })
		r.POST("/api/v1/admin/products", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status_code": 0}) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return decodeStatusCode(t, w)
	}

	if got := serve("user", http.MethodGet, "/api/v1/admin/orders"); got != 403 {
		t.Fatalf("customer should be forbidden, got %d", got)
	}
	if got := serve("staff", http.MethodGet, "/api/v1/admin/orders"); got != 0 {
		t.Fatalf("staff should list orders, got %d", got)
	}
	if got := serve("staff", http.MethodPost, "/api/v1/admin/products"); got != 403 {
		t.Fatalf("staff should not create products, got %d", got)
	}
	if got := serve("admin", http.MethodPost, "/api/v1/admin/products"); got != 0 {
		t.Fatalf("admin should create products, got %d", got)
	}
}

func TestSessionMiddlewareRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)

	manager := scs.New()
	r := gin.New()
	r.Use(SessionMiddleware(manager))
	r.POST("/put", func(c *gin.Context) {
		manager.Put(c.Request.Context(), "greeting", "hello")
		if err := handlershared.CommitSession(c, manager); err != nil {
			t.Fatalf("commit session failed: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{})
	})
	r.GET("/get", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"greeting": manager.GetString(c.Request.Context(), "greeting")})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/put", nil))
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("session cookie should be written")
	}

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookies[0])
	r.ServeHTTP(w2, req)
	if !strings.Contains(w2.Body.String(), `"greeting":"hello"`) {
		t.Fatalf("session value should survive round trip, got %s", w2.Body.String())
	}
}

func decodeStatusCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}
