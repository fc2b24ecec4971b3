package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/saya-shop/internal/provider"
	"github.com/saya-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	to      []string
	subject string
	err     error
}

func (r *recordingSender) SendHTML(toEmail, subject, htmlBody string) error {
	r.to = append(r.to, toEmail)
	r.subject = subject
	return r.err
}

func newTestEmailEngine(sender service.HTMLSender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{Container: &provider.Container{
		OrderEmailService: service.NewOrderEmailService(sender, nil),
	}}
	engine := gin.New()
	engine.POST("/emails/test", h.SendTestEmail)
	return engine
}

func TestSendTestEmailDefaultsRecipient(t *testing.T) {
	sender := &recordingSender{}
	engine := newTestEmailEngine(sender)

	req := httptest.NewRequest(http.MethodPost, "/emails/test", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"test@example.com"}, sender.to)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, true, body["success"])
	require.Equal(t, "Test email sent successfully to test@example.com", body["message"])
}

func TestSendTestEmailCustomRecipient(t *testing.T) {
	sender := &recordingSender{}
	engine := newTestEmailEngine(sender)

	req := httptest.NewRequest(http.MethodPost, "/emails/test", strings.NewReader(`{"testEmail":"owner@saya.pk"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"owner@saya.pk"}, sender.to)
	require.Contains(t, sender.subject, "Order Confirmation")
}

func TestSendTestEmailTransportFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp: connection refused")}
	engine := newTestEmailEngine(sender)

	req := httptest.NewRequest(http.MethodPost, "/emails/test", strings.NewReader(`{"testEmail":"owner@saya.pk"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Failed to send test email", body["error"])
	require.Equal(t, "smtp: connection refused", body["details"])
}
