package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/saya-shop/internal/config"
	"github.com/saya-shop/internal/constants"
)

const defaultEmailTimeout = 15 * time.Second

// EmailService 邮件发送服务
type EmailService struct {
	cfg     *config.EmailConfig
	timeout time.Duration
}

// NewEmailService 创建邮件服务；一次 SMTP 会话（拨号到 QUIT）不超过 email.timeout_seconds
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	timeout := defaultEmailTimeout
	if cfg != nil && cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &EmailService{cfg: cfg, timeout: timeout}
}

// Enabled 邮件服务是否可用
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// SendHTML 发送 HTML 邮件
func (s *EmailService) SendHTML(toEmail, subject, htmlBody string) error {
	if !s.Enabled() {
		return ErrEmailServiceDisabled
	}
	sender := s.senderAddress()
	if s.cfg.Host == "" || s.cfg.Port == 0 || sender == "" {
		return ErrEmailServiceNotConfigured
	}
	recipient, err := mail.ParseAddress(toEmail)
	if err != nil {
		return ErrInvalidEmail
	}

	fromName := s.cfg.FromName
	if strings.TrimSpace(fromName) == "" {
		fromName = constants.DefaultSenderName
	}
	msg := buildEmailMessage(buildFromAddress(sender, fromName), recipient.String(), subject, htmlBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	tlsConfig := &tls.Config{ServerName: s.cfg.Host, InsecureSkipVerify: s.cfg.InsecureSkipVerify} //nolint:gosec

	implicitTLS := s.cfg.UseSSL || s.cfg.Port == 465
	client, err := dialSMTP(addr, tlsConfig, implicitTLS, s.timeout)
	if err != nil {
		return normalizeEmailSendError(err)
	}
	defer client.Close()

	if s.cfg.UseTLS && !implicitTLS {
		if err := client.StartTLS(tlsConfig); err != nil {
			return normalizeEmailSendError(err)
		}
	}
	if err := authenticate(client, auth); err != nil {
		return normalizeEmailSendError(err)
	}
	return normalizeEmailSendError(sendSMTPData(client, sender, []string{recipient.Address}, []byte(msg)))
}

// senderAddress 未配置 from 时使用 SMTP 用户名
func (s *EmailService) senderAddress() string {
	if from := strings.TrimSpace(s.cfg.From); from != "" {
		return from
	}
	return strings.TrimSpace(s.cfg.Username)
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	return (&mail.Address{Name: name, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

// dialSMTP 建立 SMTP 连接，整个会话共用一个截止时间
func dialSMTP(addr string, tlsConfig *tls.Config, implicitTLS bool, timeout time.Duration) (*smtp.Client, error) {
	dialer := &net.Dialer{Timeout: timeout}
	var (
		conn net.Conn
		err  error
	)
	if implicitTLS {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return nil, err
	}
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()
		return nil, err
	}

	client, err := smtp.NewClient(conn, tlsConfig.ServerName)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}

func authenticate(client *smtp.Client, auth smtp.Auth) error {
	if auth == nil {
		return nil
	}
	if ok, _ := client.Extension("AUTH"); ok {
		return client.Auth(auth)
	}
	return nil
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return fmt.Errorf("%w: %v", ErrEmailRecipientRejected, err)
	}
	return err
}

func isEmailRecipientRejected(err error) bool {
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	directKeywords := []string{
		"no such recipient",
		"no such user",
		"recipient not found",
		"recipient address rejected",
		"invalid recipient",
		"user unknown",
		"unknown user",
		"mailbox unavailable",
	}
	for _, keyword := range directKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		for _, hint := range []string{"recipient", "user", "mailbox", "rcpt"} {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
