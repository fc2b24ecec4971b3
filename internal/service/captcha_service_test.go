package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/saya-shop/internal/config"
)

func TestCaptchaDisabledSkipsVerification(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{})
	if svc.GuestCheckoutEnabled() {
		t.Fatalf("expected guest checkout captcha disabled")
	}
	if err := svc.VerifyGuestCheckout(CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("expected pass when disabled, got %v", err)
	}
}

func TestCaptchaGenerateAndVerify(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{GuestCheckout: true})
	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if challenge.CaptchaID == "" || !strings.HasPrefix(challenge.ImageBase64, "data:image/png;base64,") {
		t.Fatalf("unexpected challenge: %+v", challenge)
	}

	if err := svc.VerifyGuestCheckout(CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected captcha required, got %v", err)
	}
	answer := svc.store.Get(challenge.CaptchaID, false)
	if err := svc.VerifyGuestCheckout(CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: answer}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if err := svc.VerifyGuestCheckout(CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: answer}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("captcha must be single use, got %v", err)
	}
}

func TestNormalizeCaptchaConfigDefaults(t *testing.T) {
	cfg := normalizeCaptchaConfig(config.CaptchaConfig{Length: 20, NoiseCount: -1})
	if cfg.Length != 5 || cfg.Width != 240 || cfg.Height != 80 || cfg.NoiseCount != 0 || cfg.ExpireSeconds != 300 {
		t.Fatalf("unexpected normalized config: %+v", cfg)
	}
}
