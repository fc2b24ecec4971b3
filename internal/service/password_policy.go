package service

import (
	"fmt"
	"unicode"

	"github.com/saya-shop/internal/config"
)

type passwordPolicyError struct {
	message string
}

func (e passwordPolicyError) Error() string {
	return e.message
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return passwordPolicyError{message: fmt.Sprintf("password must be at least %d characters", policy.MinLength)}
	}
	if !policy.RequireNumber {
		return nil
	}
	for _, r := range password {
		if unicode.IsDigit(r) {
			return nil
		}
	}
	return passwordPolicyError{message: "password must contain a number"}
}
