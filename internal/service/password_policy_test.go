package service

import (
	"errors"
	"testing"

	"github.com/harvestmart/harvestmart-api/internal/config"
)

func TestValidatePasswordPolicy(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireNumber: true,
	}

	if err := validatePassword(policy, "Apples2024"); err != nil {
		t.Fatalf("valid password rejected: %v", err)
	}
	if err := validatePassword(policy, "Ap1"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("short password want ErrWeakPassword got %v", err)
	}
	if err := validatePassword(policy, "lowercase24"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("missing upper want ErrWeakPassword got %v", err)
	}
	if err := validatePassword(policy, "NoDigitsHere"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("missing digit want ErrWeakPassword got %v", err)
	}

	// 空策略放行一切
	if err := validatePassword(config.PasswordPolicyConfig{}, "x"); err != nil {
		t.Fatalf("empty policy must accept, got %v", err)
	}
}

func TestPasswordPolicyErrorCarriesKey(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 10}
	err := validatePassword(policy, "short")
	var policyErr passwordPolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected passwordPolicyError, got %T", err)
	}
	if policyErr.Key() != "error.password_min_length" {
		t.Fatalf("unexpected key: %s", policyErr.Key())
	}
	if len(policyErr.Args()) != 1 || policyErr.Args()[0] != 10 {
		t.Fatalf("unexpected args: %+v", policyErr.Args())
	}
}
