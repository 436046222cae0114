package webhook_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"testing"

	"webhook-gateway/internal/webhook"
)

func TestValidateGitHubSignature(t *testing.T) {
	v := webhook.NewSecurityValidator(webhook.SecurityConfig{Secret: "topsecret", RateLimitPerMin: 60})

	payload := []byte(`{"ref": "refs/heads/main"}`)
	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write(payload)
	good := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	if err := v.ValidateGitHubSignature(payload, good); err != nil {
		t.Errorf("valid signature rejected: %v", err)
	}
	if err := v.ValidateGitHubSignature(payload, "sha256=deadbeef"); err == nil {
		t.Error("wrong signature accepted")
	}
	if err := v.ValidateGitHubSignature(payload, "sha1=abc"); err == nil {
		t.Error("wrong signature format accepted")
	}

	empty := webhook.NewSecurityValidator(webhook.SecurityConfig{RateLimitPerMin: 60})
	if err := empty.ValidateGitHubSignature(payload, good); err == nil {
		t.Error("missing secret must fail closed")
	}
}

func TestValidateGitLabToken(t *testing.T) {
	v := webhook.NewSecurityValidator(webhook.SecurityConfig{Secret: "topsecret", RateLimitPerMin: 60})

	if err := v.ValidateGitLabToken("topsecret"); err != nil {
		t.Errorf("valid token rejected: %v", err)
	}
	if err := v.ValidateGitLabToken("nope"); err == nil {
		t.Error("wrong token accepted")
	}
}

func TestValidateIPAddress(t *testing.T) {
	v := webhook.NewSecurityValidator(webhook.SecurityConfig{
		Secret:          "x",
		AllowedIPs:      []string{"10.1.2.3", "192.30.252.0/22"},
		RateLimitPerMin: 60,
	})

	r := httptest.NewRequest("POST", "/", nil)
	r.RemoteAddr = "10.1.2.3:5511"
	if err := v.ValidateIPAddress(r); err != nil {
		t.Errorf("listed IP rejected: %v", err)
	}

	r.RemoteAddr = "192.30.253.9:443"
	if err := v.ValidateIPAddress(r); err != nil {
		t.Errorf("CIDR-listed IP rejected: %v", err)
	}

	r.RemoteAddr = "172.16.0.1:80"
	if err := v.ValidateIPAddress(r); err == nil {
		t.Error("unlisted IP accepted")
	}

	r.RemoteAddr = "172.16.0.1:80"
	r.Header.Set("X-Forwarded-For", "10.1.2.3, 172.16.0.1")
	if err := v.ValidateIPAddress(r); err != nil {
		t.Errorf("forwarded-for IP rejected: %v", err)
	}

	open := webhook.NewSecurityValidator(webhook.SecurityConfig{Secret: "x", RateLimitPerMin: 60})
	if err := open.ValidateIPAddress(r); err != nil {
		t.Errorf("empty allowlist must allow all: %v", err)
	}
}

func TestCheckRateLimit(t *testing.T) {
	v := webhook.NewSecurityValidator(webhook.SecurityConfig{Secret: "x", RateLimitPerMin: 10})

	// Burst is requestsPerMin/10 = 1: the second immediate call must fail.
	if err := v.CheckRateLimit("github"); err != nil {
		t.Fatalf("first request limited: %v", err)
	}
	if err := v.CheckRateLimit("github"); err == nil {
		t.Error("burst exceeded but request allowed")
	}
	// Separate sources have separate buckets.
	if err := v.CheckRateLimit("gitlab"); err != nil {
		t.Errorf("independent source limited: %v", err)
	}
}

func TestCheckRateLimitZeroMeansUnlimited(t *testing.T) {
	v := webhook.NewSecurityValidator(webhook.SecurityConfig{Secret: "x", RateLimitPerMin: 0})

	for i := 0; i < 100; i++ {
		if err := v.CheckRateLimit("github"); err != nil {
			t.Fatalf("request %d limited with no configured limit: %v", i, err)
		}
	}
}
