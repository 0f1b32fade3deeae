package utils

import (
	"strings"
	"testing"
	"time"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testKey, "session-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(testKey, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.SessionID != "session-1" {
		t.Errorf("SessionID = %q, want session-1", claims.SessionID)
	}
}

func TestValidateTokenRejectsWrongKeyAndExpiry(t *testing.T) {
	token, _ := GenerateToken(testKey, "session-1", time.Hour)
	if _, err := ValidateToken("another-secret", token); err == nil {
		t.Error("expected signature error")
	}

	expired, _ := GenerateToken(testKey, "session-1", -time.Minute)
	if _, err := ValidateToken(testKey, expired); err == nil {
		t.Error("expected expiry error")
	}
}

func TestEncryptJSON(t *testing.T) {
	type bundle struct {
		Token string `json:"token"`
	}

	sealed, err := EncryptJSON(bundle{Token: "secret-token"}, []byte(testKey))
	if err != nil {
		t.Fatalf("EncryptJSON: %v", err)
	}
	if strings.Contains(sealed, "secret-token") {
		t.Fatal("ciphertext leaks plaintext")
	}

	var out bundle
	if err := DecryptJSON(sealed, []byte(testKey), &out); err != nil {
		t.Fatalf("DecryptJSON: %v", err)
	}
	if out.Token != "secret-token" {
		t.Errorf("Token = %q", out.Token)
	}

	if _, err := Decrypt("c2hvcnQ=", []byte(testKey)); err == nil {
		t.Error("expected error for short ciphertext")
	}
}

func TestNewGenerationID(t *testing.T) {
	now := time.Unix(1700000000, 0)
	prefix := "gen_1700000000_" + TopicHash("magnesium glycinate")
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewGenerationID(now, "magnesium glycinate")
		if err != nil {
			t.Fatalf("NewGenerationID: %v", err)
		}
		if !strings.HasPrefix(id, prefix) || len(id) != len("gen_1700000000_")+10 {
			t.Fatalf("unexpected id %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestGenerateRandomKey(t *testing.T) {
	a, err := GenerateRandomKey(16)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GenerateRandomKey(16)
	if a == b || a == "" {
		t.Errorf("keys should be random and non-empty: %q %q", a, b)
	}
}

func TestTopicHash(t *testing.T) {
	a := TopicHash("Magnesium Glycinate")
	if len(a) != 4 {
		t.Fatalf("TopicHash = %q, want 4 hex digits", a)
	}
	if b := TopicHash("  magnesium glycinate "); b != a {
		t.Errorf("hash depends on case or padding: %q vs %q", a, b)
	}
	if c := TopicHash("creatine"); c == a {
		t.Errorf("different topics share hash %q", c)
	}
}
