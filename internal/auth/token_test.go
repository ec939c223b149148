package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	userID, err := issuer.Redeem(token)
	if err != nil {
		t.Fatalf("Redeem error: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("Redeem returned %q, want %q", userID, "user-123")
	}
}

func TestTokenExpired(t *testing.T) {
	start := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer(testSecret).WithClock(func() time.Time { return start })

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Still valid just inside the TTL
	almost := issuer.WithClock(func() time.Time { return start.Add(TokenTTL - time.Minute) })
	if _, err := almost.Redeem(token); err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}

	// Rejected once the TTL has elapsed
	late := issuer.WithClock(func() time.Time { return start.Add(TokenTTL + time.Minute) })
	if _, err := late.Redeem(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Redeem error = %v, want ErrTokenExpired", err)
	}
}

func TestTokenTampered(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Flip a character in the payload segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token format: %s", token)
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := issuer.Redeem(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("Redeem error = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)
	other := NewTokenIssuer([]byte("another-secret-another-secret-32"))

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := other.Redeem(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("Redeem error = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := issuer.Redeem(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Redeem(%q) error = %v, want ErrTokenInvalid", token, err)
		}
	}
}
