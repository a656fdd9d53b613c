package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndParseToken(t *testing.T) {
	secret := []byte("test-secret")
	expires := time.Now().Add(time.Hour)

	token, err := IssueToken(secret, "user-1", "Avery", "jti-1", expires)
	if err != nil {
		t.Fatalf("IssueToken error = %v", err)
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken error = %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q", claims.Subject)
	}
	if claims.Name != "Avery" {
		t.Errorf("Name = %q", claims.Name)
	}
	if claims.ID != "jti-1" {
		t.Errorf("ID = %q", claims.ID)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := IssueToken([]byte("secret-a"), "user-1", "Avery", "jti-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("IssueToken error = %v", err)
	}
	if _, err := ParseToken([]byte("secret-b"), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("ParseToken error = %v, want ErrInvalidToken", err)
	}
}

func TestParseTokenExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := IssueToken(secret, "user-1", "Avery", "jti-1", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("IssueToken error = %v", err)
	}
	if _, err := ParseToken(secret, token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("ParseToken error = %v, want ErrExpiredToken", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	for _, garbage := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ParseToken([]byte("secret"), garbage); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("ParseToken(%q) error = %v, want ErrInvalidToken", garbage, err)
		}
	}
}

func TestHashTokenStable(t *testing.T) {
	a := HashToken("refresh-token")
	b := HashToken("refresh-token")
	if a != b {
		t.Fatal("HashToken is not deterministic")
	}
	if a == HashToken("other-token") {
		t.Fatal("distinct tokens hashed equal")
	}
	if len(a) != 64 {
		t.Fatalf("hash length = %d, want 64 hex chars", len(a))
	}
}
