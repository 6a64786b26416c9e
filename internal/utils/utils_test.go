package utils

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if hash == "secret1" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("hash %q does not look like bcrypt", hash)
	}
	if !VerifyPassword(hash, "secret1") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "secret2") {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("not-a-hash", "secret1") {
		t.Error("malformed hash verified")
	}
}

func TestHashPasswordSalts(t *testing.T) {
	a, _ := HashPassword("secret1", bcrypt.MinCost)
	b, _ := HashPassword("secret1", bcrypt.MinCost)
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}

func TestHashPasswordCost(t *testing.T) {
	hash, err := HashPassword("secret1", 99)
	if err != nil {
		t.Fatal(err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil || cost != DefaultCost {
		t.Errorf("cost = %d, %v; want fallback %d", cost, err, DefaultCost)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("k", 42, "administration", "Aicha", 5)
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(tok.Exp) <= 0 {
		t.Error("expiry in the past")
	}
	claims, err := ParseAccessToken("k", tok.Token)
	if err != nil {
		t.Fatal(err)
	}
	id, _ := claims.UserID()
	if id != 42 || claims.Role != "administration" || claims.Name != "Aicha" {
		t.Errorf("claims = %+v", claims)
	}
	if _, err := ParseAccessToken("other", tok.Token); err == nil {
		t.Error("token verified with the wrong secret")
	}
}

func TestExpiredAccessToken(t *testing.T) {
	tok, err := NewAccessToken("k", 1, "professor", "", -1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAccessToken("k", tok.Token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshToken(t *testing.T) {
	r, err := NewRefreshToken(7)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Raw) != 96 {
		t.Errorf("raw length = %d, want 96", len(r.Raw))
	}
	if h := HashRefreshRaw(r.Raw); len(h) != 64 || h == r.Raw {
		t.Errorf("unexpected digest %q", h)
	}
}
