package auth

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func jwtWith(payload string) string {
	enc := base64.RawURLEncoding.EncodeToString
	return enc([]byte(`{"alg":"none"}`)) + "." + enc([]byte(payload)) + ".sig"
}

func TestGetNotLoggedIn(t *testing.T) {
	t.Setenv(EnvToken, "")
	c := &Credentials{Dir: t.TempDir()}

	ti, err := c.Get()
	if err != nil || ti != nil {
		t.Errorf("expected nil, nil; got %+v, %v", ti, err)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(EnvToken, "Bearer from-env")
	c := &Credentials{Dir: t.TempDir()}
	if err := c.Set("from-file"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	ti, err := c.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ti.Token != "from-env" || ti.Source != "env" {
		t.Errorf("expected env token, got %+v", ti)
	}
}

func TestSetGetDelete(t *testing.T) {
	t.Setenv(EnvToken, "")
	c := &Credentials{Dir: filepath.Join(t.TempDir(), "nested")}

	if err := c.Set("  bearer abc  "); err != nil {
		t.Fatalf("Set: %v", err)
	}
	info, err := os.Stat(c.path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected 0600, got %o", perm)
	}

	tok, err := c.Token()
	if err != nil || tok != "abc" {
		t.Errorf("Token: got %q, %v", tok, err)
	}

	if err := c.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete(); err != nil {
		t.Errorf("second Delete should be a no-op, got %v", err)
	}
	if tok, _ := c.Token(); tok != "" {
		t.Errorf("expected no token after Delete, got %q", tok)
	}
}

func TestSetEmpty(t *testing.T) {
	c := &Credentials{Dir: t.TempDir()}
	if err := c.Set("   "); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestSetReadsJWTExpiry(t *testing.T) {
	t.Setenv(EnvToken, "")
	c := &Credentials{Dir: t.TempDir()}
	exp := time.Now().Add(-time.Hour).Unix()

	if err := c.Set(jwtWith(`{"sub":"idil","exp":` + strconv.FormatInt(exp, 10) + `}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ti, err := c.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ti.ExpiresAt == nil || ti.ExpiresAt.Unix() != exp {
		t.Fatalf("expected expiry %d, got %v", exp, ti.ExpiresAt)
	}
	if !ti.Expired(time.Now()) {
		t.Error("token should be expired")
	}
}

func TestClaims(t *testing.T) {
	claims, err := Claims(jwtWith(`{"sub":"idil"}`))
	if err != nil {
		t.Fatalf("Claims: %v", err)
	}
	if claims["sub"] != "idil" {
		t.Errorf("unexpected claims %v", claims)
	}
	if _, err := Claims("opaque-token"); err == nil {
		t.Error("expected error for an opaque token")
	}
}
