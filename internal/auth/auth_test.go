package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/projectdesk/projectdesk/internal/models"
)

func TestTokenPairRoundTrip(t *testing.T) {
	if err := InitJWT("test-secret", time.Minute, time.Hour); err != nil {
		t.Fatalf("init: %v", err)
	}

	pair, err := GenerateTokenPair(42, "a@x.com", "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" || pair.Access == pair.Refresh {
		t.Fatalf("unexpected pair %+v", pair)
	}

	id, err := VerifyJWT(pair.Access, TokenAccess)
	if err != nil || id != 42 {
		t.Fatalf("access verify: id=%d err=%v", id, err)
	}

	id, err = VerifyJWT(pair.Refresh, TokenRefresh)
	if err != nil || id != 42 {
		t.Fatalf("refresh verify: id=%d err=%v", id, err)
	}

	if _, err := VerifyJWT(pair.Refresh, TokenAccess); err == nil {
		t.Fatal("refresh token must not pass as access token")
	}
	if _, err := VerifyJWT(pair.Access+"x", TokenAccess); err == nil {
		t.Fatal("tampered token must be rejected")
	}
}

func TestInitJWTRequiresSecret(t *testing.T) {
	if err := InitJWT("", 0, 0); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestExpiredToken(t *testing.T) {
	if err := InitJWT("test-secret", time.Minute, time.Hour); err != nil {
		t.Fatalf("init: %v", err)
	}

	token, err := generateJWT(1, "a@x.com", "admin", TokenAccess, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := VerifyJWT(token, TokenAccess); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("p1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "p1" {
		t.Fatal("hash must not equal the password")
	}
	if !CheckPassword(hash, "p1") {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hash, "p2") {
		t.Fatal("expected wrong password to fail")
	}
}

func TestGeneratePassword(t *testing.T) {
	pw, err := GeneratePassword("Alice@x.com", "5551234567")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(pw, "ali") || !strings.HasSuffix(pw, "567") || len(pw) != 14 {
		t.Fatalf("unexpected password %q", pw)
	}

	other, _ := GeneratePassword("Alice@x.com", "5551234567")
	if other == pw {
		t.Fatal("expected random component to differ")
	}

	short, err := GeneratePassword("a@", "")
	if err != nil || len(short) != 10 {
		t.Fatalf("unexpected short password %q err=%v", short, err)
	}
}

func TestOnlyAdminManagesAccounts(t *testing.T) {
	actions := []Action{ActionCreateAccount, ActionUpdateAccount, ActionDeleteAccount, ActionListAccounts, ActionAccountStatus}

	for _, action := range actions {
		if err := Authorize(models.RoleAdmin, action); err != nil {
			t.Errorf("admin should be allowed %s: %v", action, err)
		}
		for _, role := range models.Roles {
			if role == models.RoleAdmin {
				continue
			}
			if Can(role, action) {
				t.Errorf("role %s must not be allowed %s", role, action)
			}
			if err := Authorize(role, action); err != ErrForbidden {
				t.Errorf("expected ErrForbidden for %s/%s got %v", role, action, err)
			}
		}
	}

	if Can(models.RoleAdmin, Action("unknown")) {
		t.Fatal("unknown actions must be denied")
	}
}
