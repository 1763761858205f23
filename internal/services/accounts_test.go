package services

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/resource-jerc9024-data/alexa-attendance/internal/storage"
)

func TestResolveAttendanceKey(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := &AccountService{store: store, secret: []byte("test-secret")}
	token := signedToken(t, "cred-42")

	// First contact mints a key and stores the mapping.
	key, err := svc.ResolveAttendanceKey(token)
	if err != nil {
		t.Fatalf("ResolveAttendanceKey() failed: %v", err)
	}
	if key == "" {
		t.Fatal("empty attendance key minted")
	}

	// Subsequent calls return the same key.
	again, err := svc.ResolveAttendanceKey(token)
	if err != nil {
		t.Fatalf("second ResolveAttendanceKey() failed: %v", err)
	}
	if again != key {
		t.Errorf("key changed between calls: %s then %s", key, again)
	}
}

func TestResolveAttendanceKeyRejectsBadTokens(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := &AccountService{store: store, secret: []byte("test-secret")}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "garbage token", token: "not-a-jwt"},
		{
			name: "wrong signing key",
			token: func() string {
				tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "cred-1"})
				s, _ := tok.SignedString([]byte("other-secret"))
				return s
			}(),
		},
		{
			name: "missing subject",
			token: func() string {
				tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{})
				s, _ := tok.SignedString([]byte("test-secret"))
				return s
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ResolveAttendanceKey(tt.token); err == nil {
				t.Error("ResolveAttendanceKey() should fail")
			}
		})
	}
}

func TestResolveAttendanceKeyUnverifiedWithoutSecret(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := &AccountService{store: store}

	// Without a secret the claims are read unverified (development mode).
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "cred-dev"})
	signed, err := tok.SignedString([]byte("any-key"))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	key, err := svc.ResolveAttendanceKey(signed)
	if err != nil {
		t.Fatalf("ResolveAttendanceKey() failed: %v", err)
	}
	if key == "" {
		t.Error("empty attendance key")
	}
}
