package services

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/resource-jerc9024-data/alexa-attendance/internal/storage"
)

// AccountService resolves a caller's access token to the attendance key
// scoping their data. First-contact callers get a key minted and stored so
// the skill works without a separate enrollment step.
type AccountService struct {
	store  storage.Store
	secret []byte
}

// NewAccountService creates a new account service
func NewAccountService(store storage.Store) *AccountService {
	secret := os.Getenv("SKILL_SECRET")
	if secret == "" {
		log.Println("⚠️  SKILL_SECRET not set - access tokens will be accepted unverified")
	}
	return &AccountService{
		store:  store,
		secret: []byte(secret),
	}
}

// credentialID extracts the credential identifier from the access token. The
// token is a JWT whose subject names the credential document; without a
// configured secret the claims are read unverified (development only).
func (a *AccountService) credentialID(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("missing access token")
	}

	var claims jwt.RegisteredClaims
	if len(a.secret) == 0 {
		parser := jwt.NewParser()
		if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
			return "", fmt.Errorf("parse access token: %w", err)
		}
	} else {
		_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return a.secret, nil
		})
		if err != nil {
			return "", fmt.Errorf("verify access token: %w", err)
		}
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("access token has no subject")
	}
	return claims.Subject, nil
}

// ResolveAttendanceKey maps an access token to an attendance key, minting
// and persisting a fresh key on first contact.
func (a *AccountService) ResolveAttendanceKey(token string) (string, error) {
	credID, err := a.credentialID(token)
	if err != nil {
		return "", err
	}

	key, err := a.store.GetAttendanceKey(credID)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, storage.ErrCredentialNotFound) {
		return "", err
	}

	key = ulid.Make().String()
	if err := a.store.PutCredential(credID, key); err != nil {
		return "", err
	}
	log.Printf("🔑 Provisioned attendance key for new credential %s", credID)
	return key, nil
}
