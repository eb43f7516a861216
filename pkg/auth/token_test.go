package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/config"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
)

func TestMintAndParseSessionToken(t *testing.T) {
	cfg := config.SessionConfig{
		Secret:            "secret",
		Issuer:            "pos-backend",
		ExpirationMinutes: 1440,
	}
	now := time.Now().UTC()
	userID := uuid.New()
	storeID := uuid.New()

	payload := SessionPayload{
		UserID:  userID,
		StoreID: storeID,
		Name:    "Dana Cashier",
		Email:   "dana@corner.shop",
		Active:  true,
		Role:    enums.RoleCashier,
	}

	token, err := MintSessionToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("parse session token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.StoreID != storeID {
		t.Fatalf("store id not preserved")
	}
	if claims.Role != enums.RoleCashier {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Name != payload.Name || claims.Email != payload.Email {
		t.Fatalf("identity fields not preserved")
	}
	if !claims.Active {
		t.Fatalf("active flag not preserved")
	}

	// RegisteredClaims is embedded, so access fields directly.
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected a jti to be assigned")
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestMintSessionTokenKeepsProvidedJTI(t *testing.T) {
	cfg := config.SessionConfig{
		Secret:            "secret",
		Issuer:            "pos-backend",
		ExpirationMinutes: 60,
	}
	jti := NewSessionID()
	payload := SessionPayload{
		UserID: uuid.New(),
		Role:   enums.RoleAdmin,
		JTI:    jti,
	}

	token, err := MintSessionToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}
	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("parse session token: %v", err)
	}
	if claims.ID != jti {
		t.Fatalf("expected jti %s, got %s", jti, claims.ID)
	}
}

func TestParseSessionTokenInvalidSignature(t *testing.T) {
	cfg := config.SessionConfig{
		Secret:            "secret",
		Issuer:            "pos-backend",
		ExpirationMinutes: 10,
	}
	payload := SessionPayload{
		UserID: uuid.New(),
		Role:   enums.RoleStoreManager,
	}

	token, err := MintSessionToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	if _, err = ParseSessionToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseSessionTokenExpired(t *testing.T) {
	cfg := config.SessionConfig{
		Secret:            "secret",
		Issuer:            "pos-backend",
		ExpirationMinutes: 15,
	}
	now := time.Now().Add(-time.Hour)
	payload := SessionPayload{
		UserID: uuid.New(),
		Role:   enums.RoleCashier,
	}

	token, err := MintSessionToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	_, err = ParseSessionToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMintSessionTokenInvalidRole(t *testing.T) {
	cfg := config.SessionConfig{
		Secret:            "secret",
		Issuer:            "pos-backend",
		ExpirationMinutes: 5,
	}
	payload := SessionPayload{
		UserID: uuid.New(),
		Role:   "",
	}

	if _, err := MintSessionToken(cfg, time.Now(), payload); err == nil {
		t.Fatal("expected invalid role error")
	}
}
