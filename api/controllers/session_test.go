package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgAuth "github.com/avolkov/storefront-backend/pkg/auth"
	"github.com/avolkov/storefront-backend/pkg/auth/session"
	"github.com/avolkov/storefront-backend/pkg/config"
	"github.com/avolkov/storefront-backend/pkg/types"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "storefront-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

type stubSessionTokenManager struct {
	lastRotateOld  string
	lastRotateBody string
	lastRevoked    string

	rotateErr error
}

func (s *stubSessionTokenManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	s.lastRotateOld = oldAccessID
	s.lastRotateBody = provided
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return "new-access-id", "new-refresh-token", nil
}

func (s *stubSessionTokenManager) Revoke(_ context.Context, accessID string) error {
	s.lastRevoked = accessID
	return nil
}

func mintToken(t *testing.T, userID uuid.UUID, jti string) string {
	t.Helper()

	token, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:   userID,
		Username: "tester",
		JTI:      jti,
	})
	require.NoError(t, err)
	return token
}

func TestAuthRefresh_rotates(t *testing.T) {
	manager := &stubSessionTokenManager{}
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refresh_token":"old-refresh"}`))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, userID, "jti-old"))
	w := httptest.NewRecorder()
	AuthRefresh(manager, testJWTConfig(), nil)(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jti-old", manager.lastRotateOld)
	assert.Equal(t, "old-refresh", manager.lastRotateBody)

	var envelope types.SuccessEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	payload := envelope.Data.(map[string]any)
	assert.Equal(t, "new-refresh-token", payload["refresh_token"])

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), payload["access_token"].(string))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "new-access-id", claims.ID)
}

func TestAuthRefresh_invalidRefreshToken(t *testing.T) {
	manager := &stubSessionTokenManager{rotateErr: session.ErrInvalidRefreshToken}

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refresh_token":"stale"}`))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, uuid.New(), "jti-old"))
	w := httptest.NewRecorder()
	AuthRefresh(manager, testJWTConfig(), nil)(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRefresh_missingBearer(t *testing.T) {
	manager := &stubSessionTokenManager{}

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refresh_token":"x"}`))
	w := httptest.NewRecorder()
	AuthRefresh(manager, testJWTConfig(), nil)(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthLogout_revokes(t *testing.T) {
	manager := &stubSessionTokenManager{}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, uuid.New(), "jti-live"))
	w := httptest.NewRecorder()
	AuthLogout(manager, testJWTConfig(), nil)(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jti-live", manager.lastRevoked)
}
