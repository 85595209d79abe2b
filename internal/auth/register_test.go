package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avolkov/storefront-backend/internal/users"
	"github.com/avolkov/storefront-backend/pkg/db/models"
	pkgerrors "github.com/avolkov/storefront-backend/pkg/errors"
	"github.com/avolkov/storefront-backend/pkg/security"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r *gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	usersTable := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  phone TEXT NOT NULL UNIQUE,
  username TEXT NOT NULL,
  email TEXT,
  password_hash TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(usersTable).Error)
	require.NoError(t, db.Exec(`DELETE FROM users;`).Error)
	return db
}

func registerFixture(t *testing.T) (RegisterService, *gorm.DB, *stubSessionManager) {
	t.Helper()

	db := setupUsersTestDB(t)
	manager := &stubSessionManager{}
	svc, err := NewRegisterService(RegisterServiceParams{
		TX:             &gormTxRunner{db: db},
		SessionManager: manager,
		PasswordConfig: fastPasswordConfig(),
		JWTConfig:      testJWTConfig(),
	})
	require.NoError(t, err)
	return svc, db, manager
}

func TestRegister_createsAndLogsIn(t *testing.T) {
	svc, db, _ := registerFixture(t)
	ctx := context.Background()

	email := "Buyer@Example.com"
	out, err := svc.Register(ctx, RegisterRequest{
		Phone:    "+1 (555) 000-1111",
		Username: "buyer",
		Email:    &email,
		Password: "s3cret-phrase",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, "+15550001111", out.User.Phone)
	require.NotNil(t, out.User.Email)
	assert.Equal(t, "buyer@example.com", *out.User.Email)

	stored, err := users.NewRepository(db).FindByPhone(ctx, "+15550001111")
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
	ok, err := security.VerifyPassword("s3cret-phrase", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_duplicatePhoneConflicts(t *testing.T) {
	svc, _, _ := registerFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Phone:    "+15550001111",
		Username: "first",
		Password: "s3cret-phrase",
	})
	require.NoError(t, err)

	// Same number with different formatting must still collide.
	_, err = svc.Register(ctx, RegisterRequest{
		Phone:    "+1 555-000-1111",
		Username: "second",
		Password: "other-phrase",
	})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestRegister_validation(t *testing.T) {
	svc, db, _ := registerFixture(t)
	ctx := context.Background()

	var appErr *pkgerrors.Error

	_, err := svc.Register(ctx, RegisterRequest{Phone: "not a phone", Username: "buyer", Password: "s3cret-phrase"})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = svc.Register(ctx, RegisterRequest{Phone: "+15550001111", Username: "   ", Password: "s3cret-phrase"})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = svc.Register(ctx, RegisterRequest{Phone: "+15550001111", Username: "buyer", Password: "s3cret-phrase", PasswordConfirm: "different"})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
