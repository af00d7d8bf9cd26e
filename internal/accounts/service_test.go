package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/config"
	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	"github.com/aurelia-jewels/aurelia-backend/pkg/enums"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
)

func setupAccountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:accounts_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone TEXT,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer',
  otp_code TEXT,
  otp_expires_at DATETIME,
  failed_otp_attempts INTEGER NOT NULL DEFAULT 0,
  reset_token TEXT,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()
	account := &models.Account{
		ID:           uuid.New(),
		Email:        "ava@example.com",
		Name:         "Ava",
		PasswordHash: "unused",
		Role:         enums.AccountRoleCustomer,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

type stubMailer struct {
	otpCodes    []string
	resetTokens []string
	err         error
}

func (m *stubMailer) SendOTP(_ context.Context, _ string, code string) error {
	m.otpCodes = append(m.otpCodes, code)
	return m.err
}

func (m *stubMailer) SendResetToken(_ context.Context, _ string, token string) error {
	m.resetTokens = append(m.resetTokens, token)
	return m.err
}

type stubLimiter struct {
	allowed bool
}

func (l *stubLimiter) FixedWindowAllow(context.Context, string, int64, time.Duration) (bool, int64, error) {
	return l.allowed, 0, nil
}

type stubSessions struct {
	created []string
	revoked []string
}

func (s *stubSessions) Create(_ context.Context, accessID string, _ uuid.UUID) error {
	s.created = append(s.created, accessID)
	return nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func newTestService(t *testing.T, db *gorm.DB, mail *stubMailer) (*service, *stubSessions) {
	t.Helper()
	sessions := &stubSessions{}
	svc := &service{
		repo:     NewRepository(db),
		sessions: sessions,
		limiter:  &stubLimiter{allowed: true},
		mail:     mail,
		jwtCfg: config.JWTConfig{
			Secret:            "0123456789abcdef0123456789abcdef",
			Issuer:            "aurelia-test",
			ExpirationMinutes: 15,
		},
		otpCfg:    config.OTPConfig{TTL: 10 * time.Minute, MaxAttempts: 3},
		rlCfg:     config.AuthRateLimitConfig{},
		logg:      logger.New(logger.Options{Level: logger.ParseLevel("error")}),
		now:       time.Now,
		otpCodeFn: func() (string, error) { return "123456", nil },
	}
	return svc, sessions
}

func TestSendAndVerifyOTP(t *testing.T) {
	db := setupAccountsTestDB(t)
	account := seedAccount(t, db)
	mail := &stubMailer{}
	svc, sessions := newTestService(t, db, mail)
	ctx := context.Background()

	require.NoError(t, svc.SendOTP(ctx, "Ava@Example.com", ""))
	require.Len(t, mail.otpCodes, 1)
	assert.Equal(t, "123456", mail.otpCodes[0])

	result, err := svc.VerifyOTP(ctx, account.Email, "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, account.ID, result.Account.ID)
	assert.Len(t, sessions.created, 1)

	// state cleared after success
	var stored models.Account
	require.NoError(t, db.First(&stored, "id = ?", account.ID).Error)
	assert.Nil(t, stored.OTPCode)
	assert.Nil(t, stored.OTPExpiresAt)
	assert.Zero(t, stored.FailedOTPAttempts)
}

func TestVerifyOTPLockoutAfterThreeFailures(t *testing.T) {
	db := setupAccountsTestDB(t)
	account := seedAccount(t, db)
	svc, _ := newTestService(t, db, &stubMailer{})
	ctx := context.Background()

	require.NoError(t, svc.SendOTP(ctx, account.Email, ""))

	for i := 0; i < 2; i++ {
		_, err := svc.VerifyOTP(ctx, account.Email, "000000")
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		assert.Equal(t, "Invalid OTP", typed.Message())
	}

	// third failure clears the code
	_, err := svc.VerifyOTP(ctx, account.Email, "000000")
	require.Error(t, err)

	_, err = svc.VerifyOTP(ctx, account.Email, "123456")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "OTP not found. Please request a new one.", typed.Message())
}

func TestVerifyOTPExpiredCodeCleared(t *testing.T) {
	db := setupAccountsTestDB(t)
	account := seedAccount(t, db)
	svc, _ := newTestService(t, db, &stubMailer{})
	ctx := context.Background()

	require.NoError(t, svc.SendOTP(ctx, account.Email, ""))
	svc.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	_, err := svc.VerifyOTP(ctx, account.Email, "123456")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Contains(t, typed.Message(), "expired")

	var stored models.Account
	require.NoError(t, db.First(&stored, "id = ?", account.ID).Error)
	assert.Nil(t, stored.OTPCode)
}

func TestSendOTPResetsFailureCount(t *testing.T) {
	db := setupAccountsTestDB(t)
	account := seedAccount(t, db)
	svc, _ := newTestService(t, db, &stubMailer{})
	ctx := context.Background()

	require.NoError(t, svc.SendOTP(ctx, account.Email, ""))
	_, err := svc.VerifyOTP(ctx, account.Email, "999999")
	require.Error(t, err)

	require.NoError(t, svc.SendOTP(ctx, account.Email, ""))

	var stored models.Account
	require.NoError(t, db.First(&stored, "id = ?", account.ID).Error)
	assert.Zero(t, stored.FailedOTPAttempts)
}

func TestSendOTPRateLimited(t *testing.T) {
	db := setupAccountsTestDB(t)
	account := seedAccount(t, db)
	svc, _ := newTestService(t, db, &stubMailer{})
	svc.limiter = &stubLimiter{allowed: false}
	svc.rlCfg = config.AuthRateLimitConfig{OTPEmailLimit: 3, OTPWindow: 5 * time.Minute}

	err := svc.SendOTP(context.Background(), account.Email, "")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeRateLimit, typed.Code())
}

func TestForgotAndResetPassword(t *testing.T) {
	db := setupAccountsTestDB(t)
	account := seedAccount(t, db)
	mail := &stubMailer{}
	svc, _ := newTestService(t, db, mail)
	ctx := context.Background()

	require.NoError(t, svc.ForgotPassword(ctx, account.Email))
	require.Len(t, mail.resetTokens, 1)
	token := mail.resetTokens[0]

	require.NoError(t, svc.ResetPassword(ctx, token, "new-password-123"))

	var stored models.Account
	require.NoError(t, db.First(&stored, "id = ?", account.ID).Error)
	assert.Nil(t, stored.ResetToken)
	assert.NotEqual(t, "unused", stored.PasswordHash)

	err := svc.ResetPassword(ctx, token, "another-password")
	require.Error(t, err)
}

func TestGenerateOTPCodeFormat(t *testing.T) {
	code, err := generateOTPCode()
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}
