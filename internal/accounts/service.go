package accounts

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/auth"
	"github.com/aurelia-jewels/aurelia-backend/pkg/auth/session"
	"github.com/aurelia-jewels/aurelia-backend/pkg/config"
	"github.com/aurelia-jewels/aurelia-backend/pkg/db"
	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	"github.com/aurelia-jewels/aurelia-backend/pkg/enums"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
	"github.com/aurelia-jewels/aurelia-backend/pkg/security"
)

// Service exposes registration, login and the OTP/reset lifecycle.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	SendOTP(ctx context.Context, email, clientIP string) error
	VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Logout(ctx context.Context, accessID string) error
	Get(ctx context.Context, id uuid.UUID) (*AccountDTO, error)
	List(ctx context.Context) ([]AccountDTO, error)
}

// RegisterInput holds the validated registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    *string
	Password string
}

// LoginInput holds the validated password login payload.
type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

// AccountDTO is the client-facing account shape.
type AccountDTO struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       *string           `json:"phone,omitempty"`
	Role        enums.AccountRole `json:"role"`
	LastLoginAt *time.Time        `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// AuthResult carries a minted bearer token and its account.
type AuthResult struct {
	Token   string     `json:"token"`
	Account AccountDTO `json:"account"`
}

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type sessionManager interface {
	Create(ctx context.Context, accessID string, accountID uuid.UUID) error
	Revoke(ctx context.Context, accessID string) error
}

type mailer interface {
	SendOTP(ctx context.Context, toEmail, code string) error
	SendResetToken(ctx context.Context, toEmail, token string) error
}

type service struct {
	repo      *Repository
	sessions  sessionManager
	limiter   rateLimiter
	mail      mailer
	jwtCfg    config.JWTConfig
	pwCfg     config.PasswordConfig
	otpCfg    config.OTPConfig
	rlCfg     config.AuthRateLimitConfig
	logg      *logger.Logger
	now       func() time.Time
	otpCodeFn func() (string, error)
}

// NewService constructs an account service instance.
func NewService(
	repo *Repository,
	sessions *session.Manager,
	limiter rateLimiter,
	mail mailer,
	cfg *config.Config,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("account repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("rate limiter required")
	}
	if mail == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		sessions:  sessions,
		limiter:   limiter,
		mail:      mail,
		jwtCfg:    cfg.JWT,
		pwCfg:     cfg.Password,
		otpCfg:    cfg.OTP,
		rlCfg:     cfg.AuthRateLimit,
		logg:      logg,
		now:       time.Now,
		otpCodeFn: generateOTPCode,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	account := &models.Account{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         enums.AccountRoleCustomer,
	}
	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Account with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create account")
	}

	result, err := s.issueToken(ctx, created)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithField(ctx, "account_id", created.ID.String())
	s.logg.Info(ctx, "accounts.registered")
	return result, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if err := s.allow(ctx, "login:email:"+email, int64(s.rlCfg.LoginEmailLimit), s.rlCfg.LoginWindow); err != nil {
		return nil, err
	}
	if input.ClientIP != "" {
		if err := s.allow(ctx, "login:ip:"+input.ClientIP, int64(s.rlCfg.LoginIPLimit), s.rlCfg.LoginWindow); err != nil {
			return nil, err
		}
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load account")
	}

	ok, err := security.VerifyPassword(input.Password, account.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password")
	}

	if err := s.repo.TouchLastLogin(ctx, account.ID, s.now()); err != nil {
		s.logg.Warn(ctx, "accounts.last_login.update_failed")
	}

	result, err := s.issueToken(ctx, account)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithField(ctx, "account_id", account.ID.String())
	s.logg.Info(ctx, "accounts.login")
	return result, nil
}

func (s *service) SendOTP(ctx context.Context, email, clientIP string) error {
	email = normalizeEmail(email)
	if err := s.allow(ctx, "otp:email:"+email, int64(s.rlCfg.OTPEmailLimit), s.rlCfg.OTPWindow); err != nil {
		return err
	}
	if clientIP != "" {
		if err := s.allow(ctx, "otp:ip:"+clientIP, int64(s.rlCfg.OTPIPLimit), s.rlCfg.OTPWindow); err != nil {
			return err
		}
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load account")
	}

	code, err := s.otpCodeFn()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	expiresAt := s.now().Add(s.otpCfg.TTL)
	if err := s.repo.SetOTP(ctx, account.ID, code, expiresAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: store otp")
	}

	if err := s.mail.SendOTP(ctx, account.Email, code); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "email: send otp")
	}

	ctx = s.logg.WithField(ctx, "account_id", account.ID.String())
	s.logg.Info(ctx, "accounts.otp.sent")
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	account, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load account")
	}

	if account.OTPCode == nil || account.OTPExpiresAt == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "OTP not found. Please request a new one.")
	}

	if s.now().After(*account.OTPExpiresAt) {
		if err := s.repo.ClearOTP(ctx, account.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear otp")
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "OTP has expired. Please request a new one.")
	}

	if strings.TrimSpace(code) != *account.OTPCode {
		attempts, err := s.repo.IncrementFailedOTP(ctx, account.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record otp failure")
		}
		if attempts >= s.otpCfg.MaxAttempts {
			if err := s.repo.ClearOTP(ctx, account.ID); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear otp")
			}
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Too many failed attempts. Please request a new OTP.")
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid OTP")
	}

	if err := s.repo.ClearOTP(ctx, account.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear otp")
	}
	if err := s.repo.TouchLastLogin(ctx, account.ID, s.now()); err != nil {
		s.logg.Warn(ctx, "accounts.last_login.update_failed")
	}

	result, err := s.issueToken(ctx, account)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithField(ctx, "account_id", account.ID.String())
	s.logg.Info(ctx, "accounts.otp.verified")
	return result, nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load account")
	}

	token, err := generateResetToken()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}
	if err := s.repo.SetResetToken(ctx, account.ID, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: store reset token")
	}

	if err := s.mail.SendResetToken(ctx, account.Email, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "email: send reset token")
	}

	ctx = s.logg.WithField(ctx, "account_id", account.ID.String())
	s.logg.Info(ctx, "accounts.reset_token.sent")
	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reset token is required")
	}

	account, err := s.repo.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "Invalid or expired reset token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load account")
	}

	hash, err := security.HashPassword(newPassword, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.SetPassword(ctx, account.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update password")
	}

	ctx = s.logg.WithField(ctx, "account_id", account.ID.String())
	s.logg.Info(ctx, "accounts.password.reset")
	return nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: revoke session")
	}
	s.logg.Info(ctx, "accounts.logout")
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AccountDTO, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load account")
	}
	dto := newAccountDTO(account)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]AccountDTO, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list accounts")
	}
	dtos := make([]AccountDTO, 0, len(accounts))
	for i := range accounts {
		dtos = append(dtos, newAccountDTO(&accounts[i]))
	}
	return dtos, nil
}

func (s *service) issueToken(ctx context.Context, account *models.Account) (*AuthResult, error) {
	accessID := session.NewAccessID()
	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		AccountID: account.ID,
		Role:      account.Role,
		JTI:       accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	if err := s.sessions.Create(ctx, accessID, account.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: create session")
	}
	return &AuthResult{Token: token, Account: newAccountDTO(account)}, nil
}

func (s *service) allow(ctx context.Context, scope string, limit int64, window time.Duration) error {
	if limit <= 0 {
		return nil
	}
	allowed, _, err := s.limiter.FixedWindowAllow(ctx, scope, limit, window)
	if err != nil {
		// rate limiting must not take down login
		s.logg.Warn(s.logg.WithField(ctx, "scope", scope), "accounts.rate_limit.check_failed")
		return nil
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "Too many attempts. Please try again later.")
	}
	return nil
}

func newAccountDTO(account *models.Account) AccountDTO {
	return AccountDTO{
		ID:          account.ID,
		Name:        account.Name,
		Email:       account.Email,
		Phone:       account.Phone,
		Role:        account.Role,
		LastLoginAt: account.LastLoginAt,
		CreatedAt:   account.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateOTPCode returns a uniformly random 6-digit code.
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
