package accounts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
)

// Repository persists accounts and their OTP/reset state.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, "lower(email) = lower(?)", strings.TrimSpace(email)).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *Repository) FindByResetToken(ctx context.Context, token string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, "reset_token = ?", token).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *Repository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := r.db.WithContext(ctx).Save(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// SetOTP stamps a fresh code, resets the failure count.
func (r *Repository) SetOTP(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"otp_code":            code,
			"otp_expires_at":      expiresAt,
			"failed_otp_attempts": 0,
		}).Error
}

// ClearOTP drops all OTP state for the account.
func (r *Repository) ClearOTP(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"otp_code":            nil,
			"otp_expires_at":      nil,
			"failed_otp_attempts": 0,
		}).Error
}

// IncrementFailedOTP bumps the failure counter and returns the new value.
func (r *Repository) IncrementFailedOTP(ctx context.Context, id uuid.UUID) (int, error) {
	if err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumn("failed_otp_attempts", gorm.Expr("failed_otp_attempts + 1")).Error; err != nil {
		return 0, err
	}
	var attempts int
	if err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Pluck("failed_otp_attempts", &attempts).Error; err != nil {
		return 0, err
	}
	return attempts, nil
}

func (r *Repository) SetResetToken(ctx context.Context, id uuid.UUID, token string) error {
	return r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Update("reset_token", token).Error
}

func (r *Repository) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash": hash,
			"reset_token":   nil,
		}).Error
}

func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}
