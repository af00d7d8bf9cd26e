package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-jewels/aurelia-backend/pkg/enums"
)

// Account is the canonical identity entity for customers and staff alike.
// The role column discriminates; there are no separate admin tables.
type Account struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string            `gorm:"column:email;type:text;not null;uniqueIndex"`
	Name         string            `gorm:"column:name;not null"`
	Phone        *string           `gorm:"column:phone"`
	PasswordHash string            `gorm:"column:password_hash;not null"`
	Role         enums.AccountRole `gorm:"column:role;not null;default:customer"`

	OTPCode           *string    `gorm:"column:otp_code"`
	OTPExpiresAt      *time.Time `gorm:"column:otp_expires_at"`
	FailedOTPAttempts int        `gorm:"column:failed_otp_attempts;not null;default:0"`
	ResetToken        *string    `gorm:"column:reset_token"`

	LastLoginAt *time.Time `gorm:"column:last_login_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
