package models

import (
	"time"

	"github.com/google/uuid"
)

// Banner is a homepage hero slot.
type Banner struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Image     string    `gorm:"column:image;not null"`
	Link      *string   `gorm:"column:link"`
	Text      *string   `gorm:"column:text"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Blog is an editorial article.
type Blog struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Content   string    `gorm:"column:content;not null"`
	Image     *string   `gorm:"column:image"`
	Author    *string   `gorm:"column:author"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Testimonial is a customer quote shown on the storefront.
type Testimonial struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Message     string    `gorm:"column:message;not null"`
	Designation *string   `gorm:"column:designation"`
	Company     *string   `gorm:"column:company"`
	Image       *string   `gorm:"column:image"`
	Visible     bool      `gorm:"column:visible;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// GiftingGuide is a curated link tile.
type GiftingGuide struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Image     *string   `gorm:"column:image"`
	Link      *string   `gorm:"column:link"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// NewArrival is a featured-product tile.
type NewArrival struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Image     *string   `gorm:"column:image"`
	Link      *string   `gorm:"column:link"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// AboutPage holds the single about-us document.
type AboutPage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Content   string    `gorm:"column:content;not null"`
	Image     *string   `gorm:"column:image"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (AboutPage) TableName() string { return "about_page" }

// ContactMessage is an inbound contact-form submission.
type ContactMessage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null"`
	Phone     *string   `gorm:"column:phone"`
	Subject   *string   `gorm:"column:subject"`
	Message   string    `gorm:"column:message;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// CustomJewelRequest is a bespoke-design inquiry.
type CustomJewelRequest struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Email       string    `gorm:"column:email;not null"`
	Phone       *string   `gorm:"column:phone"`
	Description string    `gorm:"column:description;not null"`
	Budget      *string   `gorm:"column:budget"`
	Image       *string   `gorm:"column:image"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
