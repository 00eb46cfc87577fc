package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity record. The refresh token slot holds at most one
// live value: storing a new one implicitly invalidates the previous chain.
// True multi-device sessions would need a separate session table instead
// of this single slot.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FullName     string    `json:"full_name" gorm:"size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Avatar       string    `json:"avatar" gorm:"size:512;not null"`
	CoverImage   string    `json:"cover_image,omitempty" gorm:"size:512"`
	RefreshToken *string   `json:"-" gorm:"size:512"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PublicUser is the projection of User returned to callers: no password
// hash, no refresh token.
type PublicUser struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"cover_image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Public projects the user without credential fields.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
