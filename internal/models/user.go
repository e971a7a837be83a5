package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

type User struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name            string     `json:"name" gorm:"not null"`
	Email           string     `json:"email" gorm:"uniqueIndex;not null"` // stored lowercased
	Password        string     `json:"-" gorm:"not null"`
	Role            string     `json:"role" gorm:"not null;default:vendor"`
	IsEmailVerified bool       `json:"isEmailVerified" gorm:"default:false"`
	VerifyToken     string     `json:"-" gorm:"index"`
	VerifyExpires   *time.Time `json:"-"`
	ResetToken      string     `json:"-" gorm:"index"`
	ResetExpires    *time.Time `json:"-"`
	CreatedAt       time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}
