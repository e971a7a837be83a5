package models

import (
	"time"

	"github.com/google/uuid"
)

// Image holds a listing photo with its raw bytes embedded in the row.
// Data is never serialized to JSON; bytes are served through the asset routes.
type Image struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ListingID   uuid.UUID `json:"listingId" gorm:"type:uuid;index;not null"` // foreign key
	Name        string    `json:"name" gorm:"not null"`
	Data        []byte    `json:"-" gorm:"type:bytea;not null"`
	ContentType string    `json:"contentType" gorm:"not null"`
	Size        int64     `json:"size" gorm:"not null"` // bytes, equals len(Data)
	IsMain      bool      `json:"isMain" gorm:"default:false"`
	UploadedAt  time.Time `json:"uploadedAt" gorm:"autoCreateTime"`
}

// Document is a listing paper (RC book, insurance, ...) stored the same way.
type Document struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ListingID   uuid.UUID `json:"listingId" gorm:"type:uuid;index;not null"` // foreign key
	Type        string    `json:"type" gorm:"not null"` // e.g. "RC Book"
	Name        string    `json:"name" gorm:"not null"`
	Data        []byte    `json:"-" gorm:"type:bytea;not null"`
	ContentType string    `json:"contentType" gorm:"not null"`
	Size        int64     `json:"size" gorm:"not null"`
	UploadedAt  time.Time `json:"uploadedAt" gorm:"autoCreateTime"`
}
