package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusAvailable = "available"
	StatusSold      = "sold"
	StatusInactive  = "inactive"
)

// SaleDetails is embedded in the listing row; it is only meaningful while the
// listing status is "sold" but is not purged on a status change back.
type SaleDetails struct {
	BuyerName     string     `json:"buyerName"`
	BuyerEmail    string     `json:"buyerEmail"`
	BuyerPhone    string     `json:"buyerPhone"`
	BuyerAddress  string     `json:"buyerAddress"`
	SellerName    string     `json:"sellerName"`
	SellerEmail   string     `json:"sellerEmail"`
	SellerPhone   string     `json:"sellerPhone"`
	SellerAddress string     `json:"sellerAddress"`
	SaleAmount    int64      `json:"saleAmount"`
	SaleDate      *time.Time `json:"saleDate"`
	Notes         string     `json:"notes"`
}

type Listing struct {
	ID                 uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	VendorID           uuid.UUID   `json:"vendorId" gorm:"type:uuid;index;not null"` // owning user
	VendorName         string      `json:"vendorName" gorm:"not null"`
	Make               string      `json:"make" gorm:"index:idx_make_model;not null"`
	Model              string      `json:"model" gorm:"index:idx_make_model;not null"`
	Year               int         `json:"year" gorm:"not null"`
	RegistrationNumber string      `json:"registrationNumber" gorm:"uniqueIndex;not null"` // stored uppercased
	VIN                string      `json:"vin" gorm:"uniqueIndex;not null"`                // stored uppercased
	Mileage            int64       `json:"mileage" gorm:"not null"`
	Price              int64       `json:"price" gorm:"not null"`
	Color              string      `json:"color" gorm:"not null"`
	FuelType           string      `json:"fuelType" gorm:"not null"`
	Transmission       string      `json:"transmission" gorm:"not null"`
	Description        string      `json:"description" gorm:"type:text;not null"`
	Features           string      `json:"features" gorm:"type:text"`
	Condition          string      `json:"condition" gorm:"type:text"`
	OwnerHistory       string      `json:"ownerHistory" gorm:"type:text"`
	Status             string      `json:"status" gorm:"index;not null;default:available"`
	SaleDetails        SaleDetails `json:"saleDetails" gorm:"embedded;embeddedPrefix:sale_"`
	Images             []Image     `json:"images" gorm:"foreignKey:ListingID"`    // one-to-many relation
	Documents          []Document  `json:"documents" gorm:"foreignKey:ListingID"` // one-to-many relation
	CreatedAt          time.Time   `json:"createdAt" gorm:"index;autoCreateTime"`
	UpdatedAt          time.Time   `json:"updatedAt" gorm:"autoUpdateTime"`
}
