package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rohits-web03/cardealer/internal/models"
)

type ListingStore struct {
	db *gorm.DB
}

func NewListingStore(db *gorm.DB) *ListingStore {
	return &ListingStore{db: db}
}

// Attachment byte payloads are excluded from summary reads; bytes are served
// on demand through the asset routes.
func summaryImages(db *gorm.DB) *gorm.DB {
	return db.Select("id", "listing_id", "name", "content_type", "size", "is_main", "uploaded_at")
}

func summaryDocuments(db *gorm.DB) *gorm.DB {
	return db.Select("id", "listing_id", "type", "name", "content_type", "size", "uploaded_at")
}

func (s *ListingStore) CreateListing(l *models.Listing) error {
	return s.db.Create(l).Error
}

// ListingSummary fetches one listing with attachment metadata but no bytes.
func (s *ListingStore) ListingSummary(id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.
		Preload("Images", summaryImages).
		Preload("Documents", summaryDocuments).
		Where("id = ?", id).
		First(&listing).Error
	if err != nil {
		return nil, translate(err)
	}
	return &listing, nil
}

// ListingSummaries returns summaries newest-first; a nil vendorID means all
// listings (admin view).
func (s *ListingStore) ListingSummaries(vendorID *uuid.UUID) ([]models.Listing, error) {
	query := s.db.
		Preload("Images", summaryImages).
		Preload("Documents", summaryDocuments).
		Order("created_at DESC")
	if vendorID != nil {
		query = query.Where("vendor_id = ?", *vendorID)
	}
	listings := []models.Listing{}
	if err := query.Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// SearchListings does a case-insensitive substring match over registration
// number, make, model and VIN, scoped to the caller's own listings.
func (s *ListingStore) SearchListings(vendorID uuid.UUID, q string) ([]models.Listing, error) {
	pattern := "%" + q + "%"
	listings := []models.Listing{}
	err := s.db.
		Preload("Images", summaryImages).
		Preload("Documents", summaryDocuments).
		Where("vendor_id = ?", vendorID).
		Where(
			s.db.Where("registration_number ILIKE ?", pattern).
				Or("make ILIKE ?", pattern).
				Or("model ILIKE ?", pattern).
				Or("vin ILIKE ?", pattern),
		).
		Order("created_at DESC").
		Limit(10).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// SaveListing writes the listing row only; attachments are replaced through
// ReplaceImages / ReplaceDocuments.
func (s *ListingStore) SaveListing(l *models.Listing) error {
	return s.db.Omit(clause.Associations).Save(l).Error
}

// DeleteListing removes the listing and all embedded attachments in one
// transaction.
func (s *ListingStore) DeleteListing(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", id).Delete(&models.Document{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Listing{}).Error
	})
}

// ReplaceImages swaps the full image set of a listing. Replacement rows carry
// fresh ids, so previously served bytes stay immutable.
func (s *ListingStore) ReplaceImages(listingID uuid.UUID, images []models.Image) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].ListingID = listingID
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
}

// ReplaceDocuments swaps the full document set of a listing.
func (s *ListingStore) ReplaceDocuments(listingID uuid.UUID, docs []models.Document) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).Delete(&models.Document{}).Error; err != nil {
			return err
		}
		for i := range docs {
			docs[i].ListingID = listingID
		}
		if len(docs) == 0 {
			return nil
		}
		return tx.Create(&docs).Error
	})
}

// ListingImage fetches one image with its bytes.
func (s *ListingStore) ListingImage(listingID, imageID uuid.UUID) (*models.Image, error) {
	var image models.Image
	err := s.db.
		Where("listing_id = ? AND id = ?", listingID, imageID).
		First(&image).Error
	if err != nil {
		return nil, translate(err)
	}
	return &image, nil
}

// ListingDocument fetches one document with its bytes.
func (s *ListingStore) ListingDocument(listingID, documentID uuid.UUID) (*models.Document, error) {
	var doc models.Document
	err := s.db.
		Where("listing_id = ? AND id = ?", listingID, documentID).
		First(&doc).Error
	if err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

// RegistrationExists reports whether another listing already holds this
// registration number. exclude skips the listing being updated.
func (s *ListingStore) RegistrationExists(reg string, exclude uuid.UUID) (bool, error) {
	return s.fieldExists("registration_number", reg, exclude)
}

// VINExists reports whether another listing already holds this VIN.
func (s *ListingStore) VINExists(vin string, exclude uuid.UUID) (bool, error) {
	return s.fieldExists("vin", vin, exclude)
}

func (s *ListingStore) fieldExists(column, value string, exclude uuid.UUID) (bool, error) {
	query := s.db.Model(&models.Listing{}).Where(column+" = ?", value)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
