package repositories

import (
	"errors"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rohits-web03/cardealer/internal/models"
)

// ErrNotFound is returned by store lookups that match no row. Handlers never
// see gorm errors directly.
var ErrNotFound = errors.New("record not found")

// Connect opens the postgres connection and runs migrations. The returned
// handle is owned by the caller and passed down explicitly.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Image{},
		&models.Document{},
	); err != nil {
		return nil, err
	}
	log.Println("Successfully connected to database")
	return db, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
