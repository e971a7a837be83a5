package repositories

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohits-web03/cardealer/internal/models"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) CreateUser(u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	return s.db.Create(u).Error
}

// UserByEmail looks a user up case-insensitively.
func (s *UserStore) UserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *UserStore) UserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *UserStore) SaveUser(u *models.User) error {
	return s.db.Save(u).Error
}

// UserByResetToken matches a stored, non-expired password-reset token.
// A token that was already cleared fails the lookup, keeping tokens
// single-use.
func (s *UserStore) UserByResetToken(token string, now time.Time) (*models.User, error) {
	var user models.User
	err := s.db.
		Where("reset_token = ? AND reset_token <> '' AND reset_expires > ?", token, now).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UserByVerificationToken matches a stored, non-expired email-verification
// token.
func (s *UserStore) UserByVerificationToken(token string, now time.Time) (*models.User, error) {
	var user models.User
	err := s.db.
		Where("verify_token = ? AND verify_token <> '' AND verify_expires > ?", token, now).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
