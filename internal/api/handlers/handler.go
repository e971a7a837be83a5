package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/rohits-web03/cardealer/internal/auth"
	"github.com/rohits-web03/cardealer/internal/models"
)

// UserStore is the persistence surface the auth handlers need.
type UserStore interface {
	CreateUser(u *models.User) error
	UserByEmail(email string) (*models.User, error)
	UserByID(id uuid.UUID) (*models.User, error)
	SaveUser(u *models.User) error
	UserByResetToken(token string, now time.Time) (*models.User, error)
	UserByVerificationToken(token string, now time.Time) (*models.User, error)
}

// ListingStore is the persistence surface the listing and asset handlers need.
type ListingStore interface {
	CreateListing(l *models.Listing) error
	ListingSummary(id uuid.UUID) (*models.Listing, error)
	ListingSummaries(vendorID *uuid.UUID) ([]models.Listing, error)
	SearchListings(vendorID uuid.UUID, q string) ([]models.Listing, error)
	SaveListing(l *models.Listing) error
	DeleteListing(id uuid.UUID) error
	ReplaceImages(listingID uuid.UUID, images []models.Image) error
	ReplaceDocuments(listingID uuid.UUID, docs []models.Document) error
	ListingImage(listingID, imageID uuid.UUID) (*models.Image, error)
	ListingDocument(listingID, documentID uuid.UUID) (*models.Document, error)
	RegistrationExists(reg string, exclude uuid.UUID) (bool, error)
	VINExists(vin string, exclude uuid.UUID) (bool, error)
}

// Mailer is the outbound notification sink. Delivery failures are logged by
// callers and never surfaced to clients.
type Mailer interface {
	SendVerificationEmail(to, name, token string) error
	SendPasswordResetEmail(to, name, token string) error
}

type Handler struct {
	Users       UserStore
	Listings    ListingStore
	Sessions    *auth.SessionManager
	Mail        Mailer
	OAuth       *oauth2.Config
	FrontendURL string
}

func New(users UserStore, listings ListingStore, sessions *auth.SessionManager, mail Mailer, oauthCfg *oauth2.Config, frontendURL string) *Handler {
	return &Handler{
		Users:       users,
		Listings:    listings,
		Sessions:    sessions,
		Mail:        mail,
		OAuth:       oauthCfg,
		FrontendURL: frontendURL,
	}
}

// flexInt accepts JSON numbers or numeric strings; dashboard forms send both.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = 0
		return nil
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return err
		}
		n = int64(fl)
	}
	*f = flexInt(n)
	return nil
}

func userView(u *models.User) map[string]any {
	return map[string]any{
		"id":              u.ID,
		"name":            u.Name,
		"email":           u.Email,
		"role":            u.Role,
		"isEmailVerified": u.IsEmailVerified,
	}
}
