package handlers

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rohits-web03/cardealer/internal/auth"
	"github.com/rohits-web03/cardealer/internal/models"
	"github.com/rohits-web03/cardealer/internal/repositories"
)

// In-memory fakes for the store interfaces; handler tests run against these
// instead of a live postgres.

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]*models.User{}}
}

func (s *fakeUserStore) CreateUser(u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	stored := *u
	s.users[u.ID] = &stored
	return nil
}

func (s *fakeUserStore) UserByEmail(email string) (*models.User, error) {
	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeUserStore) UserByID(id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) SaveUser(u *models.User) error {
	stored := *u
	s.users[u.ID] = &stored
	return nil
}

func (s *fakeUserStore) UserByResetToken(token string, now time.Time) (*models.User, error) {
	for _, u := range s.users {
		if u.ResetToken != "" && u.ResetToken == token && u.ResetExpires != nil && u.ResetExpires.After(now) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeUserStore) UserByVerificationToken(token string, now time.Time) (*models.User, error) {
	for _, u := range s.users {
		if u.VerifyToken != "" && u.VerifyToken == token && u.VerifyExpires != nil && u.VerifyExpires.After(now) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type fakeListingStore struct {
	listings map[uuid.UUID]*models.Listing
}

func newFakeListingStore() *fakeListingStore {
	return &fakeListingStore{listings: map[uuid.UUID]*models.Listing{}}
}

func (s *fakeListingStore) CreateListing(l *models.Listing) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	for i := range l.Images {
		l.Images[i].ListingID = l.ID
	}
	for i := range l.Documents {
		l.Documents[i].ListingID = l.ID
	}
	stored := *l
	s.listings[l.ID] = &stored
	return nil
}

func (s *fakeListingStore) ListingSummary(id uuid.UUID) (*models.Listing, error) {
	l, ok := s.listings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (s *fakeListingStore) ListingSummaries(vendorID *uuid.UUID) ([]models.Listing, error) {
	out := []models.Listing{}
	for _, l := range s.listings {
		if vendorID != nil && l.VendorID != *vendorID {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeListingStore) SearchListings(vendorID uuid.UUID, q string) ([]models.Listing, error) {
	q = strings.ToLower(q)
	out := []models.Listing{}
	for _, l := range s.listings {
		if l.VendorID != vendorID {
			continue
		}
		haystack := strings.ToLower(l.RegistrationNumber + " " + l.Make + " " + l.Model + " " + l.VIN)
		if strings.Contains(haystack, q) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > 10 {
		out = out[:10]
	}
	return out, nil
}

func (s *fakeListingStore) SaveListing(l *models.Listing) error {
	existing, ok := s.listings[l.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	updated := *l
	updated.Images = existing.Images
	updated.Documents = existing.Documents
	s.listings[l.ID] = &updated
	return nil
}

func (s *fakeListingStore) DeleteListing(id uuid.UUID) error {
	delete(s.listings, id)
	return nil
}

func (s *fakeListingStore) ReplaceImages(listingID uuid.UUID, images []models.Image) error {
	l, ok := s.listings[listingID]
	if !ok {
		return repositories.ErrNotFound
	}
	for i := range images {
		images[i].ListingID = listingID
	}
	l.Images = images
	return nil
}

func (s *fakeListingStore) ReplaceDocuments(listingID uuid.UUID, docs []models.Document) error {
	l, ok := s.listings[listingID]
	if !ok {
		return repositories.ErrNotFound
	}
	for i := range docs {
		docs[i].ListingID = listingID
	}
	l.Documents = docs
	return nil
}

func (s *fakeListingStore) ListingImage(listingID, imageID uuid.UUID) (*models.Image, error) {
	l, ok := s.listings[listingID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for i := range l.Images {
		if l.Images[i].ID == imageID {
			copied := l.Images[i]
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeListingStore) ListingDocument(listingID, documentID uuid.UUID) (*models.Document, error) {
	l, ok := s.listings[listingID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for i := range l.Documents {
		if l.Documents[i].ID == documentID {
			copied := l.Documents[i]
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeListingStore) RegistrationExists(reg string, exclude uuid.UUID) (bool, error) {
	for _, l := range s.listings {
		if l.ID != exclude && l.RegistrationNumber == reg {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeListingStore) VINExists(vin string, exclude uuid.UUID) (bool, error) {
	for _, l := range s.listings {
		if l.ID != exclude && l.VIN == vin {
			return true, nil
		}
	}
	return false, nil
}

type fakeMailer struct {
	verifyTokens map[string][]string // email -> tokens, in send order
	resetTokens  map[string][]string
	failSends    bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{
		verifyTokens: map[string][]string{},
		resetTokens:  map[string][]string{},
	}
}

func (m *fakeMailer) SendVerificationEmail(to, name, token string) error {
	if m.failSends {
		return errSendFailed
	}
	m.verifyTokens[to] = append(m.verifyTokens[to], token)
	return nil
}

func (m *fakeMailer) SendPasswordResetEmail(to, name, token string) error {
	if m.failSends {
		return errSendFailed
	}
	m.resetTokens[to] = append(m.resetTokens[to], token)
	return nil
}

var errSendFailed = &mailError{}

type mailError struct{}

func (*mailError) Error() string { return "smtp unreachable" }

type testEnv struct {
	handler  *Handler
	users    *fakeUserStore
	listings *fakeListingStore
	mail     *fakeMailer
	sessions *auth.SessionManager
}

func newTestEnv() *testEnv {
	users := newFakeUserStore()
	listings := newFakeListingStore()
	mail := newFakeMailer()
	sessions := auth.NewSessionManager("test-secret", false)
	return &testEnv{
		handler:  New(users, listings, sessions, mail, nil, "http://localhost:3000"),
		users:    users,
		listings: listings,
		mail:     mail,
		sessions: sessions,
	}
}

func vendorClaims(id uuid.UUID, name string) *auth.Claims {
	return &auth.Claims{UserID: id.String(), Email: strings.ToLower(name) + "@example.com", Role: models.RoleVendor, Name: name}
}

func adminClaims(id uuid.UUID) *auth.Claims {
	return &auth.Claims{UserID: id.String(), Email: "admin@example.com", Role: models.RoleAdmin, Name: "Admin"}
}
