package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionCookie carries the signed session token; HTTP-only, never
	// readable by page scripts.
	SessionCookie = "auth-token"

	sessionTTL = 7 * 24 * time.Hour
)

var ErrInvalidSession = errors.New("invalid or expired session")

// Claims is the identity block embedded in the session token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// SessionManager signs and verifies session tokens with a process-wide
// secret. Rotating the secret invalidates every outstanding session.
type SessionManager struct {
	secret []byte
	isProd bool
}

func NewSessionManager(secret string, isProd bool) *SessionManager {
	return &SessionManager{secret: []byte(secret), isProd: isProd}
}

// Issue signs a session token valid for 7 days.
func (m *SessionManager) Issue(userID, email, role, name string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature and expiry. Any failure, bad signature, malformed
// input or an expired token, yields ErrInvalidSession uniformly.
func (m *SessionManager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if claims.UserID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// SetCookie attaches the session token to the response.
func (m *SessionManager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		Secure:   m.isProd,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie deletes the session cookie.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // maxAge < 0 deletes the cookie
		Secure:   m.isProd,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest resolves the caller's session from the request cookie.
func (m *SessionManager) FromRequest(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, ErrInvalidSession
	}
	return m.Verify(cookie.Value)
}
