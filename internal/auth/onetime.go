package auth

import (
	"time"

	"github.com/rohits-web03/cardealer/internal/utils"
)

const (
	VerificationTokenTTL = 24 * time.Hour
	ResetTokenTTL        = 10 * time.Minute
)

// OneTimeToken is an opaque single-use credential mailed to the user.
type OneTimeToken struct {
	Token     string
	ExpiresAt time.Time
}

// NewVerificationToken issues a 24h email-verification token.
func NewVerificationToken() (OneTimeToken, error) {
	return newOneTimeToken(VerificationTokenTTL)
}

// NewResetToken issues a 10-minute password-reset token. Storing it on the
// user overwrites any previous reset token, which invalidates the old link.
func NewResetToken() (OneTimeToken, error) {
	return newOneTimeToken(ResetTokenTTL)
}

func newOneTimeToken(ttl time.Duration) (OneTimeToken, error) {
	token, err := utils.GenerateSecureToken(32) // 256-bit token
	if err != nil {
		return OneTimeToken{}, err
	}
	return OneTimeToken{
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}
