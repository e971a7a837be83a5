package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rohits-web03/cardealer/internal/models"
	"github.com/rohits-web03/cardealer/internal/repositories"
)

// GET /auth/google/login?redirect=login|register
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	flow := r.URL.Query().Get("redirect") // "login" or "register"
	if flow == "" {
		flow = "login"
	}

	state, err := generateState(map[string]string{"flow": flow})
	if err != nil {
		http.Error(w, "Failed to generate OAuth state", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /auth/google/callback
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateData, err := decodeState(r.FormValue("state"))
	if err != nil {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	flow := stateData["flow"]

	token, err := h.OAuth.Exchange(context.Background(), r.FormValue("code"))
	if err != nil {
		http.Error(w, "Code exchange failed", http.StatusInternalServerError)
		log.Println("oauth exchange error:", err)
		return
	}

	client := h.OAuth.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	var googleUser struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(data, &googleUser); err != nil {
		http.Error(w, "Failed to parse user info", http.StatusInternalServerError)
		return
	}

	email := strings.ToLower(googleUser.Email)
	user, err := h.Users.UserByEmail(email)

	switch flow {
	case "register":
		if err == nil {
			http.Redirect(w, r, h.FrontendURL+"/auth/login?error=user_already_exists", http.StatusTemporaryRedirect)
			return
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		// Google vouches for the address, no verification mail needed.
		newUser := models.User{
			ID:              uuid.New(),
			Name:            googleUser.Name,
			Email:           email,
			Password:        "", // Google-authenticated
			Role:            models.RoleVendor,
			IsEmailVerified: true,
		}
		if err := h.Users.CreateUser(&newUser); err != nil {
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}
		user = &newUser

	default: // login
		if errors.Is(err, repositories.ErrNotFound) {
			http.Redirect(w, r, h.FrontendURL+"/auth/signup?error=user_not_found", http.StatusTemporaryRedirect)
			return
		}
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
	}

	sessionToken, err := h.Sessions.Issue(user.ID.String(), user.Email, user.Role, user.Name)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	h.Sessions.SetCookie(w, sessionToken)

	redirectURL := h.FrontendURL + "/vendor/dashboard?status=success_login"
	if flow == "register" {
		redirectURL = h.FrontendURL + "/vendor/dashboard?status=success_register"
	}
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

// generateState creates a random state string carrying flow metadata.
func generateState(data map[string]string) (string, error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	payloadBytes, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state data: %w", err)
	}
	return fmt.Sprintf("%s.%s",
		base64.RawURLEncoding.EncodeToString(randomBytes),
		base64.RawURLEncoding.EncodeToString(payloadBytes),
	), nil
}

// decodeState recovers the metadata from the state string.
func decodeState(state string) (map[string]string, error) {
	parts := strings.Split(state, ".")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid state format")
	}
	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode state payload: %w", err)
	}
	var data map[string]string
	if err := json.Unmarshal(payloadBytes, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state JSON: %w", err)
	}
	return data, nil
}
