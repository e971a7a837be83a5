package api

import (
	"fmt"
	"net/http"

	_ "github.com/rohits-web03/cardealer/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rs/cors"

	"github.com/rohits-web03/cardealer/internal/api/handlers"
	"github.com/rohits-web03/cardealer/internal/api/middleware"
	"github.com/rohits-web03/cardealer/internal/config"
)

// SetupRouter wires the HTTP surface. Image retrieval is registered on the
// public mux; the exact-path match beats the protected /api/v1/ subtree.
func SetupRouter(h *handlers.Handler, cfg config.Config) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(cfg.CorsConfig)
	requireAuth := middleware.Auth(h.Sessions)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	authMux := http.NewServeMux()
	authMux.HandleFunc("/signup", h.Signup)
	authMux.HandleFunc("/login", h.Login)
	authMux.HandleFunc("/forgot-password", h.ForgotPassword)
	authMux.HandleFunc("/reset-password", h.ResetPassword)
	authMux.HandleFunc("/verify-email", h.VerifyEmail)
	authMux.HandleFunc("/google/login", h.GoogleLogin)
	authMux.HandleFunc("/google/callback", h.GoogleCallback)

	mainMux.Handle("/api/v1/auth/",
		http.StripPrefix("/api/v1/auth", authMux),
	)

	// Exact-path auth routes that still need a session.
	mainMux.Handle("/api/v1/auth/me", requireAuth(http.HandlerFunc(h.Me)))
	mainMux.Handle("/api/v1/auth/logout", requireAuth(http.HandlerFunc(h.Logout)))

	// Intentionally sessionless so images embed directly in <img> tags.
	mainMux.HandleFunc("/api/v1/listings/{id}/images/{imageId}", h.GetListingImage)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	protectedMux.HandleFunc("/listings", h.ListingsCollection)
	protectedMux.HandleFunc("/listings/search", h.SearchListings)
	protectedMux.HandleFunc("/listings/{id}", h.ListingByID)
	protectedMux.HandleFunc("/listings/{id}/documents/{documentId}", h.GetListingDocument)

	uploadMux := http.NewServeMux()
	uploadMux.HandleFunc("/image", h.UploadImage)
	uploadMux.HandleFunc("/document", h.UploadDocument)

	protectedMux.Handle("/upload/",
		http.StripPrefix("/upload", uploadMux),
	)

	mainMux.Handle("/api/v1/",
		http.StripPrefix(
			"/api/v1",
			requireAuth(protectedMux),
		),
	)

	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
