package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rohits-web03/cardealer/internal/api/middleware"
	"github.com/rohits-web03/cardealer/internal/assets"
	"github.com/rohits-web03/cardealer/internal/auth"
	"github.com/rohits-web03/cardealer/internal/models"
	"github.com/rohits-web03/cardealer/internal/repositories"
	"github.com/rohits-web03/cardealer/internal/utils"
)

type saleDetailsRequest struct {
	BuyerName     string  `json:"buyerName"`
	BuyerEmail    string  `json:"buyerEmail"`
	BuyerPhone    string  `json:"buyerPhone"`
	BuyerAddress  string  `json:"buyerAddress"`
	SellerName    string  `json:"sellerName"`
	SellerEmail   string  `json:"sellerEmail"`
	SellerPhone   string  `json:"sellerPhone"`
	SellerAddress string  `json:"sellerAddress"`
	SaleAmount    flexInt `json:"saleAmount"`
	SaleDate      string  `json:"saleDate"`
	Notes         string  `json:"notes"`
}

type listingRequest struct {
	Make               string                    `json:"make"`
	Model              string                    `json:"model"`
	Year               flexInt                   `json:"year"`
	RegistrationNumber string                    `json:"registrationNumber"`
	VIN                string                    `json:"vin"`
	Mileage            flexInt                   `json:"mileage"`
	Price              flexInt                   `json:"price"`
	Color              string                    `json:"color"`
	FuelType           string                    `json:"fuelType"`
	Transmission       string                    `json:"transmission"`
	Description        string                    `json:"description"`
	Features           string                    `json:"features"`
	Condition          string                    `json:"condition"`
	OwnerHistory       string                    `json:"ownerHistory"`
	Status             string                    `json:"status"`
	Images             []assets.InlineAttachment `json:"images"`
	Documents          []assets.InlineAttachment `json:"documents"`
	SaleDetails        *saleDetailsRequest       `json:"saleDetails"`
}

// listingUpdateRequest is a partial payload; nil fields are left untouched.
type listingUpdateRequest struct {
	Make               *string                    `json:"make"`
	Model              *string                    `json:"model"`
	Year               *flexInt                   `json:"year"`
	RegistrationNumber *string                    `json:"registrationNumber"`
	VIN                *string                    `json:"vin"`
	Mileage            *flexInt                   `json:"mileage"`
	Price              *flexInt                   `json:"price"`
	Color              *string                    `json:"color"`
	FuelType           *string                    `json:"fuelType"`
	Transmission       *string                    `json:"transmission"`
	Description        *string                    `json:"description"`
	Features           *string                    `json:"features"`
	Condition          *string                    `json:"condition"`
	OwnerHistory       *string                    `json:"ownerHistory"`
	Status             *string                    `json:"status"`
	Images             *[]assets.InlineAttachment `json:"images"`
	Documents          *[]assets.InlineAttachment `json:"documents"`
	SaleDetails        *saleDetailsRequest        `json:"saleDetails"`
}

func validStatus(status string) bool {
	switch status {
	case models.StatusAvailable, models.StatusSold, models.StatusInactive:
		return true
	}
	return false
}

func parseSaleDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func (sd *saleDetailsRequest) toModel() models.SaleDetails {
	out := models.SaleDetails{
		BuyerName:     strings.TrimSpace(sd.BuyerName),
		BuyerEmail:    strings.TrimSpace(sd.BuyerEmail),
		BuyerPhone:    strings.TrimSpace(sd.BuyerPhone),
		BuyerAddress:  strings.TrimSpace(sd.BuyerAddress),
		SellerName:    strings.TrimSpace(sd.SellerName),
		SellerEmail:   strings.TrimSpace(sd.SellerEmail),
		SellerPhone:   strings.TrimSpace(sd.SellerPhone),
		SellerAddress: strings.TrimSpace(sd.SellerAddress),
		SaleAmount:    int64(sd.SaleAmount),
		Notes:         strings.TrimSpace(sd.Notes),
	}
	if t := parseSaleDate(sd.SaleDate); t != nil {
		out.SaleDate = t
	} else {
		now := time.Now()
		out.SaleDate = &now
	}
	return out
}

// GET|POST /listings
// Listings godoc
// @Summary List listings or create a new one
// @Tags Listings
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/listings [get]
func (h *Handler) ListingsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listListings(w, r)
	case http.MethodPost:
		h.createListing(w, r)
	default:
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
	}
}

func (h *Handler) listListings(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	// Admins see everything; vendors only their own.
	var vendorID *uuid.UUID
	if claims.Role != models.RoleAdmin {
		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
				Success: false,
				Message: "Not authenticated",
			})
			return
		}
		vendorID = &id
	}

	listings, err := h.Listings.ListingSummaries(vendorID)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Listings retrieved successfully",
		Data:    map[string]any{"listings": listings},
	})
}

func (h *Handler) createListing(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	vendorID, err := uuid.Parse(claims.UserID)
	if err != nil {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Not authenticated",
		})
		return
	}

	var input listingRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	listing := models.Listing{
		ID:                 uuid.New(),
		VendorID:           vendorID,    // stamped from the session, never the payload
		VendorName:         claims.Name, // denormalized for list views
		Make:               strings.TrimSpace(input.Make),
		Model:              strings.TrimSpace(input.Model),
		Year:               int(input.Year),
		RegistrationNumber: strings.ToUpper(strings.TrimSpace(input.RegistrationNumber)),
		VIN:                strings.ToUpper(strings.TrimSpace(input.VIN)),
		Mileage:            int64(input.Mileage),
		Price:              int64(input.Price),
		Color:              strings.TrimSpace(input.Color),
		FuelType:           strings.TrimSpace(input.FuelType),
		Transmission:       strings.TrimSpace(input.Transmission),
		Description:        strings.TrimSpace(input.Description),
		Features:           strings.TrimSpace(input.Features),
		Condition:          strings.TrimSpace(input.Condition),
		OwnerHistory:       strings.TrimSpace(input.OwnerHistory),
		Status:             input.Status,
	}
	if listing.Status == "" {
		listing.Status = models.StatusAvailable
	}

	if msg := requiredListingFields(&listing); msg != "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: msg,
		})
		return
	}
	if !validStatus(listing.Status) {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid status",
		})
		return
	}

	if conflict, err := h.uniquenessConflict(listing.RegistrationNumber, listing.VIN, uuid.Nil); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	} else if conflict != "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: fmt.Sprintf("%s already exists", conflict),
		})
		return
	}

	listing.Images = assets.BuildImages(input.Images)
	listing.Documents = assets.BuildDocuments(input.Documents)

	if listing.Status == models.StatusSold && input.SaleDetails != nil {
		listing.SaleDetails = input.SaleDetails.toModel()
	}

	if err := h.Listings.CreateListing(&listing); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database insert failed",
		})
		return
	}

	saved, err := h.Listings.ListingSummary(listing.ID)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Car listing created successfully",
		Data:    map[string]any{"listing": saved},
	})
}

func requiredListingFields(l *models.Listing) string {
	switch {
	case l.Make == "":
		return "Please provide vehicle make"
	case l.Model == "":
		return "Please provide vehicle model"
	case l.Year == 0:
		return "Please provide vehicle year"
	case l.RegistrationNumber == "":
		return "Please provide registration number"
	case l.VIN == "":
		return "Please provide VIN"
	case l.Mileage < 0:
		return "Please provide mileage"
	case l.Price <= 0:
		return "Please provide price"
	case l.Color == "":
		return "Please provide color"
	case l.FuelType == "":
		return "Please provide fuel type"
	case l.Transmission == "":
		return "Please provide transmission type"
	case l.Description == "":
		return "Please provide description"
	}
	return ""
}

// uniquenessConflict returns the name of the first unique field already taken
// by another listing, or "" when both are free.
func (h *Handler) uniquenessConflict(reg, vin string, exclude uuid.UUID) (string, error) {
	if reg != "" {
		taken, err := h.Listings.RegistrationExists(reg, exclude)
		if err != nil {
			return "", err
		}
		if taken {
			return "registrationNumber", nil
		}
	}
	if vin != "" {
		taken, err := h.Listings.VINExists(vin, exclude)
		if err != nil {
			return "", err
		}
		if taken {
			return "vin", nil
		}
	}
	return "", nil
}

// GET|PUT|DELETE /listings/{id}
func (h *Handler) ListingByID(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid listing ID",
		})
		return
	}

	listing, err := h.Listings.ListingSummary(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
				Success: false,
				Message: "Listing not found",
			})
			return
		}
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	if !auth.CanAccessListing(claims, listing.VendorID) {
		utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
			Success: false,
			Message: "Access denied",
		})
		return
	}

	switch r.Method {
	case http.MethodGet:
		utils.JSONResponse(w, http.StatusOK, utils.Payload{
			Success: true,
			Message: "Listing retrieved successfully",
			Data:    map[string]any{"listing": listing},
		})
	case http.MethodPut:
		h.updateListing(w, r, listing)
	case http.MethodDelete:
		h.deleteListing(w, listing)
	default:
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
	}
}

func (h *Handler) updateListing(w http.ResponseWriter, r *http.Request, listing *models.Listing) {
	var input listingUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	setTrimmed := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setTrimmed(&listing.Make, input.Make)
	setTrimmed(&listing.Model, input.Model)
	setTrimmed(&listing.Color, input.Color)
	setTrimmed(&listing.FuelType, input.FuelType)
	setTrimmed(&listing.Transmission, input.Transmission)
	setTrimmed(&listing.Description, input.Description)
	setTrimmed(&listing.Features, input.Features)
	setTrimmed(&listing.Condition, input.Condition)
	setTrimmed(&listing.OwnerHistory, input.OwnerHistory)

	if input.Year != nil {
		listing.Year = int(*input.Year)
	}
	if input.Mileage != nil {
		listing.Mileage = int64(*input.Mileage)
	}
	if input.Price != nil {
		listing.Price = int64(*input.Price)
	}
	if input.RegistrationNumber != nil {
		listing.RegistrationNumber = strings.ToUpper(strings.TrimSpace(*input.RegistrationNumber))
	}
	if input.VIN != nil {
		listing.VIN = strings.ToUpper(strings.TrimSpace(*input.VIN))
	}
	if input.Status != nil {
		if !validStatus(*input.Status) {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: "Invalid status",
			})
			return
		}
		listing.Status = *input.Status
	}
	// Sale details are written whenever supplied; stale sale data under a
	// non-sold status is left in place.
	if input.SaleDetails != nil {
		listing.SaleDetails = input.SaleDetails.toModel()
	}

	if msg := requiredListingFields(listing); msg != "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: msg,
		})
		return
	}

	if conflict, err := h.uniquenessConflict(listing.RegistrationNumber, listing.VIN, listing.ID); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	} else if conflict != "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: fmt.Sprintf("%s already exists", conflict),
		})
		return
	}

	listing.UpdatedAt = time.Now()
	if err := h.Listings.SaveListing(listing); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	// A supplied attachment array replaces the whole set; replacement rows
	// get fresh ids.
	if input.Images != nil {
		if err := h.Listings.ReplaceImages(listing.ID, assets.BuildImages(*input.Images)); err != nil {
			utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
				Success: false,
				Message: "Database error",
			})
			return
		}
	}
	if input.Documents != nil {
		if err := h.Listings.ReplaceDocuments(listing.ID, assets.BuildDocuments(*input.Documents)); err != nil {
			utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
				Success: false,
				Message: "Database error",
			})
			return
		}
	}

	updated, err := h.Listings.ListingSummary(listing.ID)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Listing updated successfully",
		Data:    map[string]any{"listing": updated},
	})
}

func (h *Handler) deleteListing(w http.ResponseWriter, listing *models.Listing) {
	if err := h.Listings.DeleteListing(listing.ID); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Listing deleted successfully",
	})
}

// GET /listings/search?q=
func (h *Handler) SearchListings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	vendorID, err := uuid.Parse(claims.UserID)
	if err != nil {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Not authenticated",
		})
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		utils.JSONResponse(w, http.StatusOK, utils.Payload{
			Success: true,
			Message: "Listings retrieved successfully",
			Data:    map[string]any{"listings": []models.Listing{}},
		})
		return
	}

	listings, err := h.Listings.SearchListings(vendorID, query)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Listings retrieved successfully",
		Data:    map[string]any{"listings": listings},
	})
}
