package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/rohits-web03/cardealer/internal/api/middleware"
	"github.com/rohits-web03/cardealer/internal/assets"
	"github.com/rohits-web03/cardealer/internal/auth"
	"github.com/rohits-web03/cardealer/internal/repositories"
	"github.com/rohits-web03/cardealer/internal/utils"
)

// GET /listings/{id}/images/{imageId}
//
// Deliberately public: image bytes are embedded directly in <img> tags on
// public pages, so no session is required. Documents stay behind auth.
//
// GetListingImage godoc
// @Summary Stream a listing image
// @Tags Assets
// @Produce octet-stream
// @Param id path string true "Listing ID"
// @Param imageId path string true "Image ID"
// @Success 200 {file} binary
// @Failure 404 {object} utils.Payload
// @Router /api/v1/listings/{id}/images/{imageId} [get]
func (h *Handler) GetListingImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	listingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid ID",
		})
		return
	}
	imageID, err := uuid.Parse(r.PathValue("imageId"))
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid ID",
		})
		return
	}

	image, err := h.Listings.ListingImage(listingID, imageID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
				Success: false,
				Message: "Image not found",
			})
			return
		}
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}
	if len(image.Data) == 0 {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Image not found",
		})
		return
	}

	contentType := image.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(image.Data)))
	// Bytes never change once stored; replacing an attachment creates a new id.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(image.Data)
}

// GET /listings/{id}/documents/{documentId}
func (h *Handler) GetListingDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())

	listingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid ID",
		})
		return
	}
	documentID, err := uuid.Parse(r.PathValue("documentId"))
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid ID",
		})
		return
	}

	listing, err := h.Listings.ListingSummary(listingID)
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

	doc, err := h.Listings.ListingDocument(listingID, documentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
				Success: false,
				Message: "Document not found",
			})
			return
		}
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}

// POST /upload/image
//
// Staging step before listing create/update: multipart file in, base64
// attachment descriptor out. Nothing is persisted here.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	if err := r.ParseMultipartForm(assets.MaxUploadSize); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid file upload form",
		})
		return
	}

	file, fh, err := r.FormFile("file")
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "No file provided",
		})
		return
	}
	file.Close()

	image, err := assets.ProcessImage(fh, r.FormValue("name"))
	if err != nil {
		utils.JSONResponse(w, uploadErrorStatus(err), utils.Payload{
			Success: false,
			Message: uploadErrorMessage(err),
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Image processed successfully",
		Data: map[string]any{
			"imageData": assets.InlineAttachment{
				Name:        image.Name,
				Data:        base64.StdEncoding.EncodeToString(image.Data),
				ContentType: image.ContentType,
				Size:        image.Size,
			},
		},
	})
}

// POST /upload/document
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	if err := r.ParseMultipartForm(assets.MaxUploadSize); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid file upload form",
		})
		return
	}

	file, fh, err := r.FormFile("file")
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "No file provided",
		})
		return
	}
	file.Close()

	doc, err := assets.ProcessDocument(fh, r.FormValue("name"), r.FormValue("type"))
	if err != nil {
		utils.JSONResponse(w, uploadErrorStatus(err), utils.Payload{
			Success: false,
			Message: uploadErrorMessage(err),
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Document processed successfully",
		Data: map[string]any{
			"documentData": assets.InlineAttachment{
				Type:        doc.Type,
				Name:        doc.Name,
				Data:        base64.StdEncoding.EncodeToString(doc.Data),
				ContentType: doc.ContentType,
				Size:        doc.Size,
			},
		},
	})
}

func uploadErrorStatus(err error) int {
	switch {
	case errors.Is(err, assets.ErrTooLarge),
		errors.Is(err, assets.ErrNotAnImage),
		errors.Is(err, assets.ErrBadDocumentType),
		errors.Is(err, assets.ErrEmptyFile):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, assets.ErrTooLarge):
		return "File size must be less than 10MB"
	case errors.Is(err, assets.ErrNotAnImage):
		return "File must be an image"
	case errors.Is(err, assets.ErrBadDocumentType):
		return "File must be PDF, JPEG, JPG, or PNG"
	case errors.Is(err, assets.ErrEmptyFile):
		return "File is empty"
	}
	return "Upload failed"
}
