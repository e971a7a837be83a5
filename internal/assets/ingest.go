package assets

import (
	"encoding/base64"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/rohits-web03/cardealer/internal/models"
)

// MaxUploadSize caps a single attachment; an upload of exactly this size is
// accepted, one byte over is rejected.
const MaxUploadSize = 10 << 20 // 10 MiB

var (
	ErrTooLarge        = errors.New("file size must be less than 10MB")
	ErrNotAnImage      = errors.New("file must be an image")
	ErrBadDocumentType = errors.New("file must be PDF, JPEG, JPG, or PNG")
	ErrEmptyFile       = errors.New("file is empty")
)

var allowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

// InlineAttachment is the wire shape of a staged attachment: the upload
// endpoints emit it with base64 data, and listing create/update accepts it
// back embedded in the JSON payload.
type InlineAttachment struct {
	Type        string `json:"type,omitempty"` // documents only
	Name        string `json:"name"`
	Data        string `json:"data"` // base64, possibly with a data-URL prefix
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// ProcessImage validates and reads an uploaded image file. The declared MIME
// type must begin with image/ and the sniffed bytes must agree.
func ProcessImage(fh *multipart.FileHeader, name string) (models.Image, error) {
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return models.Image{}, ErrNotAnImage
	}
	data, err := readUpload(fh)
	if err != nil {
		return models.Image{}, err
	}
	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return models.Image{}, ErrNotAnImage
	}
	if name == "" {
		name = fh.Filename
	}
	return models.Image{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Data:        data,
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadedAt:  time.Now(),
	}, nil
}

// ProcessDocument validates and reads an uploaded document file. Only PDF,
// JPEG, JPG and PNG are accepted; declaredType is a free-form tag such as
// "RC Book" carried alongside the file.
func ProcessDocument(fh *multipart.FileHeader, name, declaredType string) (models.Document, error) {
	contentType := fh.Header.Get("Content-Type")
	if !allowedDocumentTypes[contentType] {
		return models.Document{}, ErrBadDocumentType
	}
	data, err := readUpload(fh)
	if err != nil {
		return models.Document{}, err
	}
	if !allowedDocumentTypes[mimetype.Detect(data).String()] {
		return models.Document{}, ErrBadDocumentType
	}
	if name == "" {
		name = fh.Filename
	}
	if declaredType == "" {
		declaredType = "Other"
	}
	return models.Document{
		ID:          uuid.New(),
		Type:        declaredType,
		Name:        strings.TrimSpace(name),
		Data:        data,
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadedAt:  time.Now(),
	}, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > MaxUploadSize {
		return nil, ErrTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

// DecodeInlinePayload decodes a base64 attachment body, stripping any
// data-URL prefix first. A payload that decodes to zero bytes yields
// (nil, nil): an empty optional slot, not an error.
func DecodeInlinePayload(encoded string) ([]byte, error) {
	if i := strings.Index(encoded, "base64,"); i >= 0 {
		encoded = encoded[i+len("base64,"):]
	} else if i := strings.Index(encoded, ","); i >= 0 {
		encoded = encoded[i+1:]
	}
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// BuildImages assembles storable image rows from inline payloads. Entries
// that are incomplete or fail to decode are skipped; the first kept image is
// flagged as the main one.
func BuildImages(inline []InlineAttachment) []models.Image {
	images := make([]models.Image, 0, len(inline))
	for _, in := range inline {
		if in.Data == "" || in.ContentType == "" || in.Name == "" {
			continue
		}
		data, err := DecodeInlinePayload(in.Data)
		if err != nil || data == nil {
			continue
		}
		images = append(images, models.Image{
			ID:          uuid.New(),
			Name:        strings.TrimSpace(in.Name),
			Data:        data,
			ContentType: in.ContentType,
			Size:        int64(len(data)),
			IsMain:      len(images) == 0,
			UploadedAt:  time.Now(),
		})
	}
	return images
}

// BuildDocuments assembles storable document rows from inline payloads.
func BuildDocuments(inline []InlineAttachment) []models.Document {
	docs := make([]models.Document, 0, len(inline))
	for _, in := range inline {
		if in.Data == "" || in.ContentType == "" || in.Name == "" {
			continue
		}
		data, err := DecodeInlinePayload(in.Data)
		if err != nil || data == nil {
			continue
		}
		docType := in.Type
		if docType == "" {
			docType = "Other"
		}
		docs = append(docs, models.Document{
			ID:          uuid.New(),
			Type:        docType,
			Name:        strings.TrimSpace(in.Name),
			Data:        data,
			ContentType: in.ContentType,
			Size:        int64(len(data)),
			UploadedAt:  time.Now(),
		})
	}
	return docs
}
