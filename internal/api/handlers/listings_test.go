package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohits-web03/cardealer/internal/api/middleware"
	"github.com/rohits-web03/cardealer/internal/auth"
)

func doRequest(t *testing.T, handler http.HandlerFunc, method, path string, claims *auth.Claims, body any, pathValues map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if claims != nil {
		req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	}
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func corollaPayload() map[string]any {
	return map[string]any{
		"make":               "Toyota",
		"model":              "Corolla",
		"year":               2020,
		"registrationNumber": "mh02ab1234",
		"vin":                "abc123",
		"mileage":            "50000", // numeric strings are accepted
		"price":              500000,
		"color":              "White",
		"fuelType":           "Petrol",
		"transmission":       "Manual",
		"description":        "Well maintained single-owner car",
		"status":             "available",
	}
}

func createCorolla(t *testing.T, env *testEnv, claims *auth.Claims) uuid.UUID {
	t.Helper()
	rec := doRequest(t, env.handler.ListingsCollection, http.MethodPost, "/listings", claims, corollaPayload(), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	listing := decodeBody(t, rec)["data"].(map[string]any)["listing"].(map[string]any)
	id, err := uuid.Parse(listing["id"].(string))
	require.NoError(t, err)
	return id
}

func TestCreateListing(t *testing.T) {
	env := newTestEnv()
	vendor := vendorClaims(uuid.New(), "Alice")

	rec := doRequest(t, env.handler.ListingsCollection, http.MethodPost, "/listings", vendor, corollaPayload(), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	listing := decodeBody(t, rec)["data"].(map[string]any)["listing"].(map[string]any)
	assert.Equal(t, "Toyota", listing["make"])
	assert.Equal(t, "MH02AB1234", listing["registrationNumber"]) // uppercased
	assert.Equal(t, "ABC123", listing["vin"])
	assert.Equal(t, float64(50000), listing["mileage"])
	assert.Equal(t, "available", listing["status"])
	assert.Equal(t, vendor.UserID, listing["vendorId"])
	assert.Equal(t, "Alice", listing["vendorName"])
	assert.Empty(t, listing["images"])
	assert.Empty(t, listing["documents"])
}

func TestCreateListingVendorStampedFromSession(t *testing.T) {
	env := newTestEnv()
	vendor := vendorClaims(uuid.New(), "Alice")

	payload := corollaPayload()
	payload["vendorId"] = uuid.New().String() // ignored; never trusted from the payload
	payload["vendorName"] = "Mallory"

	rec := doRequest(t, env.handler.ListingsCollection, http.MethodPost, "/listings", vendor, payload, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	listing := decodeBody(t, rec)["data"].(map[string]any)["listing"].(map[string]any)
	assert.Equal(t, vendor.UserID, listing["vendorId"])
	assert.Equal(t, "Alice", listing["vendorName"])
}

func TestCreateListingMissingRequiredField(t *testing.T) {
	env := newTestEnv()
	vendor := vendorClaims(uuid.New(), "Alice")

	payload := corollaPayload()
	payload["make"] = "   "
	rec := doRequest(t, env.handler.ListingsCollection, http.MethodPost, "/listings", vendor, payload, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide vehicle make", decodeBody(t, rec)["message"])
}

func TestCreateListingRegistrationConflict(t *testing.T) {
	env := newTestEnv()
	vendor := vendorClaims(uuid.New(), "Alice")
	createCorolla(t, env, vendor)

	payload := corollaPayload()
	payload["vin"] = "XYZ789" // different VIN, same registration number
	rec := doRequest(t, env.handler.ListingsCollection, http.MethodPost, "/listings", vendor, payload, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "registrationNumber already exists", decodeBody(t, rec)["message"])
}

func TestCreateListingVINConflict(t *testing.T) {
	env := newTestEnv()
	vendor := vendorClaims(uuid.New(), "Alice")
	createCorolla(t, env, vendor)

	payload := corollaPayload()
	payload["registrationNumber"] = "KA01CD5678"
	rec := doRequest(t, env.handler.ListingsCollection, http.MethodPost, "/listings", vendor, payload, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "vin already exists", decodeBody(t, rec)["message"])
}

func TestListListingsScopedByRole(t *testing.T) {
	env := newTestEnv()
	alice := vendorClaims(uuid.New(), "Alice")
	bob := vendorClaims(uuid.New(), "Bob")
	createCorolla(t, env, alice)

	payload := corollaPayload()
	payload["registrationNumber"] = "KA01CD5678"
	payload["vin"] = "XYZ789"
	rec := doRequest(t, env.handler.ListingsCollection, http.MethodPost, "/listings", bob, payload, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	aliceView := doRequest(t, env.handler.ListingsCollection, http.MethodGet, "/listings", alice, nil, nil)
	require.Equal(t, http.StatusOK, aliceView.Code)
	assert.Len(t, decodeBody(t, aliceView)["data"].(map[string]any)["listings"], 1)

	adminView := doRequest(t, env.handler.ListingsCollection, http.MethodGet, "/listings", adminClaims(uuid.New()), nil, nil)
	require.Equal(t, http.StatusOK, adminView.Code)
	assert.Len(t, decodeBody(t, adminView)["data"].(map[string]any)["listings"], 2)
}

func TestListingOwnership(t *testing.T) {
	env := newTestEnv()
	alice := vendorClaims(uuid.New(), "Alice")
	bob := vendorClaims(uuid.New(), "Bob")
	id := createCorolla(t, env, alice)
	pv := map[string]string{"id": id.String()}

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := doRequest(t, env.handler.ListingByID, method, "/listings/"+id.String(), bob, map[string]any{}, pv)
		assert.Equal(t, http.StatusForbidden, rec.Code, method)
		assert.Equal(t, "Access denied", decodeBody(t, rec)["message"])
	}

	rec := doRequest(t, env.handler.ListingByID, http.MethodGet, "/listings/"+id.String(), adminClaims(uuid.New()), nil, pv)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, env.handler.ListingByID, http.MethodDelete, "/listings/"+id.String(), adminClaims(uuid.New()), nil, pv)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListingByIDMalformedAndMissing(t *testing.T) {
	env := newTestEnv()
	vendor := vendorClaims(uuid.New(), "Alice")

	rec := doRequest(t, env.handler.ListingByID, http.MethodGet, "/listings/nope", vendor, nil, map[string]string{"id": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid listing ID", decodeBody(t, rec)["message"])

	missing := uuid.New()
	rec = doRequest(t, env.handler.ListingByID, http.MethodGet, "/listings/"+missing.String(), vendor, nil, map[string]string{"id": missing.String()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkListingSold(t *testing.T) {
	env := newTestEnv()
	vendor := vendorClaims(uuid.New(), "Alice")
	id := createCorolla(t, env, vendor)
	pv := map[string]string{"id": id.String()}

	update := map[string]any{
		"status": "sold",
		"saleDetails": map[string]any{
			"saleAmount": "480000",
			"saleDate":   "2024-01-01",
			"buyerName":  "X",
			"sellerName": "Y",
		},
	}
	rec := doRequest(t, env.handler.ListingByID, http.MethodPut, "/listings/"+id.String(), vendor, update, pv)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, env.handler.ListingByID, http.MethodGet, "/listings/"+id.String(), vendor, nil, pv)
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decodeBody(t, rec)["data"].(map[string]any)["listing"].(map[string]any)
	assert.Equal(t, "sold", listing["status"])

	sale := listing["saleDetails"].(map[string]any)
	assert.Equal(t, float64(480000), sale["saleAmount"])
	assert.Equal(t, "X", sale["buyerName"])
	assert.Equal(t, "Y", sale["sellerName"])
}

func TestUpdateListingRejectsBadStatus(t *testing.T) {
	env := newTestEnv()
	vendor := vendorClaims(uuid.New(), "Alice")
	id := createCorolla(t, env, vendor)

	rec := doRequest(t, env.handler.ListingByID, http.MethodPut, "/listings/"+id.String(), vendor,
		map[string]any{"status": "scrapped"}, map[string]string{"id": id.String()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status", decodeBody(t, rec)["message"])
}

func TestUpdateListingUniquenessExcludesSelf(t *testing.T) {
	env := newTestEnv()
	vendor := vendorClaims(uuid.New(), "Alice")
	id := createCorolla(t, env, vendor)

	// re-submitting its own registration number is not a conflict
	rec := doRequest(t, env.handler.ListingByID, http.MethodPut, "/listings/"+id.String(), vendor,
		map[string]any{"registrationNumber": "mh02ab1234", "price": 450000}, map[string]string{"id": id.String()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	listing := decodeBody(t, rec)["data"].(map[string]any)["listing"].(map[string]any)
	assert.Equal(t, float64(450000), listing["price"])
}

func TestSearchListings(t *testing.T) {
	env := newTestEnv()
	alice := vendorClaims(uuid.New(), "Alice")
	bob := vendorClaims(uuid.New(), "Bob")
	createCorolla(t, env, alice)

	payload := corollaPayload()
	payload["registrationNumber"] = "KA01CD5678"
	payload["vin"] = "XYZ789"
	payload["make"] = "Honda"
	payload["model"] = "City"
	rec := doRequest(t, env.handler.ListingsCollection, http.MethodPost, "/listings", bob, payload, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// search is scoped to the caller's own listings
	rec = doRequest(t, env.handler.SearchListings, http.MethodGet, "/listings/search?q=coro", alice, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"].(map[string]any)["listings"], 1)

	rec = doRequest(t, env.handler.SearchListings, http.MethodGet, "/listings/search?q=coro", bob, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"].(map[string]any)["listings"], 0)

	// case-insensitive match on registration number
	rec = doRequest(t, env.handler.SearchListings, http.MethodGet, "/listings/search?q=mh02", alice, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"].(map[string]any)["listings"], 1)

	// empty query returns an empty result set
	rec = doRequest(t, env.handler.SearchListings, http.MethodGet, "/listings/search", alice, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"].(map[string]any)["listings"], 0)
}
