package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/openhaus/listing-service/internal/adapter/rest/middleware"
	"github.com/openhaus/listing-service/internal/listing/domain"
	"github.com/openhaus/listing-service/internal/listing/usecase"
	"github.com/openhaus/listing-service/internal/mailer"
	"github.com/openhaus/listing-service/internal/platform/logger"
)

// maxFormMemory bounds the in-memory portion of multipart parsing; larger
// file parts spill to temp files.
const maxFormMemory = 32 << 20

// allowedImageExtensions mirrors the upload input's accept list. This is an
// input-level check, not a content inspection.
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

type ListingHandler struct {
	submission *usecase.SubmissionUsecase
	query      *usecase.QueryUsecase
	users      *usecase.UserUsecase
	mailer     mailer.Mailer
	logger     *logger.Logger
}

func NewListingHandler(
	submission *usecase.SubmissionUsecase,
	query *usecase.QueryUsecase,
	users *usecase.UserUsecase,
	m mailer.Mailer,
	log *logger.Logger,
) *ListingHandler {
	return &ListingHandler{
		submission: submission,
		query:      query,
		users:      users,
		mailer:     m,
		logger:     log,
	}
}

type submitResponse struct {
	ID string `json:"id"`
}

// HandleCreateListing accepts the multipart create-listing form and runs
// the submission sequence.
func (h *ListingHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	form, err := h.parseListingForm(r)
	if err != nil {
		h.logger.Warn("HandleCreateListing: bad form", "error", err.Error())
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	id, err := h.submission.Submit(r.Context(), form, usecase.ModeCreate, "", userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{ID: id})
}

// HandleUpdateListing re-runs the submission sequence against an existing
// listing; the document is fully replaced.
func (h *ListingHandler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	listingID := chi.URLParam(r, "id")

	form, err := h.parseListingForm(r)
	if err != nil {
		h.logger.Warn("HandleUpdateListing: bad form", "listing_id", listingID, "error", err.Error())
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	id, err := h.submission.Submit(r.Context(), form, usecase.ModeEdit, listingID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{ID: id})
}

func (h *ListingHandler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	listingID := chi.URLParam(r, "id")

	if err := h.query.DeleteListing(r.Context(), listingID, userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListingHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := h.query.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	category := domain.ListingType(chi.URLParam(r, "category"))
	if category != domain.TypeSale && category != domain.TypeRent {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown category"})
		return
	}

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	listings, err := h.query.ListByCategory(r.Context(), category, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *ListingHandler) HandleMyListings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	listings, err := h.query.ListByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

type contactRequest struct {
	Message string `json:"message"`
}

// HandleContactLandlord mails the listing's owner on behalf of the signed-in
// user.
func (h *ListingHandler) HandleContactLandlord(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	listing, err := h.query.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	landlord, err := h.users.GetLandlord(r.Context(), listing.OwnerID)
	if err != nil {
		writeError(w, err)
		return
	}
	sender, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.mailer.SendContactEmail(landlord.Email, listing.Name, sender.Email, req.Message); err != nil {
		h.logger.Error("HandleContactLandlord: send failed", "listing_id", listing.ID, "error", err.Error())
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "could not send message"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseListingForm decodes the multipart create/edit form into a
// ListingForm, reading each image part into memory.
func (h *ListingHandler) parseListingForm(r *http.Request) (*domain.ListingForm, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	form := &domain.ListingForm{
		Type:      domain.ListingType(r.FormValue("type")),
		Name:      r.FormValue("name"),
		Address:   r.FormValue("address"),
		Parking:   r.FormValue("parking") == "true",
		Furnished: r.FormValue("furnished") == "true",
		Offer:     r.FormValue("offer") == "true",
	}
	if form.Type != domain.TypeSale && form.Type != domain.TypeRent {
		return nil, fmt.Errorf("type must be %q or %q", domain.TypeSale, domain.TypeRent)
	}

	var err error
	if form.Bedrooms, err = strconv.Atoi(r.FormValue("bedrooms")); err != nil || form.Bedrooms < 1 {
		return nil, fmt.Errorf("bedrooms must be a positive integer")
	}
	if form.Bathrooms, err = strconv.Atoi(r.FormValue("bathrooms")); err != nil || form.Bathrooms < 1 {
		return nil, fmt.Errorf("bathrooms must be a positive integer")
	}
	if form.RegularPrice, err = strconv.ParseFloat(r.FormValue("regularPrice"), 64); err != nil || form.RegularPrice <= 0 {
		return nil, fmt.Errorf("regularPrice must be a positive number")
	}
	if raw := r.FormValue("discountedPrice"); raw != "" {
		if form.DiscountedPrice, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("discountedPrice must be a number")
		}
	}
	if raw := r.FormValue("latitude"); raw != "" {
		if form.Latitude, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("latitude must be a number")
		}
	}
	if raw := r.FormValue("longitude"); raw != "" {
		if form.Longitude, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("longitude must be a number")
		}
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		return nil, fmt.Errorf("at least one image is required")
	}
	for _, header := range files {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedImageExtensions[ext] {
			return nil, fmt.Errorf("unsupported image type %q", ext)
		}
		f, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", header.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", header.Filename, err)
		}
		form.Images = append(form.Images, domain.ImageFile{Name: header.Filename, Data: data})
	}

	return form, nil
}
