package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/house-marketplace/listing-service/internal/adapter/rest/middleware"
	"github.com/house-marketplace/listing-service/internal/listing/domain"
	"github.com/house-marketplace/listing-service/internal/listing/usecase"
)

var tracer = otel.Tracer("listing-service/rest")

const (
	maxUploadBytes  = 32 << 20
	defaultPageSize = 10
)

type Handler struct {
	catalog  *usecase.CatalogUsecase
	listings *usecase.ListingUsecase
	contact  *usecase.ContactUsecase
	logger   *zap.Logger
}

func NewHandler(catalog *usecase.CatalogUsecase, listings *usecase.ListingUsecase, contact *usecase.ContactUsecase, logger *zap.Logger) *Handler {
	return &Handler{catalog: catalog, listings: listings, contact: contact, logger: logger}
}

func (h *Handler) SearchListings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.SearchListings")
	defer span.End()

	filter, err := filterFromQuery(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	pageSize := defaultPageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, &domain.ValidationError{Field: "page_size", Reason: "must be an integer"})
			return
		}
		pageSize = n
	}
	span.SetAttributes(
		attribute.String("shape", filter.Fingerprint()),
		attribute.Int("page_size", pageSize),
	)

	page, err := h.catalog.SearchListings(ctx, usecase.CatalogQuery{
		Filter:   filter,
		Cursor:   r.URL.Query().Get("cursor"),
		PageSize: pageSize,
	})
	if err != nil {
		span.RecordError(err)
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, searchResponse{
		Listings:   toListingResponses(page.Listings),
		NextCursor: page.NextCursor,
	})
}

func (h *Handler) RecentListings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.RecentListings")
	defer span.End()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, &domain.ValidationError{Field: "limit", Reason: "must be an integer"})
			return
		}
		limit = n
	}

	listings, err := h.catalog.RecentListings(ctx, limit)
	if err != nil {
		span.RecordError(err)
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toListingResponses(listings))
}

func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.GetListing")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("listing_id", id))

	listing, err := h.listings.GetListingByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toListingResponse(listing))
}

func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.CreateListing")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "user authentication required", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.String("user_id", userID))

	in, images, err := parseSubmission(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	listing, err := h.listings.SubmitListing(ctx, userID, in, images)
	if err != nil {
		span.RecordError(err)
		h.writeError(w, err)
		return
	}
	span.SetAttributes(attribute.String("listing_id", listing.ID))
	h.writeJSON(w, http.StatusCreated, toListingResponse(listing))
}

func (h *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.UpdateListing")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "user authentication required", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("listing_id", id), attribute.String("user_id", userID))

	in, images, err := parseSubmission(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	listing, err := h.listings.UpdateListing(ctx, id, userID, in, images)
	if err != nil {
		span.RecordError(err)
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toListingResponse(listing))
}

func (h *Handler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.DeleteListing")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "user authentication required", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("listing_id", id), attribute.String("user_id", userID))

	if err := h.listings.DeleteListing(ctx, id, userID); err != nil {
		span.RecordError(err)
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ContactOwner(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.ContactOwner")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("listing_id", id))

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &domain.ValidationError{Field: "body", Reason: "must be valid JSON"})
		return
	}

	if err := h.contact.ContactOwner(ctx, id, req.Email, req.Message); err != nil {
		span.RecordError(err)
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// filterFromQuery builds the single-field equality filter from query
// parameters. At most one of offer, type and owner may be supplied.
func filterFromQuery(r *http.Request) (*domain.Filter, error) {
	q := r.URL.Query()
	var filters []*domain.Filter

	if raw := q.Get("offer"); raw != "" {
		offer, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &domain.ValidationError{Field: "offer", Reason: "must be a boolean"}
		}
		filters = append(filters, &domain.Filter{Field: domain.FilterOffer, Value: offer})
	}
	if raw := q.Get("type"); raw != "" {
		t := domain.TransactionType(raw)
		if t != domain.TypeSale && t != domain.TypeRent {
			return nil, &domain.ValidationError{Field: "type", Reason: "must be 'sale' or 'rent'"}
		}
		filters = append(filters, domain.FilterByType(t))
	}
	if raw := q.Get("owner"); raw != "" {
		filters = append(filters, domain.FilterByOwner(raw))
	}

	switch len(filters) {
	case 0:
		return nil, nil
	case 1:
		return filters[0], nil
	default:
		return nil, &domain.ValidationError{Field: "filter", Reason: "at most one filter field is supported"}
	}
}

func parseSubmission(r *http.Request) (domain.SubmissionInput, []domain.ImagePayload, error) {
	var in domain.SubmissionInput
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return in, nil, &domain.ValidationError{Field: "body", Reason: "must be multipart form data"}
	}

	in.Type = domain.TransactionType(r.FormValue("type"))
	in.Name = r.FormValue("name")
	in.Address = r.FormValue("address")

	var err error
	if in.Bedrooms, err = formInt(r, "bedrooms"); err != nil {
		return in, nil, err
	}
	if in.Bathrooms, err = formInt(r, "bathrooms"); err != nil {
		return in, nil, err
	}
	if in.Parking, err = formBool(r, "parking"); err != nil {
		return in, nil, err
	}
	if in.Furnished, err = formBool(r, "furnished"); err != nil {
		return in, nil, err
	}
	if in.Offer, err = formBool(r, "offer"); err != nil {
		return in, nil, err
	}
	if in.RegularPrice, err = formInt64(r, "regularPrice"); err != nil {
		return in, nil, err
	}
	if in.DiscountedPrice, err = formInt64(r, "discountedPrice"); err != nil {
		return in, nil, err
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		// Nil means "keep the stored images" on update; creation rejects an
		// empty batch during validation.
		return in, nil, nil
	}
	images := make([]domain.ImagePayload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return in, nil, &domain.ValidationError{Field: "images", Reason: "could not read uploaded file"}
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return in, nil, &domain.ValidationError{Field: "images", Reason: "could not read uploaded file"}
		}
		images = append(images, domain.ImagePayload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return in, images, nil
}

func formInt(r *http.Request, field string) (int, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{Field: field, Reason: "must be an integer"}
	}
	return n, nil
}

func formInt64(r *http.Request, field string) (int64, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{Field: field, Reason: "must be an integer"}
	}
	return n, nil
}

func formBool(r *http.Request, field string) (bool, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &domain.ValidationError{Field: field, Reason: "must be a boolean"}
	}
	return b, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response encoding failed", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, domain.ErrBatchSizeExceeded),
		errors.Is(err, domain.ErrCursorShapeMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrListingNotFound),
		errors.Is(err, domain.ErrOwnerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrAddressUnresolvable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrProviderUnavailable),
		errors.Is(err, domain.ErrPartialUploadFailure):
		status = http.StatusBadGateway
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
