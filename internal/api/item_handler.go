package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/taskledger/taskledger-api/internal/api/shared"
	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/service"
	"github.com/taskledger/taskledger-api/internal/store"
)

// Listing query parameter limits.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	errInvalidCategoryParam = errors.New("invalid category_id parameter")
	errInvalidPageParam     = errors.New("invalid page parameter")
	errInvalidSizeParam     = errors.New("invalid size parameter")
)

// ItemHandler handles item CRUD, toggling, bulk deletion and sample seeding.
type ItemHandler struct {
	itemService service.ItemService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewItemHandler creates a new ItemHandler with the given dependencies.
func NewItemHandler(itemService service.ItemService, logger *slog.Logger) *ItemHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemHandler{
		itemService: itemService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "item_handler")),
	}
}

// Create handles POST /items.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	item, err := h.itemService.Create(r.Context(), actor, service.CreateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, item)
}

// Get handles GET /items/{id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	item, err := h.itemService.Get(r.Context(), actor, id)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, item)
}

// List handles GET /items. Keyword, category, sort and paging all come
// from query parameters; unknown sort fields fall back to the default
// ordering rather than failing the request.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter, err := parseItemFilter(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.itemService.List(r.Context(), actor, filter)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ItemListResponse{
		Items: items,
		Count: len(items),
	})
}

// Update handles PUT /items/{id}.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	item, err := h.itemService.Update(r.Context(), actor, id, service.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
		Version:     req.Version,
	})
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, item)
}

// Toggle handles POST /items/{id}/toggle.
func (h *ItemHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	item, err := h.itemService.ToggleCompleted(r.Context(), actor, id)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, item)
}

// Delete handles DELETE /items/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.itemService.Delete(r.Context(), actor, id); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BulkDelete handles POST /items/bulk-delete. For non-admin actors,
// missing and inaccessible IDs are skipped and the response counts the
// rows that actually went away; admins get the whole batch.
func (h *ItemHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req BulkDeleteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.itemService.BulkDelete(r.Context(), actor, req.IDs)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BulkDeleteResponse{
		Requested: result.Requested,
		Deleted:   result.Deleted,
	})
}

// SeedSamples handles POST /items/samples (admin only, enforced by routing).
func (h *ItemHandler) SeedSamples(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	items, err := h.itemService.SeedSamples(r.Context(), actor)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, ItemListResponse{
		Items: items,
		Count: len(items),
	})
}

// parseIDParam pulls a UUID path parameter out of the chi route context,
// writing a 400 itself when the value is malformed.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name+" parameter")
		return uuid.Nil, false
	}
	return id, true
}

// parseItemFilter builds the listing filter from query parameters.
func parseItemFilter(r *http.Request) (service.ItemFilter, error) {
	q := r.URL.Query()

	filter := service.ItemFilter{
		Keyword:   q.Get("q"),
		SortField: q.Get("sort"),
		SortOrder: q.Get("order"),
	}

	if raw := q.Get("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return service.ItemFilter{}, errInvalidCategoryParam
		}
		filter.CategoryID = &categoryID
	}

	if raw := q.Get("page"); raw != "" || q.Get("size") != "" {
		page, err := parsePage(q.Get("page"), q.Get("size"))
		if err != nil {
			return service.ItemFilter{}, err
		}
		filter.Page = page
	}

	return filter, nil
}

func parsePage(rawPage, rawSize string) (*store.Page, error) {
	page := &store.Page{Number: 0, Size: defaultPageSize}

	if rawPage != "" {
		n, err := strconv.Atoi(rawPage)
		if err != nil || n < 0 {
			return nil, errInvalidPageParam
		}
		page.Number = n
	}

	if rawSize != "" {
		n, err := strconv.Atoi(rawSize)
		if err != nil || n < 1 || n > maxPageSize {
			return nil, errInvalidSizeParam
		}
		page.Size = n
	}

	return page, nil
}
