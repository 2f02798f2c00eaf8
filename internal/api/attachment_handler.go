package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/taskledger/taskledger-api/internal/api/shared"
	"github.com/taskledger/taskledger-api/internal/service"
)

// AttachmentHandler manages item attachments. File bytes never pass
// through these endpoints; clients move them via presigned URLs.
type AttachmentHandler struct {
	attachmentService service.AttachmentService
	validator         *validator.Validate
	logger            *slog.Logger
}

// NewAttachmentHandler creates a new AttachmentHandler.
func NewAttachmentHandler(attachmentService service.AttachmentService, logger *slog.Logger) *AttachmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttachmentHandler{
		attachmentService: attachmentService,
		validator:         validator.New(),
		logger:            logger.With(slog.String("component", "attachment_handler")),
	}
}

// Create handles POST /items/{id}/attachments. The response pairs the
// stored metadata with a presigned upload URL.
func (h *AttachmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req CreateAttachmentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.attachmentService.Attach(r.Context(), actor, itemID, service.AttachRequest{
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, result)
}

// List handles GET /items/{id}/attachments.
func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	attachments, err := h.attachmentService.List(r.Context(), actor, itemID)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, attachments)
}

// DownloadURL handles GET /items/{id}/attachments/{attachmentID}/url.
func (h *AttachmentHandler) DownloadURL(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(w, r, "attachmentID")
	if !ok {
		return
	}

	url, err := h.attachmentService.DownloadURL(r.Context(), actor, itemID, attachmentID)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AttachmentURLResponse{URL: url})
}

// Delete handles DELETE /items/{id}/attachments/{attachmentID}.
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(w, r, "attachmentID")
	if !ok {
		return
	}

	if err := h.attachmentService.Delete(r.Context(), actor, itemID, attachmentID); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
