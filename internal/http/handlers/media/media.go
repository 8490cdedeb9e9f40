package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/Tyno1/bitescout-api/internal/events"
	"github.com/Tyno1/bitescout-api/internal/hooks"
	"github.com/Tyno1/bitescout-api/internal/http/middleware"
	"github.com/Tyno1/bitescout-api/internal/services/linker"
	"github.com/Tyno1/bitescout-api/internal/services/upload"
	"github.com/Tyno1/bitescout-api/internal/storage"
	"github.com/Tyno1/bitescout-api/internal/types"
	"github.com/Tyno1/bitescout-api/internal/utils/apperr"
	"github.com/Tyno1/bitescout-api/internal/utils/response"
)

// maxUploadMemory bounds the in-memory part of multipart parsing.
const maxUploadMemory = 32 << 20

type MediaHandlers struct {
	storage   storage.Storage
	uploader  *upload.Orchestrator
	linker    *linker.Linker
	hooks     *hooks.Runner
	publisher events.Publisher
}

// NewMediaHandlers creates a new media handlers instance
func NewMediaHandlers(st storage.Storage, uploader *upload.Orchestrator, lk *linker.Linker, runner *hooks.Runner, publisher events.Publisher) *MediaHandlers {
	return &MediaHandlers{
		storage:   st,
		uploader:  uploader,
		linker:    lk,
		hooks:     runner,
		publisher: publisher,
	}
}

func parsePagination(r *http.Request) (int, int) {
	page := 1
	limit := 20
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	return page, limit
}

func validAssociation(a *types.AssociatedWith) error {
	if a == nil || a.IsZero() {
		return nil
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: invalid association type %q", apperr.ErrValidation, a.Type)
	}
	if a.ID == "" {
		return fmt.Errorf("%w: association id is required", apperr.ErrValidation)
	}
	return nil
}

// Create handles metadata-only media creation
// @Summary Create a media record
// @Description Create a media record from already-stored metadata
// @Tags media
// @Accept json
// @Produce json
// @Param media body types.CreateMediaRequest true "Media metadata"
// @Success 201 {object} types.Media "Media record created"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /media [post]
func (h *MediaHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActorFromContext(r.Context())
		if !ok {
			response.WriteError(w, fmt.Errorf("%w: user not authenticated", apperr.ErrAuthentication))
			return
		}

		var req types.CreateMediaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid request body")))
			return
		}

		validate := validator.New()
		if err := validate.Struct(req); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if !req.Type.Valid() {
			response.WriteError(w, fmt.Errorf("%w: invalid media type %q", apperr.ErrValidation, req.Type))
			return
		}
		if err := validAssociation(req.AssociatedWith); err != nil {
			response.WriteError(w, err)
			return
		}

		media, err := h.storage.CreateMedia(r.Context(), actor.ID, req)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		h.runLinkHook(r, media)

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Media record created", media))
	}
}

// runLinkHook mirrors the association as a best-effort post-commit step.
// Linking failure is logged and never surfaced to the caller.
func (h *MediaHandlers) runLinkHook(r *http.Request, media types.Media) {
	if media.AssociatedWith == nil || media.AssociatedWith.IsZero() {
		return
	}
	assoc := *media.AssociatedWith
	h.hooks.Run(r.Context(),
		hooks.Named("link-media", func(ctx context.Context) error {
			return h.linker.Link(ctx, media)
		}),
		hooks.Named("notify-link", func(ctx context.Context) error {
			if assoc.Type != types.AssociationRestaurant {
				return nil
			}
			return h.publisher.PublishMediaLinked(media.ID, media.UploadedBy.ID, assoc.ID)
		}),
	)
}

// Upload handles multipart file upload
// @Summary Upload a media file
// @Description Upload a file to object storage and create its media record
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param folder formData string false "Storage folder hint"
// @Param associated_type formData string false "Associated entity type"
// @Param associated_id formData string false "Associated entity id"
// @Success 201 {object} types.Media "Media record created"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 502 {object} response.Response "Storage provider failure"
// @Security BearerAuth
// @Router /media/upload [post]
func (h *MediaHandlers) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActorFromContext(r.Context())
		if !ok {
			response.WriteError(w, fmt.Errorf("%w: user not authenticated", apperr.ErrAuthentication))
			return
		}

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			response.WriteError(w, fmt.Errorf("%w: invalid multipart body", apperr.ErrValidation))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			response.WriteError(w, fmt.Errorf("%w: file is required", apperr.ErrValidation))
			return
		}
		defer file.Close()

		meta, err := uploadMetaFromForm(r)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		media, err := h.uploader.Upload(r.Context(), actor.ID, upload.File{
			Reader:      file,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			FileName:    header.Filename,
		}, meta)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Media uploaded successfully", media))
	}
}

func uploadMetaFromForm(r *http.Request) (upload.Metadata, error) {
	meta := upload.Metadata{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Folder:      r.FormValue("folder"),
	}

	if t := r.FormValue("associated_type"); t != "" {
		assoc := &types.AssociatedWith{
			Type: types.AssociationType(t),
			ID:   r.FormValue("associated_id"),
		}
		if err := validAssociation(assoc); err != nil {
			return upload.Metadata{}, err
		}
		meta.AssociatedWith = assoc
	}

	return meta, nil
}

// UploadBatch handles multi-file upload
// @Summary Upload multiple media files
// @Description Upload several files concurrently; per-file success/failure is reported in input order
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Success 200 {array} upload.Result "Per-file results"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /media/upload/batch [post]
func (h *MediaHandlers) UploadBatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActorFromContext(r.Context())
		if !ok {
			response.WriteError(w, fmt.Errorf("%w: user not authenticated", apperr.ErrAuthentication))
			return
		}

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			response.WriteError(w, fmt.Errorf("%w: invalid multipart body", apperr.ErrValidation))
			return
		}

		headers := r.MultipartForm.File["files"]
		if len(headers) == 0 {
			response.WriteError(w, fmt.Errorf("%w: at least one file is required", apperr.ErrValidation))
			return
		}

		meta, err := uploadMetaFromForm(r)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		files := make([]upload.File, 0, len(headers))
		for _, header := range headers {
			f, err := header.Open()
			if err != nil {
				response.WriteError(w, fmt.Errorf("%w: failed to read file %s", apperr.ErrValidation, header.Filename))
				return
			}
			defer f.Close()
			files = append(files, upload.File{
				Reader:      f,
				Size:        header.Size,
				ContentType: header.Header.Get("Content-Type"),
				FileName:    header.Filename,
			})
		}

		results := h.uploader.UploadBatch(r.Context(), actor.ID, files, meta)

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Batch upload processed", results))
	}
}

// Get retrieves a media record
// @Summary Get a media record
// @Tags media
// @Produce json
// @Param id path string true "Media id"
// @Success 200 {object} types.Media "Media record"
// @Failure 404 {object} response.Response "Media not found"
// @Router /media/{id} [get]
func (h *MediaHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		media, err := h.storage.GetMediaByID(r.Context(), r.PathValue("id"))
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Media retrieved successfully", media))
	}
}

// ListByAssociation lists media linked to an entity
// @Summary List media by association
// @Tags media
// @Produce json
// @Param type path string true "Associated entity type"
// @Param id path string true "Associated entity id"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} types.MediaPage "Paginated media list"
// @Failure 400 {object} response.Response "Bad request"
// @Router /media/associated/{type}/{id} [get]
func (h *MediaHandlers) ListByAssociation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assocType := types.AssociationType(r.PathValue("type"))
		if !assocType.Valid() {
			response.WriteError(w, fmt.Errorf("%w: invalid association type %q", apperr.ErrValidation, assocType))
			return
		}

		page, limit := parsePagination(r)
		result, err := h.storage.ListMediaByAssociation(r.Context(), assocType, r.PathValue("id"), page, limit)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Media retrieved successfully", result))
	}
}

// ListByUploader lists a user's uploads
// @Summary List media by uploader
// @Tags media
// @Produce json
// @Param user_id path string true "Uploader user id"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} types.MediaPage "Paginated media list"
// @Router /media/user/{user_id} [get]
func (h *MediaHandlers) ListByUploader() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := parsePagination(r)
		result, err := h.storage.ListMediaByUploader(r.Context(), r.PathValue("user_id"), page, limit)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Media retrieved successfully", result))
	}
}

// ListVerified lists verified media
// @Summary List verified media
// @Tags media
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param type query string false "Filter by associated entity type"
// @Success 200 {object} types.MediaPage "Paginated media list"
// @Failure 400 {object} response.Response "Bad request"
// @Router /media/verified [get]
func (h *MediaHandlers) ListVerified() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typeFilter := types.AssociationType(r.URL.Query().Get("type"))
		if typeFilter != "" && !typeFilter.Valid() {
			response.WriteError(w, fmt.Errorf("%w: invalid association type %q", apperr.ErrValidation, typeFilter))
			return
		}

		page, limit := parsePagination(r)
		result, err := h.storage.ListVerifiedMedia(r.Context(), page, limit, typeFilter)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Media retrieved successfully", result))
	}
}

// Update modifies a media record's mutable fields
// @Summary Update a media record
// @Description Owner-only update of title, description and association
// @Tags media
// @Accept json
// @Produce json
// @Param id path string true "Media id"
// @Param patch body types.UpdateMediaRequest true "Fields to update"
// @Success 200 {object} types.Media "Updated media record"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 403 {object} response.Response "Not the owner"
// @Failure 404 {object} response.Response "Media not found"
// @Security BearerAuth
// @Router /media/{id} [patch]
func (h *MediaHandlers) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActorFromContext(r.Context())
		if !ok {
			response.WriteError(w, fmt.Errorf("%w: user not authenticated", apperr.ErrAuthentication))
			return
		}

		id := r.PathValue("id")
		existing, err := h.storage.GetMediaByID(r.Context(), id)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		if existing.UploadedBy.ID != actor.ID {
			response.WriteError(w, fmt.Errorf("%w: only the uploader may update this media", apperr.ErrAuthorization))
			return
		}

		var patch types.UpdateMediaRequest
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid request body")))
			return
		}
		if err := validAssociation(patch.AssociatedWith); err != nil {
			response.WriteError(w, err)
			return
		}

		media, err := h.storage.UpdateMedia(r.Context(), id, patch)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		h.runLinkHook(r, media)

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Media updated successfully", media))
	}
}

// Delete removes a media record
// @Summary Delete a media record
// @Description Owner-only. References embedded in other entities are not cleaned up.
// @Tags media
// @Produce json
// @Param id path string true "Media id"
// @Success 200 {object} response.Response "Media deleted"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 403 {object} response.Response "Not the owner"
// @Failure 404 {object} response.Response "Media not found"
// @Security BearerAuth
// @Router /media/{id} [delete]
func (h *MediaHandlers) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActorFromContext(r.Context())
		if !ok {
			response.WriteError(w, fmt.Errorf("%w: user not authenticated", apperr.ErrAuthentication))
			return
		}

		id := r.PathValue("id")
		existing, err := h.storage.GetMediaByID(r.Context(), id)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		if existing.UploadedBy.ID != actor.ID {
			response.WriteError(w, fmt.Errorf("%w: only the uploader may delete this media", apperr.ErrAuthorization))
			return
		}

		if err := h.storage.DeleteMedia(r.Context(), id); err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Media deleted successfully", nil))
	}
}

// ToggleVerified flips the verification flag
// @Summary Toggle media verification
// @Description Admin/moderator only
// @Tags media
// @Produce json
// @Param id path string true "Media id"
// @Success 200 {object} types.Media "Updated media record"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 403 {object} response.Response "Insufficient role"
// @Failure 404 {object} response.Response "Media not found"
// @Security BearerAuth
// @Router /media/{id}/verify [post]
func (h *MediaHandlers) ToggleVerified() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActorFromContext(r.Context())
		if !ok {
			response.WriteError(w, fmt.Errorf("%w: user not authenticated", apperr.ErrAuthentication))
			return
		}
		if !actor.IsModeration() {
			response.WriteError(w, fmt.Errorf("%w: verification requires admin or moderator role", apperr.ErrAuthorization))
			return
		}

		media, err := h.storage.ToggleMediaVerified(r.Context(), r.PathValue("id"))
		if err != nil {
			response.WriteError(w, err)
			return
		}

		h.hooks.Run(r.Context(), hooks.Named("notify-verify", func(ctx context.Context) error {
			return h.publisher.PublishMediaVerified(media.ID, media.UploadedBy.ID, actor.ID, media.Verified)
		}))

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Media verification toggled", media))
	}
}
