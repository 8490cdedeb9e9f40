package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Tyno1/bitescout-api/internal/events"
	"github.com/Tyno1/bitescout-api/internal/hooks"
	"github.com/Tyno1/bitescout-api/internal/http/middleware"
	"github.com/Tyno1/bitescout-api/internal/services/analytics"
	"github.com/Tyno1/bitescout-api/internal/storage"
	"github.com/Tyno1/bitescout-api/internal/types"
	"github.com/Tyno1/bitescout-api/internal/utils/apperr"
	"github.com/Tyno1/bitescout-api/internal/utils/response"
)

type PostHandlers struct {
	storage    storage.Storage
	recomputer analytics.Recomputer
	hooks      *hooks.Runner
	publisher  events.Publisher
}

func NewPostHandlers(st storage.Storage, recomputer analytics.Recomputer, runner *hooks.Runner, publisher events.Publisher) *PostHandlers {
	return &PostHandlers{
		storage:    st,
		recomputer: recomputer,
		hooks:      runner,
		publisher:  publisher,
	}
}

// Create handles post creation
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param post body types.CreatePostRequest true "Post details"
// @Success 201 {object} types.Post "Post created"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /posts [post]
func (h *PostHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActorFromContext(r.Context())
		if !ok {
			response.WriteError(w, fmt.Errorf("%w: user not authenticated", apperr.ErrAuthentication))
			return
		}

		var req types.CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid request body")))
			return
		}

		post, err := h.storage.CreatePost(r.Context(), actor.ID, req)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Post created successfully", post))
	}
}

// Get retrieves a post with tags populated
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} types.Post "Post"
// @Failure 404 {object} response.Response "Post not found"
// @Router /posts/{id} [get]
func (h *PostHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.storage.GetPostByID(r.Context(), r.PathValue("id"))
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Post retrieved successfully", post))
	}
}

// ToggleLike flips the actor's like on a post
// @Summary Toggle a like on a post
// @Tags posts
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} map[string]bool "Like state"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 404 {object} response.Response "Post not found"
// @Security BearerAuth
// @Router /posts/{id}/like [post]
func (h *PostHandlers) ToggleLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActorFromContext(r.Context())
		if !ok {
			response.WriteError(w, fmt.Errorf("%w: user not authenticated", apperr.ErrAuthentication))
			return
		}

		post, err := h.storage.GetPostByID(r.Context(), r.PathValue("id"))
		if err != nil {
			response.WriteError(w, err)
			return
		}

		liked, err := h.storage.TogglePostLike(r.Context(), post.ID, actor.ID)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		if liked {
			h.hooks.Run(r.Context(), hooks.Named("notify-like", func(ctx context.Context) error {
				return h.publisher.PublishPostLiked(post.ID, post.UserID, actor.ID)
			}))
		}

		// Likes feed the trending score of every food the post tags.
		h.recomputeHooks(r, post.TaggedFoods)

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Like toggled", map[string]bool{"liked": liked}))
	}
}

// recomputeHooks schedules best-effort analytics recomputation for each
// affected food id. Recompute failure never fails the post mutation.
func (h *PostHandlers) recomputeHooks(r *http.Request, tags []types.TaggedFood) {
	for _, tag := range tags {
		foodID := tag.FoodCatalogueID
		h.hooks.Run(r.Context(), hooks.Named("recompute-analytics", func(ctx context.Context) error {
			return h.recomputer.Recompute(ctx, foodID)
		}))
	}
}

// TagFood adds or updates a food tag on a post
// @Summary Tag a food on a post
// @Description Find-or-create-then-update of the tag entry for the food id; owner only
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post id"
// @Param tag body types.TagFoodRequest true "Tag details"
// @Success 200 {object} types.Post "Updated post"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 403 {object} response.Response "Not the owner"
// @Failure 404 {object} response.Response "Post not found"
// @Security BearerAuth
// @Router /posts/{id}/tag [post]
func (h *PostHandlers) TagFood() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActorFromContext(r.Context())
		if !ok {
			response.WriteError(w, fmt.Errorf("%w: user not authenticated", apperr.ErrAuthentication))
			return
		}

		var req types.TagFoodRequest
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
		if !req.TagType.Valid() {
			response.WriteError(w, fmt.Errorf("%w: invalid tag type %q", apperr.ErrValidation, req.TagType))
			return
		}

		post, err := h.storage.GetPostByID(r.Context(), r.PathValue("id"))
		if err != nil {
			response.WriteError(w, err)
			return
		}
		if post.UserID != actor.ID {
			response.WriteError(w, fmt.Errorf("%w: only the post owner may tag foods", apperr.ErrAuthorization))
			return
		}

		tag := types.TaggedFood{
			FoodCatalogueID: req.FoodCatalogueID,
			TagType:         req.TagType,
			Rating:          req.Rating,
			Review:          req.Review,
			TaggedAt:        time.Now().UTC(),
		}
		if err := h.storage.UpsertFoodTag(r.Context(), post.ID, tag); err != nil {
			response.WriteError(w, err)
			return
		}

		h.recomputeHooks(r, []types.TaggedFood{tag})

		updated, err := h.storage.GetPostByID(r.Context(), post.ID)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Food tagged successfully", updated))
	}
}

// UntagFood removes a food tag from a post
// @Summary Remove a food tag from a post
// @Tags posts
// @Produce json
// @Param id path string true "Post id"
// @Param food_id path string true "Food catalogue id"
// @Success 200 {object} types.Post "Updated post"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 403 {object} response.Response "Not the owner"
// @Failure 404 {object} response.Response "Post or tag not found"
// @Security BearerAuth
// @Router /posts/{id}/tag/{food_id} [delete]
func (h *PostHandlers) UntagFood() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActorFromContext(r.Context())
		if !ok {
			response.WriteError(w, fmt.Errorf("%w: user not authenticated", apperr.ErrAuthentication))
			return
		}

		post, err := h.storage.GetPostByID(r.Context(), r.PathValue("id"))
		if err != nil {
			response.WriteError(w, err)
			return
		}
		if post.UserID != actor.ID {
			response.WriteError(w, fmt.Errorf("%w: only the post owner may remove tags", apperr.ErrAuthorization))
			return
		}

		foodID := r.PathValue("food_id")
		if err := h.storage.RemoveFoodTag(r.Context(), post.ID, foodID); err != nil {
			response.WriteError(w, err)
			return
		}

		h.recomputeHooks(r, []types.TaggedFood{{FoodCatalogueID: foodID}})

		updated, err := h.storage.GetPostByID(r.Context(), post.ID)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Food tag removed", updated))
	}
}
