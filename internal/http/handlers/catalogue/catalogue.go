package catalogue

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Tyno1/bitescout-api/internal/http/middleware"
	"github.com/Tyno1/bitescout-api/internal/storage"
	"github.com/Tyno1/bitescout-api/internal/utils/apperr"
	"github.com/Tyno1/bitescout-api/internal/utils/response"
)

type CreateFoodRequest struct {
	Name    string `json:"name" validate:"required"`
	Cuisine string `json:"cuisine"`
	Course  string `json:"course"`
}

// Create handles food catalogue entry creation
// @Summary Create a food catalogue entry
// @Tags catalogue
// @Accept json
// @Produce json
// @Param food body CreateFoodRequest true "Food details"
// @Success 201 {object} types.FoodCatalogue "Entry created"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /foods [post]
func Create(st storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := middleware.GetActorFromContext(r.Context())
		if !ok {
			response.WriteError(w, fmt.Errorf("%w: user not authenticated", apperr.ErrAuthentication))
			return
		}

		var req CreateFoodRequest
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

		food, err := st.CreateFoodCatalogue(r.Context(), req.Name, req.Cuisine, req.Course)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Food catalogue entry created", food))
	}
}

// Get retrieves a food catalogue entry with analytics
// @Summary Get a food catalogue entry
// @Tags catalogue
// @Produce json
// @Param id path string true "Food catalogue id"
// @Success 200 {object} types.FoodCatalogue "Entry with analytics"
// @Failure 404 {object} response.Response "Entry not found"
// @Router /foods/{id} [get]
func Get(st storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		food, err := st.GetFoodCatalogueByID(r.Context(), r.PathValue("id"))
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Food catalogue entry retrieved", food))
	}
}
