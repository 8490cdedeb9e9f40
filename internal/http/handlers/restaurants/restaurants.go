package restaurants

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

type CreateRestaurantRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

// Create handles restaurant creation
// @Summary Create a restaurant
// @Tags restaurants
// @Accept json
// @Produce json
// @Param restaurant body CreateRestaurantRequest true "Restaurant details"
// @Success 201 {object} types.Restaurant "Restaurant created"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /restaurants [post]
func Create(st storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := middleware.GetActorFromContext(r.Context())
		if !ok {
			response.WriteError(w, fmt.Errorf("%w: user not authenticated", apperr.ErrAuthentication))
			return
		}

		var req CreateRestaurantRequest
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

		restaurant, err := st.CreateRestaurant(r.Context(), req.Name, req.Address)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Restaurant created successfully", restaurant))
	}
}

// Get retrieves a restaurant with its gallery
// @Summary Get a restaurant
// @Tags restaurants
// @Produce json
// @Param id path string true "Restaurant id"
// @Success 200 {object} types.Restaurant "Restaurant"
// @Failure 404 {object} response.Response "Restaurant not found"
// @Router /restaurants/{id} [get]
func Get(st storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurant, err := st.GetRestaurantByID(r.Context(), r.PathValue("id"))
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Restaurant retrieved successfully", restaurant))
	}
}
