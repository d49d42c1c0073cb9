package handler

import (
	"go-account-api/common"
	"go-account-api/model"
	"go-account-api/service"
	"net/http"
	"strconv"
)

type GeoHandler struct {
	service *service.GeoService
}

func NewGeoHandler(service *service.GeoService) *GeoHandler {
	return &GeoHandler{service: service}
}

// CreateGender godoc
// @Summary      Create a gender option
// @Tags         geo
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body model.CreateGenderRequest true "Gender"
// @Success      201 {object} model.Gender
// @Failure      400 {object} common.AppError
// @Router       /genders [post]
func (h *GeoHandler) CreateGender(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateGenderRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	gender, err := h.service.CreateGender(r.Context(), req.Name)
	if err != nil {
		return common.Wrap(err, "Could not create gender")
	}

	writeJSON(w, http.StatusCreated, gender)
	return nil
}

// ListGenders godoc
// @Summary      List gender options
// @Tags         geo
// @Produce      json
// @Param        page  query int false "Page number"
// @Param        limit query int false "Page size"
// @Success      200 {array} model.Gender
// @Router       /genders [get]
func (h *GeoHandler) ListGenders(w http.ResponseWriter, r *http.Request) *common.AppError {
	pageStr := r.URL.Query().Get("page")
	limitStr := r.URL.Query().Get("limit")

	var (
		genders []*model.Gender
		err     error
	)
	if pageStr == "" && limitStr == "" {
		genders, err = h.service.ListAllGenders(r.Context())
	} else {
		page, _ := strconv.Atoi(pageStr)
		limit, _ := strconv.Atoi(limitStr)
		genders, err = h.service.ListGendersPaginated(r.Context(), page, limit)
	}
	if err != nil {
		return common.Wrap(err, "Could not retrieve genders")
	}

	writeJSON(w, http.StatusOK, genders)
	return nil
}

// ListStates godoc
// @Summary      List states
// @Tags         geo
// @Produce      json
// @Success      200 {array} model.State
// @Router       /states [get]
func (h *GeoHandler) ListStates(w http.ResponseWriter, r *http.Request) *common.AppError {
	states, err := h.service.ListAllStates(r.Context())
	if err != nil {
		return common.Wrap(err, "Could not retrieve states")
	}

	writeJSON(w, http.StatusOK, states)
	return nil
}

// CreateCity godoc
// @Summary      Create a city under a state
// @Tags         geo
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body model.CreateCityRequest true "City"
// @Success      201 {object} model.City
// @Router       /cities [post]
func (h *GeoHandler) CreateCity(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateCityRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	city, err := h.service.CreateCity(r.Context(), req.StateID, req.Name)
	if err != nil {
		return common.Wrap(err, "Could not create city")
	}

	writeJSON(w, http.StatusCreated, city)
	return nil
}

// ListCitiesByState godoc
// @Summary      List the cities of a state
// @Tags         geo
// @Produce      json
// @Param        id path int true "State id"
// @Success      200 {array} model.City
// @Router       /states/{id}/cities [get]
func (h *GeoHandler) ListCitiesByState(w http.ResponseWriter, r *http.Request) *common.AppError {
	stateID, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	cities, err := h.service.ListCitiesByState(r.Context(), stateID)
	if err != nil {
		return common.Wrap(err, "Could not retrieve cities")
	}

	writeJSON(w, http.StatusOK, cities)
	return nil
}
