package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"angido/internal/models/request_models"
	"angido/internal/services"
	"angido/pkg/utils"
)

type PlaceController struct {
	placeService services.PlaceServiceInterface
}

func NewPlaceController(placeService services.PlaceServiceInterface) *PlaceController {
	return &PlaceController{
		placeService: placeService,
	}
}

func (p *PlaceController) list(c *gin.Context, includeHidden bool) {
	var filter request_models.PlaceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = defaultPageSize
	}
	filter.IncludeHidden = includeHidden

	places, err := p.placeService.ListPlaces(c.Request.Context(), filter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, places, "Fetched places successfully")
}

// ListPlaces godoc
// @Summary List places
// @Description Filter by keyword, category, province, price, rating and tag
// @Tags Places
// @Produce json
// @Param q query string false "Name or address contains"
// @Param category query string false "restaurant | cafe | bar | street_food | dessert | other"
// @Param province_id query string false "Province ID"
// @Param min_price query int false "Min price (VND)"
// @Param max_price query int false "Max price (VND)"
// @Param min_rating query number false "Min average rating"
// @Param tag_id query string false "Tag ID"
// @Param sort query string false "rating | newest | price_asc | price_desc"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /places [get]
func (p *PlaceController) ListPlaces(c *gin.Context) {
	p.list(c, false)
}

// AdminListPlaces godoc
// @Summary List places including hidden ones (admin)
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/places [get]
func (p *PlaceController) AdminListPlaces(c *gin.Context) {
	p.list(c, true)
}

// NearbyPlaces godoc
// @Summary Places near a coordinate
// @Tags Places
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius_km query number false "Radius in km (default 2)"
// @Param limit query int false "Max results (default 20)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /places/nearby [get]
func (p *PlaceController) NearbyPlaces(c *gin.Context) {
	if c.Query("lat") == "" || c.Query("lng") == "" {
		utils.RespondError(c, http.StatusBadRequest, "lat and lng are required")
		return
	}
	var q request_models.NearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	places, err := p.placeService.NearbyPlaces(c.Request.Context(), q)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, places, "Fetched nearby places successfully")
}

// SearchPlaces godoc
// @Summary Semantic place search
// @Tags Places
// @Produce json
// @Param q query string true "Free text, e.g. 'bún chả gần hồ'"
// @Param limit query int false "Max results (default 10)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /places/search [get]
func (p *PlaceController) SearchPlaces(c *gin.Context) {
	var q request_models.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	places, err := p.placeService.SemanticSearch(c.Request.Context(), q.Q, q.Limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, places, "Search completed successfully")
}

// GetPlace godoc
// @Summary Place detail
// @Tags Places
// @Produce json
// @Param id path string true "Place ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /places/{id} [get]
func (p *PlaceController) GetPlace(c *gin.Context) {
	place, err := p.placeService.GetPlace(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, place, "Fetched place successfully")
}

// CreatePlace godoc
// @Summary Create a place (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request_models.CreatePlaceRequest true "Place"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/places [post]
func (p *PlaceController) CreatePlace(c *gin.Context) {
	var req request_models.CreatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	place, err := p.placeService.CreatePlace(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, place, "Place created successfully")
}

// UpdatePlace godoc
// @Summary Update a place (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Place ID"
// @Param request body request_models.UpdatePlaceRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/places/{id} [put]
func (p *PlaceController) UpdatePlace(c *gin.Context) {
	var req request_models.UpdatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	place, err := p.placeService.UpdatePlace(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, place, "Place updated successfully")
}

// DeletePlace godoc
// @Summary Delete a place (admin)
// @Tags Admin
// @Produce json
// @Param id path string true "Place ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/places/{id} [delete]
func (p *PlaceController) DeletePlace(c *gin.Context) {
	if err := p.placeService.DeletePlace(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Place deleted successfully")
}
