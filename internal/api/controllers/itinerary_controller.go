package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"angido/internal/models/request_models"
	"angido/internal/services"
	"angido/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
}

func NewItineraryController(itineraryService services.ItineraryServiceInterface) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
	}
}

// ListMyItineraries godoc
// @Summary List my itineraries
// @Tags Itineraries
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries [get]
func (i *ItineraryController) ListMyItineraries(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	page, pageSize, ok := parsePage(c)
	if !ok {
		return
	}
	items, err := i.itineraryService.ListMyItineraries(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, items, "Fetched itineraries successfully")
}

// CreateItinerary godoc
// @Summary Create an itinerary
// @Description Creates one empty day per date in [start_date, end_date], at most 30 days
// @Tags Itineraries
// @Accept json
// @Produce json
// @Param request body request_models.CreateItineraryRequest true "Itinerary"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries [post]
func (i *ItineraryController) CreateItinerary(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.CreateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	it, err := i.itineraryService.CreateItinerary(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, it, "Itinerary created successfully")
}

// GetItinerary godoc
// @Summary Itinerary detail
// @Tags Itineraries
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id} [get]
func (i *ItineraryController) GetItinerary(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	it, err := i.itineraryService.GetItinerary(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, it, "Fetched itinerary successfully")
}

// UpdateItinerary godoc
// @Summary Update title, description or visibility
// @Tags Itineraries
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.UpdateItineraryRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id} [put]
func (i *ItineraryController) UpdateItinerary(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.UpdateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	it, err := i.itineraryService.UpdateItinerary(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, it, "Itinerary updated successfully")
}

// DeleteItinerary godoc
// @Summary Delete an itinerary
// @Tags Itineraries
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id} [delete]
func (i *ItineraryController) DeleteItinerary(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	if err := i.itineraryService.DeleteItinerary(c.Request.Context(), userID, c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Itinerary deleted successfully")
}

// AddDay godoc
// @Summary Append a day
// @Tags Itineraries
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/days [post]
func (i *ItineraryController) AddDay(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	it, err := i.itineraryService.AddDay(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, it, "Day added successfully")
}

// AddActivity godoc
// @Summary Add an activity to a day
// @Tags Itineraries
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.AddActivityRequest true "Activity"
// @Success 201 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/activities [post]
func (i *ItineraryController) AddActivity(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.AddActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	it, err := i.itineraryService.AddActivity(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, it, "Activity added successfully")
}

// UpdateActivity godoc
// @Summary Update an activity
// @Tags Itineraries
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param activityId path string true "Activity ID"
// @Param request body request_models.UpdateActivityRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/activities/{activityId} [put]
func (i *ItineraryController) UpdateActivity(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	it, err := i.itineraryService.UpdateActivity(c.Request.Context(), userID, c.Param("id"), c.Param("activityId"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, it, "Activity updated successfully")
}

// RemoveActivity godoc
// @Summary Remove an activity
// @Tags Itineraries
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param activityId path string true "Activity ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/activities/{activityId} [delete]
func (i *ItineraryController) RemoveActivity(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	if err := i.itineraryService.RemoveActivity(c.Request.Context(), userID, c.Param("id"), c.Param("activityId")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Activity removed successfully")
}
