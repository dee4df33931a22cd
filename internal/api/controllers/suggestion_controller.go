package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"angido/internal/models/request_models"
	"angido/internal/services"
	"angido/pkg/utils"
)

type SuggestionController struct {
	suggestionService services.SuggestionServiceInterface
	itineraryService  services.ItineraryServiceInterface
}

func NewSuggestionController(
	suggestionService services.SuggestionServiceInterface,
	itineraryService services.ItineraryServiceInterface,
) *SuggestionController {
	return &SuggestionController{
		suggestionService: suggestionService,
		itineraryService:  itineraryService,
	}
}

// Suggest godoc
// @Summary Generate or fetch a cached AI itinerary suggestion
// @Description Identical requests share one cached result until it expires. Cache hits do not count against the daily quota.
// @Tags AI
// @Accept json
// @Produce json
// @Param request body request_models.SuggestionRequest true "Trip parameters"
// @Success 200 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse "No candidate places"
// @Failure 429 {object} utils.APIResponse "Daily quota exceeded"
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ai/suggestions [post]
func (s *SuggestionController) Suggest(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	suggestion, err := s.suggestionService.Suggest(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if suggestion.Cached {
		utils.RespondSuccess(c, suggestion, "Served from cache")
		return
	}
	utils.RespondSuccess(c, suggestion, "Suggestion generated successfully")
}

// Quota godoc
// @Summary Today's AI quota
// @Tags AI
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ai/suggestions/quota [get]
func (s *SuggestionController) Quota(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	quota, err := s.suggestionService.Quota(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, quota, "Fetched quota successfully")
}

// GetSuggestion godoc
// @Summary Fetch a live cached suggestion
// @Tags AI
// @Produce json
// @Param id path string true "Suggestion ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ai/suggestions/{id} [get]
func (s *SuggestionController) GetSuggestion(c *gin.Context) {
	suggestion, err := s.suggestionService.GetSuggestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, suggestion, "Fetched suggestion successfully")
}

// SaveSuggestion godoc
// @Summary Save a suggestion as an itinerary
// @Tags AI
// @Accept json
// @Produce json
// @Param id path string true "Suggestion ID"
// @Param request body request_models.SaveSuggestionRequest true "Title and first day"
// @Success 201 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ai/suggestions/{id}/save [post]
func (s *SuggestionController) SaveSuggestion(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.SaveSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	it, err := s.itineraryService.CreateFromSuggestion(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, it, "Itinerary saved successfully")
}

// CacheStats godoc
// @Summary AI suggestion cache statistics (admin)
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/ai/cache/stats [get]
func (s *SuggestionController) CacheStats(c *gin.Context) {
	stats, err := s.suggestionService.CacheStats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, stats, "Fetched cache stats successfully")
}

// PurgeCache godoc
// @Summary Drop every cached AI suggestion (admin)
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/ai/cache [delete]
func (s *SuggestionController) PurgeCache(c *gin.Context) {
	n, err := s.suggestionService.PurgeAll(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"deleted": n}, "Cache purged successfully")
}
