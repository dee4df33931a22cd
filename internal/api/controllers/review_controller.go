package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"angido/internal/models/request_models"
	"angido/internal/services"
	"angido/pkg/utils"
)

type ReviewController struct {
	reviewService services.ReviewServiceInterface
}

func NewReviewController(reviewService services.ReviewServiceInterface) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// ListPlaceReviews godoc
// @Summary Reviews of a place, newest first
// @Tags Reviews
// @Produce json
// @Param id path string true "Place ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /places/{id}/reviews [get]
func (r *ReviewController) ListPlaceReviews(c *gin.Context) {
	page, pageSize, ok := parsePage(c)
	if !ok {
		return
	}
	reviews, err := r.reviewService.ListPlaceReviews(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, reviews, "Fetched reviews successfully")
}

// CreateReview godoc
// @Summary Review a place
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Place ID"
// @Param request body request_models.CreateReviewRequest true "Review"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse "Already reviewed"
// @Security BearerAuth
// @Router /places/{id}/reviews [post]
func (r *ReviewController) CreateReview(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	review, err := r.reviewService.CreateReview(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, review, "Review created successfully")
}

// ListMyReviews godoc
// @Summary Reviews written by the caller
// @Tags Reviews
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /reviews/me [get]
func (r *ReviewController) ListMyReviews(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	page, pageSize, ok := parsePage(c)
	if !ok {
		return
	}
	reviews, err := r.reviewService.ListMyReviews(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, reviews, "Fetched reviews successfully")
}

// UpdateReview godoc
// @Summary Edit own review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param request body request_models.UpdateReviewRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /reviews/{id} [put]
func (r *ReviewController) UpdateReview(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	review, err := r.reviewService.UpdateReview(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, review, "Review updated successfully")
}

// DeleteReview godoc
// @Summary Delete a review (owner or admin)
// @Tags Reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /reviews/{id} [delete]
func (r *ReviewController) DeleteReview(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	if err := r.reviewService.DeleteReview(c.Request.Context(), userID, role, c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Review deleted successfully")
}
