package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"angido/internal/models/request_models"
	"angido/internal/services"
	"angido/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionServiceInterface
}

func NewSubscriptionController(subscriptionService services.SubscriptionServiceInterface) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
	}
}

// ListPlans godoc
// @Summary List active subscription plans
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /plans [get]
func (s *SubscriptionController) ListPlans(c *gin.Context) {
	plans, err := s.subscriptionService.ListPlans(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plans, "Fetched plans successfully")
}

// GetMySubscription godoc
// @Summary Current subscription of the caller
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/me [get]
func (s *SubscriptionController) GetMySubscription(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	sub, err := s.subscriptionService.GetMySubscription(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, sub, "Fetched subscription successfully")
}

// Checkout godoc
// @Summary Start a subscription checkout
// @Description Creates a pending transaction. An admin confirms it once the transfer with the returned reference arrives.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.CheckoutRequest true "Plan"
// @Success 201 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/checkout [post]
func (s *SubscriptionController) Checkout(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	out, err := s.subscriptionService.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, out, "Checkout created successfully")
}

// CancelSubscription godoc
// @Summary Cancel at period end
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/cancel [post]
func (s *SubscriptionController) CancelSubscription(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	sub, err := s.subscriptionService.CancelSubscription(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, sub, "Subscription canceled successfully")
}

// UpsertPlan godoc
// @Summary Create or update a plan by code (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request_models.UpsertPlanRequest true "Plan"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/plans [post]
func (s *SubscriptionController) UpsertPlan(c *gin.Context) {
	var req request_models.UpsertPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	plan, err := s.subscriptionService.UpsertPlan(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plan, "Plan saved successfully")
}

// ListTransactions godoc
// @Summary List payment transactions (admin)
// @Tags Admin
// @Produce json
// @Param status query string false "pending | paid | failed"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/transactions [get]
func (s *SubscriptionController) ListTransactions(c *gin.Context) {
	page, pageSize, ok := parsePage(c)
	if !ok {
		return
	}
	txns, err := s.subscriptionService.ListTransactions(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, txns, "Fetched transactions successfully")
}

// ConfirmTransaction godoc
// @Summary Mark a pending transaction paid and activate the subscription (admin)
// @Tags Admin
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse "Not pending"
// @Security BearerAuth
// @Router /admin/transactions/{id}/confirm [post]
func (s *SubscriptionController) ConfirmTransaction(c *gin.Context) {
	sub, err := s.subscriptionService.ConfirmTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, sub, "Transaction confirmed successfully")
}

// FailTransaction godoc
// @Summary Mark a pending transaction failed (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body request_models.FailTransactionRequest false "Reason"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/transactions/{id}/fail [post]
func (s *SubscriptionController) FailTransaction(c *gin.Context) {
	var req request_models.FailTransactionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}
	if err := s.subscriptionService.FailTransaction(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Transaction marked failed")
}
