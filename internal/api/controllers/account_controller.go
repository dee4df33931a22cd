package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"angido/internal/models/request_models"
	"angido/internal/services"
	"angido/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{
		accountService: accountService,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a new user account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Account registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /accounts/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	account, err := a.accountService.CreateAccount(req, c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, account, "Account created successfully")
}

// Login godoc
// @Summary Login to an account
// @Description Authenticate a user and return a token
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /accounts/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, err := a.accountService.Login(req, c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, token, "Login successful")
}

// Logout godoc
// @Summary Logout
// @Description Revoke the bearer token until it expires
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /accounts/logout [post]
func (a *AccountController) Logout(c *gin.Context) {
	tokenID, expiresAt := tokenInfo(c)
	if err := a.accountService.Logout(c.Request.Context(), tokenID, expiresAt); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Logged out")
}

// Me godoc
// @Summary Current profile
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /accounts/me [get]
func (a *AccountController) Me(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	profile, err := a.accountService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, profile, "Fetched profile successfully")
}

// UpdateMe godoc
// @Summary Update profile
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /accounts/me [put]
func (a *AccountController) UpdateMe(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	profile, err := a.accountService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, profile, "Profile updated successfully")
}

// ChangePassword godoc
// @Summary Change password
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /accounts/me/password [put]
func (a *AccountController) ChangePassword(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := a.accountService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Password changed successfully")
}

// ListAccounts godoc
// @Summary List accounts (admin)
// @Tags Admin
// @Produce json
// @Param q query string false "Name or email contains"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/accounts [get]
func (a *AccountController) ListAccounts(c *gin.Context) {
	page, pageSize, ok := parsePage(c)
	if !ok {
		return
	}
	accounts, err := a.accountService.ListAccounts(c.Request.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, accounts, "Fetched accounts successfully")
}

// SetRole godoc
// @Summary Change an account role (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body request_models.SetRoleRequest true "Role"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/accounts/{id}/role [put]
func (a *AccountController) SetRole(c *gin.Context) {
	actorID, _, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := a.accountService.SetRole(c.Request.Context(), actorID, c.Param("id"), req.Role); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Role updated successfully")
}

// SetStatus godoc
// @Summary Ban or reactivate an account (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body request_models.SetStatusRequest true "Status"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/accounts/{id}/status [put]
func (a *AccountController) SetStatus(c *gin.Context) {
	actorID, _, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := a.accountService.SetStatus(c.Request.Context(), actorID, c.Param("id"), req.Status); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Status updated successfully")
}
