package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"angido/internal/models/request_models"
	"angido/internal/services"
	"angido/pkg/utils"
)

type TagController struct {
	tagService services.TagServiceInterface
}

func NewTagController(tagService services.TagServiceInterface) *TagController {
	return &TagController{
		tagService: tagService,
	}
}

// ListAllTagsHandler godoc
// @Summary List tags
// @Tags Tags
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /tags [get]
func (tc *TagController) ListAllTagsHandler(c *gin.Context) {
	// 1. Parse query parameters
	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("pageSize", "20")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > utils.MaxPageSize {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return
	}

	// 2. Call service layer
	tags, err := tc.tagService.GetAllTags(page, pageSize, c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	// 3. Respond with success
	utils.RespondSuccess(c, tags, "Fetched tags successfully")
}

// CreateTagHandler godoc
// @Summary Create a tag (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request_models.CreateTagRequest true "Tag names and icon"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/tags [post]
func (tc *TagController) CreateTagHandler(c *gin.Context) {
	var req request_models.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	tag, err := tc.tagService.CreateTag(req, c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, tag, "Tag created successfully")
}
