package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"angido/internal/services"
	"angido/pkg/utils"
)

type ProvincesController struct {
	provinceService services.ProvinceServiceInterface
}

func NewProvincesController(provinceService services.ProvinceServiceInterface) *ProvincesController {
	return &ProvincesController{
		provinceService: provinceService,
	}
}

// GetAllProvinces godoc
// @Summary List provinces
// @Description Fetch a paginated list of provinces, optionally filtered by name
// @Tags Provinces
// @Accept json
// @Produce json
// @Param q query string false "Name contains"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /provinces [get]
func (p *ProvincesController) GetAllProvinces(c *gin.Context) {

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

	provinces, err := p.provinceService.ListProvinces(c.Request.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, provinces, "Provinces fetched successfully")
}
