package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const MaxPageSize = 100

func ValidatePage(page, pageSize int) error {
	if page < 1 {
		return ErrInvalidPage
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return ErrInvalidPageSize
	}
	return nil
}

func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// ParsePage reads page/pageSize query params with the given default page size.
func ParsePage(c *gin.Context, defaultPageSize int) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 0, 0, ErrInvalidPage
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if err != nil {
		return 0, 0, ErrInvalidPageSize
	}
	if err := ValidatePage(page, pageSize); err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}
