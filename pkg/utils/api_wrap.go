package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type PagedData struct {
	Items    interface{} `json:"items"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Total    int64       `json:"total"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusCreated, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// errorStatus maps service sentinels to the HTTP status and public message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, "Invalid request data"
	case errors.Is(err, ErrInvalidPage):
		return http.StatusBadRequest, "Page must be greater than 0"
	case errors.Is(err, ErrInvalidPageSize):
		return http.StatusBadRequest, "Page size must be between 1 and 100"
	case errors.Is(err, ErrItineraryTooLong):
		return http.StatusBadRequest, "Itinerary cannot span more than 30 days"
	case errors.Is(err, ErrPlanNotBillable):
		return http.StatusBadRequest, "Plan is not billable"

	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "Forbidden: insufficient permissions"
	case errors.Is(err, ErrAccountBanned):
		return http.StatusForbidden, "Account is banned"

	case errors.Is(err, ErrAccountNotFound):
		return http.StatusNotFound, "Account not found"
	case errors.Is(err, ErrPlaceNotFound):
		return http.StatusNotFound, "Place not found"
	case errors.Is(err, ErrTagNotFound):
		return http.StatusNotFound, "Tag not found"
	case errors.Is(err, ErrReviewNotFound):
		return http.StatusNotFound, "Review not found"
	case errors.Is(err, ErrItineraryNotFound):
		return http.StatusNotFound, "Itinerary not found"
	case errors.Is(err, ErrDayNotFound):
		return http.StatusNotFound, "Itinerary day not found"
	case errors.Is(err, ErrActivityNotFound):
		return http.StatusNotFound, "Activity not found"
	case errors.Is(err, ErrSuggestionNotFound):
		return http.StatusNotFound, "Suggestion not found"
	case errors.Is(err, ErrPlanNotFound):
		return http.StatusNotFound, "Plan not found"
	case errors.Is(err, ErrSubscriptionNotFound):
		return http.StatusNotFound, "No active subscription"
	case errors.Is(err, ErrTransactionNotFound):
		return http.StatusNotFound, "Transaction not found"

	case errors.Is(err, ErrEmailAlreadyExists):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, ErrTagAlreadyExists):
		return http.StatusConflict, "Tag already exists"
	case errors.Is(err, ErrReviewAlreadyExists):
		return http.StatusConflict, "You have already reviewed this place"
	case errors.Is(err, ErrTransactionNotPending):
		return http.StatusConflict, "Transaction is not pending"

	case errors.Is(err, ErrNoCandidatePlaces):
		return http.StatusUnprocessableEntity, "No places match the request"
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusTooManyRequests, "Daily AI suggestion quota exceeded"
	case errors.Is(err, ErrUnexpectedBehaviorOfAI):
		return http.StatusBadGateway, "AI provider returned an unusable answer"
	case errors.Is(err, ErrAIUnavailable):
		return http.StatusServiceUnavailable, "AI suggestions are not available"
	}
	return http.StatusInternalServerError, "Internal server error"
}

func HandleServiceError(c *gin.Context, err error) {
	code, message := errorStatus(err)
	if code >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("trace_id", c.GetString("trace_id")),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	RespondError(c, code, message)
}
