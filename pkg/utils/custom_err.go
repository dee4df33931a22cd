package utils

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")

	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrAccountBanned      = errors.New("account is banned")

	ErrPlaceNotFound       = errors.New("place not found")
	ErrTagNotFound         = errors.New("tag not found")
	ErrTagAlreadyExists    = errors.New("tag already exists")
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists")

	ErrItineraryNotFound = errors.New("itinerary not found")
	ErrDayNotFound       = errors.New("itinerary day not found")
	ErrActivityNotFound  = errors.New("activity not found")
	ErrItineraryTooLong  = errors.New("itinerary too long")

	ErrSuggestionNotFound     = errors.New("suggestion not found")
	ErrQuotaExceeded          = errors.New("ai suggestion quota exceeded")
	ErrNoCandidatePlaces      = errors.New("no places match the request")
	ErrUnexpectedBehaviorOfAI = errors.New("unexpected behavior of ai")
	ErrAIUnavailable          = errors.New("ai provider not configured")

	ErrPlanNotFound          = errors.New("plan not found")
	ErrSubscriptionNotFound  = errors.New("subscription not found")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrTransactionNotPending = errors.New("transaction is not pending")
	ErrPlanNotBillable       = errors.New("plan is not billable")
)
