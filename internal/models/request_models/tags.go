package request_models

type CreateTagRequest struct {
	Vi   string `json:"vi" binding:"required"`
	En   string `json:"en" binding:"required"`
	Icon string `json:"icon" binding:"required"`
}
