package request_models

type CreateReviewRequest struct {
	Rating  int      `json:"rating" binding:"required,min=1,max=5"`
	Comment string   `json:"comment" binding:"max=2000"`
	Images  []string `json:"images" binding:"max=10,dive,url"`
}

type UpdateReviewRequest struct {
	Rating  *int     `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string  `json:"comment" binding:"omitempty,max=2000"`
	Images  []string `json:"images" binding:"omitempty,max=10,dive,url"`
}
