package response_models

type ReviewAuthor struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type ReviewResponse struct {
	ID        string       `json:"id"`
	PlaceID   string       `json:"place_id"`
	PlaceName string       `json:"place_name,omitempty"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment"`
	Images    []string     `json:"images"`
	Author    ReviewAuthor `json:"author"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}
