package response_models

type TagResponse struct {
	ID     string `json:"id"`
	EnName string `json:"en_name"`
	ViName string `json:"vi_name"`
	Icon   string `json:"icon"`
}

type ProvinceResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// PlaceSummary is the list/card shape.
type PlaceSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Category    string   `json:"category"`
	Address     string   `json:"address"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	MinPrice    int64    `json:"min_price"`
	MaxPrice    int64    `json:"max_price"`
	PriceLevel  int      `json:"price_level"`
	AvgRating   float64  `json:"avg_rating"`
	ReviewCount int64    `json:"review_count"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type PlaceResponse struct {
	PlaceSummary
	Description  string            `json:"description"`
	Province     *ProvinceResponse `json:"province,omitempty"`
	OpeningHours []string          `json:"opening_hours"`
	Phone        string            `json:"phone,omitempty"`
	Website      string            `json:"website,omitempty"`
	Images       []string          `json:"images"`
	TagDetails   []TagResponse     `json:"tag_details"`
	Status       string            `json:"status"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at"`
}

type NearbyPlace struct {
	PlaceSummary
	DistanceMeters int `json:"distance_meters"`
}

type SearchPlace struct {
	PlaceSummary
	Score float64 `json:"score"`
}
