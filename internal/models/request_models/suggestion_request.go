package request_models

type SuggestionRequest struct {
	ProvinceID        string   `json:"province_id" binding:"omitempty,uuid"`
	City              string   `json:"city" binding:"max=100"`
	Days              int      `json:"days" binding:"required,min=1,max=7"`
	People            int      `json:"people" binding:"required,min=1,max=50"`
	Budget            string   `json:"budget" binding:"omitempty,oneof=low medium high"`
	MaxPricePerPerson *int64   `json:"max_price_per_person" binding:"omitempty,min=0"`
	Categories        []string `json:"categories" binding:"omitempty,dive,oneof=restaurant cafe bar street_food dessert other"`
	Preferences       []string `json:"preferences" binding:"omitempty,max=20,dive,max=50"`
	Lang              string   `json:"lang" binding:"omitempty,oneof=vi en"`
	Note              string   `json:"note" binding:"max=500"`
}
