package db_models

type Tag struct {
	BaseModel
	EnName string  `gorm:"uniqueIndex"`
	ViName string  `gorm:"uniqueIndex"`
	Icon   string
	Places []Place `gorm:"many2many:place_tags"`
}
