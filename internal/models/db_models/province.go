package db_models

type Province struct {
	BaseModel
	Name   string  `gorm:"not null"`
	Code   string  `gorm:"uniqueIndex;size:16"`
	Places []Place `gorm:"foreignKey:ProvinceID"`
}
