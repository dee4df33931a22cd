package province_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"angido/internal/repositories"
	"angido/internal/services"
)

var Module = fx.Provide(
	NewProvinceService, NewProvinceRepo)

func NewProvinceService(repo repositories.ProvinceRepository, log *zap.Logger) services.ProvinceServiceInterface {
	return services.NewProvinceService(repo, log)
}

func NewProvinceRepo(db *gorm.DB) repositories.ProvinceRepository {
	return repositories.NewProvinceRepository(db)
}
