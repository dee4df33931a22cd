package tagsfx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"angido/internal/repositories"
	"angido/internal/services"
)

var Module = fx.Provide(
	provideTagsRepo, provideTagsService)

func provideTagsRepo(db *gorm.DB) repositories.TagRepositoryInterface {
	return repositories.NewTagRepository(db)
}

func provideTagsService(tagRepo repositories.TagRepositoryInterface, log *zap.Logger) services.TagServiceInterface {
	return services.NewTagService(tagRepo, log)
}
