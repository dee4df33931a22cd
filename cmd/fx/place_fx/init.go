package place_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"angido/internal/config"
	"angido/internal/repositories"
	"angido/internal/services"
	mem "angido/pkg/memcache"
	"angido/pkg/utils"
)

var Module = fx.Provide(
	providePlaceRepo,
	provideEmbeddingRepo,
	provideEmbedder,
	providePlaceService,
	provideReviewRepo,
	provideReviewService,
)

func providePlaceRepo(db *gorm.DB) repositories.PlaceRepository {
	return repositories.NewPlaceRepository(db)
}

func provideEmbeddingRepo(db *gorm.DB) repositories.IPlaceEmbeddingRepository {
	return repositories.NewPlaceEmbeddingRepository(db)
}

func provideEmbedder(cfg *config.Config, log *zap.Logger) (utils.EmbeddingClientInterface, error) {
	embedder, err := utils.NewEmbeddingClient(cfg.EmbeddingProvider, cfg.OpenAIAPIKey, cfg.OpenAIEmbeddingModel)
	if err != nil {
		return nil, err
	}
	log.Info("embedding client ready", zap.String("provider", cfg.EmbeddingProvider))
	return embedder, nil
}

func providePlaceService(
	placeRepo repositories.PlaceRepository,
	tagRepo repositories.TagRepositoryInterface,
	provinceRepo repositories.ProvinceRepository,
	embeddingRepo repositories.IPlaceEmbeddingRepository,
	embedder utils.EmbeddingClientInterface,
	cache *mem.Store,
	log *zap.Logger,
) services.PlaceServiceInterface {
	return services.NewPlaceService(placeRepo, tagRepo, provinceRepo, embeddingRepo, embedder, cache, log)
}

func provideReviewRepo(db *gorm.DB) repositories.ReviewRepository {
	return repositories.NewReviewRepository(db)
}

func provideReviewService(
	reviewRepo repositories.ReviewRepository,
	placeRepo repositories.PlaceRepository,
	places services.PlaceServiceInterface,
	log *zap.Logger,
) services.ReviewServiceInterface {
	return services.NewReviewService(reviewRepo, placeRepo, places, log)
}
