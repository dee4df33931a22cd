package itinerary_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"angido/internal/repositories"
	"angido/internal/services"
)

var Module = fx.Provide(provideItineraryRepo, provideItineraryService)

func provideItineraryRepo(db *gorm.DB) repositories.ItineraryRepository {
	return repositories.NewItineraryRepository(db)
}

func provideItineraryService(
	itineraryRepo repositories.ItineraryRepository,
	placeRepo repositories.PlaceRepository,
	suggestionRepo repositories.SuggestionRepository,
	log *zap.Logger,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(itineraryRepo, placeRepo, suggestionRepo, log)
}
