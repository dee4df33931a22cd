package suggestion_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"angido/internal/config"
	"angido/internal/repositories"
	"angido/internal/services"
	"angido/pkg/utils"
)

var Module = fx.Options(
	fx.Provide(
		provideSuggestionRepo,
		provideGenerator,
		provideSuggestionService,
		provideJanitor,
	),
	fx.Invoke(runJanitor),
)

func provideSuggestionRepo(db *gorm.DB) repositories.SuggestionRepository {
	return repositories.NewSuggestionRepository(db)
}

// provideGenerator returns a nil generator when GEMINI_API_KEY is unset.
// Cached suggestions are still served; new ones fail with 503.
func provideGenerator(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (utils.TextGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY not set, AI generation disabled")
		return nil, nil
	}

	client, err := utils.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func provideSuggestionService(
	suggestionRepo repositories.SuggestionRepository,
	placeRepo repositories.PlaceRepository,
	embeddingRepo repositories.IPlaceEmbeddingRepository,
	embedder utils.EmbeddingClientInterface,
	generator utils.TextGenerator,
	quota services.QuotaPolicy,
	cfg *config.Config,
	log *zap.Logger,
) services.SuggestionServiceInterface {
	return services.NewSuggestionService(
		suggestionRepo, placeRepo, embeddingRepo, embedder, generator, quota, cfg.AICacheTTL, log,
	)
}

func provideJanitor(
	suggestions services.SuggestionServiceInterface,
	subscriptions services.SubscriptionServiceInterface,
	cfg *config.Config,
	log *zap.Logger,
) *services.Janitor {
	return services.NewJanitor(suggestions, subscriptions, cfg.AICachePurgeInterval, log)
}

func runJanitor(lc fx.Lifecycle, janitor *services.Janitor) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				janitor.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
