package subscription_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"angido/internal/config"
	"angido/internal/repositories"
	"angido/internal/services"
	mem "angido/pkg/memcache"
)

var Module = fx.Provide(
	providePlanRepo,
	provideSubscriptionRepo,
	provideSubscriptionService,
	provideQuotaPolicy,
)

func providePlanRepo(db *gorm.DB) repositories.IPlanRepository {
	return repositories.NewPlanRepository(db)
}

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideSubscriptionService(
	planRepo repositories.IPlanRepository,
	subRepo repositories.SubscriptionRepository,
	cache *mem.Store,
	cfg *config.Config,
	log *zap.Logger,
) services.SubscriptionServiceInterface {
	return services.NewSubscriptionService(planRepo, subRepo, cache, cfg, log)
}

// The daily AI quota comes from the caller's plan.
func provideQuotaPolicy(subs services.SubscriptionServiceInterface) services.QuotaPolicy {
	return subs
}
