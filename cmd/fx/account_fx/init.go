package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"angido/internal/repositories"
	"angido/internal/services"
	mem "angido/pkg/memcache"
	"angido/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	subRepo repositories.SubscriptionRepository,
	tokens *utils.TokenManager,
	revoked mem.RevocationStore,
	log *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, subRepo, tokens, revoked, log)
}
