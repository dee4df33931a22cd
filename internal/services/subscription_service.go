package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"angido/internal/config"
	dbm "angido/internal/models/db_models"
	"angido/internal/models/request_models"
	"angido/internal/models/response_models"
	"angido/internal/repositories"
	mem "angido/pkg/memcache"
	"angido/pkg/utils"
)

const (
	activePlansCacheKey = "plans:active"
	plansCacheTTL       = 10 * time.Minute
	referenceCodeLength = 10
)

type SubscriptionServiceInterface interface {
	ListPlans(ctx context.Context) ([]response_models.SubscriptionPlan, error)
	GetMySubscription(ctx context.Context, accountID string) (*response_models.SubscriptionStatusResponse, error)
	EffectiveQuota(ctx context.Context, accountID string) (int, error)

	Checkout(ctx context.Context, accountID string, request request_models.CheckoutRequest) (*response_models.CheckoutResponse, error)
	CancelSubscription(ctx context.Context, accountID string) (*response_models.SubscriptionStatusResponse, error)

	UpsertPlan(ctx context.Context, request request_models.UpsertPlanRequest) (*response_models.SubscriptionPlan, error)
	ListTransactions(ctx context.Context, status string, page, pageSize int) (*utils.PagedData, error)
	ConfirmTransaction(ctx context.Context, id string) (*response_models.SubscriptionStatusResponse, error)
	FailTransaction(ctx context.Context, id, reason string) error
	ExpireDue(ctx context.Context) (int64, error)
}

type SubscriptionService struct {
	planRepo  repositories.IPlanRepository
	subRepo   repositories.SubscriptionRepository
	cache     *mem.Store
	freeQuota int
	currency  string
	log       *zap.Logger
	now       func() time.Time
}

func NewSubscriptionService(
	planRepo repositories.IPlanRepository,
	subRepo repositories.SubscriptionRepository,
	cache *mem.Store,
	cfg *config.Config,
	log *zap.Logger,
) SubscriptionServiceInterface {
	return &SubscriptionService{
		planRepo:  planRepo,
		subRepo:   subRepo,
		cache:     cache,
		freeQuota: cfg.FreeAIDailyQuota,
		currency:  cfg.DefaultCurrency,
		log:       log,
		now:       time.Now,
	}
}

func (s *SubscriptionService) ListPlans(ctx context.Context) ([]response_models.SubscriptionPlan, error) {
	if cached, ok := s.cache.Get(activePlansCacheKey); ok {
		if plans, ok := cached.([]response_models.SubscriptionPlan); ok {
			return plans, nil
		}
	}

	plans, err := s.planRepo.GetAllPlans(ctx, true)
	if err != nil {
		s.log.Error("list plans", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	out := make([]response_models.SubscriptionPlan, 0, len(plans))
	for i := range plans {
		out = append(out, toPlanResponse(&plans[i]))
	}
	s.cache.Set(activePlansCacheKey, out, plansCacheTTL)
	return out, nil
}

func (s *SubscriptionService) entitled(ctx context.Context, accountID string) (*dbm.Subscription, error) {
	sub, err := s.subRepo.FindEntitled(ctx, accountID, s.now().Unix())
	if err != nil {
		s.log.Error("find entitled subscription", zap.String("account_id", accountID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return sub, nil
}

func (s *SubscriptionService) GetMySubscription(ctx context.Context, accountID string) (*response_models.SubscriptionStatusResponse, error) {
	sub, err := s.entitled(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, utils.ErrSubscriptionNotFound
	}
	return toSubscriptionStatus(sub), nil
}

// EffectiveQuota is the daily quota of the entitled plan, or the free tier
// quota when there is none.
func (s *SubscriptionService) EffectiveQuota(ctx context.Context, accountID string) (int, error) {
	sub, err := s.entitled(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if sub == nil {
		return s.freeQuota, nil
	}
	return sub.Plan.AIDailyQuota, nil
}

func (s *SubscriptionService) Checkout(ctx context.Context, accountID string, request request_models.CheckoutRequest) (*response_models.CheckoutResponse, error) {
	account, err := uuid.Parse(accountID)
	if err != nil {
		return nil, utils.ErrUnauthorized
	}

	plan, err := s.planRepo.GetByCode(ctx, strings.TrimSpace(request.PlanCode))
	if err != nil {
		s.log.Error("get plan", zap.String("plan_code", request.PlanCode), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	if !plan.IsActive || plan.PriceMinor <= 0 {
		return nil, utils.ErrPlanNotBillable
	}

	reference, err := utils.GenerateReferenceCode(referenceCodeLength)
	if err != nil {
		s.log.Error("generate reference", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	txn := &dbm.Transaction{
		AccountID:   account,
		PlanID:      plan.ID,
		Reference:   reference,
		AmountMinor: plan.PriceMinor,
		Currency:    strings.ToUpper(plan.Currency),
		Status:      dbm.TxnStatusPending,
		Provider:    repositories.ManualProvider,
	}
	if err := s.subRepo.CreateTransaction(ctx, txn); err != nil {
		s.log.Error("create transaction", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	s.log.Info("checkout created",
		zap.String("account_id", accountID),
		zap.String("plan_code", plan.Code),
		zap.String("reference", reference))

	return &response_models.CheckoutResponse{
		TransactionID: txn.ID,
		Reference:     txn.Reference,
		PlanCode:      plan.Code,
		Amount:        txn.AmountMinor,
		Currency:      txn.Currency,
		Status:        string(txn.Status),
		ProviderName:  txn.Provider,
	}, nil
}

func (s *SubscriptionService) CancelSubscription(ctx context.Context, accountID string) (*response_models.SubscriptionStatusResponse, error) {
	sub, err := s.entitled(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, utils.ErrSubscriptionNotFound
	}
	if sub.Status == dbm.SubStatusCanceled {
		return toSubscriptionStatus(sub), nil
	}

	now := s.now().Unix()
	if err := s.subRepo.Cancel(ctx, sub.ID.String(), now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrSubscriptionNotFound
		}
		s.log.Error("cancel subscription", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	sub.Status = dbm.SubStatusCanceled
	sub.AutoRenew = false
	sub.CanceledAt = &now
	return toSubscriptionStatus(sub), nil
}

func (s *SubscriptionService) UpsertPlan(ctx context.Context, request request_models.UpsertPlanRequest) (*response_models.SubscriptionPlan, error) {
	if request.AIDailyQuota < dbm.UnlimitedQuota || request.PriceMinor < 0 || request.TrialDays < 0 {
		return nil, utils.ErrInvalidInput
	}
	features, err := json.Marshal(emptyIfNil(request.Features))
	if err != nil {
		return nil, utils.ErrInvalidInput
	}

	currency := strings.ToUpper(strings.TrimSpace(request.Currency))
	if currency == "" {
		currency = s.currency
	}
	active := true
	if request.IsActive != nil {
		active = *request.IsActive
	}

	plan := &dbm.Plan{
		Code:            strings.TrimSpace(request.Code),
		Name:            strings.TrimSpace(request.Name),
		Description:     request.Description,
		BackgroundImage: request.BackgroundImage,
		Period:          dbm.BillingPeriod(request.Period),
		PriceMinor:      request.PriceMinor,
		Currency:        currency,
		TrialDays:       request.TrialDays,
		AIDailyQuota:    request.AIDailyQuota,
		IsActive:        active,
		Features:        features,
	}
	if err := s.planRepo.UpsertByCode(ctx, plan); err != nil {
		s.log.Error("upsert plan", zap.String("plan_code", plan.Code), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	s.cache.Delete(activePlansCacheKey)

	out := toPlanResponse(plan)
	return &out, nil
}

func (s *SubscriptionService) ListTransactions(ctx context.Context, status string, page, pageSize int) (*utils.PagedData, error) {
	if err := utils.ValidatePage(page, pageSize); err != nil {
		return nil, err
	}
	switch dbm.TransactionStatus(status) {
	case "", dbm.TxnStatusPending, dbm.TxnStatusPaid, dbm.TxnStatusFailed, dbm.TxnStatusRefunded:
	default:
		return nil, utils.ErrInvalidInput
	}

	txns, total, err := s.subRepo.ListTransactions(ctx, status, page, pageSize)
	if err != nil {
		s.log.Error("list transactions", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	items := make([]response_models.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}
	return &utils.PagedData{Items: items, Page: page, PageSize: pageSize, Total: total}, nil
}

func (s *SubscriptionService) ConfirmTransaction(ctx context.Context, id string) (*response_models.SubscriptionStatusResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrTransactionNotFound
	}
	sub, err := s.subRepo.ConfirmTransaction(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, utils.ErrTransactionNotFound) || errors.Is(err, utils.ErrTransactionNotPending) {
			return nil, err
		}
		s.log.Error("confirm transaction", zap.String("transaction_id", id), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	s.log.Info("transaction confirmed",
		zap.String("transaction_id", id),
		zap.String("subscription_id", sub.ID.String()),
		zap.Int64("ends_at", sub.EndsAt))
	return toSubscriptionStatus(sub), nil
}

func (s *SubscriptionService) FailTransaction(ctx context.Context, id, reason string) error {
	if _, err := uuid.Parse(id); err != nil {
		return utils.ErrTransactionNotFound
	}
	err := s.subRepo.FailTransaction(ctx, id, strings.TrimSpace(reason), s.now().Unix())
	if err != nil {
		if errors.Is(err, utils.ErrTransactionNotFound) || errors.Is(err, utils.ErrTransactionNotPending) {
			return err
		}
		s.log.Error("fail transaction", zap.String("transaction_id", id), zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *SubscriptionService) ExpireDue(ctx context.Context) (int64, error) {
	n, err := s.subRepo.ExpireDue(ctx, s.now().Unix())
	if err != nil {
		s.log.Error("expire subscriptions", zap.Error(err))
		return 0, utils.ErrDatabaseError
	}
	return n, nil
}
