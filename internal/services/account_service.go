package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"angido/internal/models/db_models"
	"angido/internal/models/request_models"
	"angido/internal/models/response_models"
	"angido/internal/repositories"
	mem "angido/pkg/memcache"
	"angido/pkg/utils"
)

type AccountServiceInterface interface {
	Login(request request_models.LoginRequest, ctx context.Context) (*response_models.AccountLoginResponse, error)
	CreateAccount(request request_models.SignUpRequest, ctx context.Context) (*response_models.AccountResponse, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error

	GetProfile(ctx context.Context, accountID string) (*response_models.AccountResponse, error)
	UpdateProfile(ctx context.Context, accountID string, request request_models.UpdateProfileRequest) (*response_models.AccountResponse, error)
	ChangePassword(ctx context.Context, accountID string, request request_models.ChangePasswordRequest) error

	ListAccounts(ctx context.Context, q string, page, pageSize int) (*utils.PagedData, error)
	SetRole(ctx context.Context, actorID, accountID, role string) error
	SetStatus(ctx context.Context, actorID, accountID, status string) error
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	subRepo     repositories.SubscriptionRepository
	tokens      *utils.TokenManager
	revoked     mem.RevocationStore
	log         *zap.Logger
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	subRepo repositories.SubscriptionRepository,
	tokens *utils.TokenManager,
	revoked mem.RevocationStore,
	log *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		subRepo:     subRepo,
		tokens:      tokens,
		revoked:     revoked,
		log:         log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AccountService) Login(request request_models.LoginRequest, ctx context.Context) (*response_models.AccountLoginResponse, error) {

	account, err := a.accountRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		a.log.Error("find account by email", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}
	if account.Status == db_models.AccountBanned {
		return nil, utils.ErrAccountBanned
	}

	token, expiresAt, err := a.tokens.CreateToken(account.ID, string(account.Role))
	if err != nil {
		a.log.Error("sign token", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	sub, err := a.subRepo.FindEntitled(ctx, account.ID.String(), time.Now().Unix())
	if err != nil {
		a.log.Warn("load subscription on login", zap.Error(err))
	}

	return &response_models.AccountLoginResponse{
		Token:             token,
		ExpiresAt:         expiresAt,
		Role:              string(account.Role),
		IsUserHavePremium: sub != nil,
	}, nil
}

func (a *AccountService) CreateAccount(request request_models.SignUpRequest, ctx context.Context) (*response_models.AccountResponse, error) {

	email := normalizeEmail(request.Email)
	existingAccount, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		a.log.Error("find account by email", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if existingAccount != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	newAccount := &db_models.Account{
		Name:         strings.TrimSpace(request.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         db_models.RoleUser,
		Status:       db_models.AccountActive,
	}

	if err := a.accountRepo.InsertTx(newAccount, ctx); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrEmailAlreadyExists
		}
		a.log.Error("insert account", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	return toAccountResponse(newAccount, nil), nil
}

func (a *AccountService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return utils.ErrUnauthorized
	}
	if err := a.revoked.Revoke(ctx, tokenID, expiresAt); err != nil {
		a.log.Error("revoke token", zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (a *AccountService) loadAccount(ctx context.Context, accountID string) (*db_models.Account, error) {
	account, err := a.accountRepo.FindById(ctx, accountID)
	if err != nil {
		a.log.Error("find account", zap.String("account_id", accountID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return account, nil
}

func (a *AccountService) GetProfile(ctx context.Context, accountID string) (*response_models.AccountResponse, error) {
	account, err := a.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	sub, err := a.subRepo.FindEntitled(ctx, accountID, time.Now().Unix())
	if err != nil {
		a.log.Error("load subscription", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	return toAccountResponse(account, sub), nil
}

func (a *AccountService) UpdateProfile(ctx context.Context, accountID string, request request_models.UpdateProfileRequest) (*response_models.AccountResponse, error) {
	fields := map[string]interface{}{}
	if request.Name != nil {
		fields["name"] = strings.TrimSpace(*request.Name)
	}
	if request.Avatar != nil {
		fields["avatar"] = strings.TrimSpace(*request.Avatar)
	}

	if len(fields) > 0 {
		if err := a.accountRepo.UpdateFields(ctx, accountID, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.ErrAccountNotFound
			}
			a.log.Error("update profile", zap.Error(err))
			return nil, utils.ErrDatabaseError
		}
	}

	return a.GetProfile(ctx, accountID)
}

func (a *AccountService) ChangePassword(ctx context.Context, accountID string, request request_models.ChangePasswordRequest) error {
	account, err := a.loadAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.OldPassword); err != nil {
		return utils.ErrInvalidCredentials
	}

	hashed, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return utils.ErrDatabaseError
	}

	if err := a.accountRepo.UpdateFields(ctx, accountID, map[string]interface{}{"password_hash": hashed}); err != nil {
		a.log.Error("update password", zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (a *AccountService) ListAccounts(ctx context.Context, q string, page, pageSize int) (*utils.PagedData, error) {
	if err := utils.ValidatePage(page, pageSize); err != nil {
		return nil, err
	}

	accounts, total, err := a.accountRepo.List(ctx, strings.TrimSpace(q), page, pageSize)
	if err != nil {
		a.log.Error("list accounts", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	items := make([]response_models.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, *toAccountResponse(&accounts[i], nil))
	}
	return &utils.PagedData{Items: items, Page: page, PageSize: pageSize, Total: total}, nil
}

func (a *AccountService) adminUpdate(ctx context.Context, actorID, accountID string, fields map[string]interface{}) error {
	if _, err := uuid.Parse(accountID); err != nil {
		return utils.ErrAccountNotFound
	}
	if actorID == accountID {
		return utils.ErrForbidden
	}
	if err := a.accountRepo.UpdateFields(ctx, accountID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrAccountNotFound
		}
		a.log.Error("admin update account", zap.String("account_id", accountID), zap.Error(err))
		return utils.ErrDatabaseError
	}
	a.log.Info("account updated by admin",
		zap.String("actor_id", actorID),
		zap.String("account_id", accountID),
		zap.Any("fields", fields))
	return nil
}

// SetRole rejects changes to the caller's own account.
func (a *AccountService) SetRole(ctx context.Context, actorID, accountID, role string) error {
	switch db_models.AccountRole(role) {
	case db_models.RoleUser, db_models.RoleAdmin:
	default:
		return utils.ErrInvalidInput
	}
	return a.adminUpdate(ctx, actorID, accountID, map[string]interface{}{"role": role})
}

func (a *AccountService) SetStatus(ctx context.Context, actorID, accountID, status string) error {
	switch db_models.AccountStatus(status) {
	case db_models.AccountActive, db_models.AccountBanned:
	default:
		return utils.ErrInvalidInput
	}
	return a.adminUpdate(ctx, actorID, accountID, map[string]interface{}{"status": status})
}
