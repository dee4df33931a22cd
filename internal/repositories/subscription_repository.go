package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "angido/internal/models/db_models"
	"angido/pkg/utils"
)

const ManualProvider = "manual"

type SubscriptionRepository interface {
	FindEntitled(ctx context.Context, accountID string, now int64) (*dbm.Subscription, error)
	Cancel(ctx context.Context, subscriptionID string, now int64) error
	ExpireDue(ctx context.Context, now int64) (int64, error)

	CreateTransaction(ctx context.Context, txn *dbm.Transaction) error
	GetTransaction(ctx context.Context, id string) (*dbm.Transaction, error)
	ListTransactions(ctx context.Context, status string, page, pageSize int) ([]dbm.Transaction, int64, error)
	ConfirmTransaction(ctx context.Context, id string, now time.Time) (*dbm.Subscription, error)
	FailTransaction(ctx context.Context, id string, reason string, now int64) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// FindEntitled returns the subscription currently granting plan benefits.
// Canceled subscriptions count until EndsAt.
func (r *subscriptionRepository) FindEntitled(ctx context.Context, accountID string, now int64) (*dbm.Subscription, error) {
	var sub dbm.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("account_id = ?", accountID).
		Where("status IN ?", []dbm.SubscriptionStatus{dbm.SubStatusActive, dbm.SubStatusTrialing, dbm.SubStatusCanceled}).
		Where("starts_at <= ? AND ends_at > ?", now, now).
		Order("ends_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) Cancel(ctx context.Context, subscriptionID string, now int64) error {
	res := r.db.WithContext(ctx).
		Model(&dbm.Subscription{}).
		Where("id = ?", subscriptionID).
		Updates(map[string]interface{}{
			"status":      dbm.SubStatusCanceled,
			"auto_renew":  false,
			"canceled_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *subscriptionRepository) ExpireDue(ctx context.Context, now int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.Subscription{}).
		Where("ends_at < ?", now).
		Where("status IN ?", []dbm.SubscriptionStatus{dbm.SubStatusActive, dbm.SubStatusTrialing, dbm.SubStatusPastDue}).
		Update("status", dbm.SubStatusExpired)
	return res.RowsAffected, res.Error
}

func (r *subscriptionRepository) CreateTransaction(ctx context.Context, txn *dbm.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(txn).Error
}

func (r *subscriptionRepository) GetTransaction(ctx context.Context, id string) (*dbm.Transaction, error) {
	var txn dbm.Transaction
	err := r.db.WithContext(ctx).
		Preload("Plan").
		First(&txn, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *subscriptionRepository) ListTransactions(ctx context.Context, status string, page, pageSize int) ([]dbm.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&dbm.Transaction{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []dbm.Transaction
	err := query.
		Preload("Account").
		Preload("Plan").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txns).Error
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// ConfirmTransaction marks a pending transaction paid and activates the
// subscription it bought, all in one database transaction.
func (r *subscriptionRepository) ConfirmTransaction(ctx context.Context, id string, now time.Time) (*dbm.Subscription, error) {
	var sub *dbm.Subscription
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn dbm.Transaction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&txn, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrTransactionNotFound
		}
		if err != nil {
			return err
		}
		if txn.Status != dbm.TxnStatusPending {
			return utils.ErrTransactionNotPending
		}

		activated, err := activateSubscription(tx, &txn, now)
		if err != nil {
			return err
		}
		sub = activated

		paidAt := now.Unix()
		return tx.Model(&txn).Updates(map[string]interface{}{
			"status":          dbm.TxnStatusPaid,
			"paid_at":         paidAt,
			"subscription_id": activated.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func activateSubscription(tx *gorm.DB, txn *dbm.Transaction, now time.Time) (*dbm.Subscription, error) {
	var plan dbm.Plan
	if err := tx.First(&plan, "id = ?", txn.PlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrPlanNotFound
		}
		return nil, err
	}

	now = now.In(utils.VNLocation())
	starts := now
	// If there is an active subscription that auto-renews, extend from its EndsAt
	var current dbm.Subscription
	err := tx.
		Where("account_id = ? AND status IN ? AND ends_at >= ?",
			txn.AccountID,
			[]dbm.SubscriptionStatus{dbm.SubStatusActive, dbm.SubStatusTrialing, dbm.SubStatusPastDue},
			now.Add(-24*time.Hour).Unix()).
		Order("ends_at DESC").
		First(&current).Error

	if err == nil && current.Status == dbm.SubStatusActive && current.AutoRenew && current.EndsAt > now.Unix() {
		starts = time.Unix(current.EndsAt, 0).In(utils.VNLocation())
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var ends time.Time
	switch plan.Period {
	case dbm.PeriodYear:
		ends = starts.AddDate(1, 0, 0)
	default:
		ends = starts.AddDate(0, 1, 0)
	}

	metadata, _ := json.Marshal(map[string]any{
		"activated_by_txn": txn.ID,
		"reference":        txn.Reference,
		"amount_minor":     txn.AmountMinor,
		"currency":         txn.Currency,
	})

	sub := dbm.Subscription{
		AccountID: txn.AccountID,
		PlanID:    plan.ID,
		Status:    dbm.SubStatusActive,
		StartsAt:  starts.Unix(),
		EndsAt:    ends.Unix(),
		AutoRenew: true,
		Provider:  ManualProvider,
		Metadata:  metadata,
	}
	if err := tx.Omit(clause.Associations).Create(&sub).Error; err != nil {
		return nil, err
	}
	sub.Plan = plan
	return &sub, nil
}

func (r *subscriptionRepository) FailTransaction(ctx context.Context, id string, reason string, now int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn dbm.Transaction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&txn, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrTransactionNotFound
		}
		if err != nil {
			return err
		}
		if txn.Status != dbm.TxnStatusPending {
			return utils.ErrTransactionNotPending
		}

		metadata, _ := json.Marshal(map[string]any{"failure_reason": reason})
		return tx.Model(&txn).Updates(map[string]interface{}{
			"status":    dbm.TxnStatusFailed,
			"failed_at": now,
			"metadata":  datatypes.JSON(metadata),
		}).Error
	})
}
