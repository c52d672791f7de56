package services

import (
	"context"
	"errors"
	"time"

	"github.com/techhire/techhire-api/model"
	"github.com/techhire/techhire-api/services/push"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubscriptionStore is the durable mapping from push endpoints to batch
// affiliation and active state.
type SubscriptionStore struct {
	db *gorm.DB
}

// NewSubscriptionStore creates a new subscription store
func NewSubscriptionStore(db *gorm.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

// Upsert stores a subscription keyed by endpoint. An existing endpoint gets
// its batch and credential overwritten and is reactivated; re-subscribing
// never duplicates a row.
func (s *SubscriptionStore) Upsert(ctx context.Context, endpoint string, credential []byte, batch, userAgent, ip string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Where("endpoint = ?", endpoint).First(&sub).Error

	switch {
	case err == nil:
		sub.Batch = batch
		sub.Credential = datatypes.JSON(credential)
		sub.IsActive = true
		if err := s.db.WithContext(ctx).Save(&sub).Error; err != nil {
			return nil, err
		}
		return &sub, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = model.PushSubscription{
			Endpoint:   endpoint,
			Credential: datatypes.JSON(credential),
			Batch:      batch,
			UserAgent:  userAgent,
			IPAddress:  ip,
			IsActive:   true,
		}
		if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
			return nil, err
		}
		return &sub, nil

	default:
		return nil, err
	}
}

// Deactivate flips a subscription inactive. An unknown endpoint is not an
// error; the bool reports whether a row existed.
func (s *SubscriptionStore) Deactivate(ctx context.Context, endpoint string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&model.PushSubscription{}).
		Where("endpoint = ?", endpoint).
		Update("is_active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindActiveByBatches returns active subscriptions whose batch is in the
// set. An empty set means broadcast: all active subscriptions regardless of
// batch. Order is stable (by ID) but callers must not rely on it.
func (s *SubscriptionStore) FindActiveByBatches(ctx context.Context, batches []string) ([]model.PushSubscription, error) {
	query := s.db.WithContext(ctx).Where("is_active = ?", true)
	if len(batches) > 0 {
		query = query.Where("batch IN ?", batches)
	}

	var subs []model.PushSubscription
	if err := query.Order("id").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// ApplyDeliveryResults persists the state mutations of one dispatch in a
// single transaction: last-notified timestamps for delivered subscriptions,
// deactivation for endpoints the push service reported gone. A commit error
// rolls the whole batch back.
func (s *SubscriptionStore) ApplyDeliveryResults(ctx context.Context, results []push.DeliveryResult) error {
	if len(results) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range results {
			updates := map[string]interface{}{}
			if r.Delivered {
				updates["last_notified_at"] = r.DeliveredAt
			}
			if r.Deactivate {
				updates["is_active"] = false
			}
			if len(updates) == 0 {
				continue
			}
			if err := tx.Model(&model.PushSubscription{}).
				Where("id = ?", r.SubscriptionID).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// PurgeInactive hard-deletes subscriptions that have been inactive since
// before the cutoff. Used by the maintenance cron; the normal flow only
// soft-disables.
func (s *SubscriptionStore) PurgeInactive(ctx context.Context, olderThan time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("is_active = ? AND updated_at < ?", false, olderThan).
		Delete(&model.PushSubscription{})
	return result.RowsAffected, result.Error
}
