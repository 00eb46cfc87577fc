package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cliphub/internal/model"
)

// SubscriptionRepository exposes read-only aggregation over the
// subscriber/channel relationship.
type SubscriptionRepository interface {
	CountByChannel(ctx context.Context, channelID uuid.UUID) (int64, error)
	CountBySubscriber(ctx context.Context, subscriberID uuid.UUID) (int64, error)
	IsSubscribed(ctx context.Context, channelID, subscriberID uuid.UUID) (bool, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository builds a GORM-backed repository.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CountByChannel(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) CountBySubscriber(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) IsSubscribed(ctx context.Context, channelID, subscriberID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("channel_id = ? AND subscriber_id = ?", channelID, subscriberID).
		Count(&count).Error
	return count > 0, err
}
