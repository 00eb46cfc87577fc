package model

import (
	"time"

	"github.com/google/uuid"
)

// Subscription links a subscriber to a channel. This core only reads it
// for profile aggregation.
type Subscription struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SubscriberID uuid.UUID `json:"subscriber_id" gorm:"type:char(36);not null;index;uniqueIndex:idx_subscriber_channel"`
	ChannelID    uuid.UUID `json:"channel_id" gorm:"type:char(36);not null;index;uniqueIndex:idx_subscriber_channel"`
	CreatedAt    time.Time `json:"created_at"`
}
