package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cliphub/internal/cache"
	apperrors "cliphub/internal/errors"
	"cliphub/internal/model"
	"cliphub/internal/repository"
)

const profileCacheTTL = time.Minute

// ChannelProfile is the aggregated public view of a channel.
type ChannelProfile struct {
	User            *model.PublicUser `json:"user"`
	SubscriberCount int64             `json:"subscriber_count"`
	SubscribedCount int64             `json:"subscribed_count"`
	IsSubscribed    bool              `json:"is_subscribed"`
}

// ProfileService aggregates subscription relationships into a
// channel-profile view. Read-only.
type ProfileService interface {
	GetChannelProfile(ctx context.Context, viewerID uuid.UUID, username string) (*ChannelProfile, error)
}

type profileService struct {
	users repository.UserRepository
	subs  repository.SubscriptionRepository
	cache *cache.Client
}

// NewProfileService builds a ProfileService with repositories and cache.
func NewProfileService(users repository.UserRepository, subs repository.SubscriptionRepository, cache *cache.Client) ProfileService {
	return &profileService{users: users, subs: subs, cache: cache}
}

func (s *profileService) cacheKey(username string, viewerID uuid.UUID) string {
	return fmt.Sprintf("channel_profile:%s:%s", username, viewerID)
}

func (s *profileService) GetChannelProfile(ctx context.Context, viewerID uuid.UUID, username string) (*ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperrors.NewNotFound("channel does not exist")
	}

	key := s.cacheKey(username, viewerID)
	var cached ChannelProfile
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	target, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("channel does not exist")
		}
		return nil, apperrors.NewInternal("find channel", err)
	}

	subscriberCount, err := s.subs.CountByChannel(ctx, target.ID)
	if err != nil {
		return nil, apperrors.NewInternal("count subscribers", err)
	}
	subscribedCount, err := s.subs.CountBySubscriber(ctx, target.ID)
	if err != nil {
		return nil, apperrors.NewInternal("count subscriptions", err)
	}
	isSubscribed, err := s.subs.IsSubscribed(ctx, target.ID, viewerID)
	if err != nil {
		return nil, apperrors.NewInternal("check subscription", err)
	}

	profile := &ChannelProfile{
		User:            target.Public(),
		SubscriberCount: subscriberCount,
		SubscribedCount: subscribedCount,
		IsSubscribed:    isSubscribed,
	}
	s.cache.SetJSON(ctx, key, profile, profileCacheTTL)
	return profile, nil
}
