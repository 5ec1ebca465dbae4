package service

import (
	"context"
	"errors"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/ecotrack/gamification/internal/repository"
	"gorm.io/gorm"
)

type RegisterInput struct {
	ID          string `json:"id" validate:"required,max=128"`
	DisplayName string `json:"displayName" validate:"max=255"`
	Role        string `json:"role" validate:"omitempty,oneof=citizen agent admin"`
}

type UserService struct {
	users      repository.UserRepository
	badges     repository.BadgeRepository
	thresholds *BadgeThresholds
}

func NewUserService(users repository.UserRepository, badges repository.BadgeRepository, thresholds *BadgeThresholds) *UserService {
	return &UserService{users: users, badges: badges, thresholds: thresholds}
}

// Register creates an actor with zero points.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.users.Get(ctx, in.ID); err == nil {
		return nil, ErrActorExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = model.RoleCitizen
	}
	u := &model.User{ID: in.ID, DisplayName: in.DisplayName, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrActorExists
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return u, nil
}

// Badges lists the actor's awards in award order.
func (s *UserService) Badges(ctx context.Context, id string) ([]model.AwardedBadge, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	awards, err := s.badges.ListAwardsByUsers(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	out := toAwardedBadges(awards, s.thresholds)[id]
	if out == nil {
		out = []model.AwardedBadge{}
	}
	return out, nil
}
