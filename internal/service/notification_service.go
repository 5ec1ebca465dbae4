package service

import (
	"context"
	"time"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/ecotrack/gamification/internal/repository"
	"github.com/ecotrack/gamification/internal/reqctx"
	"go.uber.org/zap"
)

// Notifier hands a notification to the notification collaborator.
type Notifier interface {
	Notify(ctx context.Context, userUID, typ, title, body string, badgeID *uint64)
}

type NotificationService interface {
	Notifier
	List(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkAllRead(ctx context.Context, userUID string) error
}

type notificationService struct {
	repo repository.NotificationRepository
	log  *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, log *zap.Logger) NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &notificationService{repo: repo, log: log}
}

// Notify is best-effort: failures are logged and never returned.
func (s *notificationService) Notify(ctx context.Context, userUID, typ, title, body string, badgeID *uint64) {
	if userUID == "" || typ == "" {
		return
	}
	n := &model.Notification{
		UserUID: userUID,
		Type:    typ,
		Title:   title,
		Body:    body,
		BadgeID: badgeID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Warn("notification dropped", zap.String("rid", reqctx.RID(ctx)), zap.String("user", userUID), zap.String("type", typ), zap.Error(err))
	}
}

func (s *notificationService) List(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	if userUID == "" {
		return nil, 0, nil
	}
	list, err := s.repo.ListByUser(ctx, userUID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	cnt, err := s.repo.CountUnread(ctx, userUID)
	if err != nil {
		return list, 0, err
	}
	return list, cnt, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userUID string) error {
	if userUID == "" {
		return nil
	}
	return s.repo.MarkAllRead(ctx, userUID)
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}

// withShortDeadline detaches from the request and bounds post-commit work.
func withShortDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
}
