package handler

import (
	"net/http"
	"time"

	"github.com/ecotrack/gamification/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NotificationHandler exposes an actor's badge notifications.
type NotificationHandler struct {
	notifications service.NotificationService
	users         *service.UserService
	errs          errorWriter
}

func NewNotificationHandler(notifications service.NotificationService, users *service.UserService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users, errs: newErrorWriter(log)}
}

type NotificationResponse struct {
	ID        uint64  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	BadgeID   *uint64 `json:"badgeId,omitempty"`
	Read      bool    `json:"read"`
	CreatedAt string  `json:"createdAt"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
}

// List defaults to unread notifications; ?unread_only=false includes read ones.
func (h *NotificationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	actor, err := h.users.Get(ctx, c.Param("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	unreadOnly := c.QueryParam("unread_only") != "false"
	list, unread, err := h.notifications.List(ctx, actor.ID, unreadOnly, queryLimit(c, 20))
	if err != nil {
		return h.errs.write(c, err)
	}
	resp := NotificationListResponse{
		Notifications: make([]NotificationResponse, 0, len(list)),
		UnreadCount:   unread,
	}
	for _, n := range list {
		resp.Notifications = append(resp.Notifications, NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Body:      n.Body,
			BadgeID:   n.BadgeID,
			Read:      n.ReadAt != nil,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	ctx := c.Request().Context()
	actor, err := h.users.Get(ctx, c.Param("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	if err := h.notifications.MarkAllRead(ctx, actor.ID); err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
