package handler

import (
	"net/http"
	"time"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/ecotrack/gamification/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type UserHandler struct {
	users  *service.UserService
	ledger *service.PointsLedger
	errs   errorWriter
}

func NewUserHandler(users *service.UserService, ledger *service.PointsLedger, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, ledger: ledger, errs: newErrorWriter(log)}
}

type UserResponse struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"displayName"`
	Role        string      `json:"role"`
	Points      int64       `json:"points"`
	Level       model.Level `json:"level"`
	CreatedAt   string      `json:"createdAt"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Points:      u.Points,
		Level:       service.DeriveLevel(u.Points),
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
}

type registerRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	u, err := h.users.Register(c.Request().Context(), service.RegisterInput{
		ID:          req.ID,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) Points(c echo.Context) error {
	total, err := h.ledger.TotalPoints(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"total": total,
		"level": service.DeriveLevel(total),
	})
}

type LedgerEntryResponse struct {
	ID        string `json:"id"`
	Delta     int64  `json:"delta"`
	Reason    string `json:"reason"`
	Reference string `json:"reference,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func (h *UserHandler) Ledger(c echo.Context) error {
	entries, err := h.ledger.History(c.Request().Context(), c.Param("id"), queryLimit(c, 20))
	if err != nil {
		return h.errs.write(c, err)
	}
	resp := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, LedgerEntryResponse{
			ID:        e.EntryID,
			Delta:     e.Delta,
			Reason:    e.Reason,
			Reference: e.Reference,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"entries": resp})
}

func (h *UserHandler) Badges(c echo.Context) error {
	badges, err := h.users.Badges(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"badges": badges})
}
