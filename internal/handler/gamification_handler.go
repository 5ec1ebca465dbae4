package handler

import (
	"net/http"
	"strconv"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/ecotrack/gamification/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type GamificationHandler struct {
	svc          *service.GamificationService
	leaderboard  *service.LeaderboardService
	defaultLimit int
	errs         errorWriter
}

func NewGamificationHandler(svc *service.GamificationService, leaderboard *service.LeaderboardService, defaultLimit int, log *zap.Logger) *GamificationHandler {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &GamificationHandler{svc: svc, leaderboard: leaderboard, defaultLimit: defaultLimit, errs: newErrorWriter(log)}
}

type awardPointsRequest struct {
	ActorID      string `json:"actorId"`
	ActionType   string `json:"actionType"`
	CustomPoints *int64 `json:"customPoints"`
	Reference    string `json:"reference"`
}

// AwardPoints runs the increment and badge award for one point-earning event.
func (h *GamificationHandler) AwardPoints(c echo.Context) error {
	var req awardPointsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	res, err := h.svc.AwardPoints(c.Request().Context(), service.AwardPointsInput{
		ActorID:      req.ActorID,
		ActionType:   req.ActionType,
		CustomPoints: req.CustomPoints,
		Reference:    req.Reference,
	})
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type adjustPointsRequest struct {
	ActorID string `json:"actorId"`
	Delta   int64  `json:"delta"`
	Reason  string `json:"reason"`
}

func (h *GamificationHandler) AdjustPoints(c echo.Context) error {
	var req adjustPointsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	res, err := h.svc.AdjustPoints(c.Request().Context(), service.AdjustPointsInput{
		ActorID: req.ActorID,
		Delta:   req.Delta,
		Reason:  req.Reason,
	})
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type LeaderboardResponse struct {
	Leaderboard []model.LeaderboardEntry `json:"leaderboard"`
	Me          *model.LeaderboardEntry  `json:"me,omitempty"`
}

func (h *GamificationHandler) Leaderboard(c echo.Context) error {
	limit := h.defaultLimit
	if lStr := c.QueryParam("limit"); lStr != "" {
		parsed, err := strconv.Atoi(lStr)
		if err != nil || parsed <= 0 {
			return badRequest(c, "limit must be a positive integer")
		}
		limit = parsed
	}
	ctx := c.Request().Context()
	board, err := h.leaderboard.GetLeaderboard(ctx, limit)
	if err != nil {
		return h.errs.write(c, err)
	}
	resp := LeaderboardResponse{Leaderboard: board}
	if actorID := c.QueryParam("actorId"); actorID != "" {
		me, err := h.leaderboard.GetActorRank(ctx, actorID)
		if err != nil {
			return h.errs.write(c, err)
		}
		if me == nil {
			return respondError(c, http.StatusNotFound, "not_found", "actor not found")
		}
		resp.Me = me
	}
	return c.JSON(http.StatusOK, resp)
}
