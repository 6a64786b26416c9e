package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/tedris-portal/internal/repository"
	"github.com/iliyamo/tedris-portal/internal/service"
)

const (
	defaultUserListLimit = 100
	maxUserListLimit     = 1000
)

// AdminHandler serves the dashboard endpoints. Routes are guarded by the
// administration role.
type AdminHandler struct {
	Stats *service.Stats
	Users *repository.UserRepo
	Log   *zap.Logger
}

func NewAdminHandler(stats *service.Stats, users *repository.UserRepo, log *zap.Logger) *AdminHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminHandler{Stats: stats, Users: users, Log: log}
}

// GetStats returns the aggregate snapshot.
func (h *AdminHandler) GetStats(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	snap, err := h.Stats.Snapshot(ctx)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(http.StatusOK, snap)
}

// ListUsers returns users newest first. ?limit= defaults to 100 and is
// capped at 1000.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit := defaultUserListLimit
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, errorBody("invalid limit"))
		}
		limit = min(n, maxUserListLimit)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx, limit)
	if err != nil {
		h.Log.Error("list users", zap.Error(err))
		return internalError(c)
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, toUserPart(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out, "count": len(out)})
}
