package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/tedris-portal/internal/config"
	"github.com/iliyamo/tedris-portal/internal/middleware"
	"github.com/iliyamo/tedris-portal/internal/model"
	"github.com/iliyamo/tedris-portal/internal/repository"
	"github.com/iliyamo/tedris-portal/internal/service"
	"github.com/iliyamo/tedris-portal/internal/utils"
	"github.com/iliyamo/tedris-portal/internal/validation"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg          config.Config
	Registration *service.Registration
	Auth         *service.Auth
	Users        *repository.UserRepo
	Tokens       *repository.TokenRepo
	Log          *zap.Logger
}

func NewAuthHandler(cfg config.Config, reg *service.Registration, auth *service.Auth,
	u *repository.UserRepo, t *repository.TokenRepo, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{Cfg: cfg, Registration: reg, Auth: auth, Users: u, Tokens: t, Log: log}
}

// ----- DTOs -----

type loginReq struct {
	Phone    string `json:"phone" form:"phone"`
	Password string `json:"password" form:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	Success bool      `json:"success"`
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Register creates the account. It does not log the user in; the
// front-ends redirect to the login form.
func (h *AuthHandler) Register(c echo.Context) error {
	var in validation.RegistrationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid-form"))
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	id, err := h.Registration.Register(ctx, in)
	var (
		fieldErrs validation.Errors
		dup       *service.DuplicateError
	)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"success": true, "userId": id})
	case errors.As(err, &fieldErrs):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": fieldErrs.Code(), "fields": fieldErrs})
	case errors.As(err, &dup):
		body := errorBody("duplicate")
		if dup.Field != "" {
			body["field"] = dup.Field
		}
		return c.JSON(http.StatusConflict, body)
	default:
		return internalError(c)
	}
}

// Login verifies phone and password and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid-form"))
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Auth.Login(ctx, req.Phone, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidForm):
		return c.JSON(http.StatusBadRequest, errorBody("invalid-form"))
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, errorBody("invalid-credentials"))
	case err != nil:
		return internalError(c)
	}

	resp, err := h.issue(c, u)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(http.StatusOK, resp)
}

// issue signs an access token and stores a new refresh token for u.
func (h *AuthHandler) issue(c echo.Context, u model.User) (authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.UserCategory, u.FullName, h.Cfg.AccessTTLMin)
	if err != nil {
		h.Log.Error("issue access token", zap.Error(err))
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		h.Log.Error("issue refresh token", zap.Error(err))
		return authResp{}, err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		h.Log.Error("store refresh token", zap.Error(err))
		return authResp{}, err
	}

	return authResp{
		Success: true,
		User:    toUserPart(u),
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	}, nil
}

// Refresh validates by hash, revokes the old token and issues a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	hash, ok := refreshHash(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorBody("refresh_token required"))
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.refreshUser(ctx, hash)
	if err != nil {
		return h.refreshFailed(c, err)
	}
	// Only the request that flips revoked_at may rotate.
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return h.refreshFailed(c, err)
	}

	resp, err := h.issue(c, u)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(http.StatusOK, resp)
}

// RefreshAccess returns a new access token without rotating the refresh
// token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	hash, ok := refreshHash(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorBody("refresh_token required"))
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.refreshUser(ctx, hash)
	if err != nil {
		return h.refreshFailed(c, err)
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.UserCategory, u.FullName, h.Cfg.AccessTTLMin)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// refreshUser resolves a refresh token hash to its user. Unknown,
// expired and revoked tokens, and tokens of a vanished user, all yield
// repository.ErrNotFound.
func (h *AuthHandler) refreshUser(ctx context.Context, hash string) (model.User, error) {
	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return model.User{}, err
	}
	return h.Users.GetByID(ctx, userID)
}

func (h *AuthHandler) refreshFailed(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, errorBody("invalid refresh"))
	}
	h.Log.Error("resolve refresh token", zap.Error(err))
	return internalError(c)
}

// Logout revokes one refresh token given in the body, or every token of
// the bearer's user when no body token is sent.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := dbCtx(c)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, errorBody("invalid refresh token"))
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, errorBody("invalid refresh token"))
			}
			return c.JSON(http.StatusInternalServerError, errorBody("logout failed"))
		}
		return c.NoContent(http.StatusNoContent)
	}

	raw, ok := middleware.BearerToken(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorBody("provide Authorization header or refresh_token"))
	}
	claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, raw)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errorBody("unauthorized"))
	}
	uid, err := claims.UserID()
	if err != nil || uid == 0 {
		return c.JSON(http.StatusUnauthorized, errorBody("unauthorized"))
	}
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("logout failed"))
	}
	return c.NoContent(http.StatusNoContent)
}

// Me echoes the authenticated claims.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	name := ""
	if cl := middleware.Claims(c); cl != nil {
		name = cl.Name
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": uid,
		"role":    middleware.Role(c),
		"name":    name,
	})
}

func refreshHash(c echo.Context) (string, bool) {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return "", false
	}
	raw := strings.TrimSpace(req.RefreshToken)
	if raw == "" {
		return "", false
	}
	return utils.HashRefreshRaw(raw), true
}
