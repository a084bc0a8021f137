package handler

import (
	"net/http"
	"time"

	"shop-service/internal/apperror"
	"shop-service/internal/dto"
	"shop-service/internal/service"
	"shop-service/pkg/config"
	"shop-service/pkg/jwtutil"
	"shop-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	refreshCookie = "refresh_token"
	stateCookie   = "oauth_state"
	authPath      = "/auth"
)

type AuthHandler struct {
	auth       *service.AuthService
	cookie     config.CookieConfig
	refreshTTL time.Duration
}

func NewAuthHandler(auth *service.AuthService, cookie config.CookieConfig, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie, refreshTTL: refreshTTL}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	pair, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return h.respondTokens(c, http.StatusCreated, pair)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	pair, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		logger.FromContext(c).Info("Login failed", zap.String("email", req.Email))
		return respondError(c, err)
	}
	return h.respondTokens(c, http.StatusOK, pair)
}

// Refresh reads the refresh token from its cookie, falling back to a
// refreshToken field in the body
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(refreshCookie); err == nil {
		token = cookie.Value
	}
	if token == "" && c.Request().Method == http.MethodPost {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.Bind(&body); err == nil {
			token = body.RefreshToken
		}
	}

	pair, err := h.auth.Refresh(c.Request().Context(), token)
	if err != nil {
		return respondError(c, err)
	}
	return h.respondTokens(c, http.StatusOK, pair)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.auth.Logout(c.Request().Context(), userID); err != nil {
		return respondError(c, err)
	}
	c.SetCookie(h.newCookie(refreshCookie, "", -1))
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.auth.Me(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// GoogleLogin redirects to the provider consent page with a one-time state
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	state := uuid.NewString()
	url, err := h.auth.ProviderAuthURL(state)
	if err != nil {
		return respondError(c, err)
	}
	c.SetCookie(h.newCookie(stateCookie, state, int((10 * time.Minute).Seconds())))
	return c.Redirect(http.StatusTemporaryRedirect, url)
}

func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	cookie, err := c.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		return respondError(c, apperror.Validation("invalid oauth state"))
	}
	c.SetCookie(h.newCookie(stateCookie, "", -1))

	pair, err := h.auth.LoginWithProvider(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		return respondError(c, err)
	}
	return h.respondTokens(c, http.StatusOK, pair)
}

func (h *AuthHandler) respondTokens(c echo.Context, status int, pair *jwtutil.TokenPair) error {
	c.SetCookie(h.newCookie(refreshCookie, pair.RefreshToken, int(h.refreshTTL.Seconds())))
	return c.JSON(status, echo.Map{"accessToken": pair.AccessToken})
}

func (h *AuthHandler) newCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     authPath,
		Domain:   h.cookie.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
