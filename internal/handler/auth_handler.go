package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"userdir/internal/auth"
	apperrors "userdir/internal/errors"
	"userdir/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// TokenRequest is the POST /auth/token body. Identity is the record's email.
type TokenRequest struct {
	Identity string `json:"identity" validate:"required"`
	Secret   string `json:"secret" validate:"required"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenKind string `json:"token_kind"`
}

// IssueToken godoc
// @Summary Exchange credentials for a bearer token
// @Description Unknown identity and wrong secret fail with the same response.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}
	if err := c.Validate(&req); err != nil {
		httpErr := apperrors.NewValidationError(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Identity, req.Secret)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		TokenKind: "bearer",
	})
}

// Me godoc
// @Summary Current user
// @Description Returns the record the presented token resolves to.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		httpErr := apperrors.Unauthorized()
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}
