package router

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	gojwt "github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"userdir/internal/auth"
	"userdir/internal/config"
	apperrors "userdir/internal/errors"
	"userdir/internal/handler"
)

// Register wires routes and middleware. Registration and token exchange are
// public; every operation on existing records sits behind the bearer-token
// middleware plus the guard.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
	guard *auth.Guard,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: newValidator()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/users", userHandler.CreateUser)
	api.POST("/auth/token", authHandler.IssueToken)

	// Secured routes (require JWT authentication and a resolvable identity)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		NewClaimsFunc: func(c echo.Context) gojwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			httpErr := apperrors.Unauthorized()
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	}), guard.LoadUser)

	secured.GET("/users", userHandler.ListUsers)
	secured.GET("/users/:id", userHandler.GetUser)
	secured.PUT("/users/:id", userHandler.UpdateUser)
	secured.DELETE("/users/:id", userHandler.DeleteUser)
	secured.GET("/me", authHandler.Me)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// newValidator builds the validator with the project's extra rules. The
// built-in max counts runes; maxbytes bounds the encoded length, which is
// what bcrypt's 72-byte input limit needs.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})
	return v
}
