package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	_ "userdir/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"userdir/internal/auth"
	"userdir/internal/config"
	"userdir/internal/db"
	"userdir/internal/handler"
	"userdir/internal/model"
	"userdir/internal/repository"
	"userdir/internal/router"
	"userdir/internal/service"
)

// @title User Directory API
// @version 1.0
// @description Persistent user directory with CRUD operations and JWT bearer authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop the users table if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping users table...")
		if err := gormDB.Migrator().DropTable(&model.User{}); err != nil {
			log.Printf("Warning: Failed to drop table (may not exist): %v", err)
		}
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	// Initialize repository and auth components
	userRepo := repository.NewUserRepository(gormDB)

	jwtService, err := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("jwt init: %v", err)
	}
	hasher := auth.NewPasswordHasher()
	guard := auth.NewGuard(userRepo)

	// Initialize services
	userService, err := service.NewUserService(userRepo, hasher, cfg.ListDefaultLimit, cfg.ListMaxLimit)
	if err != nil {
		log.Fatalf("user service init: %v", err)
	}
	authService := service.NewAuthService(userRepo, jwtService, hasher)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService)

	// Register routes
	router.Register(e, cfg, userHandler, authHandler, guard)

	// Log swagger full path
	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "http://localhost:" + cfg.ServerPort
	} else if !strings.HasPrefix(swaggerHost, "http://") && !strings.HasPrefix(swaggerHost, "https://") {
		swaggerHost = "http://" + swaggerHost
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
