package handlers

import (
	"fmt"

	"github.com/SscSPs/income_expense_tracker/cmd/docs"
	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/income_expense_tracker/internal/middleware"
	"github.com/SscSPs/income_expense_tracker/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// OwnerID is the user recorded on requests when bearer auth is disabled.
const OwnerID = "owner"

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	if err := RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	r.GET("/health", healthCheck(cfg.Environment()))

	syncH := newSyncHandler(services.Sync, cfg.JWTSecret, cfg.JWTIssuer)
	r.GET("/auth/google/callback", syncH.oauthCallback)

	if cfg.AuthEnabled {
		loginLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
		if err != nil {
			return fmt.Errorf("invalid login rate limit %q: %w", cfg.LoginRateLimit, err)
		}
		registerAuthRoutes(r, services.Auth, loginLimiter)
	}

	setupAPIV1Routes(r, cfg, services, syncH)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer, syncH *syncHandler) {
	identity := middleware.StaticUser(OwnerID)
	if cfg.AuthEnabled {
		identity = middleware.AuthMiddleware(cfg.JWTSecret)
	}
	v1 := r.Group("/api/v1", identity)

	registerTransactionRoutes(v1, services.Ledger, services.Transaction)
	registerAccountRoutes(v1, services.Account, services.Ledger)
	registerCategoryRoutes(v1, services.Category)
	registerSyncRoutes(v1, syncH)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
