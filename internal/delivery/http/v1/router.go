package v1

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"alumnet-backend/config"
	"alumnet-backend/internal/delivery/http/middleware"
	"alumnet-backend/internal/delivery/http/response"
	"alumnet-backend/internal/domain"
	"alumnet-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC       domain.AuthUsecase
	LoginTracker *security.LoginTracker
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	// Health Check
	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Landing page plus any other static assets (stylesheets, Home.html)
	registerStatic(r, deps.Config.StaticDir)

	// Registration and login, rate limited per client IP
	authLimit := middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig(
		deps.Config.RateLimitAuthThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	))
	auth := r.Group("", authLimit)
	NewAuthHandler(auth, deps.AuthUC, deps.LoginTracker, deps.Config.StaticDir)

	return r
}

func registerStatic(r *gin.Engine, staticDir string) {
	index := ""
	if staticDir != "" {
		candidate := filepath.Join(staticDir, "index.html")
		if _, err := os.Stat(candidate); err == nil {
			index = candidate
		}
	}

	r.GET("/", func(c *gin.Context) {
		if index != "" {
			c.File(index)
			return
		}
		response.Success(c, http.StatusOK, "Alumnet backend", nil)
	})

	if staticDir != "" {
		// Unmatched GETs fall through to the public directory so pages can
		// reference their own assets.
		fs := http.FileServer(http.Dir(staticDir))
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method == http.MethodGet {
				fs.ServeHTTP(c.Writer, c.Request)
				return
			}
			c.Status(http.StatusNotFound)
		})
	}
}
