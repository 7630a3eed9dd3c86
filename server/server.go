package server

import (
	"net/http"

	"github.com/Luismorlan/newsdesk/accounts"
	"github.com/Luismorlan/newsdesk/model"
	"github.com/Luismorlan/newsdesk/notifier"
	"github.com/Luismorlan/newsdesk/server/middlewares"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Server serves dependency injection for every handler, add any dependency
// the handlers require here.
type Server struct {
	DB       *gorm.DB
	Accounts *accounts.Service
	Tokens   *accounts.TokenIssuer
	Pipeline *notifier.Pipeline
	// Limiter guards the credential endpoints, nil disables it.
	Limiter *middlewares.IPRateLimiter
	// AllowedOrigins are the CORS origins, empty allows every origin.
	AllowedOrigins []string
	// SecureCookies marks the session cookies https only.
	SecureCookies bool
}

func (s *Server) corsConfig() cors.Config {
	config := cors.DefaultConfig()
	if len(s.AllowedOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = s.AllowedOrigins
		config.AllowCredentials = true
	}
	config.AddAllowHeaders("Authorization")
	return config
}

func (s *Server) rateLimited() []gin.HandlerFunc {
	if s.Limiter == nil {
		return nil
	}
	return []gin.HandlerFunc{middlewares.RateLimit(s.Limiter)}
}

// Router builds the gin engine serving the whole newsroom. Extra middlewares,
// such as tracing, run right after the CORS one.
func (s *Server) Router(extra ...gin.HandlerFunc) *gin.Engine {
	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.New(s.corsConfig()))
	router.Use(extra...)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	auth := middlewares.JWT(s.Tokens, s.Accounts.GetUser)
	s.registerAccountRoutes(router.Group("/accounts"), auth)

	news := router.Group("/news", auth)
	s.registerJournalistRoutes(news.Group("/journalists", middlewares.RequireRole(model.RoleJournalist)))
	s.registerEditorRoutes(news.Group("/editors", middlewares.RequireRole(model.RoleEditor)))
	s.registerPublisherRoutes(news.Group("/publishers", middlewares.RequireRole(model.RoleManager)))
	s.registerReaderRoutes(news.Group("/readers", middlewares.RequireRole(model.RoleReader)))

	s.registerAPIRoutes(router.Group("/api", auth, middlewares.RequireRole(model.RoleReader)))
	return router
}
