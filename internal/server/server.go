package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"alphatrade/internal/quote"
	"alphatrade/internal/service"
)

// Options configures the HTTP server.
type Options struct {
	CORSOrigins []string
	// PreferLive asks the quote provider for live data; it still falls back
	// to synthetic data on any failure.
	PreferLive bool
}

// Server exposes the portfolio tracker over HTTP.
type Server struct {
	engine     *gin.Engine
	portfolio  *service.Portfolio
	quotes     *quote.Provider
	preferLive bool
}

// New creates the server and registers all routes.
func New(p *service.Portfolio, q *quote.Provider, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	s := &Server{
		engine:     engine,
		portfolio:  p,
		quotes:     q,
		preferLive: opts.PreferLive,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	{
		api.GET("/market/data", s.getMarketData)
		api.POST("/trades", s.postTrade)
		api.GET("/trades", s.getTrades)
		api.GET("/holdings", s.getHoldings)
		api.GET("/portfolio/summary", s.getSummary)
		api.GET("/portfolio/snapshots", s.getSnapshots)
	}
}

// Handler returns the underlying http.Handler for mounting into an
// http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}
