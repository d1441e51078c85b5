package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"lottohouse/config"
	"lottohouse/domain/interfaces"
)

// Server wraps the gin engine and its HTTP listener
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer builds the router with all routes registered
func NewServer(cfg *config.Config, uowFactory interfaces.UnitOfWorkFactory) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	rules := cfg.Rules()
	drawHandler := NewDrawHandler(uowFactory, rules)
	ticketHandler := NewTicketHandler(uowFactory, rules)
	walletHandler := NewWalletHandler(uowFactory, rules)
	rankHandler := NewRankHandler(uowFactory, rules)
	chatHandler := NewChatHandler(uowFactory)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/register", walletHandler.Register)

		apiGroup.POST("/draws", drawHandler.CreateDraw)
		apiGroup.POST("/draws/:id/complete", drawHandler.CompleteDraw)
		apiGroup.GET("/draws/current", drawHandler.GetCurrentDraw)
		apiGroup.GET("/draws/:id", drawHandler.GetDraw)

		apiGroup.POST("/tickets", ticketHandler.PurchaseTicket)
		apiGroup.GET("/users/:id/tickets", ticketHandler.ListUserTickets)

		apiGroup.POST("/deposits", walletHandler.RecordDeposit)
		apiGroup.POST("/admin/deposits", walletHandler.AdminDeposit)
		apiGroup.GET("/users/:id/transactions", walletHandler.ListTransactions)
		apiGroup.GET("/users/:id/balance", walletHandler.GetBalance)

		apiGroup.GET("/users/:id/rank", rankHandler.GetUserRank)

		apiGroup.GET("/chat", chatHandler.ListMessages)
		apiGroup.POST("/chat", chatHandler.PostMessage)
	}

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: router,
		},
	}
}

// Start begins serving HTTP requests, blocking until the listener stops
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("starting HTTP server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the engine for in-process testing
func (s *Server) Router() *gin.Engine {
	return s.router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("request")
		} else {
			entry.Debug("request")
		}
	}
}
