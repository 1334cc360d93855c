// Package server exposes the HTTP API: the conversational interview,
// listing scoring, listing insights and structured criteria intake.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Arthurlmr/weleev-sub000/models"
	"github.com/Arthurlmr/weleev-sub000/storage"
)

// ChatService advances the interview by one user message.
type ChatService interface {
	AdvanceConversation(ctx context.Context, userID uuid.UUID, message string) (*models.ChatTurnResult, error)
}

// ScoreService computes or serves the cached listing score.
type ScoreService interface {
	ScoreListing(ctx context.Context, userID, listingID uuid.UUID) (*models.ScoreRecord, error)
}

// InsightService generates or serves the cached listing insight.
type InsightService interface {
	GetInsight(ctx context.Context, userID, listingID uuid.UUID) (*models.ListingInsight, error)
}

type Server struct {
	engine  *gin.Engine
	http    *http.Server
	chat    ChatService
	scores  ScoreService
	insight InsightService
	store   storage.Store
	logger  *zap.Logger
}

func New(addr string, chat ChatService, scores ScoreService, insight InsightService, store storage.Store, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:  engine,
		chat:    chat,
		scores:  scores,
		insight: insight,
		store:   store,
		logger:  logger,
	}

	engine.Use(s.requestLogger())
	s.routes()

	s.http = &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api/v1")
	api.POST("/chat", s.handleChat)
	api.POST("/score", s.handleScore)
	api.POST("/insight", s.handleInsight)
	api.POST("/criteria", s.handleCreateCriteria)
	api.GET("/profile/:user_id", s.handleGetProfile)
	api.GET("/listings/:id", s.handleGetListing)
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
