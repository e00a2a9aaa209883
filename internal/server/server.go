package server

import (
	"context"
	"net/http"
	"sync"

	"dark-orbit/internal/config"
	"dark-orbit/internal/game"
	"dark-orbit/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Server struct {
	engine   *game.Engine
	lobbies  *lobbyStore
	sessions *sessionStore
	ws       *wsHub
	db       *gorm.DB
	cfg      config.Config

	ctx    context.Context
	cancel context.CancelFunc
	loops  sync.WaitGroup

	historyMu sync.Mutex
	history   map[string]uint
}

// New builds a server around a fresh engine. Extra engine options are
// applied after the ones derived from cfg.
func New(conn *gorm.DB, cfg config.Config, opts ...game.Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		lobbies:  newLobbyStore(cfg.MaxPlayers),
		sessions: newSessionStore(),
		ws:       newWSHub(),
		db:       conn,
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		history:  make(map[string]uint),
	}
	base := []game.Option{
		game.WithTimings(cfg.Timings()),
		game.WithRuleset(cfg.Ruleset()),
	}
	s.engine = game.NewEngine(game.NewStore(), game.NewNotifications(), append(base, opts...)...)
	s.registerNotifications()
	registerValidators()
	return s
}

func (s *Server) Engine() *game.Engine { return s.engine }

func (s *Server) Handler() http.Handler {
	if s.cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/", s.handleHome)
	router.GET("/gameover/:code", s.handleGameOverView)
	router.GET("/ws/lobbies/:code", s.handleWebsocket)

	api := router.Group("/api")
	api.POST("/sessions", s.handleSession)
	api.POST("/lobbies", s.handleCreateLobby)
	api.GET("/lobbies/:code", s.handleGetLobby)
	api.POST("/lobbies/:code/join", s.handleJoinLobby)
	api.POST("/lobbies/:code/leave", s.handleLeaveLobby)
	api.POST("/lobbies/:code/ready", s.handleReady)
	api.GET("/lobbies/:code/qr.png", s.handleLobbyQR)
	api.GET("/games/:code", s.handleGetGame)
	api.GET("/games/:code/pois", s.handleGetPOIs)
	api.POST("/games/:code/pois", s.handleUpdatePOIs)

	router.StaticFS("/static", http.FS(web.Static()))
	return router
}

// Shutdown cancels every running game loop and waits for them to return.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	done := make(chan struct{})
	go func() {
		s.loops.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		event := log.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}
