// Package httpapi exposes the session entry points as a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jamesfeng2009/forecastdesk/internal/app"
	"go.uber.org/zap"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second

	DefaultMaxSessions = 1024
	DefaultSessionIdle = 30 * time.Minute
)

// ErrSessionLimit is returned when every session slot is held by a session
// that has not yet gone idle.
var ErrSessionLimit = errors.New("session limit reached")

type sessionEntry struct {
	session  app.Session
	lastUsed time.Time
}

// Server routes requests to per-client sessions. A client opens a session
// with POST /v1/sessions and passes its id in every further path. Sessions
// unused for longer than the idle timeout are dropped.
type Server struct {
	newSession  app.SessionFactory
	logger      *zap.Logger
	maxSessions int
	idle        time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry

	engine *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxSessions caps concurrently open sessions; n <= 0 removes the cap.
func WithMaxSessions(n int) Option {
	return func(s *Server) { s.maxSessions = n }
}

// WithSessionIdleTimeout sets how long an unused session is kept; d <= 0
// keeps sessions until they are closed.
func WithSessionIdleTimeout(d time.Duration) Option {
	return func(s *Server) { s.idle = d }
}

func withClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates a server opening sessions with newSession.
func NewServer(newSession app.SessionFactory, opts ...Option) *Server {
	s := &Server{
		newSession:  newSession,
		logger:      zap.NewNop(),
		maxSessions: DefaultMaxSessions,
		idle:        DefaultSessionIdle,
		now:         time.Now,
		sessions:    make(map[string]*sessionEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("http")
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) openSession() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireIdleLocked()
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		return "", ErrSessionLimit
	}
	id := uuid.NewString()
	s.sessions[id] = &sessionEntry{session: s.newSession(), lastUsed: s.now()}
	return id, nil
}

// session looks up id and marks it used. An idle session is dropped and
// reported as unknown.
func (s *Server) session(id string) (app.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(e, now) {
		delete(s.sessions, id)
		return nil, false
	}
	e.lastUsed = now
	return e.session, true
}

func (s *Server) closeSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *Server) expired(e *sessionEntry, now time.Time) bool {
	return s.idle > 0 && now.Sub(e.lastUsed) > s.idle
}

func (s *Server) expireIdleLocked() {
	now := s.now()
	n := 0
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
			n++
		}
	}
	if n > 0 {
		s.logger.Debug("idle sessions expired", zap.Int("count", n), zap.Int("open", len(s.sessions)))
	}
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(requestID(), requestLogger(s.logger), recovery(s.logger), limitBody(maxBodyBytes))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/v1")
	v1.POST("/sessions", s.handleOpenSession)
	v1.DELETE("/sessions/:session", s.handleCloseSession)

	sess := v1.Group("/sessions/:session", s.requireSession)
	sess.POST("/orders/text", s.handleSubmitText)
	sess.POST("/orders/json", s.handleSubmitJSON)
	sess.POST("/orders", s.handleSubmitOrder)
	sess.POST("/payload", s.handleBuildPayload)

	sess.GET("/draft", s.handleDraftStatus)
	sess.POST("/draft", s.handleAccumulateDraft)
	sess.POST("/draft/submit", s.handleSubmitDraft)
	sess.DELETE("/draft", s.handleResetDraft)

	sess.GET("/last-order", s.handleLastOrder)
	sess.GET("/last-order/status", s.handleLastOrderStatus)
	sess.GET("/tracking/:number", s.handleTrack)
	sess.POST("/waybills", s.handleWaybills)
	sess.GET("/options/:dictionary", s.handleOptions)

	return engine
}
