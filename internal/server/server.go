package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/quizkit/quizkit/internal/api"
	"github.com/quizkit/quizkit/internal/event"
	"github.com/quizkit/quizkit/internal/fuzzy"
	"github.com/quizkit/quizkit/internal/quiz"
	"github.com/quizkit/quizkit/internal/score"
	"github.com/quizkit/quizkit/internal/store"
	"github.com/quizkit/quizkit/internal/telemetry"
)

type Config struct {
	HTTP struct {
		Port int32
	}

	// Ops serves /metrics, /healthz and pprof on its own port so the quiz
	// API surface stays clean.
	Ops struct {
		Port int32
	}

	Store struct {
		Driver string
		DSN    string
	}

	Scoring struct {
		FuzzyThreshold float64
	}

	API struct {
		EnableReset bool
	}
}

type Server struct {
	c Config

	eb *event.Bus

	infra struct {
		store store.Store
	}

	service struct {
		quiz *quiz.Service
	}

	http *http.Server
	ops  *http.Server
}

func Init(c Config) (*Server, error) {
	s := &Server{c: c}

	s.eb = event.NewBus()
	telemetry.NewMetrics(prometheus.DefaultRegisterer).Observe(s.eb)

	if err := s.initInfra(); err != nil {
		return nil, fmt.Errorf("server: init infra: %w", err)
	}

	s.initService()
	s.initAPI()
	return s, nil
}

func (s *Server) initInfra() error {
	driver := store.Driver(s.c.Store.Driver)
	if driver == "" || driver == store.DriverMemory {
		s.infra.store = store.NewMemory()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := store.OpenSQL(ctx, driver, s.c.Store.DSN)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	s.infra.store = db
	return nil
}

func (s *Server) initService() {
	threshold := s.c.Scoring.FuzzyThreshold
	if threshold == 0 {
		threshold = fuzzy.DefaultThreshold
	}

	s.service.quiz = quiz.NewService(quiz.Config{
		Store:    s.infra.store,
		EventBus: s.eb,
		Scorer: score.NewEngine(score.Config{
			Matcher: fuzzy.NewMatcher(threshold),
		}),
	})
}

func (s *Server) initAPI() {
	app := gin.New()
	app.Use(gin.Recovery(), api.RequestID(), api.AccessLog())

	api.New(api.Config{
		Engine:      app,
		Quiz:        s.service.quiz,
		EnableReset: s.c.API.EnableReset,
	})

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.c.HTTP.Port),
		Handler:           app,
		ReadHeaderTimeout: 60 * time.Second,
	}

	ops := gin.New()
	ops.Use(gin.Recovery())
	ops.GET("/metrics", gin.WrapH(promhttp.Handler()))
	ops.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	pprof.Register(ops, "/debug/pprof")

	s.ops = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.c.Ops.Port),
		Handler:           ops,
		ReadHeaderTimeout: 60 * time.Second,
	}
}

func (s *Server) Start() {
	ctx := context.TODO()

	var eg errgroup.Group
	eg.Go(func() error {
		slog.InfoContext(ctx, fmt.Sprintf("server: API listening on port %d", s.c.HTTP.Port))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		slog.InfoContext(ctx, fmt.Sprintf("server: ops listening on port %d", s.c.Ops.Port))
		if err := s.ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		slog.ErrorContext(ctx, "server: shutdown with error", "error", err)
	}
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "server: shutdown API failed", "error", err)
	}
	if err := s.ops.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "server: shutdown ops failed", "error", err)
	}

	s.eb.Stop()

	if err := s.infra.store.Close(); err != nil {
		slog.ErrorContext(ctx, "server: close store failed", "error", err)
	}

	slog.InfoContext(ctx, "server: shutdown completed")
}
