package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/core/services/contest"
	"gitlab.com/codetrack/judged/internal/core/services/leaderboard"
	"gitlab.com/codetrack/judged/internal/core/services/queue"
	"gitlab.com/codetrack/judged/internal/handlers"
	"gitlab.com/codetrack/judged/internal/handlers/auth"
	"gitlab.com/codetrack/judged/internal/handlers/contests"
	"gitlab.com/codetrack/judged/internal/handlers/submissions"
)

type ServiceProvider struct {
	submissionQueue queue.ISubmissionQueue
	contestService  contest.IContestService
	aggregator      leaderboard.IAggregator
	authService     primary.AdminAuthService
}

func NewServiceProvider(
	submissionQueue queue.ISubmissionQueue,
	contestService contest.IContestService,
	aggregator leaderboard.IAggregator,
	authService primary.AdminAuthService,
) *ServiceProvider {
	return &ServiceProvider{
		submissionQueue: submissionQueue,
		contestService:  contestService,
		aggregator:      aggregator,
		authService:     authService,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	mw := handlers.New(s.ServiceProvider.authService)
	submissions.
		NewSubmissionHandler(s.ServiceProvider.submissionQueue, s.ServiceProvider.contestService, s.logger).
		RegisterRoutes(r)
	contests.
		NewContestHandler(s.ServiceProvider.contestService, s.ServiceProvider.aggregator, s.ServiceProvider.submissionQueue, s.logger).
		RegisterRoutes(r, mw)
	auth.NewAuthHandler(s.ServiceProvider.authService, s.logger).RegisterRoutes(r)
	s.router = r
	return nil
}

func (s *Server) Start(ctx context.Context) {
	// Set up server
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv != nil {
		if err := s.srv.Shutdown(ctx); err != nil {
			s.logger.Error("Server shutdown error", "error", err)
		}
	}
}
