package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/codetrack/judged/internal/adapter/crypto"
	"gitlab.com/codetrack/judged/internal/adapter/postgres/leaderboardrepo"
	"gitlab.com/codetrack/judged/internal/adapter/postgres/resultrepo"
	"gitlab.com/codetrack/judged/internal/adapter/postgres/submissionrepo"
	"gitlab.com/codetrack/judged/internal/adapter/postgres/testcaserepo"
	"gitlab.com/codetrack/judged/internal/adapter/redis/boardcache"
	"gitlab.com/codetrack/judged/internal/adapter/sandbox"
	"gitlab.com/codetrack/judged/internal/config"
	"gitlab.com/codetrack/judged/internal/core/services/contest"
	"gitlab.com/codetrack/judged/internal/core/services/judge"
	"gitlab.com/codetrack/judged/internal/core/services/leaderboard"
	"gitlab.com/codetrack/judged/internal/core/services/queue"
	logger2 "gitlab.com/codetrack/judged/internal/global/logger"
	http2 "gitlab.com/codetrack/judged/internal/http"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting judged service")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password, // no password set
		DB:       sysCfg.RedisConfig.DB,       // use default DB
	})
	defer redisClient.Close()

	// SECONDARY PORTS
	subRepo := submissionrepo.NewSubmissionRepository(db, logger)
	tcRepo := testcaserepo.NewTestCaseRepository(db, logger)
	resultRepo := resultrepo.NewResultRepository(db, logger)
	boardRepo := leaderboardrepo.NewLeaderboardRepository(db, logger)
	boardCache := boardcache.NewBoardCache(redisClient, logger)

	workspaces, err := sandbox.NewWorkspaceManager(sysCfg.SandboxConfig.ScratchRoot, logger)
	if err != nil {
		panic(err)
	}
	runner := sandbox.NewProcessRunner(logger)

	// primary ports
	tokenService := crypto.NewTokenService(sysCfg.AuthConfig)

	// services
	judgeSvc := judge.NewJudgeService(runner, workspaces, logger, sysCfg.SandboxConfig)
	aggregator := leaderboard.NewAggregator(boardRepo, boardCache, logger, sysCfg.JudgeConfig)
	submissionQueue := queue.NewSubmissionQueue(sysCfg.QueueConfig, judgeSvc, subRepo, tcRepo, resultRepo, aggregator, logger)
	contestSvc := contest.NewContestService(tcRepo, subRepo, resultRepo, logger, sysCfg.JudgeConfig)
	serviceProvider := http2.NewServiceProvider(submissionQueue, contestSvc, aggregator, tokenService)

	// server
	httServer := http2.NewServer(8082, "judged", *serviceProvider, logger)
	err = httServer.Init()
	if err != nil {
		panic(err)
	}
	ctxBg := context.Background()
	httServer.Start(ctxBg)
	submissionQueue.Start(ctxBg)

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctxBg, 5*time.Second)
	defer cancel()
	httServer.Stop(ctx)
	if err := submissionQueue.Stop(ctx); err != nil {
		logger.Error("Queue shutdown error", "error", err)
	}

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
