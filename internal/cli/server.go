package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/kunalroy0223/liveiq/internal/app"
	"github.com/kunalroy0223/liveiq/internal/config"
	"github.com/kunalroy0223/liveiq/internal/infra/memory"
	"github.com/kunalroy0223/liveiq/internal/infra/postgres"
	redisinfra "github.com/kunalroy0223/liveiq/internal/infra/redis"
	transport "github.com/kunalroy0223/liveiq/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the live quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, time.Hour)
	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var (
		liveRepo     app.LiveRepository
		questionRepo app.QuestionRepository
		userRepo     app.UserRepository
	)
	if pool != nil {
		liveRepo = postgres.NewLiveStore(pool)
		questionRepo = postgres.NewQuestionStore(pool)
		userRepo = postgres.NewUserStore(pool)
	} else {
		log.Printf("postgres not configured, using in-memory stores")
		liveRepo = memory.NewLiveStore()
		questionRepo = memory.NewQuestionStore()
		userRepo = memory.NewUserStore()
	}

	if redisClient != nil {
		questionRepo = redisinfra.NewQuestionCache(redisClient, questionRepo, cacheTTL)
	}

	var submissions app.SubmissionStore
	if redisClient != nil {
		submissions = redisinfra.NewSubmissionStore(redisClient, redisTTL)
	} else {
		submissions = memory.NewSubmissionStore()
	}

	hub := app.NewHub()
	liveService := app.NewLiveService(liveRepo, questionRepo, userRepo, submissions, hub, cfg.Quiz.QuestionSeconds, time.Second)
	questionService := app.NewQuestionService(questionRepo, liveService, hub)
	userService := app.NewUserService(userRepo, hub, cfg.Admin.Username, cfg.Admin.Password)

	tokens := transport.NewTokenIssuer(cfg.Auth.JWTSecret, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))
	server := transport.NewServer(userService, questionService, liveService, hub, tokens, cfg.Server.StaticDir)

	httpServer := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting liveiq on :%s", finalPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
