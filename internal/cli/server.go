package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"capitals-quiz/internal/app"
	"capitals-quiz/internal/config"
	"capitals-quiz/internal/infra/memory"
	pgstore "capitals-quiz/internal/infra/postgres"
	redisstore "capitals-quiz/internal/infra/redis"
	"capitals-quiz/internal/logging"
	"capitals-quiz/internal/metrics"
	"capitals-quiz/internal/questionbank"
	transport "capitals-quiz/internal/transport/http"
	"capitals-quiz/internal/worker"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

type leaderboardBackend interface {
	app.LeaderboardStore
	app.PinStore
}

func newPostgresStore(pool *pgxpool.Pool) leaderboardBackend {
	return pgstore.NewLeaderboardStore(pool)
}

func loadConfig(path string) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	return cfg, log, nil
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
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
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(questionbank.Capitals())
	var backend leaderboardBackend = memory.NewLeaderboardStore()
	if pool != nil {
		loader = pgstore.NewCatalogLoader(pool)
		backend = newPostgresStore(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, time.Hour)
	var catalog app.CatalogRepository
	if redisClient != nil {
		catalog = redisstore.NewCatalogRepository(redisClient, loader, catalogTTL, logging.Component(log, "catalog"))
	} else {
		catalog = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, redisTTL, logging.Component(log, "sessions"))
	} else {
		sessions = memory.NewSessionStore()
	}

	leaderboard := app.NewLeaderboardService(backend, app.WithLeaderboardLogger(logging.Component(log, "leaderboard")))
	pins := app.NewPinGuard(backend,
		app.WithBcryptCost(cfg.Pin.BcryptCost),
		app.WithPinLogger(logging.Component(log, "pins")),
	)
	queue := worker.NewResultQueue(cfg.Writer.Queue)
	quiz := app.NewQuizService(sessions, catalog,
		app.WithPinChecker(pins),
		app.WithResultPublisher(queue),
		app.WithCountdownTick(config.TTLDuration(cfg.Quiz.Tick, time.Second)),
		app.WithQuizLogger(logging.Component(log, "quiz")),
	)
	writer := worker.NewWriter(queue, leaderboard, quiz,
		worker.WithWorkers(cfg.Writer.Workers),
		worker.WithRetries(cfg.Writer.Retries),
		worker.WithBackoff(config.TTLDuration(cfg.Writer.Backoff, 200*time.Millisecond)),
		worker.WithLogger(logging.Component(log, "writer")),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", metrics.Handler())
	transport.NewAPI(quiz, leaderboard, pins, logging.Component(log, "api")).Register(mux)
	mux.HandleFunc("GET /ws", transport.NewWSHandler(quiz, logging.Component(log, "ws")).ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.Instrument(mux, logging.Component(log, "http")),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(sigCtx)

	// The writer outlives the signal so queued results are drained on shutdown.
	writerCtx, stopWriter := context.WithCancel(context.Background())
	defer stopWriter()
	g.Go(func() error {
		return writer.Run(writerCtx)
	})

	g.Go(func() error {
		log.Info().Str("port", finalPort).Msg("starting quiz service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	sessionTTL := config.TTLDuration(cfg.Quiz.SessionTTL, 30*time.Minute)
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				quiz.Sweep(sessionTTL)
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		timeout := config.TTLDuration(cfg.Server.ShutdownTimeout, 10*time.Second)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if werr := writer.Shutdown(shutdownCtx); werr != nil {
			log.Warn().Err(werr).Msg("writer did not drain")
		}
		stopWriter()
		return err
	})

	return g.Wait()
}
