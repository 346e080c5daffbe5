package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"capitals-quiz/internal/app"
	"capitals-quiz/internal/domain"
	pgstore "capitals-quiz/internal/infra/postgres"
	pgmigrations "capitals-quiz/internal/infra/postgres/migrations"
	infraredis "capitals-quiz/internal/infra/redis"
	"capitals-quiz/internal/questionbank"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"golang.org/x/crypto/bcrypt"
)

func TestLeaderboardAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	store := pgstore.NewLeaderboardStore(pool)
	service := app.NewLeaderboardService(store)

	if _, err := service.RecordScore(ctx, "alice", 50, domain.TierEasy); err != nil {
		t.Fatalf("record: %v", err)
	}
	out, err := service.RecordScore(ctx, "alice", 30, domain.TierEasy)
	if err != nil {
		t.Fatalf("record lower: %v", err)
	}
	if out.TierImproved || out.Entry.Score != 50 {
		t.Fatalf("expected max to be kept, got %+v", out)
	}

	out, err = service.RecordScore(ctx, "alice", 80, domain.TierHard)
	if err != nil {
		t.Fatalf("record hard: %v", err)
	}
	if !out.NewOverallBest || !out.Entry.IsBestOverall {
		t.Fatalf("expected hard row to take the best flag, got %+v", out)
	}

	scores, err := service.GetUserScores(ctx, "alice")
	if err != nil {
		t.Fatalf("user scores: %v", err)
	}
	flagged := 0
	for _, row := range scores.Scores {
		if row.IsBestOverall {
			flagged++
		}
	}
	if len(scores.Scores) != 2 || flagged != 1 || scores.BestScore.Tier != domain.TierHard {
		t.Fatalf("unexpected user scores: %+v", scores)
	}

	rows, err := service.GetLeaderboard(ctx, domain.TierEasy)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("easy row is not best overall, got %+v", rows)
	}
	rows, err = service.GetLeaderboard(ctx, domain.TierAll)
	if err != nil {
		t.Fatalf("leaderboard all: %v", err)
	}
	if len(rows) != 1 || rows[0].Score != 80 {
		t.Fatalf("unexpected leaderboard: %+v", rows)
	}

	n, err := service.Reconcile(ctx)
	if err != nil || n != 1 {
		t.Fatalf("reconcile: n=%d err=%v", n, err)
	}

	pins := app.NewPinGuard(store, app.WithBcryptCost(bcrypt.MinCost))
	if err := pins.SetPin(ctx, "alice", "1234"); err != nil {
		t.Fatalf("set pin: %v", err)
	}
	ok, err := pins.VerifyPin(ctx, "alice", "1234")
	if err != nil || !ok {
		t.Fatalf("verify pin: ok=%v err=%v", ok, err)
	}
	available, err := service.UsernameAvailable(ctx, "bob")
	if err != nil || !available {
		t.Fatalf("bob should be available: %v %v", available, err)
	}
}

func TestQuizStartWithPostgresCatalogAndRedis(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()
	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewCatalogLoader(pool)
	facts, err := loader.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(facts) != len(questionbank.Capitals()) {
		t.Fatalf("expected seeded catalog of %d facts, got %d", len(questionbank.Capitals()), len(facts))
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	catalog := infraredis.NewCatalogRepository(redisClient, loader, 5*time.Minute, zerolog.Nop())
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute, zerolog.Nop())
	service := app.NewQuizService(sessions, catalog, app.WithCountdownTick(0))

	view, err := service.Start(ctx, domain.StartRequest{Username: "alice"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.Status != domain.StatusInProgress || view.Tier != domain.TierEasy || view.CurrentQuestion == nil {
		t.Fatalf("unexpected start view: %+v", view)
	}

	if n, err := redisClient.Exists(ctx, infraredis.CatalogKey).Result(); err != nil || n != 1 {
		t.Fatalf("expected catalog cached in redis: n=%d err=%v", n, err)
	}
	live, err := sessions.Live(ctx)
	if err != nil || live != 1 {
		t.Fatalf("expected one live session: live=%d err=%v", live, err)
	}

	if err := service.Abandon(ctx, view.SessionID); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	live, err = sessions.Live(ctx)
	if err != nil || live != 0 {
		t.Fatalf("expected no live sessions: live=%d err=%v", live, err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
