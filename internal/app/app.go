package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"neuroassess/internal/assessment"
	"neuroassess/internal/cache"
	"neuroassess/internal/config"
	"neuroassess/internal/platform/logger"
	"neuroassess/internal/report"
	"neuroassess/internal/repository"
	"neuroassess/internal/service"
	"neuroassess/internal/transport/rest"
	"neuroassess/internal/transport/ws"
)

// App holds the process-wide dependencies
type App struct {
	Config *config.Config
	Log    *logger.Logger

	Mongo *mongo.Client
	Redis *redis.Client

	QuestionRepo repository.QuestionRepo
	ResultRepo   repository.ResultRepo
	SessionCache cache.SessionCache

	Auth        *service.AuthService
	Assessments *service.AssessmentService
	Hub         *ws.Hub
}

// New connects to MongoDB and Redis and wires every component
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	a.Mongo = mongoClient

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	log.Info("connected to MongoDB", "db", cfg.MongoDB)

	a.Redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
	if err := a.Redis.Ping(pingCtx).Err(); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info("connected to Redis", "addr", cfg.RedisAddr())

	if err := a.wire(mongoClient.Database(cfg.MongoDB)); err != nil {
		a.Close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *App) wire(db *mongo.Database) error {
	cfg := a.Config

	generator, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	// Initialize repositories
	a.QuestionRepo = repository.NewQuestionRepo(db)
	a.ResultRepo = repository.NewResultRepo(db)

	// Snapshot backend
	var backend assessment.PersistenceStore
	switch cfg.StoreBackend {
	case config.StoreMemory:
		backend = cache.NewMemoryStore()
	default:
		a.SessionCache = cache.NewSessionCache(a.Redis, cfg.SnapshotMaxAge)
		backend = a.SessionCache
	}
	store := assessment.NewStore(backend, cfg.SnapshotMaxAge, a.Log)
	a.Log.Info("session store ready", "backend", cfg.StoreBackend, "maxAge", cfg.SnapshotMaxAge)

	// Initialize services
	a.Auth = service.NewAuthService(cfg.JWTSecret, cfg.TokenTTL)
	a.Assessments = service.NewAssessmentService(a.QuestionRepo, generator, store, a.Auth, service.AssessmentConfig{
		AssessmentType: cfg.AssessmentType,
		Autosave:       cfg.Autosave,
	}, a.Log)
	a.Assessments.SetSubmitter(a.ResultRepo)
	a.Assessments.SetReportLookup(a.ResultRepo)
	a.Assessments.SetReportCache(cache.NewReportCache(a.Redis))
	a.Assessments.SetArchetypeStats(cache.NewArchetypeStats(a.Redis))
	a.Assessments.SetQuestionStats(cache.NewQuestionStatsCache(a.Redis))

	// Inject broadcaster (hub implements service.Broadcaster)
	a.Hub = ws.NewHub(a.Log)
	a.Assessments.SetBroadcaster(a.Hub)
	return nil
}

func newGenerator(cfg *config.Config) (*report.Generator, error) {
	if cfg.ReportTables == "" {
		return report.NewDefaultGenerator(cfg.ReportSeed)
	}
	data, err := os.ReadFile(cfg.ReportTables)
	if err != nil {
		return nil, fmt.Errorf("read report tables: %w", err)
	}
	tables, err := report.ParseTables(data)
	if err != nil {
		return nil, err
	}
	return report.NewGenerator(tables, cfg.ReportSeed), nil
}

// Handler builds the HTTP router over the wired services
func (a *App) Handler() http.Handler {
	return rest.NewRouter(&rest.Container{
		AuthService:       a.Auth,
		AssessmentService: a.Assessments,
		WSHub:             a.Hub,
		AllowedOrigins:    a.Config.AllowedOrigins,
		Logger:            a.Log,
	})
}

// Close releases the database connections
func (a *App) Close(ctx context.Context) {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warn("redis close failed", "error", err)
		}
	}
	if a.Mongo != nil {
		if err := a.Mongo.Disconnect(ctx); err != nil {
			a.Log.Warn("mongo disconnect failed", "error", err)
		}
	}
}
