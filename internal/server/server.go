package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"todo/docs"
	"todo/internal/cache"
	"todo/internal/config"
	"todo/internal/database"
	"todo/internal/handler"
	"todo/internal/middleware"
	"todo/internal/repository"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Cache  *cache.Cache
	Config *config.Config
	log    zerolog.Logger
}

func Init(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	db, err := database.Open(cfg.DB, cfg.Env, log)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := database.Migrate(cfg.DB, db, log); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to migrate DB: %w", err)
		}
	}

	s := &Server{DB: db, Config: cfg, log: log}

	var store repository.TaskStore = repository.NewTaskRepository(db)
	checks := map[string]handler.Check{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}

	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.Cache = cache.New(client, "task:", cfg.Redis.TTL)
		if err := s.Cache.Ping(context.Background()); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, cache will fall back to the database")
		} else {
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		}
		store = cache.NewTaskStore(store, s.Cache, log)
		checks["redis"] = s.Cache.Ping
	}

	s.Engine = NewRouter(cfg, store, checks, log)
	return s, nil
}

// NewRouter mounts the task resource, health check and API docs.
func NewRouter(cfg *config.Config, store repository.TaskStore, checks map[string]handler.Check, log zerolog.Logger) *gin.Engine {
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.RequestLogger(log))
	r.Use(gin.Recovery())

	taskHandler := handler.NewTaskHandler(store, log)
	healthHandler := handler.NewHealthHandler(checks, log)

	r.GET("/healthz", healthHandler.Health)

	if cfg.HTTP.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.HTTP.BasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	tasks := r.Group(cfg.HTTP.BasePath)
	if cfg.Auth.Enabled {
		tasks.Use(middleware.JWTAuthMiddleware(cfg.Auth.JWTSecret))
	} else {
		log.Warn().Msg("authentication is disabled: the task API is open to anyone who can reach it and must not be exposed publicly")
	}
	{
		tasks.GET("/", taskHandler.List)
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/:id/", taskHandler.GetByID)
		tasks.PUT("/:id/", taskHandler.Update)
		tasks.PATCH("/:id/", taskHandler.Update)
		tasks.DELETE("/:id/", taskHandler.Delete)
	}

	return r
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    s.Config.HTTP.Addr(),
		Handler: s.Engine,
	}

	go func() {
		s.log.Info().Str("addr", srv.Addr).Str("base_path", s.Config.HTTP.BasePath).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Fatal().Err(err).Msg("failed to listen")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.log.Error().Err(err).Msg("server forced to shutdown")
	}

	s.Close()
	s.log.Info().Msg("server exited properly")
}

// Close releases the database pool and the redis client.
func (s *Server) Close() {
	if s.Cache != nil {
		if err := s.Cache.Close(); err != nil {
			s.log.Error().Err(err).Msg("failed to close redis client")
		}
	}
	if err := database.Close(s.DB); err != nil {
		s.log.Error().Err(err).Msg("failed to close database")
	}
}
