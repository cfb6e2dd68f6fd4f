package config

import (
	"fmt"

	"PhotoAnalyzer/database/postgres"
	photoHandler "PhotoAnalyzer/internal/api/photo/handler"
	photoRepository "PhotoAnalyzer/internal/api/photo/repository"
	photoService "PhotoAnalyzer/internal/api/photo/service"
	"PhotoAnalyzer/internal/middleware"
	"PhotoAnalyzer/pkg/redis"
	"PhotoAnalyzer/pkg/rekognition"
	"PhotoAnalyzer/pkg/s3"
	"PhotoAnalyzer/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	cfg         AppConfig
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	handlers    []handler
	redisServer redis.IRedis
	s3Client    s3.ItfS3
	vision      rekognition.IRekognition
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.s3Client == nil || server.vision == nil {
		return nil, fmt.Errorf("S3 and Rekognition clients are required")
	}
	if server.middleware == nil {
		return nil, fmt.Errorf("middleware is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithAppConfig(cfg AppConfig) ServerOption {
	return func(s *Server) error {
		s.cfg = cfg
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithDatabase connects the analysis audit store when DB_HOST is set and
// applies pending migrations. Without DB_HOST the server runs without it.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		if !postgres.Enabled() {
			if s.log != nil {
				s.log.Warn("DB_HOST not set, analysis history disabled")
			}
			return nil
		}

		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}

		if err := postgres.MigrateUp(db, s.log); err != nil {
			return err
		}

		s.db = db
		return nil
	}
}

func WithRedisServer() ServerOption {
	return func(s *Server) error {
		if !redis.Enabled() {
			return nil
		}
		s.redisServer = redis.New()
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}

		opts := []middleware.Option{
			middleware.WithTokenSecret(s.cfg.JWTSecret),
		}
		if s.cfg.RateLimit > 0 && s.cfg.RateBurst > 0 {
			opts = append(opts, middleware.WithRateLimit(rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst))
		}
		if s.redisServer != nil {
			opts = append(opts, middleware.WithSharedRateLimit(s.redisServer))
		}

		s.middleware = middleware.New(s.log, opts...)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithRekognitionClient() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before Rekognition client")
		}
		client, err := rekognition.New(s.log)
		if err != nil {
			s.log.Errorf("Failed to initialize Rekognition client: %v", err)
			return fmt.Errorf("failed to create Rekognition client: %w", err)
		}
		s.vision = client
		return nil
	}
}

// WithStorage and WithVision inject already built clients.
func WithStorage(client s3.ItfS3) ServerOption {
	return func(s *Server) error {
		s.s3Client = client
		return nil
	}
}

func WithVision(client rekognition.IRekognition) ServerOption {
	return func(s *Server) error {
		s.vision = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

// Engine exposes the Fiber app for tests and graceful shutdown.
func (s *Server) Engine() *fiber.App {
	return s.engine
}

func (s *Server) RegisterHandler() {
	var photoRepo photoRepository.Repository
	if s.db != nil {
		photoRepo = photoRepository.New(s.db, s.log)
	}

	photoServices := photoService.NewPhotoService(s.log, s.cfg.Photo, s.s3Client, s.vision, photoRepo, s.utils)
	photoHandlers := photoHandler.New(s.log, s.validator, s.middleware, photoServices, s.utils, s.cfg.ReportTimeout)

	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	s.setupHealthCheck()
	s.handlers = append(s.handlers, photoHandlers)

	for _, h := range s.handlers {
		h.Start(s.engine)
	}
}

func (s *Server) Run() error {
	port := s.cfg.Port
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown() error {
	err := s.engine.Shutdown()

	if s.redisServer != nil {
		if cerr := s.redisServer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if s.db != nil {
		if cerr := s.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
