package photoHandler

import (
	"time"

	photoService "PhotoAnalyzer/internal/api/photo/service"
	"PhotoAnalyzer/internal/middleware"
	"PhotoAnalyzer/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	defaultReportTimeout  = 60 * time.Second
	defaultRequestTimeout = 15 * time.Second
)

type PhotoHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	photoService   photoService.IPhotoService
	utils          utils.IUtils
	reportTimeout  time.Duration
	requestTimeout time.Duration
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ps photoService.IPhotoService,
	utils utils.IUtils,
	reportTimeout time.Duration,
) *PhotoHandler {
	if reportTimeout <= 0 {
		reportTimeout = defaultReportTimeout
	}

	return &PhotoHandler{
		log:            log,
		validator:      validator,
		middleware:     middleware,
		photoService:   ps,
		utils:          utils,
		reportTimeout:  reportTimeout,
		requestTimeout: defaultRequestTimeout,
	}
}

func (h *PhotoHandler) Start(srv fiber.Router) {
	photos := srv.Group("/aws-analyzer/photo", h.middleware.NewRateLimiter, h.middleware.NewTokenMiddleware)

	photos.Get("", h.Report)
	photos.Get("/compare/:sourceImage/:targetImage", h.Compare)
	photos.Get("/history/:key", h.History)
}
