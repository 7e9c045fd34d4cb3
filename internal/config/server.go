package config

import (
	autoreplyHandler "WaiAutoReply/internal/api/autoreply/handler"
	autoreplyService "WaiAutoReply/internal/api/autoreply/service"
	chatHandler "WaiAutoReply/internal/api/chat/handler"
	knowledgeHandler "WaiAutoReply/internal/api/knowledge/handler"
	knowledgeService "WaiAutoReply/internal/api/knowledge/service"
	webhookHandler "WaiAutoReply/internal/api/webhook/handler"
	webhookService "WaiAutoReply/internal/api/webhook/service"
	"WaiAutoReply/internal/middleware"
	"WaiAutoReply/pkg/knowledge"
	"WaiAutoReply/pkg/locale"
	"WaiAutoReply/pkg/nlp"
	"WaiAutoReply/pkg/redis"
	"WaiAutoReply/pkg/s3"
	"WaiAutoReply/pkg/utils"
	"WaiAutoReply/pkg/whatsapp"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const HealthMessage = "Wai Business Pro Fuzzy Auto-Reply is Running! ✅"

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	cfg            *AppConfig
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	handlers       []handler
	knowledgeBase  *nlp.KnowledgeBase
	responder      nlp.IResponder
	translator     locale.ITranslator
	redisServer    redis.IRedis
	whatsappClient whatsapp.IWhatsappSender
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
	if server.cfg == nil {
		return nil, fmt.Errorf("app config is required")
	}
	if server.responder == nil {
		return nil, fmt.Errorf("responder is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.middleware == nil {
		server.middleware = newMiddleware(server.log, server.cfg)
	}
	if server.whatsappClient == nil {
		server.whatsappClient = whatsapp.NewLogSender(server.log)
	}
	if server.translator == nil {
		translator, err := locale.New(server.cfg.DefaultLang)
		if err != nil {
			return nil, fmt.Errorf("failed to create translator: %w", err)
		}
		server.translator = translator
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

func WithAppConfig(cfg *AppConfig) ServerOption {
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

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil || s.cfg == nil {
			return fmt.Errorf("logger and app config must be initialized before middleware")
		}
		s.middleware = newMiddleware(s.log, s.cfg)
		return nil
	}
}

func newMiddleware(log *logrus.Logger, cfg *AppConfig) middleware.Middleware {
	return middleware.New(log, middleware.Options{
		RatePerSecond: cfg.RateLimitRPS,
		RateBurst:     cfg.RateLimitBurst,
		AdminSecret:   cfg.AdminJWTSecret,
	})
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

// WithKnowledgeBase loads intents from source: "embedded", a file path or
// s3://bucket/key.
func WithKnowledgeBase(ctx context.Context, source string) ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before the knowledge base")
		}
		if s.validator == nil {
			s.validator = NewValidator()
		}

		var objects knowledge.ObjectReader
		if strings.HasPrefix(source, "s3://") {
			client, err := s3.New()
			if err != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
				return fmt.Errorf("failed to create S3 client: %w", err)
			}
			objects = client
		}

		kb, err := knowledge.NewLoader(s.log, s.validator, objects).Load(ctx, source)
		if err != nil {
			return fmt.Errorf("failed to load knowledge base: %w", err)
		}

		s.knowledgeBase = kb
		return nil
	}
}

func WithResponder(opts ...nlp.ResponderOption) ServerOption {
	return func(s *Server) error {
		if s.knowledgeBase == nil {
			return fmt.Errorf("knowledge base must be loaded before the responder")
		}

		if s.cfg != nil {
			opts = append([]nlp.ResponderOption{nlp.WithThreshold(s.cfg.ConfidenceThreshold)}, opts...)
		}

		s.responder = nlp.NewResponder(nlp.NewMatcher(s.knowledgeBase), opts...)
		return nil
	}
}

func WithTranslator(defaultLang string) ServerOption {
	return func(s *Server) error {
		translator, err := locale.New(defaultLang)
		if err != nil {
			return fmt.Errorf("failed to create translator: %w", err)
		}
		s.translator = translator
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

// WithWhatsappClient builds the configured delivery driver. Missing Cloud API
// credentials degrade to the log driver so the JSON API still works.
func WithWhatsappClient() ServerOption {
	return func(s *Server) error {
		if s.cfg == nil || s.log == nil {
			return fmt.Errorf("logger and app config must be initialized before the WhatsApp client")
		}

		client, err := whatsapp.New(s.cfg.Whatsapp, s.log)
		if errors.Is(err, whatsapp.ErrMissingCreds) {
			s.log.Warn("WhatsApp Cloud API credentials missing, replies will only be logged")
			client, err = whatsapp.NewLogSender(s.log), nil
		}
		if err != nil {
			s.log.Errorf("Failed to initialize WhatsApp client: %v", err)
			return fmt.Errorf("failed to create WhatsApp client: %w", err)
		}

		s.whatsappClient = client
		return nil
	}
}

func WithWhatsappSender(sender whatsapp.IWhatsappSender) ServerOption {
	return func(s *Server) error {
		s.whatsappClient = sender
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auto-reply Domain
	autoReplyServices := autoreplyService.NewAutoReplyService(s.log, s.responder, s.translator, s.utils)
	autoReplyHandlers := autoreplyHandler.New(s.log, s.validator, s.middleware, autoReplyServices)

	// Webhook Domain
	webhookServices := webhookService.NewWebhookService(s.log, webhookService.Config{
		VerifyToken: s.cfg.WebhookVerifyToken,
		AppSecret:   s.cfg.WhatsappAppSecret,
		DedupTTL:    s.cfg.WebhookDedupTTL,
	}, autoReplyServices, s.whatsappClient, s.redisServer, s.utils)
	webhookHandlers := webhookHandler.New(s.log, s.middleware, webhookServices)

	if source, ok := s.whatsappClient.(whatsapp.IInboundSource); ok {
		source.OnMessage(webhookServices.HandleInbound)
	}

	// Live chat
	chatHandlers := chatHandler.New(s.log, s.validator, s.middleware, autoReplyServices)

	// Knowledge admin
	knowledgeServices := knowledgeService.NewKnowledgeService(s.log, s.responder)
	knowledgeHandlers := knowledgeHandler.New(s.log, s.validator, s.middleware, knowledgeServices)

	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	s.setupHealthCheck()
	s.setupMetrics()
	s.handlers = append(s.handlers, autoReplyHandlers, webhookHandlers, chatHandlers, knowledgeHandlers)

	router := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		h.Start(router)
	}
}

func (s *Server) App() *fiber.App {
	return s.engine
}

func (s *Server) Run() error {
	port := s.cfg.Port
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.engine.ShutdownWithTimeout(timeout); err != nil {
		errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
	}
	if s.whatsappClient != nil {
		if err := s.whatsappClient.Disconnect(); err != nil {
			errs = append(errs, fmt.Errorf("whatsapp disconnect: %w", err))
		}
	}
	if s.redisServer != nil {
		if err := s.redisServer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString(HealthMessage)
	})

	s.engine.Get("/ready", func(ctx *fiber.Ctx) error {
		if s.redisServer == nil {
			return ctx.JSON(fiber.Map{"ready": true, "redis": "disabled"})
		}

		c, cancel := context.WithTimeout(ctx.Context(), 2*time.Second)
		defer cancel()

		if err := s.redisServer.Ping(c); err != nil {
			s.log.WithError(err).Warn("Readiness check failed")
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ready": false, "redis": "down"})
		}
		return ctx.JSON(fiber.Map{"ready": true, "redis": "up"})
	})
}

func (s *Server) setupMetrics() {
	s.engine.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
