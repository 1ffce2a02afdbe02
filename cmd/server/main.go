package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "labelstartup-backend/internal/api/http"
	"labelstartup-backend/internal/config"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/queue"
	"labelstartup-backend/internal/realtime"
	"labelstartup-backend/internal/repository/postgres"
	"labelstartup-backend/internal/security"
	"labelstartup-backend/internal/service"
	"labelstartup-backend/internal/storage"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Label Startup backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "environment", cfg.Server.Environment)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Email configuration", "provider", cfg.Email.Provider, "from", cfg.Email.FromAddress)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize Storage
	maxUploadBytes := cfg.Storage.MaxFileSizeMB << 20
	logger.Info("Using local document storage", "upload_dir", cfg.Storage.UploadDir, "bucket", cfg.Storage.Bucket)
	documentStore, err := storage.NewLocalStorage(storage.Config{
		Bucket:        cfg.Storage.Bucket,
		Dir:           cfg.Storage.UploadDir,
		BaseURL:       cfg.Storage.BaseURL,
		SigningSecret: cfg.Storage.SigningSecret,
		MaxBytes:      maxUploadBytes,
		URLExpiry:     cfg.Storage.SignedURLExpiry,
	})
	if err != nil {
		logger.Error("Failed to initialize document storage", "error", err)
		log.Fatalf("Failed to initialize document storage: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize providers
	emailSvc := service.NewEmailService(newMailer(cfg.Email), cfg.Email.ContactInbox, cfg.Server.PublicBaseURL)

	pushSvc := service.NewDisabledPush()
	if cfg.Push.CredentialsFile != "" {
		pushSvc, err = service.NewFirebasePush(ctx, cfg.Push.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize push notifications", "error", err)
			log.Fatalf("Failed to initialize push notifications: %v", err)
		}
		logger.Info("Firebase push notifications enabled")
	}

	var fanOut service.FanOutQueue
	var rabbit *queue.RabbitMQ
	if cfg.Queue.URL != "" {
		rabbit, err = queue.Dial(cfg.Queue.URL, cfg.Queue.QueueName)
		if err != nil {
			logger.Error("Failed to connect to queue", "error", err)
			log.Fatalf("Failed to connect to queue: %v", err)
		}
		defer rabbit.Close()
		fanOut = rabbit
	} else {
		logger.Info("No queue configured, notification fan-out runs inline")
	}

	origins := httpapi.NewOriginPolicy(cfg.CORS)
	hub := realtime.NewHub(realtime.Options{CheckOrigin: origins.CheckOrigin})
	defer hub.Close()

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	noteSvc := service.NewNotificationService(store.NotificationRepository, store.PushTokenRepository, pushSvc)
	notifySvc := service.NewNotifyService(
		store.ApplicationRepository,
		store.StartupRepository,
		store.UserRepository,
		emailSvc,
		noteSvc,
		fanOut,
	)
	appSvc := service.NewApplicationService(
		store.ApplicationRepository,
		store.StartupRepository,
		store.DraftRepository,
		store.DocumentRequestRepository,
		store.VotingRepository,
		store.UserRepository,
		noteSvc,
		emailSvc,
	)
	votingSvc := service.NewVotingService(
		store.VotingRepository,
		store.EvaluationRepository,
		store.ApplicationRepository,
		appSvc,
		cfg.Voting.DefaultQuorum,
	)
	evaluationSvc := service.NewEvaluationService(
		store.EvaluationRepository,
		store.ApplicationRepository,
		store.UserRepository,
		votingSvc,
	)
	dashboardSvc := service.NewDashboardService(
		store.ApplicationRepository,
		store.StartupRepository,
		store.EvaluationRepository,
		store.VotingRepository,
		store.DocumentRequestRepository,
		store.UserRepository,
		cfg.Voting.DefaultQuorum,
	)
	commentSvc := service.NewCommentService(
		store.CommentRepository,
		store.ApplicationRepository,
		store.EvaluationRepository,
		store.UserRepository,
		noteSvc,
		hub,
		cfg.Comments.EditWindow,
	)
	docReqSvc := service.NewDocumentRequestService(
		store.DocumentRequestRepository,
		store.ApplicationRepository,
		notifySvc,
		noteSvc,
	)
	documentSvc := service.NewDocumentService(store.StartupRepository, documentStore, cfg.Storage.AllowedTypes, cfg.Storage.SignedURLExpiry)
	contentSvc := service.NewContentService(store.ContentRepository, store.StartupRepository, store.StatsRepository, notifySvc)
	contactSvc := service.NewContactService(store.ContactRepository, emailSvc)
	newsSvc := service.NewNewsService(cfg.News.APIURL, cfg.News.APIKey, cfg.News.Model, cfg.News.Timeout)

	if rabbit != nil {
		if err := rabbit.Consume(ctx, notifySvc.HandleFanOut); err != nil {
			logger.Error("Failed to start fan-out consumer", "error", err)
			log.Fatalf("Failed to start fan-out consumer: %v", err)
		}
	}

	router := httpapi.NewRouter(httpapi.Services{
		Auth:             authSvc,
		Applications:     appSvc,
		Dashboard:        dashboardSvc,
		Evaluations:      evaluationSvc,
		Voting:           votingSvc,
		Comments:         commentSvc,
		DocumentRequests: docReqSvc,
		Documents:        documentSvc,
		Notifications:    noteSvc,
		Content:          contentSvc,
		Notify:           notifySvc,
		Contact:          contactSvc,
		News:             newsSvc,
	}, tokenManager, hub, origins, httpapi.Options{
		Development:    cfg.IsDevelopment(),
		Bucket:         cfg.Storage.Bucket,
		MaxUploadBytes: maxUploadBytes,
		HealthCheck:    store.DB().PingContext,
	})

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

// newMailer picks the outbound provider. Without one, emails are logged and skipped.
func newMailer(cfg config.EmailConfig) service.Mailer {
	switch cfg.Provider {
	case "sendgrid":
		return service.NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromAddress, cfg.FromName)
	case "smtp":
		return service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromAddress, cfg.FromName)
	default:
		logger.Warn("Email provider not configured, outbound email disabled")
		return service.NewDisabledMailer()
	}
}
