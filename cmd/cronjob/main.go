package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/lib/pq"

	"labelstartup-backend/internal/config"
	"labelstartup-backend/internal/jobs"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository/postgres"
	"labelstartup-backend/internal/scheduler"
	"labelstartup-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ("+strings.Join(jobs.JobNames, ", ")+")")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Label Startup Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Services
	var mailer service.Mailer
	switch cfg.Email.Provider {
	case "sendgrid":
		mailer = service.NewSendGridMailer(cfg.Email.SendGridAPIKey, cfg.Email.FromAddress, cfg.Email.FromName)
	case "smtp":
		mailer = service.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPUser, cfg.Email.SMTPPassword, cfg.Email.FromAddress, cfg.Email.FromName)
	default:
		logger.Warn("Email provider not configured, reminders will be skipped")
		mailer = service.NewDisabledMailer()
	}
	emailService := service.NewEmailService(mailer, cfg.Email.ContactInbox, cfg.Server.PublicBaseURL)

	pushService := service.NewDisabledPush()
	if cfg.Push.CredentialsFile != "" {
		pushService, err = service.NewFirebasePush(context.Background(), cfg.Push.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize push notifications", "error", err)
			log.Fatalf("Failed to initialize push notifications: %v", err)
		}
	}
	notificationService := service.NewNotificationService(store.NotificationRepository, store.PushTokenRepository, pushService)

	applicationService := service.NewApplicationService(
		store.ApplicationRepository,
		store.StartupRepository,
		store.DraftRepository,
		store.DocumentRequestRepository,
		store.VotingRepository,
		store.UserRepository,
		notificationService,
		emailService,
	)

	votingService := service.NewVotingService(
		store.VotingRepository,
		store.EvaluationRepository,
		store.ApplicationRepository,
		applicationService,
		cfg.Voting.DefaultQuorum,
	)

	jobRepos := jobs.Repositories{
		Applications:     store.ApplicationRepository,
		Startups:         store.StartupRepository,
		Users:            store.UserRepository,
		Drafts:           store.DraftRepository,
		Evaluations:      store.EvaluationRepository,
		DocumentRequests: store.DocumentRequestRepository,
		Stats:            store.StatsRepository,
	}
	jobServices := &jobs.Services{
		Email:  emailService,
		Voting: votingService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobRepos, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.Run(*runOnce); err != nil {
			logger.Error("Job execution failed", "job", *runOnce, "error", err)
			fmt.Printf("Available jobs:\n")
			for _, name := range jobs.JobNames {
				fmt.Printf("  - %s\n", name)
			}
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to register jobs", "error", err)
		log.Fatalf("Failed to register jobs: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "jobs", cronScheduler.Entries())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}
