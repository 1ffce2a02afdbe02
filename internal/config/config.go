package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Email     EmailConfig     `yaml:"email"`
	Storage   StorageConfig   `yaml:"storage"`
	CORS      CORSConfig      `yaml:"cors"`
	Voting    VotingConfig    `yaml:"voting"`
	Comments  CommentsConfig  `yaml:"comments"`
	Drafts    DraftsConfig    `yaml:"drafts"`
	Push      PushConfig      `yaml:"push"`
	News      NewsConfig      `yaml:"news"`
	Queue     QueueConfig     `yaml:"queue"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Environment   string `yaml:"environment"` // "development" or "production"
	PublicBaseURL string `yaml:"public_base_url"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// EmailConfig selects the outbound email provider. An empty provider disables email.
type EmailConfig struct {
	Provider       string `yaml:"provider"` // "sendgrid", "smtp" or ""
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	SMTPHost       string `yaml:"smtp_host"`
	SMTPPort       int    `yaml:"smtp_port"`
	SMTPUser       string `yaml:"smtp_user"`
	SMTPPassword   string `yaml:"smtp_password"`
	FromAddress    string `yaml:"from_address"`
	FromName       string `yaml:"from_name"`
	ContactInbox   string `yaml:"contact_inbox"`
}

// StorageConfig contains document storage settings
type StorageConfig struct {
	Type            string        `yaml:"type"` // "local"
	Bucket          string        `yaml:"bucket"`
	UploadDir       string        `yaml:"upload_dir"`
	BaseURL         string        `yaml:"base_url"`
	SigningSecret   string        `yaml:"signing_secret"`
	SignedURLExpiry time.Duration `yaml:"signed_url_expiry"`
	MaxFileSizeMB   int64         `yaml:"max_file_size_mb"`
	AllowedTypes    []string      `yaml:"allowed_types"`
}

// CORSConfig lists exact origins plus origin suffixes (preview deployments).
type CORSConfig struct {
	AllowedOrigins        []string `yaml:"allowed_origins"`
	AllowedOriginSuffixes []string `yaml:"allowed_origin_suffixes"`
}

type VotingConfig struct {
	DefaultQuorum int `yaml:"default_quorum"`
}

type CommentsConfig struct {
	EditWindow time.Duration `yaml:"edit_window"`
}

type DraftsConfig struct {
	AutosaveInterval time.Duration `yaml:"autosave_interval"`
	StaleAfterDays   int           `yaml:"stale_after_days"`
}

// PushConfig enables Firebase push when a credentials file is set.
type PushConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

// NewsConfig points at a search-augmented chat completion API.
type NewsConfig struct {
	APIURL  string        `yaml:"api_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// QueueConfig enables the RabbitMQ fan-out when URL is set.
type QueueConfig struct {
	URL       string `yaml:"url"`
	QueueName string `yaml:"queue_name"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	RecomputeVotingDecisions     string `yaml:"recompute_voting_decisions"`
	SendDocumentRequestReminders string `yaml:"send_document_request_reminders"`
	RefreshPlatformStats         string `yaml:"refresh_platform_stats"`
	PurgeStaleDrafts             string `yaml:"purge_stale_drafts"`
	ReminderAfterDays            int    `yaml:"reminder_after_days"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file. A .env file next to the working directory is
// loaded first when present so its values can override the YAML.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes, applies environment overrides and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("APP_ENV"); val != "" {
		c.Server.Environment = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Email
	if val := os.Getenv("EMAIL_PROVIDER"); val != "" {
		c.Email.Provider = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.Email.SMTPHost = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Email.SMTPPort)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.Email.SMTPUser = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.Email.SMTPPassword = val
	}
	if val := os.Getenv("CONTACT_INBOX"); val != "" {
		c.Email.ContactInbox = val
	}

	// Storage
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}
	if val := os.Getenv("STORAGE_SIGNING_SECRET"); val != "" {
		c.Storage.SigningSecret = val
	}

	// CORS
	if val := os.Getenv("CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORS.AllowedOrigins = splitList(val)
	}

	// Providers
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		c.Push.CredentialsFile = val
	}
	if val := os.Getenv("NEWS_API_KEY"); val != "" {
		c.News.APIKey = val
	}
	if val := os.Getenv("AMQP_URL"); val != "" {
		c.Queue.URL = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "production"
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Email validation
	switch c.Email.Provider {
	case "":
	case "sendgrid":
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid api key is required for the sendgrid provider")
		}
	case "smtp":
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("SMTP host is required for the smtp provider")
		}
		if c.Email.SMTPPort <= 0 || c.Email.SMTPPort > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", c.Email.SMTPPort)
		}
	default:
		return fmt.Errorf("unknown email provider: %q", c.Email.Provider)
	}
	if c.Email.FromAddress == "" {
		c.Email.FromAddress = "noreply@label-startup.ci"
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Label Startup Numérique"
	}
	if c.Email.ContactInbox == "" {
		c.Email.ContactInbox = c.Email.FromAddress
	}

	// Storage validation
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.Type != "local" {
		return fmt.Errorf("unsupported storage type: %q", c.Storage.Type)
	}
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("upload directory is required")
	}
	if c.Storage.SigningSecret == "" {
		c.Storage.SigningSecret = c.JWT.Secret
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "startup-documents"
	}
	if c.Storage.SignedURLExpiry <= 0 {
		c.Storage.SignedURLExpiry = 5 * time.Minute
	}
	if c.Storage.MaxFileSizeMB <= 0 {
		c.Storage.MaxFileSizeMB = 10
	}
	if len(c.Storage.AllowedTypes) == 0 {
		c.Storage.AllowedTypes = []string{
			"application/pdf",
			"image/jpeg",
			"image/png",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		}
	}

	// Domain defaults
	if c.Voting.DefaultQuorum <= 0 {
		c.Voting.DefaultQuorum = 3
	}
	if c.Comments.EditWindow <= 0 {
		c.Comments.EditWindow = 15 * time.Minute
	}
	if c.Drafts.AutosaveInterval <= 0 {
		c.Drafts.AutosaveInterval = 30 * time.Second
	}
	if c.Drafts.StaleAfterDays <= 0 {
		c.Drafts.StaleAfterDays = 90
	}
	if c.News.Timeout <= 0 {
		c.News.Timeout = 30 * time.Second
	}
	if c.News.Model == "" {
		c.News.Model = "sonar"
	}
	if c.Queue.QueueName == "" {
		c.Queue.QueueName = "content-fanout"
	}

	// Scheduler defaults
	if c.Scheduler.RecomputeVotingDecisions == "" {
		c.Scheduler.RecomputeVotingDecisions = "0 */15 * * * *" // every 15 minutes
	}
	if c.Scheduler.SendDocumentRequestReminders == "" {
		c.Scheduler.SendDocumentRequestReminders = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.RefreshPlatformStats == "" {
		c.Scheduler.RefreshPlatformStats = "0 0 * * * *" // hourly
	}
	if c.Scheduler.PurgeStaleDrafts == "" {
		c.Scheduler.PurgeStaleDrafts = "0 30 3 * * *" // 3:30 AM UTC
	}
	if c.Scheduler.ReminderAfterDays <= 0 {
		c.Scheduler.ReminderAfterDays = 3
	}

	return nil
}

// IsDevelopment reports whether raw error details may be shown to clients.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
