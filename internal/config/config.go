package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// MongoDB Configuration (alternative activity store)
	MongoDB MongoDBConfig `json:"mongodb"`

	// Redis Configuration (unread counters)
	Redis RedisConfig `json:"redis"`

	// NATS Configuration (dispatch queue)
	NATS NATSConfig `json:"nats"`

	// Firebase Configuration
	Firebase FirebaseConfig `json:"firebase"`

	// Notification Configuration
	Notification NotificationConfig `json:"notification"`

	Activity ActivityConfig `json:"activity"`

	// Email Configuration (optional)
	Email EmailConfig `json:"email"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`

	Auth AuthConfig `json:"auth"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host         string `json:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	APIPort      string `json:"api_port" envconfig:"API_PORT" default:"8080"`
	GRPCPort     string `json:"grpc_port" envconfig:"GRPC_PORT" default:"7004"`
	ReadTimeout  int    `json:"read_timeout" envconfig:"READ_TIMEOUT" default:"15"`
	WriteTimeout int    `json:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15"`
	Environment  string `json:"environment" envconfig:"ENVIRONMENT" default:"development"` // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `json:"host" envconfig:"MYSQL_HOST" default:"localhost"`
	Port         string `json:"port" envconfig:"MYSQL_PORT" default:"3306"`
	Username     string `json:"username" envconfig:"MYSQL_USERNAME" default:"loyalty"`
	Password     string `json:"password" envconfig:"MYSQL_PASSWORD" default:"loyalty123"`
	DatabaseName string `json:"database_name" envconfig:"MYSQL_DATABASE" default:"loyalty"`
	MaxOpenConns int    `json:"max_open_conns" envconfig:"MYSQL_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns int    `json:"max_idle_conns" envconfig:"MYSQL_MAX_IDLE_CONNS" default:"5"`
	LogQueries   bool   `json:"log_queries" envconfig:"MYSQL_LOG_QUERIES" default:"false"`
}

type MongoDBConfig struct {
	Host     string `json:"host" envconfig:"MONGO_HOST" default:"localhost"`
	Port     string `json:"port" envconfig:"MONGO_PORT" default:"27017"`
	Username string `json:"username" envconfig:"MONGO_USERNAME"`
	Password string `json:"password" envconfig:"MONGO_PASSWORD"`
	Database string `json:"database" envconfig:"MONGO_DATABASE" default:"loyalty"`
}

type RedisConfig struct {
	Addr     string `json:"addr" envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `json:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `json:"db" envconfig:"REDIS_DB" default:"0"`
	Enabled  bool   `json:"enabled" envconfig:"REDIS_ENABLED" default:"false"`
}

type NATSConfig struct {
	URL     string `json:"url" envconfig:"NATS_URL" default:"nats://localhost:4222"`
	Stream  string `json:"stream" envconfig:"NATS_STREAM" default:"NOTIFICATIONS"`
	Subject string `json:"subject" envconfig:"NATS_SUBJECT" default:"notifications.dispatch"`
	Durable string `json:"durable" envconfig:"NATS_DURABLE" default:"notifs-worker"`
}

// FirebaseConfig contains Firebase Cloud Messaging configuration
type FirebaseConfig struct {
	ProjectID           string `json:"project_id" envconfig:"FIREBASE_PROJECT_ID"`
	CredentialsFilePath string `json:"credentials_file_path" envconfig:"FIREBASE_CREDENTIALS_PATH"`
	Enabled             bool   `json:"enabled" envconfig:"FIREBASE_ENABLED" default:"false"`
}

// NotificationConfig contains notification system configuration
type NotificationConfig struct {
	Workers           int      `json:"workers" envconfig:"NOTIFICATION_WORKERS" default:"5"`                     // Number of worker goroutines
	ChannelBufferSize int      `json:"channel_buffer_size" envconfig:"NOTIFICATION_BUFFER_SIZE" default:"1000"` // Channel buffer size
	MaxRetries        int      `json:"max_retries" envconfig:"NOTIFICATION_MAX_RETRIES" default:"3"`            // Max delivery attempts per queued message
	RetryDelay        int      `json:"retry_delay" envconfig:"NOTIFICATION_RETRY_DELAY" default:"5"`            // Seconds
	DefaultChannels   []string `json:"default_channels" envconfig:"NOTIFICATION_DEFAULT_CHANNELS" default:"in_app"`
	Queue             string   `json:"queue" envconfig:"NOTIFICATION_QUEUE" default:"memory"` // memory, jetstream
	AdminRecipientID  string   `json:"admin_recipient_id" envconfig:"NOTIFICATION_ADMIN_RECIPIENT" default:"admin"`
	AdminEmail        string   `json:"admin_email" envconfig:"NOTIFICATION_ADMIN_EMAIL"`
	Enabled           bool     `json:"enabled" envconfig:"NOTIFICATION_ENABLED" default:"true"`
}

type ActivityConfig struct {
	Store string `json:"store" envconfig:"ACTIVITY_STORE" default:"mysql"` // mysql, mongo
}

// EmailConfig contains email service configuration (optional)
type EmailConfig struct {
	SMTPHost  string  `json:"smtp_host" envconfig:"SMTP_HOST"`
	SMTPPort  int     `json:"smtp_port" envconfig:"SMTP_PORT" default:"587"`
	Username  string  `json:"username" envconfig:"SMTP_USERNAME"`
	Password  string  `json:"password" envconfig:"SMTP_PASSWORD"`
	FromEmail string  `json:"from_email" envconfig:"FROM_EMAIL"`
	FromName  string  `json:"from_name" envconfig:"FROM_NAME" default:"GoLoyalty"`
	RateLimit float64 `json:"rate_limit" envconfig:"SMTP_RATE_LIMIT" default:"10"` // messages per second
	Enabled   bool    `json:"enabled" envconfig:"EMAIL_ENABLED" default:"false"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level" envconfig:"LOG_LEVEL" default:"info"`         // debug, info, warn, error
	Format     string `json:"format" envconfig:"LOG_FORMAT" default:"json"`       // json, text
	OutputPath string `json:"output_path" envconfig:"LOG_OUTPUT" default:"stdout"` // stdout, stderr, or file path
}

type AuthConfig struct {
	JWTSecret string        `json:"-" envconfig:"JWT_SECRET" default:"dev-secret-key"`
	TokenTTL  time.Duration `json:"token_ttl" envconfig:"JWT_TTL" default:"24h"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	if cfg.Notification.Workers < 1 {
		return nil, errors.New("NOTIFICATION_WORKERS must be at least 1")
	}
	if cfg.Notification.MaxRetries < 1 {
		return nil, errors.New("NOTIFICATION_MAX_RETRIES must be at least 1")
	}

	return &cfg, nil
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username == "" {
		return fmt.Sprintf("mongodb://%s:%s/%s", cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
		cfg.MongoDB.Username,
		cfg.MongoDB.Password,
		cfg.MongoDB.Host,
		cfg.MongoDB.Port,
		cfg.MongoDB.Database,
	)
}

// RetryDelayDuration is the base backoff between queue redeliveries.
func (cfg *Config) RetryDelayDuration() time.Duration {
	return time.Duration(cfg.Notification.RetryDelay) * time.Second
}
