package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Import    ImportConfig
	Business  BusinessConfig
	Numbering NumberingConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds the object storage settings used to archive uploaded exports.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ImportConfig holds order export import settings.
type ImportConfig struct {
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	GroupingMode  string `mapstructure:"grouping_mode"`
	DefaultHSN    string `mapstructure:"default_hsn"`
	// CheckHSN loads the HSN master list for advisory rate checks.
	CheckHSN bool `mapstructure:"check_hsn"`
}

// BusinessConfig seeds the seller block until settings are saved.
type BusinessConfig struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
	City    string `mapstructure:"city"`
	State   string `mapstructure:"state"`
	Pincode string `mapstructure:"pincode"`
	Phone   string `mapstructure:"phone"`
	Email   string `mapstructure:"email"`
	GSTIN   string `mapstructure:"gstin"`
	PAN     string `mapstructure:"pan"`
}

// NumberingConfig seeds invoice numbering until settings are saved.
type NumberingConfig struct {
	Prefix      string `mapstructure:"prefix"`
	StartNumber int64  `mapstructure:"start_number"`
}

// Load reads configuration from environment variables with the INVOICER_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOICER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invoicer")
	v.SetDefault("db.password", "invoicer_secret")
	v.SetDefault("db.name", "invoicer_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "invoicer-imports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Import defaults
	v.SetDefault("import.max_file_size_mb", 20)
	v.SetDefault("import.grouping_mode", "order")
	v.SetDefault("import.default_hsn", "711319")
	v.SetDefault("import.check_hsn", false)

	// Business defaults
	v.SetDefault("business.name", "")
	v.SetDefault("business.state", "")

	// Numbering defaults
	v.SetDefault("numbering.prefix", "INV-")
	v.SetDefault("numbering.start_number", 1)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "INVOICER_SERVER_PORT",
		"server.read_timeout":     "INVOICER_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "INVOICER_SERVER_WRITE_TIMEOUT",
		"server.environment":      "INVOICER_SERVER_ENVIRONMENT",
		"db.host":                 "INVOICER_DB_HOST",
		"db.port":                 "INVOICER_DB_PORT",
		"db.user":                 "INVOICER_DB_USER",
		"db.password":             "INVOICER_DB_PASSWORD",
		"db.name":                 "INVOICER_DB_NAME",
		"db.sslmode":              "INVOICER_DB_SSLMODE",
		"db.max_open":             "INVOICER_DB_MAX_OPEN",
		"db.max_idle":             "INVOICER_DB_MAX_IDLE",
		"s3.region":               "INVOICER_S3_REGION",
		"s3.bucket":               "INVOICER_S3_BUCKET",
		"s3.endpoint":             "INVOICER_S3_ENDPOINT",
		"s3.access_key":           "INVOICER_S3_ACCESS_KEY",
		"s3.secret_key":           "INVOICER_S3_SECRET_KEY",
		"s3.presign_expiry":       "INVOICER_S3_PRESIGN_EXPIRY",
		"log.level":               "INVOICER_LOG_LEVEL",
		"log.format":              "INVOICER_LOG_FORMAT",
		"cors.allowed_origins":    "INVOICER_CORS_ALLOWED_ORIGINS",
		"import.max_file_size_mb": "INVOICER_IMPORT_MAX_FILE_SIZE_MB",
		"import.grouping_mode":    "INVOICER_IMPORT_GROUPING_MODE",
		"import.default_hsn":      "INVOICER_IMPORT_DEFAULT_HSN",
		"import.check_hsn":        "INVOICER_IMPORT_CHECK_HSN",
		"business.name":           "INVOICER_BUSINESS_NAME",
		"business.address":        "INVOICER_BUSINESS_ADDRESS",
		"business.city":           "INVOICER_BUSINESS_CITY",
		"business.state":          "INVOICER_BUSINESS_STATE",
		"business.pincode":        "INVOICER_BUSINESS_PINCODE",
		"business.phone":          "INVOICER_BUSINESS_PHONE",
		"business.email":          "INVOICER_BUSINESS_EMAIL",
		"business.gstin":          "INVOICER_BUSINESS_GSTIN",
		"business.pan":            "INVOICER_BUSINESS_PAN",
		"numbering.prefix":        "INVOICER_NUMBERING_PREFIX",
		"numbering.start_number":  "INVOICER_NUMBERING_START_NUMBER",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INVOICER_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOICER_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Import = ImportConfig{
		MaxFileSizeMB: v.GetInt64("import.max_file_size_mb"),
		GroupingMode:  strings.ToLower(v.GetString("import.grouping_mode")),
		DefaultHSN:    v.GetString("import.default_hsn"),
		CheckHSN:      v.GetBool("import.check_hsn"),
	}
	switch cfg.Import.GroupingMode {
	case "order", "row":
	default:
		return nil, fmt.Errorf("config: import.grouping_mode must be \"order\" or \"row\", got %q", cfg.Import.GroupingMode)
	}

	cfg.Business = BusinessConfig{
		Name:    v.GetString("business.name"),
		Address: v.GetString("business.address"),
		City:    v.GetString("business.city"),
		State:   v.GetString("business.state"),
		Pincode: v.GetString("business.pincode"),
		Phone:   v.GetString("business.phone"),
		Email:   v.GetString("business.email"),
		GSTIN:   v.GetString("business.gstin"),
		PAN:     v.GetString("business.pan"),
	}

	cfg.Numbering = NumberingConfig{
		Prefix:      v.GetString("numbering.prefix"),
		StartNumber: v.GetInt64("numbering.start_number"),
	}

	return cfg, nil
}
