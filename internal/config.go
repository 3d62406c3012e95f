package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	Source       string `mapstructure:"source"`
}

type SecurityConfig struct {
	TokenSecret   string        `mapstructure:"token_secret"`
	TokenDuration time.Duration `mapstructure:"token_duration"`
	BCryptCost    int           `mapstructure:"bcrypt_cost"`
}

// StorageConfig configures where uploaded entry photos land and how the
// resulting URLs are formed.
type StorageConfig struct {
	RootDir string `mapstructure:"root_dir"`
	BaseURL string `mapstructure:"base_url"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds a Config purely from environment variables, used
// for containerized deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("SERVER_PORT", 8080),
			BaseURL:           getEnv("SERVER_BASE_URL", ""),
			AllowedOrigins:    getEnv("SERVER_ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("SERVER_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			Source:       getEnv("DB_SOURCE", ""),
		},
		Security: SecurityConfig{
			TokenSecret:   getEnv("SECURITY_TOKEN_SECRET", ""),
			TokenDuration: getEnvAsDuration("SECURITY_TOKEN_DURATION", 24*time.Hour),
			BCryptCost:    getEnvAsInt("SECURITY_BCRYPT_COST", 10),
		},
		Storage: StorageConfig{
			RootDir: getEnv("STORAGE_ROOT_DIR", "./uploads"),
			BaseURL: getEnv("STORAGE_BASE_URL", "/media"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}
	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}
	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}
	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("invalid port: %d", s.Port)
	}
	return nil
}

func (d *DatabaseConfig) Validate() error {
	if d.Source == "" {
		return errors.New("source is required")
	}
	if d.MaxOpenConns < 1 {
		return errors.New("max_open_conns must be at least 1")
	}
	if d.MaxIdleConns < 1 {
		return errors.New("max_idle_conns must be at least 1")
	}
	return nil
}

func (s *SecurityConfig) Validate() error {
	if s.TokenSecret == "" {
		return errors.New("token_secret is required")
	}
	if len(s.TokenSecret) < 32 {
		return errors.New("token_secret must be at least 32 characters")
	}
	if s.TokenDuration < time.Minute {
		return errors.New("token_duration must be at least 1 minute")
	}
	if s.BCryptCost < 4 || s.BCryptCost > 31 {
		return fmt.Errorf("bcrypt_cost out of range: %d", s.BCryptCost)
	}
	return nil
}

func (s *StorageConfig) Validate() error {
	if s.RootDir == "" {
		return errors.New("root_dir is required")
	}
	if s.BaseURL == "" {
		return errors.New("base_url is required")
	}
	return nil
}
