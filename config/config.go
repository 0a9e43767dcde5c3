package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	Database DatabaseConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Security SecurityConfig
	Seed     SeedConfig
}

type DatabaseConfig struct {
	Driver       string
	DSN          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	LogQueries   bool
	MaxOpenConns int
	MaxIdleConns int
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	Expiry   time.Duration
}

type StorageConfig struct {
	ImageDir      string
	MaxImageBytes int64
}

type SecurityConfig struct {
	AllowedOrigins     []string
	LoginRatePerMinute int
	MenuRatePerMinute  int
	BcryptCost         int
}

type SeedConfig struct {
	SuperAdminUsername string
	SuperAdminEmail    string
	SuperAdminPassword string
	DemoData           bool
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			DSN:          getEnv("DB_DSN", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", ""),
			User:         getEnv("DB_USER", ""),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "qrmenu"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			LogQueries:   getEnvBool("DB_LOG_QUERIES", false),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", ""),
			Issuer:   getEnv("JWT_ISSUER", "QRMenuAPI"),
			Audience: getEnv("JWT_AUDIENCE", "QRMenuClients"),
			Expiry:   time.Duration(getEnvInt("JWT_EXPIRY_MINUTES", 1440)) * time.Minute,
		},
		Storage: StorageConfig{
			ImageDir:      getEnv("IMAGE_DIR", "images"),
			MaxImageBytes: int64(getEnvInt("IMAGE_MAX_BYTES", 5*1024*1024)),
		},
		Security: SecurityConfig{
			AllowedOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
			LoginRatePerMinute: getEnvInt("LOGIN_RATE_PER_MINUTE", 10),
			MenuRatePerMinute:  getEnvInt("MENU_RATE_PER_MINUTE", 120),
			BcryptCost:         getEnvInt("BCRYPT_COST", 12),
		},
		Seed: SeedConfig{
			SuperAdminUsername: getEnv("SUPERADMIN_USERNAME", "superadmin"),
			SuperAdminEmail:    getEnv("SUPERADMIN_EMAIL", "admin@qrmenu.com"),
			SuperAdminPassword: getEnv("SUPERADMIN_PASSWORD", "QRMenu2024!"),
			DemoData:           getEnvBool("SEED_DEMO_DATA", false),
		},
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.GinMode == "release" && len(c.JWT.Secret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters in release mode")
	}
	if c.Storage.MaxImageBytes <= 0 {
		return errors.New("IMAGE_MAX_BYTES must be positive")
	}
	return nil
}

// GetDSN returns DB_DSN when set, otherwise builds one for the driver.
func (d DatabaseConfig) GetDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	switch d.Driver {
	case "mysql":
		port := d.Port
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, port, d.Name)
	case "postgres":
		port := d.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, port, d.User, d.Password, d.Name, d.SSLMode)
	default:
		return d.Name + ".db?_foreign_keys=on"
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
