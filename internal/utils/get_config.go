package utils

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server
	Env  string `yaml:"ENV"`
	Port string `yaml:"PORT"`

	// Database configuration
	DBDriver   string `yaml:"DB_DRIVER"`
	DBPath     string `yaml:"DB_PATH"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Search cache
	SearchCacheSize string `yaml:"SEARCH_CACHE_SIZE"`
	SearchCacheTTL  string `yaml:"SEARCH_CACHE_TTL"`

	// Write retry queue
	SyncMaxAttempts  string `yaml:"SYNC_MAX_ATTEMPTS"`
	SyncBaseDelay    string `yaml:"SYNC_BASE_DELAY"`
	SyncPingInterval string `yaml:"SYNC_PING_INTERVAL"`

	// Administration
	AdminPassphraseHash string `yaml:"ADMIN_PASSPHRASE_HASH"`
}

var config Config

// LoadConfig reads config.yaml, or the file named by CONFIG_FILE.
func LoadConfig() {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}

	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}

	// Set environment variables for keys that should be accessible via os.Getenv
	os.Setenv("ENV", config.Env)
	os.Setenv("JWT_SECRET", config.JWTSecret)
	os.Setenv("AWS_S3_BUCKET", config.AWSS3Bucket)
	os.Setenv("AWS_S3_REGION", config.AWSS3Region)
	os.Setenv("AWS_ACCESS_KEY", config.AWSAccessKey)
	os.Setenv("AWS_SECRET_KEY", config.AWSSecretKey)
}

// SetConfig replaces the loaded configuration, used by tests and the CLI.
func SetConfig(c Config) {
	config = c
}

func GetConfig(key string) string {
	switch key {
	case "ENV":
		return config.Env
	case "PORT":
		return config.Port
	case "DB_DRIVER":
		return config.DBDriver
	case "DB_PATH":
		return config.DBPath
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "APP_URL":
		return config.AppURL
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "SEARCH_CACHE_SIZE":
		return config.SearchCacheSize
	case "SEARCH_CACHE_TTL":
		return config.SearchCacheTTL
	case "SYNC_MAX_ATTEMPTS":
		return config.SyncMaxAttempts
	case "SYNC_BASE_DELAY":
		return config.SyncBaseDelay
	case "SYNC_PING_INTERVAL":
		return config.SyncPingInterval
	case "ADMIN_PASSPHRASE_HASH":
		return config.AdminPassphraseHash
	default:
		return ""
	}
}

// GetDuration parses a duration key, returning def when unset or invalid.
func GetDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(GetConfig(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// GetInt parses an integer key, returning def when unset or not positive.
func GetInt(key string, def int) int {
	n, err := strconv.Atoi(GetConfig(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
