package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Jobs struct {
		PublicRead bool `yaml:"public_read"`
	} `yaml:"jobs"`

	Payment struct {
		StoreID      string  `yaml:"store_id"`
		StorePass    string  `yaml:"store_pass"`
		Sandbox      bool    `yaml:"sandbox"`
		FeaturePrice float64 `yaml:"feature_price"`
		Currency     string  `yaml:"currency"`
		BackendURL   string  `yaml:"backend_url"`
		FrontendURL  string  `yaml:"frontend_url"`
	} `yaml:"payment"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Storage struct {
		BasePath string `yaml:"base_path"`
		BaseURL  string `yaml:"base_url"`
		MaxSize  int64  `yaml:"max_size"` // bytes
	} `yaml:"storage"`

	FirstAdmin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"first_admin"`
}

var AppConfig *Config

// LoadConfig reads config/config.yaml (or CONFIG_PATH) unless DATABASE_URL is
// set, in which case everything comes from the environment.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	if os.Getenv("DATABASE_URL") == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}
		cfg, err := LoadFile(configPath)
		if err != nil {
			log.Fatalf("failed to load config file at %s: %v", configPath, err)
		}
		AppConfig = cfg
		return
	}

	log.Println("loading configuration from environment variables")
	AppConfig = FromEnv()
}

// LoadFile decodes a YAML config file and fills defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a config from environment variables on top of Defaults.
func FromEnv() *Config {
	cfg := Defaults()

	cfg.Database.DSN = os.Getenv("DATABASE_URL")
	cfg.Server.Env = envOr("SERVER_ENV", cfg.Server.Env)
	cfg.Server.Host = envOr("SERVER_HOST", cfg.Server.Host)
	if port, err := strconv.Atoi(os.Getenv("SERVER_PORT")); err == nil {
		cfg.Server.Port = port
	}

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if ttl, err := strconv.Atoi(os.Getenv("JWT_TTL")); err == nil {
		cfg.JWT.TTL = ttl
	}
	if v, err := strconv.ParseBool(os.Getenv("JOBS_PUBLIC_READ")); err == nil {
		cfg.Jobs.PublicRead = v
	}

	cfg.Payment.StoreID = os.Getenv("SSLCOMMERZ_STORE_ID")
	cfg.Payment.StorePass = os.Getenv("SSLCOMMERZ_STORE_PASS")
	if v, err := strconv.ParseBool(os.Getenv("SSLCOMMERZ_IS_SANDBOX")); err == nil {
		cfg.Payment.Sandbox = v
	}
	cfg.Payment.BackendURL = envOr("BACKEND_URL", cfg.Payment.BackendURL)
	cfg.Payment.FrontendURL = envOr("FRONTEND_URL", cfg.Payment.FrontendURL)

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	if port, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		cfg.Email.SMTPPort = port
	}
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = envOr("EMAIL_FROM", cfg.Email.FromEmail)

	cfg.Storage.BasePath = envOr("STORAGE_PATH", cfg.Storage.BasePath)
	cfg.Storage.BaseURL = envOr("STORAGE_URL", cfg.Storage.BaseURL)

	cfg.FirstAdmin.Email = os.Getenv("FIRST_ADMIN_EMAIL")
	cfg.FirstAdmin.Password = os.Getenv("FIRST_ADMIN_PASSWORD")
	return cfg
}

// Defaults returns the baseline configuration every source builds on.
func Defaults() *Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"
	cfg.JWT.TTL = 60 * 24
	cfg.Jobs.PublicRead = true
	cfg.Payment.Sandbox = true
	cfg.Payment.FeaturePrice = 500
	cfg.Payment.Currency = "BDT"
	cfg.Payment.BackendURL = "http://localhost:8080"
	cfg.Payment.FrontendURL = "http://localhost:3000"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "Job Board"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"
	cfg.Storage.MaxSize = 5 * 1024 * 1024
	return &cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
