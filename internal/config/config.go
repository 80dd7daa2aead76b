package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	BaseURL       string           `json:"base_url"`
	Production    bool             `json:"production"`
	JWTSecret     string           `json:"jwt_secret"`
	JWTMaxAgeMins int              `json:"jwt_max_age_mins"`
	CookieName    string           `json:"cookie_name"`
	Database      DatabaseConfig   `json:"database"`
	Mail          MailConfig       `json:"mail"`
	FileStore     FileStoreConfig  `json:"file_store"`
	CORSOrigins   []string         `json:"cors_origins"`
	MaxImageSize  int              `json:"max_image_size_mb"`
	LogConfig     logger.LogConfig `json:"log_config"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type MailConfig struct {
	FromEmail     string `json:"from_email"`
	Region        string `json:"region"`
	StudentDomain string `json:"student_domain"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Database.DSN == "" && (cfg.Database.Host == "" || cfg.Database.DBName == "") {
		return nil, fmt.Errorf("database dsn or host/dbname is required")
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Mail.FromEmail == "" {
		return nil, fmt.Errorf("mail.from_email is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	if cfg.JWTMaxAgeMins == 0 {
		cfg.JWTMaxAgeMins = 60
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "token"
	}
	if cfg.Mail.StudentDomain == "" {
		cfg.Mail.StudentDomain = "unimail.hud.ac.uk"
	}
	if cfg.MaxImageSize == 0 {
		cfg.MaxImageSize = 5
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
		cfg.FileStore.Data = map[string]interface{}{"dir": "./uploads"}
	}
	return &cfg, nil
}
