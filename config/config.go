package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	DatabaseURL string
	Port        string
	JWTSecret   string

	TelegramBotToken string
	TelegramAdminID  int64

	AdminUsername     string
	AdminPasswordHash string

	ShamCashNumber string
	HaramNumber    string

	CoursesFile    string
	MaterialsFile  string
	GroupLinksFile string

	RejectLateSubmissions bool
}

// ConfigInstance is the global configuration instance
var ConfigInstance *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		Port:                  os.Getenv("PORT"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		TelegramBotToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		AdminUsername:         os.Getenv("ADMIN_USERNAME"),
		AdminPasswordHash:     os.Getenv("ADMIN_PASSWORD_HASH"),
		ShamCashNumber:        os.Getenv("SHAM_CASH_NUMBER"),
		HaramNumber:           os.Getenv("HARAM_NUMBER"),
		CoursesFile:           os.Getenv("COURSES_FILE"),
		MaterialsFile:         os.Getenv("MATERIALS_FILE"),
		GroupLinksFile:        os.Getenv("GROUP_LINKS_FILE"),
		RejectLateSubmissions: os.Getenv("REJECT_LATE_SUBMISSIONS") == "true",
	}

	if config.Port == "" {
		config.Port = "8080"
	}
	if config.AdminUsername == "" {
		config.AdminUsername = "admin"
	}
	if config.CoursesFile == "" {
		config.CoursesFile = "data/courses.json"
	}
	if config.MaterialsFile == "" {
		config.MaterialsFile = "data/materials.json"
	}
	if config.GroupLinksFile == "" {
		config.GroupLinksFile = "data/group_links.json"
	}

	if config.DatabaseURL == "" {
		config.DatabaseURL = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_NAME"),
		)
	}

	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if config.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	adminID := os.Getenv("TELEGRAM_ADMIN_ID")
	if adminID == "" {
		return nil, fmt.Errorf("TELEGRAM_ADMIN_ID is required")
	}
	id, err := strconv.ParseInt(adminID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_ADMIN_ID must be numeric: %v", err)
	}
	config.TelegramAdminID = id

	return config, nil
}
