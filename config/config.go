package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB        DBConfig
	HTTP      HTTPConfig
	Messaging MessagingConfig
	Upload    UploadConfig
	Telegram  TelegramConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type HTTPConfig struct {
	Addr string
}

// MessagingConfig describes the external channel the composed order summary
// is handed to via a deep link.
type MessagingConfig struct {
	Host    string // e.g. "m.me"
	Channel string // page/channel handle appended to the host
}

type UploadConfig struct {
	Dir     string
	BaseURL string
}

// TelegramConfig is optional: when Token is set, placed orders are also
// pushed to AdminChatID.
type TelegramConfig struct {
	Token       string
	AdminChatID int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	adminChat, _ := strconv.ParseInt(getEnv("TELEGRAM_ADMIN_CHAT", "0"), 10, 64)

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "storefront"),
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Messaging: MessagingConfig{
			Host:    getEnv("MESSAGING_HOST", "m.me"),
			Channel: getEnv("MESSAGING_CHANNEL", "fujiramenangelesbranch"),
		},
		Upload: UploadConfig{
			Dir:     getEnv("UPLOAD_DIR", "uploads"),
			BaseURL: getEnv("UPLOAD_BASE_URL", "/uploads"),
		},
		Telegram: TelegramConfig{
			Token:       getEnv("TELEGRAM_TOKEN", ""),
			AdminChatID: adminChat,
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
