package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	TelegramToken string
	GeminiAPIKey  string
	OwnerChatID   int64
	DataDBPath    string
}

// Load konfiguratsiyani yuklash
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	config := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		DataDBPath:    "data/savdo.db",
	}

	if dbPath := os.Getenv("DATA_DB_PATH"); dbPath != "" {
		config.DataDBPath = dbPath
	}

	if rawOwnerID := os.Getenv("OWNER_CHAT_ID"); rawOwnerID != "" {
		if parsed, err := strconv.ParseInt(rawOwnerID, 10, 64); err == nil {
			config.OwnerChatID = parsed
		} else {
			return nil, fmt.Errorf("OWNER_CHAT_ID noto'g'ri formatda: %v", err)
		}
	}

	// Validatsiya
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable bo'sh")
	}
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable bo'sh")
	}

	return config, nil
}
