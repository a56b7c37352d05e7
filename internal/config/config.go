// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config представляет конфигурацию приложения
type Config struct {
	// Spotify
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURI  string
	SpotifyRefreshToken string

	// Устройство воспроизведения
	DefaultDevice string
	DeviceName    string

	// Кэши
	CacheCapacity int

	// Подключение устройства
	ConnectMaxAttempts int
	ConnectDelay       time.Duration

	// Фоновое обновление состояния воспроизведения
	RefreshRounds int
	RefreshDelay  time.Duration

	// Обложки
	CoverArtSize int

	// HTTP
	RequestTimeout time.Duration
	RateLimit      float64

	// Worker pool
	WorkerCount int
	QueueSize   int

	// Lyrics
	LyricsBaseURL string

	// Logging
	LogLevel string

	// App Data Directory
	AppDataDir string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	if err := godotenv.Load(); err != nil {
		// Игнорируем ошибку если файл не найден
	}

	config := &Config{
		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		SpotifyRedirectURI:  getEnv("SPOTIFY_REDIRECT_URI", "http://localhost:8888/callback"),
		SpotifyRefreshToken: getEnv("SPOTIFY_REFRESH_TOKEN", ""),
		DefaultDevice:       getEnv("DEFAULT_DEVICE", ""),
		DeviceName:          getEnv("DEVICE_NAME", "remotify"),
		CacheCapacity:       getEnvInt("CACHE_CAPACITY", 64),
		ConnectMaxAttempts:  getEnvInt("CONNECT_MAX_ATTEMPTS", 10),
		ConnectDelay:        getEnvDuration("CONNECT_DELAY", 1*time.Second),
		RefreshRounds:       getEnvInt("REFRESH_ROUNDS", 5),
		RefreshDelay:        getEnvDuration("REFRESH_DELAY", 1*time.Second),
		CoverArtSize:        getEnvInt("COVER_ART_SIZE", 256),
		RequestTimeout:      getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		RateLimit:           getEnvFloat("RATE_LIMIT", 10.0),
		WorkerCount:         getEnvInt("WORKER_COUNT", 2),
		QueueSize:           getEnvInt("QUEUE_SIZE", 16),
		LyricsBaseURL:       getEnv("LYRICS_BASE_URL", "https://genius.com"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		AppDataDir:          getEnv("APP_DATA_DIR", "./data"),
	}

	// Валидация обязательных полей
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.SpotifyClientID == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_ID is required")
	}

	if c.SpotifyClientSecret == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_SECRET is required")
	}

	if c.CacheCapacity <= 0 {
		return fmt.Errorf("CACHE_CAPACITY must be positive")
	}

	if c.ConnectMaxAttempts <= 0 {
		return fmt.Errorf("CONNECT_MAX_ATTEMPTS must be positive")
	}

	if c.RefreshRounds <= 0 {
		return fmt.Errorf("REFRESH_ROUNDS must be positive")
	}

	return nil
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
