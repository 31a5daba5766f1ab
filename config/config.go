package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mailscore/models"
)

// Version is reported by the health and root endpoints.
const Version = "1.0.0"

var (
	AppConfig Config
	envLoaded bool
)

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

type Config struct {
	Environment       string                   `json:"environment"`
	ServerPort        string                   `json:"server_port"`
	APIKeys           map[string]models.APIKey `json:"-"`
	MXTimeout         time.Duration            `json:"mx_timeout"`
	RateLimitMax      int                      `json:"rate_limit_max"`
	RateLimitWindow   time.Duration            `json:"rate_limit_window"`
	Redis             RedisConfig              `json:"redis"`
	DisposableListURL string                   `json:"disposable_list_url"`
	DisposableRefresh time.Duration            `json:"disposable_refresh"`
	SentryDSN         string                   `json:"-"`
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
	envLoaded = true
}

func LoadConfig() error {
	AppConfig = Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		ServerPort:        getEnv("SERVER_PORT", "3000"),
		MXTimeout:         time.Duration(getEnvAsInt("MX_TIMEOUT_SECONDS", 5)) * time.Second,
		RateLimitMax:      getEnvAsInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow:   time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute,
		DisposableListURL: getEnv("DISPOSABLE_LIST_URL", ""),
		DisposableRefresh: time.Duration(getEnvAsInt("DISPOSABLE_REFRESH_MINUTES", 60)) * time.Minute,
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ENABLED", "false") == "true",
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
	}

	keys, err := parseAPIKeys(getEnv("API_KEYS", ""))
	if err != nil {
		return err
	}
	AppConfig.APIKeys = keys

	logConfig()
	return nil
}

// parseAPIKeys reads a comma-separated "key:tier:dailyLimit" list. An
// empty value seeds the demo keys so the service is usable out of the box.
func parseAPIKeys(raw string) (map[string]models.APIKey, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]models.APIKey{
			"demo-key-123":    {Tier: "free", DailyLimit: 100},
			"premium-key-456": {Tier: "premium", DailyLimit: 10000},
		}, nil
	}

	keys := make(map[string]models.APIKey)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("malformed API_KEYS entry %q, want key:tier:limit", entry)
		}
		limit, err := strconv.Atoi(parts[2])
		if err != nil || limit <= 0 {
			return nil, fmt.Errorf("API_KEYS entry %q has invalid daily limit %q", entry, parts[2])
		}
		keys[parts[0]] = models.APIKey{Tier: parts[1], DailyLimit: limit}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("API_KEYS is set but contains no usable entries")
	}
	return keys, nil
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if !envLoaded && fallback == "" {
		log.Printf("⚠️ Environment variable %s not found and no fallback provided", key)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func logConfig() {
	log.Println("🔧 Loaded configuration:")
	log.Printf("Environment: %s", AppConfig.Environment)
	log.Printf("Server Port: %s", AppConfig.ServerPort)
	log.Printf("API keys configured: %d", len(AppConfig.APIKeys))
	log.Printf("Rate limit: %d requests per %s", AppConfig.RateLimitMax, AppConfig.RateLimitWindow)
	log.Printf("Usage store: redis(%t)", AppConfig.Redis.Enabled)
}
