package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type AppConfig struct {
	Port        string
	Timezone    string
	Locale      string
	Currency    string
	PricePerTon float64
	StoreDriver string // sqlite|bolt|none
	DBPath      string
	BoltPath    string
	LogLevel    string
	Mount       string
	// SessionLimit caps the browser sessions held in memory.
	SessionLimit int
}

// Load reads .env (if present) and the process environment.
func Load(log *zap.Logger) AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", zap.Error(err))
	}

	cfg := fromEnv()
	log.Info("config loaded",
		zap.String("port", cfg.Port),
		zap.String("tz", cfg.Timezone),
		zap.String("locale", cfg.Locale),
		zap.String("currency", cfg.Currency),
		zap.String("store", cfg.StoreDriver),
		zap.String("log_level", cfg.LogLevel),
	)
	return cfg
}

func fromEnv() AppConfig {
	get := func(k, def string) string {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
		return def
	}
	price, err := strconv.ParseFloat(get("PRICE_PER_TON", "1000"), 64)
	if err != nil || price < 0 {
		price = 1000
	}
	limit, err := strconv.Atoi(get("SESSION_LIMIT", "10000"))
	if err != nil || limit <= 0 {
		limit = 10000
	}
	return AppConfig{
		Port:        get("PORT", "8080"),
		Timezone:    get("TZ", "Asia/Bangkok"),
		Locale:      get("LOCALE", "th-TH"),
		Currency:    get("CURRENCY", "THB"),
		PricePerTon: price,
		StoreDriver: strings.ToLower(get("STORE_DRIVER", "sqlite")),
		DBPath:      get("DB_PATH", "farmdash.db"),
		BoltPath:    get("BOLT_PATH", "farmdash.bolt"),
		LogLevel:    get("LOG_LEVEL", "info"),
		Mount:       get("MOUNT", "root"),

		SessionLimit: limit,
	}
}
