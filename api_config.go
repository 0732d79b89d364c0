package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

type apiConfig struct {
	cache           Cache
	rateLimiter     *RateLimiter
	darkSkyStore    darkSkyStore
	owmURL          string
	ometeoURL       string
	n2yoURL         string
	openNotifyURL   string
	owmKey          string
	n2yoKey         string
	skyProvider     string
	httpClient      *http.Client
	prewarmInterval time.Duration
	port            string
	devMode         bool
	logger          *slog.Logger
}

// getEnv retrieves an environment variable by key, with a fallback value.
func getEnv(key, fallback string, logger *slog.Logger) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	logger.Debug("environment variable not set, using fallback", "key", key, "fallback", fallback)
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer, with a fallback value.
func getEnvAsInt(key string, fallback int, logger *slog.Logger) int {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		logger.Debug("environment variable not set, using fallback", "key", key, "fallback", fallback)
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		logger.Warn("invalid integer value for environment variable, using fallback", "key", key, "value", valStr, "error", err)
		return fallback
	}
	return val
}

// config assembles the service configuration. Every external dependency is
// optional: with no environment at all the service boots with the in-memory
// cache, the static dark-sky catalog, keyless providers and the default
// location, and degrades per request rather than refusing to start.
func config() *apiConfig {
	devModeStr := os.Getenv("DEV_MODE")
	devMode, err := strconv.ParseBool(devModeStr)
	if err != nil {
		devMode = false
	}

	var logger *slog.Logger
	if devMode {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment variables")
	}

	cache := configureCache(logger)
	darkSkyStore := configureDarkSkyStore(logger)

	prewarmIntervalMin := getEnvAsInt("PREWARM_INTERVAL_MIN", 10, logger)

	cfg := apiConfig{
		cache:         cache,
		rateLimiter:   NewRateLimiter(),
		darkSkyStore:  darkSkyStore,
		owmURL:        getEnv("OWM_URL", "https://api.openweathermap.org/data/2.5/weather?", logger),
		ometeoURL:     getEnv("OMETEO_URL", "https://api.open-meteo.com/v1/forecast?", logger),
		n2yoURL:       getEnv("N2YO_URL", "https://api.n2yo.com/rest/v1/satellite/", logger),
		openNotifyURL: getEnv("OPEN_NOTIFY_URL", "http://api.open-notify.org/", logger),
		owmKey:        os.Getenv("OPENWEATHER_API_KEY"),
		n2yoKey:       os.Getenv("N2YO_API_KEY"),
		skyProvider:   getEnv("SKY_PROVIDER", "auto", logger),
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: &metricsTransport{wrapped: http.DefaultTransport},
		},
		prewarmInterval: time.Duration(prewarmIntervalMin) * time.Minute,
		port:            getEnv("PORT", "8080", logger),
		devMode:         devMode,
		logger:          logger,
	}

	return &cfg
}

// configureCache picks the cache backend. Redis is opt-in; a Redis that is
// configured but unreachable is a deliberate hard failure, since silently
// degrading to process memory would hide a broken deployment.
func configureCache(logger *slog.Logger) Cache {
	if os.Getenv("CACHE_BACKEND") != "redis" {
		return NewMemoryCache()
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		logger.Error("CACHE_BACKEND=redis requires REDIS_URL")
		os.Exit(1)
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Error("could not parse Redis URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(opt)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Error("could not connect to Redis", "error", err)
		os.Exit(1)
	}
	logger.Info("using redis cache backend")
	return NewRedisCache(redisClient)
}

// configureDarkSkyStore wires the site catalog. Without DARKSKY_DB_URL the
// built-in static catalog serves; with it, sites come from Postgres.
func configureDarkSkyStore(logger *slog.Logger) darkSkyStore {
	dbURL := os.Getenv("DARKSKY_DB_URL")
	if dbURL == "" {
		return NewStaticDarkSkyCatalog()
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		logger.Error("couldn't prepare connection to dark-sky database", "error", err)
		os.Exit(1)
	}
	if err := db.Ping(); err != nil {
		logger.Error("couldn't connect to dark-sky database", "error", err)
		os.Exit(1)
	}
	logger.Info("using postgres dark-sky catalog")
	return NewPostgresDarkSkyStore(db)
}
