package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"

	MediaFirebase = "firebase"
	MediaLocal    = "local"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	StoreBackend string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	RedisAddr     string // Redis address in host[:port] format, empty disables the cache
	RedisPassword string
	CacheTTL      time.Duration

	// CacheRefreshSchedule is a cron spec for warming cached aggregates, "off" disables it
	CacheRefreshSchedule string

	MediaBackend   string
	FirebaseKey    string // service account JSON
	FirebaseBucket string
	MediaFolder    string
	SignedURLs     bool
	SignedURLTTL   time.Duration
	MediaLocalDir  string
	PublicBaseURL  string

	CORSAllowedOrigins []string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://localhost:5183",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:5183",
}

// Load reads a .env file when one exists and then builds the config from the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using system environment variables")
	}
	return FromEnv()
}

func FromEnv() *Config {
	c := &Config{
		Port:        LookupEnvString("SERVER_HOST_PORT", "5000"),
		Environment: LookupEnvString("APP_ENV", EnvDevelopment),
		LogLevel:    LookupEnvString("LOG_LEVEL", "info"),

		StoreBackend: strings.ToLower(LookupEnvString("STORE_BACKEND", StorePostgres)),

		DBHost:     LookupEnvString("DB_HOST", "localhost"),
		DBPort:     LookupEnvString("DB_PORT", "5432"),
		DBName:     LookupEnvString("DB_NAME", "secondlife"),
		DBUser:     LookupEnvString("DB_USER_NAME", "postgres"),
		DBPassword: LookupEnvString("DB_PASSWORD", ""),
		DBSSLMode:  LookupEnvString("DB_SSL_MODE", "disable"),

		MongoURI:        LookupEnvString("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   LookupEnvString("MONGODB_DATABASE", "secondlife"),
		MongoCollection: LookupEnvString("MONGODB_COLLECTION_ITEMS", "items"),

		RedisAddr:     LookupEnvString("REDIS_ADDR", ""),
		RedisPassword: LookupEnvString("REDIS_PASSWORD", ""),
		CacheTTL:      LookupEnvDuration("CACHE_TTL", time.Minute),

		CacheRefreshSchedule: LookupEnvString("CACHE_REFRESH_SCHEDULE", "@every 5m"),

		MediaBackend:   strings.ToLower(LookupEnvString("MEDIA_BACKEND", MediaLocal)),
		FirebaseKey:    LookupEnvString("FIREBASE_KEY", ""),
		FirebaseBucket: LookupEnvString("FIREBASE_BUCKET", ""),
		MediaFolder:    LookupEnvString("MEDIA_FOLDER", "secondlife-marketplace"),
		SignedURLs:     LookupEnvBool("MEDIA_SIGNED_URLS", false),
		SignedURLTTL:   LookupEnvDuration("MEDIA_SIGNED_URL_TTL", time.Hour),
		MediaLocalDir:  LookupEnvString("MEDIA_LOCAL_DIR", "uploads"),
		PublicBaseURL:  strings.TrimRight(LookupEnvString("PUBLIC_BASE_URL", "http://localhost:5000"), "/"),

		CORSAllowedOrigins: LookupEnvList("CORS_ALLOWED_ORIGINS", defaultOrigins),
	}

	return c
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

// CacheRefreshEnabled reports whether cached aggregates get warmed on a schedule.
func (c *Config) CacheRefreshEnabled() bool {
	return c.CacheEnabled() && !strings.EqualFold(c.CacheRefreshSchedule, "off")
}

// CacheEnabled reports whether aggregate results should go through redis.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != "" && c.CacheTTL > 0
}

func (c *Config) ParseLogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func LookupEnvString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func LookupEnvBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.Warnf("invalid bool for %s=%q, using default %v", key, v, def)
		return def
	}
	return b
}

func LookupEnvDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.Warnf("invalid duration for %s=%q, using default %s", key, v, def)
		return def
	}
	return d
}

// LookupEnvList splits a comma separated value, dropping empty entries.
func LookupEnvList(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
