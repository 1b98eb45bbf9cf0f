package configs

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppConfig struct {
	AppEnv string `mapstructure:"APP_ENV"`
	Port   string `mapstructure:"PORT"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	DBMaxOpenConns int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxIdle  time.Duration `mapstructure:"DB_CONN_MAX_IDLE"`
	DBConnMaxLife  time.Duration `mapstructure:"DB_CONN_MAX_LIFE"`

	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	JWTTTL      time.Duration `mapstructure:"JWT_TTL"`
	GoogleAppID string        `mapstructure:"GOOGLE_CLIENT_ID"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	MidtransServerKey  string `mapstructure:"MIDTRANS_SERVER_KEY"`
	MidtransProduction bool   `mapstructure:"MIDTRANS_PRODUCTION"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	CorsOrigins    string `mapstructure:"CORS_ORIGINS"`
	MaxUploadBytes int64  `mapstructure:"MAX_UPLOAD_BYTES"`
	DefaultDueDays int    `mapstructure:"DEFAULT_DUE_DAYS"`

	SuperAdminEmail    string `mapstructure:"SUPER_ADMIN_EMAIL"`
	SuperAdminPassword string `mapstructure:"SUPER_ADMIN_PASSWORD"`
}

// Cfg diisi oleh LoadEnv dan dibaca lintas package.
var Cfg AppConfig

var defaults = map[string]any{
	"APP_ENV":              "development",
	"PORT":                 "3000",
	"DB_HOST":              "localhost",
	"DB_PORT":              "5432",
	"DB_USER":              "postgres",
	"DB_NAME":              "condominio",
	"DB_SSLMODE":           "disable",
	"DB_MAX_OPEN_CONNS":    20,
	"DB_MAX_IDLE_CONNS":    10,
	"DB_CONN_MAX_IDLE":     "60s",
	"DB_CONN_MAX_LIFE":     "10m",
	"JWT_TTL":              "24h",
	"REDIS_ADDR":           "localhost:6379",
	"REDIS_DB":             0,
	"MINIO_BUCKET":         "condominio",
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "console",
	"CORS_ORIGINS":         "http://localhost:5173,http://localhost:3001",
	"MAX_UPLOAD_BYTES":     10 * 1024 * 1024,
	"DEFAULT_DUE_DAYS":     15,
	"MIDTRANS_PRODUCTION":  false,
	"MINIO_USE_SSL":        false,
	"SUPER_ADMIN_EMAIL":    "",
	"SUPER_ADMIN_PASSWORD": "",
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() AppConfig {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Warn().Msg("tidak menemukan .env, memakai ENV dari sistem")
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	// AutomaticEnv hanya berlaku untuk key yang dikenal viper.
	for k := range defaults {
		_ = v.BindEnv(k)
	}
	for _, k := range []string{"DB_PASSWORD", "JWT_SECRET", "GOOGLE_CLIENT_ID", "REDIS_PASSWORD",
		"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MIDTRANS_SERVER_KEY"} {
		_ = v.BindEnv(k)
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatal().Err(err).Msg("gagal membaca konfigurasi")
	}

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET belum diset")
	}
	if cfg.GoogleAppID == "" {
		log.Warn().Msg("GOOGLE_CLIENT_ID belum diset, login google nonaktif")
	}

	Cfg = cfg
	return cfg
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}
