package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Sync      SyncConfig
	MapperAPI MapperAPIConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         int
	Password     string
	DB           int
	StreamMaxLen int64
}

type CacheConfig struct {
	RunReportTTL time.Duration
}

type LogConfig struct {
	Level    string
	Encoding string
}

// SyncConfig - параметры пайплайна, общие для всех запусков
type SyncConfig struct {
	BatchSize         int
	CountryCode       string
	ZoneKind          string
	RegionMarkersFile string
	PublishEvents     bool
	Properties        FeatureProperties
}

// FeatureProperties - ключи properties в GeoJSON файле
type FeatureProperties struct {
	ID        string
	Name1     string
	Name2     string
	Name3     string
	RegionTag string
}

// MapperAPIConfig - HTTP API зон (store=api)
type MapperAPIConfig struct {
	BaseURL          string
	RequestTimeout   time.Duration
	RateLimit        float64
	PageSize         int
	BreakerThreshold uint32
	BreakerTimeout   time.Duration
}

const DefaultBatchSize = 100

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile читает конфигурацию из указанного env файла; отсутствие файла не ошибка
func LoadFile(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("API_CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:      v.GetBool("REDIS_ENABLED"),
			Host:         v.GetString("REDIS_HOST"),
			Port:         v.GetInt("REDIS_PORT"),
			Password:     v.GetString("REDIS_PASSWORD"),
			DB:           v.GetInt("REDIS_DB"),
			StreamMaxLen: v.GetInt64("REDIS_STREAM_MAXLEN"),
		},
		Cache: CacheConfig{
			RunReportTTL: time.Duration(v.GetInt("RUN_REPORT_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level:    v.GetString("LOG_LEVEL"),
			Encoding: v.GetString("LOG_ENCODING"),
		},
		Sync: SyncConfig{
			BatchSize:         v.GetInt("SYNC_BATCH_SIZE"),
			CountryCode:       strings.ToUpper(v.GetString("SYNC_COUNTRY_CODE")),
			ZoneKind:          v.GetString("SYNC_ZONE_KIND"),
			RegionMarkersFile: v.GetString("REGION_MARKERS_FILE"),
			PublishEvents:     v.GetBool("SYNC_PUBLISH_EVENTS"),
			Properties: FeatureProperties{
				ID:        v.GetString("GEOJSON_ID_KEY"),
				Name1:     v.GetString("GEOJSON_NAME1_KEY"),
				Name2:     v.GetString("GEOJSON_NAME2_KEY"),
				Name3:     v.GetString("GEOJSON_NAME3_KEY"),
				RegionTag: v.GetString("GEOJSON_REGION_KEY"),
			},
		},
		MapperAPI: MapperAPIConfig{
			BaseURL:          strings.TrimRight(v.GetString("MAPPER_API_BASE_URL"), "/"),
			RequestTimeout:   time.Duration(v.GetInt("MAPPER_API_TIMEOUT")) * time.Second,
			RateLimit:        v.GetFloat64("MAPPER_API_RATE_LIMIT"),
			PageSize:         v.GetInt("MAPPER_API_PAGE_SIZE"),
			BreakerThreshold: v.GetUint32("MAPPER_API_BREAKER_THRESHOLD"),
			BreakerTimeout:   time.Duration(v.GetInt("MAPPER_API_BREAKER_TIMEOUT")) * time.Second,
		},
	}

	if cfg.Sync.BatchSize <= 0 {
		cfg.Sync.BatchSize = DefaultBatchSize
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "postgres")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("DB_MAX_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 1800)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 300)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_STREAM_MAXLEN", 100000)
	v.SetDefault("RUN_REPORT_CACHE_TTL", 7*24*3600)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "json")

	v.SetDefault("SYNC_BATCH_SIZE", DefaultBatchSize)
	v.SetDefault("SYNC_COUNTRY_CODE", "AR")
	v.SetDefault("SYNC_ZONE_KIND", "imported-by-script")
	v.SetDefault("SYNC_PUBLISH_EVENTS", true)

	v.SetDefault("GEOJSON_ID_KEY", "id")
	v.SetDefault("GEOJSON_NAME1_KEY", "nam")
	v.SetDefault("GEOJSON_NAME2_KEY", "fna")
	v.SetDefault("GEOJSON_NAME3_KEY", "gna")
	v.SetDefault("GEOJSON_REGION_KEY", "region")

	v.SetDefault("MAPPER_API_BASE_URL", "http://localhost:8080")
	v.SetDefault("MAPPER_API_TIMEOUT", 30)
	v.SetDefault("MAPPER_API_RATE_LIMIT", 10)
	v.SetDefault("MAPPER_API_PAGE_SIZE", 500)
	v.SetDefault("MAPPER_API_BREAKER_THRESHOLD", 3)
	v.SetDefault("MAPPER_API_BREAKER_TIMEOUT", 30)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// DSN собирает строку подключения в формате key=value
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
