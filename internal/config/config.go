package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Store     StoreConfig
	Workspace WorkspaceConfig
	Events    EventsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	WsLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection string
}

type StoreConfig struct {
	Driver              string // "file" or "postgres"
	NotesFilePath       string
	ListCacheTTLSeconds int
}

type WorkspaceConfig struct {
	SnapshotPath string
	Persist      bool
}

type EventsConfig struct {
	Topic string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WsLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Store: StoreConfig{
			Driver:              getEnv("STORE_DRIVER", "file"),
			NotesFilePath:       getEnv("NOTES_FILE_PATH", "data/notes.json"),
			ListCacheTTLSeconds: getEnvAsInt("NOTE_LIST_CACHE_TTL_SECONDS", 30),
		},
		Workspace: WorkspaceConfig{
			SnapshotPath: getEnv("WORKSPACE_SNAPSHOT_PATH", "data/workspace.json"),
			Persist:      getEnvAsBool("WORKSPACE_PERSIST", true),
		},
		Events: EventsConfig{
			Topic: getEnv("EVENTS_TOPIC", "workspace_events"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
