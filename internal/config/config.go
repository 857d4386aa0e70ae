package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL    string
	HTTPTimeoutMs int
	LogFile       string
	StrictSchema  bool

	ListenAddr  string
	Store       string
	DBPath      string
	DBURI       string
	DBName      string
	CORSOrigins []string
	BackupDir   string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIBaseURL:    getEnv("INVENTORY_API_URL", "http://localhost:4000"),
		HTTPTimeoutMs: getEnvInt("INVENTORY_HTTP_TIMEOUT_MS", 15000),
		LogFile:       getEnv("INVENTORY_LOG_FILE", filepath.Join(cwd, "inventory.log")),
		StrictSchema:  getEnvBool("INVENTORY_STRICT_SCHEMA", false),

		ListenAddr:  getEnv("INVENTORY_LISTEN_ADDR", ":4000"),
		Store:       getEnv("INVENTORY_STORE", "sqlite"),
		DBPath:      getEnv("INVENTORY_DB_PATH", filepath.Join(cwd, "data", "inventory.db")),
		DBURI:       getEnv("DB_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "inventory"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		BackupDir:   getEnv("INVENTORY_BACKUP_DIR", filepath.Join(cwd, "backups")),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
