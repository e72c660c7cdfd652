package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the process configuration. Environment variables win over the
// .env file; CLI flags win over both.
type Config struct {
	DataDir        string
	DBPath         string
	TemplatesDir   string
	Autosave       string // cron spec; empty disables autosave
	PublicBase     string
	RevisionLimit  int
	Port           string
	CORSOrigin     string
	MCPAutoApprove bool
}

// Load reads .env from the working directory if present and then the
// environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment alone.
func FromEnv() Config {
	dataDir := getEnv("PAGEBUILDER_DATA_DIR", defaultDataDir())
	return Config{
		DataDir:        dataDir,
		DBPath:         getEnv("PAGEBUILDER_DB_PATH", filepath.Join(dataDir, "pagebuilder.db")),
		TemplatesDir:   getEnv("PAGEBUILDER_TEMPLATES_DIR", filepath.Join(dataDir, "templates")),
		Autosave:       getEnv("PAGEBUILDER_AUTOSAVE", "@every 30s"),
		PublicBase:     getEnv("PAGEBUILDER_PUBLIC_BASE", "/h5"),
		RevisionLimit:  getInt("PAGEBUILDER_REVISION_LIMIT", 20),
		Port:           getEnv("PORT", "8080"),
		CORSOrigin:     getEnv("CORS_ORIGIN", ""),
		MCPAutoApprove: getBool("PAGEBUILDER_MCP_AUTO_APPROVE", false),
	}
}

// WithDataDir moves cfg to dir. Paths derived from the data directory follow
// it unless the environment set them explicitly.
func WithDataDir(cfg Config, dir string) Config {
	cfg.DataDir = dir
	if os.Getenv("PAGEBUILDER_DB_PATH") == "" {
		cfg.DBPath = filepath.Join(dir, "pagebuilder.db")
	}
	if os.Getenv("PAGEBUILDER_TEMPLATES_DIR") == "" {
		cfg.TemplatesDir = filepath.Join(dir, "templates")
	}
	return cfg
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pagebuilder"
	}
	return filepath.Join(homeDir, ".local", "share", "pagebuilder")
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		log.Printf("config: ignoring %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: ignoring %s=%q", key, v)
		return fallback
	}
	return b
}
