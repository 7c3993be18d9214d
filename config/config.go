package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	xdgAppName      = "opsdash"
	sessionFileName = "session.json"

	defaultPort        = "8080"
	defaultAirtableURL = "https://api.airtable.com/v0"
)

// Config reúne tudo que vem do ambiente. Nenhum segredo é fixo no código.
type Config struct {
	TeamPassword string

	AirtableAPIKey string
	AirtableBaseID string
	AirtableURL    string

	ShopifyStoreDomain string
	ShopifyAccessToken string

	ServerPort     string
	AllowedOrigins []string

	SessionBackend string // file, postgres, firestore ou memory
	SessionFile    string

	FirebaseCredentialsPath string

	LogLevel        string
	DisplayLocation *time.Location
}

// Load lê o .env (se existir) e as variáveis de ambiente, aplicando defaults.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("erro ao carregar %s: %w", f, err)
		}
	}

	cfg := &Config{
		TeamPassword:            os.Getenv("TEAM_PASSWORD"),
		AirtableAPIKey:          os.Getenv("AIRTABLE_API_KEY"),
		AirtableBaseID:          os.Getenv("AIRTABLE_BASE_ID"),
		AirtableURL:             getenv("AIRTABLE_API_URL", defaultAirtableURL),
		ShopifyStoreDomain:      os.Getenv("SHOPIFY_STORE_DOMAIN"),
		ShopifyAccessToken:      os.Getenv("SHOPIFY_ACCESS_TOKEN"),
		ServerPort:              getenv("SERVER_PORT", defaultPort),
		SessionBackend:          strings.ToLower(getenv("SESSION_BACKEND", "file")),
		SessionFile:             os.Getenv("SESSION_FILE"),
		FirebaseCredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
		LogLevel:                os.Getenv("LOG_LEVEL"),
		DisplayLocation:         time.Local,
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if tz := os.Getenv("DISPLAY_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("DISPLAY_TIMEZONE inválido %q: %w", tz, err)
		}
		cfg.DisplayLocation = loc
	}

	if cfg.SessionFile == "" {
		path, err := defaultSessionPath()
		if err != nil {
			return nil, err
		}
		cfg.SessionFile = path
	}

	switch cfg.SessionBackend {
	case "file", "postgres", "firestore", "memory":
	default:
		return nil, fmt.Errorf("SESSION_BACKEND desconhecido: %q", cfg.SessionBackend)
	}

	return cfg, nil
}

// RecordsConfigured indica se há credenciais para o backend de registros.
func (c *Config) RecordsConfigured() bool {
	return c.AirtableAPIKey != "" && c.AirtableBaseID != ""
}

func defaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("não foi possível localizar o diretório home: %w", err)
	}
	return filepath.Join(home, ".config", xdgAppName, sessionFileName), nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
