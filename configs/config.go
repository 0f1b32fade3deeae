package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

// Generation settings can be overridden from a YAML file named by GENERATION_CONFIG.
type Generation struct {
	Platforms         []string      `yaml:"platforms"`
	TextProvider      string        `yaml:"text_provider"`
	OpenAIModel       string        `yaml:"openai_model"`
	CohereModel       string        `yaml:"cohere_model"`
	BlogTemperature   float64       `yaml:"blog_temperature"`
	ScriptTemperature float64       `yaml:"script_temperature"`
	StageDelay        time.Duration `yaml:"stage_delay"`
	TTL               time.Duration `yaml:"ttl"`
}

type Config struct {
	Port               string
	ServiceName        string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	BloggerAPIEndpoint string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	CohereAPIKey       string
	PostgresURI        string
	RedisURI           string
	InstanceID         string
	SessionStore       string
	SessionTTL         time.Duration
	WorkerConcurrency  int
	WorkerQueueSize    int
	FrontendURL        string
	R2                 R2
	SecretKey          string
	CookieName         string
	Generation         Generation
}

func LoadConfig() *Config {
	hostname, _ := os.Hostname()

	cfg := &Config{
		Port:               getEnv("PORT", "3000"),
		ServiceName:        getEnv("SERVICE_NAME", "content-automation-backend"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:3000/oauth2callback"),
		BloggerAPIEndpoint: getEnv("BLOGGER_API_ENDPOINT", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		CohereAPIKey:       getEnv("COHERE_API_KEY", ""),
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", ""),
		InstanceID:         getEnv("INSTANCE_ID", hostname),
		SessionStore:       getEnv("SESSION_STORE", "memory"),
		SessionTTL:         getEnvDuration("SESSION_TTL", 24*time.Hour),
		WorkerConcurrency:  getEnvInt("WORKER_CONCURRENCY", 10),
		WorkerQueueSize:    getEnvInt("WORKER_QUEUE_SIZE", 100),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", "contentflow_session"),
		Generation: Generation{
			Platforms:         getEnvList("GENERATION_PLATFORMS", []string{"blogger", "instagram", "tiktok", "youtube"}),
			TextProvider:      getEnv("TEXT_PROVIDER", ""),
			OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4"),
			CohereModel:       getEnv("COHERE_MODEL", "command-r-plus"),
			BlogTemperature:   0.7,
			ScriptTemperature: 0.8,
			StageDelay:        getEnvDuration("GENERATION_STAGE_DELAY", 0),
			TTL:               getEnvDuration("GENERATION_TTL", 24*time.Hour),
		},
	}

	if path := getEnv("GENERATION_CONFIG", ""); path != "" {
		if err := cfg.Generation.LoadFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: ignoring generation config %s: %v\n", path, err)
		}
	}

	return cfg
}

// R2Enabled reports whether every R2 setting needed for archiving is present.
func (c *Config) R2Enabled() bool {
	return c.R2.AccountID != "" && c.R2.AccessKey != "" && c.R2.SecretKey != "" && c.R2.BucketName != ""
}

// LoadFile overlays the non-zero values found in a YAML file.
func (g *Generation) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var overlay Generation
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return err
	}

	if len(overlay.Platforms) > 0 {
		g.Platforms = overlay.Platforms
	}
	if overlay.TextProvider != "" {
		g.TextProvider = overlay.TextProvider
	}
	if overlay.OpenAIModel != "" {
		g.OpenAIModel = overlay.OpenAIModel
	}
	if overlay.CohereModel != "" {
		g.CohereModel = overlay.CohereModel
	}
	if overlay.BlogTemperature > 0 {
		g.BlogTemperature = overlay.BlogTemperature
	}
	if overlay.ScriptTemperature > 0 {
		g.ScriptTemperature = overlay.ScriptTemperature
	}
	if overlay.StageDelay > 0 {
		g.StageDelay = overlay.StageDelay
	}
	if overlay.TTL > 0 {
		g.TTL = overlay.TTL
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d >= 0 {
		return d
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
