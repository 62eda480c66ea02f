package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env           string
	Port          string
	DatabaseURL   string
	RedisURL      string
	ClientURL     string
	ValyuAPIKey   string
	ValyuAPIURL   string // enrichment/search base, e.g. https://api.valyu.com
	DeepSearchURL string // deepsearch endpoint used by the comparison pipeline
	GeminiAPIKey  string
	GeminiModel   string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8000"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	valyuURL := viper.GetString("VALYU_API_URL")
	if valyuURL == "" {
		valyuURL = "https://api.valyu.com"
	}
	deepSearchURL := viper.GetString("VALYU_DEEPSEARCH_URL")
	if deepSearchURL == "" {
		deepSearchURL = "https://api.valyu.com/deepsearch"
	}
	geminiModel := viper.GetString("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-2.0-flash"
	}
	clientURL := viper.GetString("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost:3000"
	}

	return &Config{
		Env:           env,
		Port:          port,
		DatabaseURL:   viper.GetString("DATABASE_URL"),
		RedisURL:      viper.GetString("REDIS_URL"),
		ClientURL:     clientURL,
		ValyuAPIKey:   viper.GetString("VALYU_API_KEY"),
		ValyuAPIURL:   strings.TrimRight(valyuURL, "/"),
		DeepSearchURL: deepSearchURL,
		GeminiAPIKey:  viper.GetString("GEMINI_API_KEY"),
		GeminiModel:   geminiModel,
	}, nil
}
