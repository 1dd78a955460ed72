// Package config merges command line flags, environment variables and an
// optional env file into one Config.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys double as flag names.
const (
	KeyHTTPAddr          = "http-addr"
	KeyOAuthURL          = "oauth-url"
	KeyOAuthClientID     = "oauth-client-id"
	KeyOAuthClientSecret = "oauth-client-secret"
	KeyTokenFile         = "oauth-token-file"
	KeyEnvFile           = "env-file"
	KeyStdio             = "stdio"
	KeyLogFile           = "log-file"
	KeyLogJSON           = "log-json"
	KeyLogLevel          = "log-level"
	KeyLLMProvider       = "llm-provider"
	KeyLLMModel          = "llm-model"
	KeyLLMAPIKey         = "llm-api-key"
	KeyLLMBaseURL        = "llm-base-url"
)

// envPrefix applies to every key without an explicit variable below.
const envPrefix = "GMAIL_ASSISTANT"

// Variables that keep their conventional names.
var envNames = map[string][]string{
	KeyOAuthClientID:     {"OAUTH_GOOGLE_CLIENT_ID"},
	KeyOAuthClientSecret: {"OAUTH_GOOGLE_CLIENT_SECRET"},
	KeyLLMAPIKey:         {"LLM_API_KEY", "OPENAI_API_KEY"},
	KeyLLMProvider:       {"LLM_PROVIDER"},
	KeyLLMModel:          {"LLM_MODEL"},
	KeyLLMBaseURL:        {"LLM_BASE_URL"},
}

// Config is the process configuration.
type Config struct {
	HTTPAddr          string
	OAuthURL          string
	OAuthClientID     string
	OAuthClientSecret string
	TokenFile         string
	Stdio             bool
	LogFile           string
	LogJSON           bool
	LogLevel          string
	LLMProvider       string
	LLMModel          string
	LLMAPIKey         string
	LLMBaseURL        string
}

// RegisterFlags adds the serve flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyHTTPAddr, "localhost:0", "HTTP server listen addr")
	fs.String(KeyOAuthURL, "", "OAuth redirect URL, defaults to http://<listen addr>/oauth")
	fs.String(KeyTokenFile, "./data/gmail-assistant-token.json", "Path to cache the Google OAuth token, empty to avoid storing")
	fs.String(KeyEnvFile, "", "Path to env file")
	fs.Bool(KeyStdio, false, "Enable stdio transport for MCP (disables stdout logging)")
	fs.String(KeyLogFile, "", "Path to log file")
	fs.Bool(KeyLogJSON, false, "Log JSON lines instead of console output")
	fs.String(KeyLogLevel, "info", "Log level")
	fs.String(KeyLLMProvider, "openai", "Generation provider")
	fs.String(KeyLLMModel, "", "Generation model, provider default when empty")
	fs.String(KeyLLMBaseURL, "", "Generation API base URL, provider default when empty")
}

// Load reads the env file named by the env-file flag, if any, then resolves
// every key with flag > environment > default precedence. Variables already
// set in the environment win over the env file.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, names := range envNames {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return Config{}, fmt.Errorf("v.BindEnv(%s) failed: %w", key, err)
		}
	}

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("v.BindPFlags failed: %w", err)
		}
	}

	if envFile := v.GetString(KeyEnvFile); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("godotenv.Load failed: %w", err)
		}
	}

	return Config{
		HTTPAddr:          v.GetString(KeyHTTPAddr),
		OAuthURL:          v.GetString(KeyOAuthURL),
		OAuthClientID:     v.GetString(KeyOAuthClientID),
		OAuthClientSecret: v.GetString(KeyOAuthClientSecret),
		TokenFile:         v.GetString(KeyTokenFile),
		Stdio:             v.GetBool(KeyStdio),
		LogFile:           v.GetString(KeyLogFile),
		LogJSON:           v.GetBool(KeyLogJSON),
		LogLevel:          v.GetString(KeyLogLevel),
		LLMProvider:       v.GetString(KeyLLMProvider),
		LLMModel:          v.GetString(KeyLLMModel),
		LLMAPIKey:         v.GetString(KeyLLMAPIKey),
		LLMBaseURL:        v.GetString(KeyLLMBaseURL),
	}, nil
}

// Validate reports every setting serve can't start without.
func (c Config) Validate() error {
	var errs []error
	if c.OAuthClientID == "" || c.OAuthClientSecret == "" {
		errs = append(errs, errors.New("env variables OAUTH_GOOGLE_CLIENT_ID and OAUTH_GOOGLE_CLIENT_SECRET must be set"))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, fmt.Errorf("--%s must be provided", KeyHTTPAddr))
	}
	if c.LLMAPIKey == "" {
		errs = append(errs, errors.New("env variable OPENAI_API_KEY or LLM_API_KEY must be set"))
	}
	return errors.Join(errs...)
}
