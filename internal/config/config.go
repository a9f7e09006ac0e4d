package config

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"reddit-ideas/internal/database"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported completion providers
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Supported email providers
const (
	EmailResend = "resend"
	EmailSMTP   = "smtp"
)

// Config holds all application configuration
type Config struct {
	SiteURL string
	Port    string
	GinMode string

	AdminPassword string

	Completion CompletionConfig
	Email      EmailConfig
	Backend    BackendConfig
	Database   *database.Config
}

// CompletionConfig selects and authenticates the LLM used for idea generation
type CompletionConfig struct {
	Provider       string
	OpenAIKey      string
	OpenAIModel    string
	OpenAIBaseURL  string
	AnthropicKey   string
	AnthropicModel string
}

// EmailConfig configures outbound email delivery
type EmailConfig struct {
	Provider     string
	ResendAPIKey string
	From         string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
}

// BackendConfig holds the auth provider endpoint and its two credential tiers
type BackendConfig struct {
	URL            string
	AnonKey        string // restricted tier, safe for user-scoped calls
	ServiceRoleKey string // elevated tier, server-side only
	JWTSecret      string // optional, enables local session verification
}

// envKeys maps config keys to the environment variables they are read from
var envKeys = map[string]string{
	"site_url":                 "SITE_URL",
	"port":                     "PORT",
	"gin_mode":                 "GIN_MODE",
	"admin_password":           "ADMIN_PASSWORD",
	"llm.provider":             "LLM_PROVIDER",
	"llm.openai_api_key":       "OPENAI_API_KEY",
	"llm.openai_model":         "OPENAI_MODEL",
	"llm.openai_base_url":      "OPENAI_BASE_URL",
	"llm.anthropic_api_key":    "ANTHROPIC_API_KEY",
	"llm.anthropic_model":      "ANTHROPIC_MODEL",
	"email.provider":           "EMAIL_PROVIDER",
	"email.resend_api_key":     "RESEND_API_KEY",
	"email.from":               "EMAIL_FROM",
	"email.smtp_host":          "SMTP_HOST",
	"email.smtp_port":          "SMTP_PORT",
	"email.smtp_user":          "SMTP_USER",
	"email.smtp_pass":          "SMTP_PASS",
	"backend.url":              "SUPABASE_URL",
	"backend.anon_key":         "SUPABASE_ANON_KEY",
	"backend.service_role_key": "SUPABASE_SERVICE_ROLE_KEY",
	"backend.jwt_secret":       "SUPABASE_JWT_SECRET",
}

// Load reads the optional .env file and the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	cfg := &Config{
		SiteURL:       strings.TrimRight(v.GetString("site_url"), "/"),
		Port:          v.GetString("port"),
		GinMode:       v.GetString("gin_mode"),
		AdminPassword: v.GetString("admin_password"),
		Completion: CompletionConfig{
			Provider:       strings.ToLower(v.GetString("llm.provider")),
			OpenAIKey:      v.GetString("llm.openai_api_key"),
			OpenAIModel:    v.GetString("llm.openai_model"),
			OpenAIBaseURL:  v.GetString("llm.openai_base_url"),
			AnthropicKey:   v.GetString("llm.anthropic_api_key"),
			AnthropicModel: v.GetString("llm.anthropic_model"),
		},
		Email: EmailConfig{
			Provider:     strings.ToLower(v.GetString("email.provider")),
			ResendAPIKey: v.GetString("email.resend_api_key"),
			From:         v.GetString("email.from"),
			SMTPHost:     v.GetString("email.smtp_host"),
			SMTPPort:     v.GetInt("email.smtp_port"),
			SMTPUser:     v.GetString("email.smtp_user"),
			SMTPPass:     v.GetString("email.smtp_pass"),
		},
		Backend: BackendConfig{
			URL:            strings.TrimRight(v.GetString("backend.url"), "/"),
			AnonKey:        v.GetString("backend.anon_key"),
			ServiceRoleKey: v.GetString("backend.service_role_key"),
			JWTSecret:      v.GetString("backend.jwt_secret"),
		},
		Database: database.LoadConfig(),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.openai_model", "gpt-4o-mini")
	v.SetDefault("llm.openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.anthropic_model", "claude-3-5-haiku-latest")
	v.SetDefault("email.provider", EmailResend)
	v.SetDefault("email.smtp_port", 587)
}

// RequireSite checks the public base URL used in email links
func (c *Config) RequireSite() error {
	return missing(map[string]string{"SITE_URL": c.SiteURL})
}

// RequireCompletion checks the credentials of the selected completion provider
func (c *Config) RequireCompletion() error {
	switch c.Completion.Provider {
	case ProviderOpenAI:
		return missing(map[string]string{
			"OPENAI_API_KEY": c.Completion.OpenAIKey,
			"OPENAI_MODEL":   c.Completion.OpenAIModel,
		})
	case ProviderAnthropic:
		return missing(map[string]string{
			"ANTHROPIC_API_KEY": c.Completion.AnthropicKey,
			"ANTHROPIC_MODEL":   c.Completion.AnthropicModel,
		})
	default:
		return fmt.Errorf("unknown LLM provider: %s", c.Completion.Provider)
	}
}

// RequireEmail checks the credentials of the selected email provider
func (c *Config) RequireEmail() error {
	switch c.Email.Provider {
	case EmailResend:
		return missing(map[string]string{
			"RESEND_API_KEY": c.Email.ResendAPIKey,
			"EMAIL_FROM":     c.Email.From,
		})
	case EmailSMTP:
		return missing(map[string]string{
			"SMTP_HOST":  c.Email.SMTPHost,
			"EMAIL_FROM": c.Email.From,
		})
	default:
		return fmt.Errorf("unknown email provider: %s", c.Email.Provider)
	}
}

// RequireBackend checks the auth provider URL and both credential tiers
func (c *Config) RequireBackend() error {
	return missing(map[string]string{
		"SUPABASE_URL":              c.Backend.URL,
		"SUPABASE_ANON_KEY":         c.Backend.AnonKey,
		"SUPABASE_SERVICE_ROLE_KEY": c.Backend.ServiceRoleKey,
	})
}

// RequireAll runs every check needed by the HTTP server
func (c *Config) RequireAll() error {
	for _, check := range []func() error{c.RequireSite, c.RequireCompletion, c.RequireEmail, c.RequireBackend} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func missing(values map[string]string) error {
	var names []string
	for name, value := range values {
		if strings.TrimSpace(value) == "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	return fmt.Errorf("missing required environment variables: %s", strings.Join(names, ", "))
}
