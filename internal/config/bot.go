package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DiscordConfig struct {
	Token         string
	CommandPrefix string
	TriggerWord   string
}

type WebhookConfig struct {
	StartURL string
	StopURL  string
	// Checked makes a non-2xx webhook reply fail the command instead of being
	// logged and ignored. Transport errors fail it either way.
	Checked bool
}

type AzureConfig struct {
	TenantID       string
	ClientID       string
	ClientSecret   string
	SubscriptionID string
	ResourceGroup  string
	VMName         string
	LoginURL       string
	ManagementURL  string
}

type BotConfig struct {
	Discord  DiscordConfig
	Webhooks WebhookConfig
	Azure    AzureConfig

	HTTPTimeoutSec    int
	CommandTimeoutSec int
	HTTPPort          int
	LogFormat         string
	OTLPEndpoint      string
}

const (
	defaultCommandPrefix     = "!"
	defaultTriggerWord       = "keeper"
	defaultHTTPTimeoutSec    = 30
	defaultCommandTimeoutSec = 60
	defaultLogFormat         = "json"
	defaultLoginURL          = "https://login.microsoftonline.com"
	defaultManagementURL     = "https://management.azure.com"
)

// requiredEnv lists the variables that have no default.
var requiredEnv = []string{
	"DISCORD_TOKEN",
	"WEBHOOK_START",
	"WEBHOOK_STOP",
	"AZURE_TENANT_ID",
	"AZURE_CLIENT_ID",
	"AZURE_CLIENT_SECRET",
	"AZURE_SUBSCRIPTION_ID",
	"RESOURCE_GROUP",
	"VM_NAME",
}

// LoadBotConfig reads the bot configuration from the process environment.
// When envFile is non-empty it is loaded first with godotenv; variables that
// are already set win, and a missing file is not an error.
func LoadBotConfig(envFile string) (*BotConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}
	return loadBotConfig(os.LookupEnv)
}

func loadBotConfig(lookup func(string) (string, bool)) (*BotConfig, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	var missing []string
	for _, key := range requiredEnv {
		if get(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("validation error: missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg := &BotConfig{
		Discord: DiscordConfig{
			Token:         get("DISCORD_TOKEN"),
			CommandPrefix: get("COMMAND_PREFIX"),
			TriggerWord:   get("TRIGGER_WORD"),
		},
		Webhooks: WebhookConfig{
			StartURL: get("WEBHOOK_START"),
			StopURL:  get("WEBHOOK_STOP"),
		},
		Azure: AzureConfig{
			TenantID:       get("AZURE_TENANT_ID"),
			ClientID:       get("AZURE_CLIENT_ID"),
			ClientSecret:   get("AZURE_CLIENT_SECRET"),
			SubscriptionID: get("AZURE_SUBSCRIPTION_ID"),
			ResourceGroup:  get("RESOURCE_GROUP"),
			VMName:         get("VM_NAME"),
			LoginURL:       get("AZURE_LOGIN_URL"),
			ManagementURL:  get("AZURE_MANAGEMENT_URL"),
		},
		LogFormat:    strings.ToLower(get("LOG_FORMAT")),
		OTLPEndpoint: get("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	var err error
	if cfg.Webhooks.Checked, err = parseBool(get("WEBHOOK_CHECKED")); err != nil {
		return nil, fmt.Errorf("validation error: WEBHOOK_CHECKED: %w", err)
	}
	if cfg.HTTPTimeoutSec, err = parseInt(get("HTTP_TIMEOUT_SECONDS")); err != nil {
		return nil, fmt.Errorf("validation error: HTTP_TIMEOUT_SECONDS: %w", err)
	}
	if cfg.CommandTimeoutSec, err = parseInt(get("COMMAND_TIMEOUT_SECONDS")); err != nil {
		return nil, fmt.Errorf("validation error: COMMAND_TIMEOUT_SECONDS: %w", err)
	}
	if cfg.HTTPPort, err = parseInt(get("HTTP_PORT")); err != nil {
		return nil, fmt.Errorf("validation error: HTTP_PORT: %w", err)
	}

	if err := validateBotConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateBotConfig(cfg *BotConfig) error {
	if cfg.Discord.CommandPrefix == "" {
		cfg.Discord.CommandPrefix = defaultCommandPrefix
	}
	if cfg.Discord.TriggerWord == "" {
		cfg.Discord.TriggerWord = defaultTriggerWord
	}
	if cfg.Azure.LoginURL == "" {
		cfg.Azure.LoginURL = defaultLoginURL
	}
	if cfg.Azure.ManagementURL == "" {
		cfg.Azure.ManagementURL = defaultManagementURL
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = defaultLogFormat
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("validation error: LOG_FORMAT must be json or console, got %q", cfg.LogFormat)
	}

	if cfg.HTTPTimeoutSec < 0 {
		return fmt.Errorf("validation error: HTTP_TIMEOUT_SECONDS must not be negative, got %d", cfg.HTTPTimeoutSec)
	}
	if cfg.HTTPTimeoutSec == 0 {
		cfg.HTTPTimeoutSec = defaultHTTPTimeoutSec
	}
	if cfg.CommandTimeoutSec < 0 {
		return fmt.Errorf("validation error: COMMAND_TIMEOUT_SECONDS must not be negative, got %d", cfg.CommandTimeoutSec)
	}
	if cfg.CommandTimeoutSec == 0 {
		cfg.CommandTimeoutSec = defaultCommandTimeoutSec
	}
	if cfg.HTTPPort < 0 || cfg.HTTPPort > 65535 {
		return fmt.Errorf("validation error: HTTP_PORT must be between 0 and 65535, got %d", cfg.HTTPPort)
	}

	for name, raw := range map[string]string{
		"WEBHOOK_START": cfg.Webhooks.StartURL,
		"WEBHOOK_STOP":  cfg.Webhooks.StopURL,
	} {
		if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
			return fmt.Errorf("validation error: %s must be an http(s) URL", name)
		}
	}
	return nil
}

// HTTPTimeout is the client timeout applied to every outbound call.
func (c *BotConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

func (c *BotConfig) CommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeoutSec) * time.Second
}

func parseInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func parseBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
