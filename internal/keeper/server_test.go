package keeper

import (
	"testing"

	"github.com/IntergalacticCampervan/MischiefManagerBot/internal/config"
)

func testBotConfig() *config.BotConfig {
	return &config.BotConfig{
		Discord: config.DiscordConfig{Token: "discord-token", CommandPrefix: "!", TriggerWord: "keeper"},
		Webhooks: config.WebhookConfig{
			StartURL: testStartURL,
			StopURL:  testStopURL,
		},
		Azure: config.AzureConfig{
			TenantID:       "tenant",
			ClientID:       "client",
			ClientSecret:   "secret",
			SubscriptionID: "sub",
			ResourceGroup:  "rg",
			VMName:         "realm-vm",
		},
		HTTPTimeoutSec:    30,
		CommandTimeoutSec: 60,
	}
}

func TestNewServerRequiresConfig(t *testing.T) {
	if _, err := NewServer(nil, nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestNewServerRequiresDiscordToken(t *testing.T) {
	cfg := testBotConfig()
	cfg.Discord.Token = ""
	if _, err := NewServer(cfg, nil); err == nil {
		t.Fatal("expected error for missing discord token")
	}
}

func TestNewServerWiring(t *testing.T) {
	srv, err := NewServer(testBotConfig(), nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if srv.IsRunning() {
		t.Error("server should not run before Start")
	}
	if srv.State() == nil {
		t.Error("expected session state")
	}
	if srv.HTTPAPI() != nil {
		t.Error("http api should be disabled without HTTP_PORT")
	}
	if err := srv.Stop(); err != nil {
		t.Fatalf("stop before start should be a no-op: %v", err)
	}

	cfg := testBotConfig()
	cfg.HTTPPort = 9191
	srv, err = NewServer(cfg, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if srv.HTTPAPI() == nil {
		t.Fatal("expected http api when HTTP_PORT is set")
	}
}
