package keeper

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/IntergalacticCampervan/MischiefManagerBot/internal/azure"
	"github.com/IntergalacticCampervan/MischiefManagerBot/internal/config"
	"go.uber.org/zap"
)

// Server owns the bot process lifecycle: the Discord gateway connection and
// the optional ops HTTP server.
type Server struct {
	cfg    *config.BotConfig
	logger *zap.Logger
	bot    *DiscordBot
	state  *SessionState
	wg     sync.WaitGroup

	mu      sync.Mutex
	running bool

	httpAPI      *HTTPAPI
	httpShutdown func(ctx context.Context) error
}

// NewServer wires the Azure clients, webhook trigger, router and Discord
// transport from cfg.
func NewServer(cfg *config.BotConfig, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout()}
	metrics := GetMetrics()

	checker := azure.NewStatusChecker(
		azure.NewAuthClient(cfg.Azure.LoginURL, httpClient, logger),
		azure.NewVMClient(cfg.Azure.ManagementURL, httpClient, logger),
		azure.Credentials{
			TenantID:       cfg.Azure.TenantID,
			ClientID:       cfg.Azure.ClientID,
			ClientSecret:   cfg.Azure.ClientSecret,
			SubscriptionID: cfg.Azure.SubscriptionID,
			ResourceGroup:  cfg.Azure.ResourceGroup,
			VMName:         cfg.Azure.VMName,
		},
	)

	state := NewSessionState()
	router := NewRouter(RouterDeps{
		StartURL: cfg.Webhooks.StartURL,
		StopURL:  cfg.Webhooks.StopURL,
		Prefix:   cfg.Discord.CommandPrefix,
		Trigger:  NewWebhookTrigger(httpClient, cfg.Webhooks.Checked, logger),
		Status:   checker,
		State:    state,
		Logger:   logger,
		Metrics:  metrics,
	})
	listener := NewListener(cfg.Discord.TriggerWord, nil, metrics)

	bot, err := NewDiscordBot(cfg.Discord.Token, BotOptions{
		Prefix:         cfg.Discord.CommandPrefix,
		CommandTimeout: cfg.CommandTimeout(),
	}, router, listener, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		bot:    bot,
		state:  state,
	}
	if cfg.HTTPPort > 0 {
		s.httpAPI = NewHTTPAPI(bot.IsRunning, logger)
	}
	return s, nil
}

// Start connects to Discord and, when configured, starts the ops HTTP server.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.mu.Unlock()

	s.logger.Info("mischief manager starting",
		zap.String("command_prefix", s.cfg.Discord.CommandPrefix),
		zap.Bool("webhooks_checked", s.cfg.Webhooks.Checked),
		zap.String("vm_name", s.cfg.Azure.VMName),
	)

	if err := s.bot.Start(); err != nil {
		return fmt.Errorf("start discord bot: %w", err)
	}

	if s.httpAPI != nil {
		addr := fmt.Sprintf(":%d", s.cfg.HTTPPort)
		httpSrv := &http.Server{
			Addr:         addr,
			Handler:      s.httpAPI.Handler(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.logger.Info("http api server starting", zap.String("addr", addr))
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.logger.Error("http api server error", zap.Error(err))
			}
		}()
		s.httpShutdown = httpSrv.Shutdown
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	return nil
}

// Stop shuts down the HTTP server and closes the Discord session.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("mischief manager shutting down gracefully")

	if s.httpShutdown != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.httpShutdown(shutdownCtx); err != nil {
			s.logger.Error("http api shutdown error", zap.Error(err))
		}
		shutdownCancel()
		s.httpShutdown = nil
	}
	s.wg.Wait()

	if err := s.bot.Stop(); err != nil {
		return err
	}
	s.logger.Info("mischief manager shutdown complete")
	return nil
}

func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// State exposes the session timestamps kept by the router.
func (s *Server) State() *SessionState {
	return s.state
}

// HTTPAPI returns the ops API, or nil when HTTP_PORT is unset.
func (s *Server) HTTPAPI() *HTTPAPI {
	return s.httpAPI
}
