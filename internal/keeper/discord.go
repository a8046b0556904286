package keeper

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/IntergalacticCampervan/MischiefManagerBot/internal/shared"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DiscordSession abstracts the discordgo.Session methods used by DiscordBot,
// enabling mock-based testing without real Discord API calls.
type DiscordSession interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	State() *discordgo.State
}

type realDiscordSession struct {
	s *discordgo.Session
}

func (r *realDiscordSession) AddHandler(handler interface{}) func() {
	return r.s.AddHandler(handler)
}

func (r *realDiscordSession) Open() error {
	return r.s.Open()
}

func (r *realDiscordSession) Close() error {
	return r.s.Close()
}

func (r *realDiscordSession) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return r.s.ChannelMessageSend(channelID, content, options...)
}

func (r *realDiscordSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return r.s.ChannelMessageSendEmbed(channelID, embed, options...)
}

func (r *realDiscordSession) State() *discordgo.State {
	return r.s.State
}

type commandKind int

const (
	commandUnknown commandKind = iota
	commandServer
	commandHelp
	commandIntro
)

var commandNames = map[string]commandKind{
	"server":   commandServer,
	"realm":    commandServer,
	"mischief": commandServer,
	"help":     commandHelp,
	"helpme":   commandHelp,
	"guide":    commandHelp,
	"manual":   commandHelp,
	"intro":    commandIntro,
}

const defaultCommandTimeout = 60 * time.Second

// BotOptions tunes command parsing and per-message limits.
type BotOptions struct {
	Prefix         string
	CommandTimeout time.Duration
}

// DiscordBot relays prefixed text commands from Discord channels to the
// Router and runs the passive listener on every message.
type DiscordBot struct {
	session  DiscordSession
	router   *Router
	listener *Listener
	dedup    *messageDedup
	logger   *zap.Logger
	metrics  *Metrics

	prefix         string
	commandTimeout time.Duration

	mu             sync.Mutex
	running        bool
	removeHandlers []func()
}

// NewDiscordBot creates a DiscordBot with a real discordgo session.
func NewDiscordBot(token string, opts BotOptions, router *Router, listener *Listener, logger *zap.Logger) (*DiscordBot, error) {
	if token == "" {
		return nil, fmt.Errorf("discord bot token is required")
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return NewDiscordBotWithSession(&realDiscordSession{s: dg}, opts, router, listener, logger), nil
}

// NewDiscordBotWithSession creates a DiscordBot with an injected session (for testing).
func NewDiscordBotWithSession(session DiscordSession, opts BotOptions, router *Router, listener *Listener, logger *zap.Logger) *DiscordBot {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Prefix == "" {
		opts.Prefix = "!"
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = defaultCommandTimeout
	}
	dedup, err := newMessageDedup(dedupCacheSize)
	if err != nil {
		logger.Warn("message dedup disabled", zap.Error(err))
	}
	return &DiscordBot{
		session:        session,
		router:         router,
		listener:       listener,
		dedup:          dedup,
		logger:         logger,
		metrics:        GetMetrics(),
		prefix:         opts.Prefix,
		commandTimeout: opts.CommandTimeout,
	}
}

// Start registers the event handlers and opens the gateway connection.
func (b *DiscordBot) Start() error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return fmt.Errorf("discord bot is already running")
	}
	b.mu.Unlock()

	removeReady := b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.handleReady(r)
	})
	removeMessage := b.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.handleMessage(m)
	})

	if err := b.session.Open(); err != nil {
		removeReady()
		removeMessage()
		return fmt.Errorf("open discord session: %w", err)
	}

	b.mu.Lock()
	b.removeHandlers = []func(){removeReady, removeMessage}
	b.running = true
	b.mu.Unlock()

	return nil
}

// Stop removes the handlers and closes the Discord session.
func (b *DiscordBot) Stop() error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return nil
	}
	removers := b.removeHandlers
	b.removeHandlers = nil
	b.mu.Unlock()

	for _, remove := range removers {
		remove()
	}

	if err := b.session.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}

	b.mu.Lock()
	b.running = false
	b.mu.Unlock()

	return nil
}

func (b *DiscordBot) IsRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

func (b *DiscordBot) handleReady(r *discordgo.Ready) {
	name := "the keeper"
	if r != nil && r.User != nil {
		name = r.User.String()
	}
	b.logger.Info("keeper has joined the realm", zap.String("user", name))
}

// handleMessage runs the passive listener and then the prefixed command, if
// any. discordgo calls it on its own goroutine per event.
func (b *DiscordBot) handleMessage(m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil {
		return
	}
	if b.isSelf(m.Author.ID) {
		return
	}
	if !b.dedup.firstSighting(m.ID) {
		b.logger.Debug("dropping replayed message", zap.String("message_id", m.ID))
		return
	}

	ctx := shared.WithCorrelationID(context.Background(), shared.NewCorrelationID())

	defer func() {
		if r := recover(); r != nil {
			panicErr := fmt.Errorf("panic: %v", r)
			shared.LogErrorWithContext(ctx, b.logger, "panic in message handler", panicErr,
				zap.Any("panic", r),
				zap.String("channel_id", m.ChannelID),
			)
			b.metrics.RecordError("discord", "panic")
			b.send(ctx, m.ChannelID, falteredReply(panicErr))
		}
	}()

	if b.listener != nil {
		if text, ok := b.listener.Respond(m.Content); ok {
			b.send(ctx, m.ChannelID, Reply{Text: text})
		}
	}

	name, arg, ok := parseCommand(b.prefix, m.Content)
	if !ok {
		return
	}

	var reply Reply
	switch commandNames[name] {
	case commandServer:
		cmdCtx, cancel := context.WithTimeout(ctx, b.commandTimeout)
		defer cancel()
		reply = b.router.Handle(cmdCtx, arg, displayName(m.Message))
	case commandHelp:
		reply = HelpReply(b.prefix)
	case commandIntro:
		reply = IntroReply(b.prefix)
	default:
		return
	}

	b.send(ctx, m.ChannelID, reply)
}

func (b *DiscordBot) isSelf(authorID string) bool {
	state := b.session.State()
	return state != nil && state.User != nil && state.User.ID == authorID
}

func (b *DiscordBot) send(ctx context.Context, channelID string, reply Reply) {
	if reply.IsEmpty() {
		return
	}
	var err error
	if reply.IsEmbed() {
		_, err = b.session.ChannelMessageSendEmbed(channelID, replyEmbed(reply))
	} else {
		_, err = b.session.ChannelMessageSend(channelID, reply.Text)
	}
	if err != nil {
		b.metrics.RecordError("discord", "send")
		shared.LogErrorWithContext(ctx, b.logger, "failed to send reply", err, zap.String("channel_id", channelID))
	}
}

// parseCommand splits "<prefix><name> [arg ...]" into a lower-cased name and
// its first argument. Extra words are ignored.
func parseCommand(prefix, content string) (name, arg string, ok bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", "", false
	}
	name = strings.ToLower(fields[0])
	if len(fields) > 1 {
		arg = fields[1]
	}
	return name, arg, true
}

// displayName prefers the guild nickname, then the global display name, then
// the username.
func displayName(m *discordgo.Message) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}

func replyEmbed(r Reply) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       r.Title,
		Description: r.Description,
		Color:       r.Color,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if r.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: r.Footer}
	}
	if r.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: r.Thumbnail}
	}
	return embed
}
