// Package bot provides the Telegram bot initialization and handler registration.
package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"fortnite-stats-bot/internal/config"
	"fortnite-stats-bot/internal/handler"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot           *tele.Bot
	cfg           *config.Config
	searchHandler *handler.SearchHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config        *config.Config
	SearchHandler *handler.SearchHandler
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:     deps.Config.Bot.Token,
		Poller:    &tele.LongPoller{Timeout: deps.Config.Bot.PollTimeout},
		ParseMode: tele.ModeMarkdown,
		OnError: func(err error, c tele.Context) {
			logEvent := log.Error().Err(err)
			if c != nil && c.Sender() != nil {
				logEvent = logEvent.Int64("user_id", c.Sender().ID)
			}
			logEvent.Msg("Unhandled bot error")
		},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:           teleBot,
		cfg:           deps.Config,
		searchHandler: deps.SearchHandler,
	}

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command and callback handlers.
func (b *Bot) registerHandlers() {
	Register(b.bot, b.searchHandler)
}

// Router is the subset of *tele.Bot used for registration.
type Router interface {
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
}

// Register binds every command, text and callback endpoint to the search handler.
func Register(r Router, h *handler.SearchHandler) {
	r.Handle("/start", h.HandleStart)
	r.Handle("/credits", h.HandleCredits)
	r.Handle("/search", h.HandleSearch)
	r.Handle("/replay", h.HandleReplay)
	r.Handle("/list", h.HandleList)

	r.Handle(tele.OnText, h.HandleText)
	// Buttons are built without registered endpoints, so every press lands here.
	r.Handle(tele.OnCallback, h.HandleCallback)
}

// Start starts the bot polling. It blocks until Stop is called.
func (b *Bot) Start() {
	log.Info().Str("username", b.bot.Me.Username).Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}

// Run polls until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Start()
	}()

	select {
	case <-ctx.Done():
		b.Stop()
		<-done
		return nil
	case <-done:
		return fmt.Errorf("bot poller exited")
	}
}
