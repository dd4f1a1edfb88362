package discord

import (
	"dashpulse/config"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Alerter mirrors error notifications from the dashboard to a Discord
// channel so an operator hears about failures without watching the UI.
// Disabled (all sends are no-ops) when no bot token is configured.
type Alerter struct {
	logger    *zap.Logger
	session   *discordgo.Session
	channelID string
}

func NewAlerter(logger *zap.Logger, cfg *config.Config) *Alerter {
	if logger == nil {
		logger = zap.NewNop()
	}

	token := cfg.Discord.BotToken
	if token == "" || cfg.Discord.ChannelID == "" {
		logger.Info("discord alert mirror not configured, disabled")
		return &Alerter{logger: logger, channelID: cfg.Discord.ChannelID}
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		logger.Error("failed to create discord session", zap.Error(err))
		return &Alerter{logger: logger, channelID: cfg.Discord.ChannelID}
	}

	logger.Info("discord alert mirror initialized",
		zap.String("channelID", cfg.Discord.ChannelID),
	)

	return &Alerter{
		logger:    logger,
		session:   session,
		channelID: cfg.Discord.ChannelID,
	}
}

// Enabled reports whether alerts will actually be delivered.
func (a *Alerter) Enabled() bool {
	return a.session != nil
}

// SendAlert delivers an error message as an embed. Failures are logged and
// swallowed; alerting must never fail the caller.
func (a *Alerter) SendAlert(message string) {
	if a.session == nil {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Dashboard Error",
		Description: message,
		Color:       0xE74C3C,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "dashpulse",
		},
	}

	if _, err := a.session.ChannelMessageSendEmbed(a.channelID, embed); err != nil {
		a.logger.Error("failed to send discord alert", zap.Error(err))
		return
	}

	a.logger.Info("sent discord alert")
}

// Close closes the Discord session.
func (a *Alerter) Close() error {
	if a.session != nil {
		return a.session.Close()
	}
	return nil
}
