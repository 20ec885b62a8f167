package notify

import (
	"context"

	"golang-monitor/config"
	"golang-monitor/internal/dto"
	"golang-monitor/pkg/logger"

	"gopkg.in/telebot.v3"
)

type telegramChannel struct {
	cfg    *config.NotifyConfig
	bot    *telebot.Bot
	logger *logger.Logger
}

// NewTelegramChannel wraps an already-connected bot. bot may be nil when the
// token is not configured; the channel then reports itself disabled.
func NewTelegramChannel(cfg *config.NotifyConfig, bot *telebot.Bot, log *logger.Logger) Channel {
	return &telegramChannel{cfg: cfg, bot: bot, logger: log}
}

func (c *telegramChannel) Name() string {
	return ChannelTelegram
}

func (c *telegramChannel) Enabled() bool {
	return c.bot != nil && c.cfg.TelegramChatID != 0
}

func (c *telegramChannel) Send(ctx context.Context, req dto.NotifyRequest) dto.NotifyResult {
	if err := ctx.Err(); err != nil {
		return dto.NotifyFail(c.Name(), err.Error())
	}

	_, err := c.bot.Send(telebot.ChatID(c.cfg.TelegramChatID), BuildContent(req))
	if err != nil {
		c.logger.ErrorContext(ctx, "telegram notify failed", logger.ErrorField(err))
		return dto.NotifyFail(c.Name(), err.Error())
	}

	return dto.NotifySuccess(c.Name(), "delivered")
}
