package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"golang-monitor/config"
	"golang-monitor/internal/dto"
	"golang-monitor/pkg/logger"
)

type emailChannel struct {
	cfg    *config.NotifyConfig
	logger *logger.Logger
}

func NewEmailChannel(cfg *config.NotifyConfig, log *logger.Logger) Channel {
	return &emailChannel{cfg: cfg, logger: log}
}

func (c *emailChannel) Name() string {
	return ChannelEmail
}

func (c *emailChannel) Enabled() bool {
	return c.cfg.SMTPHost != "" && len(c.cfg.EmailTo) > 0
}

func (c *emailChannel) Send(ctx context.Context, req dto.NotifyRequest) dto.NotifyResult {
	if err := ctx.Err(); err != nil {
		return dto.NotifyFail(c.Name(), err.Error())
	}

	subject := fmt.Sprintf("[Monitor Alert] %s", req.TaskName)
	body := BuildContent(req)

	var msg strings.Builder
	msg.WriteString("From: " + c.cfg.EmailFrom + "\r\n")
	msg.WriteString("To: " + strings.Join(c.cfg.EmailTo, ", ") + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", c.cfg.SMTPHost, c.cfg.SMTPPort)
	var auth smtp.Auth
	if c.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", c.cfg.SMTPUser, c.cfg.SMTPPassword, c.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, c.cfg.EmailFrom, c.cfg.EmailTo, []byte(msg.String())); err != nil {
		c.logger.ErrorContext(ctx, "email notify failed", logger.ErrorField(err))
		return dto.NotifyFail(c.Name(), err.Error())
	}

	return dto.NotifySuccess(c.Name(), "delivered")
}
