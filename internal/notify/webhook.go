package notify

import (
	"context"
	"fmt"

	"golang-monitor/config"
	"golang-monitor/internal/dto"
	"golang-monitor/pkg/httpclient"
	"golang-monitor/pkg/logger"
)

type webhookChannel struct {
	cfg    *config.NotifyConfig
	client httpclient.HTTPClient
	logger *logger.Logger
}

func NewWebhookChannel(cfg *config.NotifyConfig, log *logger.Logger) Channel {
	return &webhookChannel{
		cfg:    cfg,
		client: httpclient.New(cfg.WebhookURL, cfg.Timeout),
		logger: log,
	}
}

func (c *webhookChannel) Name() string {
	return ChannelWebhook
}

func (c *webhookChannel) Enabled() bool {
	return c.cfg.WebhookURL != ""
}

func (c *webhookChannel) Send(ctx context.Context, req dto.NotifyRequest) dto.NotifyResult {
	payload := map[string]interface{}{
		"task_id":              req.TaskID,
		"task_name":            req.TaskName,
		"notify_type":          req.NotifyType,
		"content":              BuildContent(req),
		"threshold_violations": req.ThresholdViolations,
		"complete_reason":      req.CompleteReason,
	}

	resp, err := c.client.Post(ctx, "", payload, nil, nil)
	if err != nil {
		c.logger.ErrorContext(ctx, "webhook notify failed", logger.ErrorField(err))
		return dto.NotifyFail(c.Name(), err.Error())
	}
	if !resp.IsSuccess() {
		msg := fmt.Sprintf("webhook returned status %d", resp.StatusCode)
		c.logger.ErrorContext(ctx, "webhook notify rejected", logger.IntField("status_code", resp.StatusCode))
		return dto.NotifyFail(c.Name(), msg)
	}

	return dto.NotifySuccess(c.Name(), "delivered")
}
