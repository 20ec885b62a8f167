package notify

import (
	"context"
	"fmt"

	"golang-monitor/config"
	"golang-monitor/internal/dto"
	"golang-monitor/pkg/httpclient"
	"golang-monitor/pkg/logger"
)

type dingTalkResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

type dingTalkChannel struct {
	cfg    *config.NotifyConfig
	client httpclient.HTTPClient
	logger *logger.Logger
}

func NewDingTalkChannel(cfg *config.NotifyConfig, log *logger.Logger) Channel {
	return &dingTalkChannel{
		cfg:    cfg,
		client: httpclient.New(cfg.DingTalkBaseURL, cfg.Timeout),
		logger: log,
	}
}

func (c *dingTalkChannel) Name() string {
	return ChannelDingTalk
}

func (c *dingTalkChannel) Enabled() bool {
	return c.cfg.DingTalkToken != ""
}

func (c *dingTalkChannel) Send(ctx context.Context, req dto.NotifyRequest) dto.NotifyResult {
	// The robot API only forwards messages containing the configured keyword.
	content := BuildContent(req)
	if c.cfg.DingTalkKeyword != "" {
		content = c.cfg.DingTalkKeyword + "\n" + content
	}

	payload := map[string]interface{}{
		"msgtype": "text",
		"text":    map[string]string{"content": content},
	}

	var robotResp dingTalkResponse
	endpoint := "/robot/send?access_token=" + c.cfg.DingTalkToken
	resp, err := c.client.Post(ctx, endpoint, payload, nil, &robotResp)
	if err != nil {
		c.logger.ErrorContext(ctx, "dingtalk notify failed", logger.ErrorField(err))
		return dto.NotifyFail(c.Name(), err.Error())
	}
	if !resp.IsSuccess() {
		return dto.NotifyFail(c.Name(), fmt.Sprintf("dingtalk returned status %d", resp.StatusCode))
	}
	if robotResp.ErrCode != 0 {
		msg := fmt.Sprintf("dingtalk errcode=%d: %s", robotResp.ErrCode, robotResp.ErrMsg)
		c.logger.ErrorContext(ctx, "dingtalk notify rejected", logger.StringField("errmsg", robotResp.ErrMsg))
		return dto.NotifyFail(c.Name(), msg)
	}

	return dto.NotifySuccess(c.Name(), "delivered")
}
