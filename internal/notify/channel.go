package notify

import (
	"context"
	"fmt"
	"strings"

	"golang-monitor/internal/dto"
)

const (
	ChannelWebhook  = "webhook"
	ChannelDingTalk = "dingtalk"
	ChannelTelegram = "telegram"
	ChannelEmail    = "email"
)

// Channel delivers one alert to one destination. Send reports the outcome
// instead of returning an error so the dispatcher can record every attempt.
type Channel interface {
	Name() string
	Enabled() bool
	Send(ctx context.Context, req dto.NotifyRequest) dto.NotifyResult
}

// BuildContent renders the alert text shared by all channels.
func BuildContent(req dto.NotifyRequest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[Monitor Alert] task %q (id=%d)\n", req.TaskName, req.TaskID))

	triggered := 0
	for _, v := range req.ThresholdViolations {
		if !v.Triggered {
			continue
		}
		triggered++
		sb.WriteString(fmt.Sprintf("- %s\n", v.Message))
	}
	if triggered == 0 {
		sb.WriteString("- no threshold violations\n")
	}

	if req.CompleteReason != "" {
		sb.WriteString("completion: " + req.CompleteReason + "\n")
	}
	if req.NotifyTime != nil {
		sb.WriteString("time: " + req.NotifyTime.Format("2006-01-02 15:04:05"))
	}

	return sb.String()
}
