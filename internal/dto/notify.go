package dto

import "time"

type NotifyRequest struct {
	TaskID              uint                   `json:"task_id" validate:"required"`
	TaskName            string                 `json:"task_name"`
	Channels            []string               `json:"channels"`
	NotifyType          NotifyType             `json:"notify_type"`
	ThresholdViolations []ThresholdResult      `json:"threshold_violations"`
	CompleteReason      string                 `json:"complete_reason"`
	DataSummary         map[string]interface{} `json:"data_summary"`
	NotifyTime          *time.Time             `json:"notify_time"`
}

type NotifyResult struct {
	Channel string `json:"channel"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NotifySuccess(channel, message string) NotifyResult {
	return NotifyResult{Channel: channel, Success: true, Message: message}
}

func NotifyFail(channel, message string) NotifyResult {
	return NotifyResult{Channel: channel, Success: false, Message: message}
}

type ListNotifyRecordsQuery struct {
	TaskID   *uint `query:"task_id"`
	PageNum  int   `query:"page_num"`
	PageSize int   `query:"page_size"`
}
