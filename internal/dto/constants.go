package dto

type TriggerType string

const (
	TriggerManual    TriggerType = "manual"
	TriggerScheduled TriggerType = "scheduled"
	TriggerAPI       TriggerType = "api"
)

type ExecStatus string

const (
	ExecStatusSuccess ExecStatus = "success"
	ExecStatusFail    ExecStatus = "fail"
)

type NotifyStatus string

const (
	NotifyStatusPending  NotifyStatus = "pending"
	NotifyStatusSent     NotifyStatus = "sent"
	NotifyStatusFailed   NotifyStatus = "failed"
	NotifyStatusRetrying NotifyStatus = "retrying"
)

type NotifyType string

const (
	NotifyTypeThresholdAlert NotifyType = "threshold_alert"
	NotifyTypeTaskComplete   NotifyType = "task_complete"
	NotifyTypeCustom         NotifyType = "custom"
)

const (
	// MaxResultRows caps how many rows the bounded executor materializes.
	MaxResultRows = 10000
	// MaxSampleRecords caps detail lists and persisted result samples.
	MaxSampleRecords = 100
)
