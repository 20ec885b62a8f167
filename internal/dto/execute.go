package dto

import (
	"time"

	"golang-monitor/internal/dataset"
)

// ThresholdRule is one configured field check from a type's verifyConfig.
// Threshold stays untyped because configurations store it either as a number
// or as numeric text.
type ThresholdRule struct {
	Field     string      `json:"field"`
	Operator  string      `json:"operator"`
	Threshold interface{} `json:"threshold"`
	Level     string      `json:"level,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// VerifyConfig is the JSON shape of a type's verification column.
type VerifyConfig struct {
	Thresholds []ThresholdRule `json:"thresholds"`
}

// ThresholdResult is the outcome of one rule applied to one record.
type ThresholdResult struct {
	Field       string        `json:"field"`
	Operator    string        `json:"operator"`
	Threshold   interface{}   `json:"threshold"`
	ActualValue dataset.Value `json:"actualValue"`
	Level       string        `json:"level"`
	Message     string        `json:"message"`
	Triggered   bool          `json:"triggered"`
}

// CompleteResult is the single completion verdict of a run.
type CompleteResult struct {
	Completed bool   `json:"isCompleted"`
	Reason    string `json:"reason"`
	DataCount int    `json:"dataCount"`
}

type VerifyResult struct {
	Value            interface{}       `json:"value"`
	Detail           []*dataset.Record `json:"detail"`
	IsCompleted      bool              `json:"isCompleted"`
	CompletedReason  string            `json:"completedReason"`
	ThresholdResults []ThresholdResult `json:"thresholdResults"`
}

type ExecuteRequest struct {
	TaskID    uint        `json:"task_id" validate:"required"`
	TimeRange string      `json:"time_range"`
	Trigger   TriggerType `json:"trigger"`
}

type ExecuteResult struct {
	TaskID              uint        `json:"taskId"`
	ExecTime            time.Time   `json:"execTime"`
	Success             bool        `json:"success"`
	DurationMs          int64       `json:"durationMs"`
	DataCount           int         `json:"dataCount"`
	ThresholdViolations int         `json:"thresholdViolations"`
	IsCompleted         bool        `json:"isCompleted"`
	CompletedReason     string      `json:"completedReason"`
	Message             string      `json:"message"`
}

type ExecutionLogQuery struct {
	TaskID     *uint      `query:"task_id"`
	StartTime  *time.Time `query:"start_time"`
	EndTime    *time.Time `query:"end_time"`
	ExecStatus *string    `query:"exec_status"`
	PageNum    int        `query:"page_num"`
	PageSize   int        `query:"page_size"`
}

type PagedResult struct {
	Total    int64       `json:"total"`
	PageNum  int         `json:"pageNum"`
	PageSize int         `json:"pageSize"`
	List     interface{} `json:"list"`
}
