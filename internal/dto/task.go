package dto

import "time"

type CreateTaskRequest struct {
	TaskName       string                 `json:"task_name" validate:"required"`
	TypeID         uint                   `json:"type_id" validate:"required"`
	Description    string                 `json:"description"`
	CronExpression string                 `json:"cron_expression"`
	QueryCondition map[string]interface{} `json:"query_condition"`
}

type UpdateTaskRequest struct {
	TaskName       *string                `json:"task_name"`
	TypeID         *uint                  `json:"type_id"`
	Description    *string                `json:"description"`
	CronExpression *string                `json:"cron_expression"`
	QueryCondition map[string]interface{} `json:"query_condition"`
	Status         *string                `json:"status"`
}

type ListTasksQuery struct {
	TaskName *string `query:"task_name"`
	Status   *string `query:"status"`
	TypeID   *uint   `query:"type_id"`
	PageNum  int     `query:"page_num"`
	PageSize int     `query:"page_size"`
}

type TaskView struct {
	ID             uint                   `json:"id"`
	TypeID         uint                   `json:"typeId"`
	TypeName       string                 `json:"typeName,omitempty"`
	TaskName       string                 `json:"taskName"`
	Description    string                 `json:"description,omitempty"`
	CronExpression string                 `json:"cronExpression,omitempty"`
	QueryCondition map[string]interface{} `json:"queryCondition,omitempty"`
	Status         string                 `json:"status"`
	LastExecTime   *time.Time             `json:"lastExecTime,omitempty"`
	NextExecTime   *time.Time             `json:"nextExecTime,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}
