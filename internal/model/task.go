package model

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

type TaskStatus int

const (
	TaskStatusDisabled TaskStatus = 0
	TaskStatusEnabled  TaskStatus = 1
)

type Task struct {
	ID             uint           `gorm:"primaryKey"`
	TypeID         uint           `gorm:"not null"`
	TaskName       string         `gorm:"type:varchar(255);not null"`
	Description    string         `gorm:"type:text"`
	QueryCondition datatypes.JSON `gorm:"type:jsonb"`
	Status         TaskStatus     `gorm:"default:1"`
	CronExpression string         `gorm:"type:varchar(100)"`
	LastExecTime   sql.NullTime
	NextExecTime   sql.NullTime
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`

	Type TaskType `gorm:"foreignKey:TypeID;references:ID"`
}

func (Task) TableName() string {
	return "tasks"
}

type GetTaskParam struct {
	IDs      []uint      `json:"ids"`
	TaskName *string     `json:"task_name"`
	Status   *TaskStatus `json:"status"`
	DueAt    *time.Time  `json:"due_at"`
	PageNum  *int        `json:"page_num"`
	PageSize *int        `json:"page_size"`
}
