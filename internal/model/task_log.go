package model

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

type TaskLog struct {
	ID          uint          `gorm:"primaryKey"`
	TaskID      uint          `gorm:"not null;index"`
	TypeID      sql.NullInt64 `gorm:"index"`
	ExecTime    time.Time     `gorm:"not null"`
	ExecStatus  string        `gorm:"type:varchar(20);not null"`
	TriggerType string        `gorm:"type:varchar(20);not null"`
	ExecSQL     sql.NullString `gorm:"column:exec_sql;type:text"`
	ExecResult  datatypes.JSON `gorm:"type:jsonb"`
	ErrorMsg    sql.NullString `gorm:"type:text"`
	DurationMs  int64
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (TaskLog) TableName() string {
	return "task_logs"
}

type GetTaskLogParam struct {
	TaskID     *uint      `json:"task_id"`
	ExecStatus *string    `json:"exec_status"`
	StartTime  *time.Time `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
	PageNum    *int       `json:"page_num"`
	PageSize   *int       `json:"page_size"`
}
