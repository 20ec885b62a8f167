package model

import (
	"database/sql"
	"time"
)

type NotifyRecord struct {
	ID         uint   `gorm:"primaryKey"`
	TaskID     uint   `gorm:"not null;index"`
	TaskName   string `gorm:"type:varchar(255)"`
	Channel    string `gorm:"type:varchar(50);not null"`
	NotifyType string `gorm:"type:varchar(50)"`
	Content    string `gorm:"type:text"`
	Status     string `gorm:"type:varchar(20);not null"`
	ErrorMsg   sql.NullString `gorm:"type:text"`
	RetryCount int            `gorm:"default:0"`
	SentAt     sql.NullTime
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (NotifyRecord) TableName() string {
	return "notify_records"
}

type GetNotifyRecordParam struct {
	TaskID   *uint   `json:"task_id"`
	Status   *string `json:"status"`
	PageNum  *int    `json:"page_num"`
	PageSize *int    `json:"page_size"`
}
