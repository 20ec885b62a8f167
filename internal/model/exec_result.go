package model

import (
	"time"

	"gorm.io/datatypes"
)

type ExecResult struct {
	ID              uint           `gorm:"primaryKey"`
	TaskID          uint           `gorm:"not null;index"`
	TypeID          uint           `gorm:"not null"`
	ExecTime        time.Time      `gorm:"not null"`
	DataCount       int            `gorm:"not null"`
	MetricData      datatypes.JSON `gorm:"type:jsonb"`
	ThresholdResult datatypes.JSON `gorm:"type:jsonb"`
	IsCompleted     bool           `gorm:"default:false"`
	CompleteReason  string         `gorm:"type:text"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
}

func (ExecResult) TableName() string {
	return "exec_results"
}
