package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskType struct {
	ID           uint           `gorm:"primaryKey"`
	TypeName     string         `gorm:"type:varchar(255);not null"`
	Description  string         `gorm:"type:text"`
	SQLContent   string         `gorm:"column:sql_content;type:text;not null"`
	FieldConfig  datatypes.JSON `gorm:"type:jsonb"`
	VerifyConfig datatypes.JSON `gorm:"type:jsonb"`
	Formula      string         `gorm:"type:text"`
	Status       int            `gorm:"default:1"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (TaskType) TableName() string {
	return "task_types"
}

type GetTaskTypeParam struct {
	IDs      []uint  `json:"ids"`
	TypeName *string `json:"type_name"`
	Status   *int    `json:"status"`
	PageNum  *int    `json:"page_num"`
	PageSize *int    `json:"page_size"`
}
