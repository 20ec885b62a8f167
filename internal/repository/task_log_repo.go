package repository

import (
	"context"

	"golang-monitor/internal/model"
	"golang-monitor/pkg/utils"

	"gorm.io/gorm"
)

type TaskLogRepository interface {
	Create(ctx context.Context, log *model.TaskLog, opts ...utils.DBOption) error
	Get(ctx context.Context, param *model.GetTaskLogParam, opts ...utils.DBOption) ([]model.TaskLog, int64, error)
}

type taskLogRepository struct {
	db *gorm.DB
}

func NewTaskLogRepository(db *gorm.DB) TaskLogRepository {
	return &taskLogRepository{db: db}
}

func (r *taskLogRepository) Create(ctx context.Context, log *model.TaskLog, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(log).Error
}

func (r *taskLogRepository) Get(ctx context.Context, param *model.GetTaskLogParam, opts ...utils.DBOption) ([]model.TaskLog, int64, error) {
	var logs []model.TaskLog
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Model(&model.TaskLog{})

	if param.TaskID != nil {
		db = db.Where("task_id = ?", *param.TaskID)
	}
	if param.ExecStatus != nil {
		db = db.Where("exec_status = ?", *param.ExecStatus)
	}
	if param.StartTime != nil {
		db = db.Where("exec_time >= ?", *param.StartTime)
	}
	if param.EndTime != nil {
		db = db.Where("exec_time <= ?", *param.EndTime)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if param.PageNum != nil && param.PageSize != nil {
		db = db.Offset((*param.PageNum - 1) * *param.PageSize).Limit(*param.PageSize)
	}

	if err := db.Order("exec_time DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
