package repository

import (
	"context"
	"errors"

	"golang-monitor/internal/model"
	"golang-monitor/pkg/utils"

	"gorm.io/gorm"
)

type ExecResultRepository interface {
	Create(ctx context.Context, result *model.ExecResult, opts ...utils.DBOption) error
	FindByTaskID(ctx context.Context, taskID uint, limit int) ([]model.ExecResult, error)
	FindLatestByTaskID(ctx context.Context, taskID uint) (*model.ExecResult, error)
}

type execResultRepository struct {
	db *gorm.DB
}

func NewExecResultRepository(db *gorm.DB) ExecResultRepository {
	return &execResultRepository{db: db}
}

func (r *execResultRepository) Create(ctx context.Context, result *model.ExecResult, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(result).Error
}

func (r *execResultRepository) FindByTaskID(ctx context.Context, taskID uint, limit int) ([]model.ExecResult, error) {
	var results []model.ExecResult
	db := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("exec_time DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *execResultRepository) FindLatestByTaskID(ctx context.Context, taskID uint) (*model.ExecResult, error) {
	var result model.ExecResult
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("exec_time DESC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
