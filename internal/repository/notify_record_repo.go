package repository

import (
	"context"
	"errors"

	"golang-monitor/internal/model"
	"golang-monitor/pkg/errs"
	"golang-monitor/pkg/utils"

	"gorm.io/gorm"
)

type NotifyRecordRepository interface {
	Create(ctx context.Context, record *model.NotifyRecord, opts ...utils.DBOption) error
	Update(ctx context.Context, record *model.NotifyRecord, opts ...utils.DBOption) error
	FindByID(ctx context.Context, id uint) (*model.NotifyRecord, error)
	Get(ctx context.Context, param *model.GetNotifyRecordParam, opts ...utils.DBOption) ([]model.NotifyRecord, int64, error)
}

type notifyRecordRepository struct {
	db *gorm.DB
}

func NewNotifyRecordRepository(db *gorm.DB) NotifyRecordRepository {
	return &notifyRecordRepository{db: db}
}

func (r *notifyRecordRepository) Create(ctx context.Context, record *model.NotifyRecord, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(record).Error
}

func (r *notifyRecordRepository) Update(ctx context.Context, record *model.NotifyRecord, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(record).Error
}

func (r *notifyRecordRepository) FindByID(ctx context.Context, id uint) (*model.NotifyRecord, error) {
	var record model.NotifyRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("notify record", id)
		}
		return nil, err
	}
	return &record, nil
}

func (r *notifyRecordRepository) Get(ctx context.Context, param *model.GetNotifyRecordParam, opts ...utils.DBOption) ([]model.NotifyRecord, int64, error) {
	var records []model.NotifyRecord
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Model(&model.NotifyRecord{})

	if param.TaskID != nil {
		db = db.Where("task_id = ?", *param.TaskID)
	}
	if param.Status != nil {
		db = db.Where("status = ?", *param.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if param.PageNum != nil && param.PageSize != nil {
		db = db.Offset((*param.PageNum - 1) * *param.PageSize).Limit(*param.PageSize)
	}

	if err := db.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
