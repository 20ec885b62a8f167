package repository

import (
	"context"
	"errors"

	"golang-monitor/internal/model"
	"golang-monitor/pkg/errs"
	"golang-monitor/pkg/utils"

	"gorm.io/gorm"
)

type TypeRepository interface {
	Create(ctx context.Context, taskType *model.TaskType, opts ...utils.DBOption) error
	Update(ctx context.Context, taskType *model.TaskType, opts ...utils.DBOption) error
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
	FindByID(ctx context.Context, id uint) (*model.TaskType, error)
	Get(ctx context.Context, param *model.GetTaskTypeParam, opts ...utils.DBOption) ([]model.TaskType, int64, error)
}

type typeRepository struct {
	db *gorm.DB
}

func NewTypeRepository(db *gorm.DB) TypeRepository {
	return &typeRepository{db: db}
}

func (r *typeRepository) Create(ctx context.Context, taskType *model.TaskType, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(taskType).Error
}

func (r *typeRepository) Update(ctx context.Context, taskType *model.TaskType, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(taskType).Error
}

// Delete soft-deletes via gorm.DeletedAt.
func (r *typeRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Delete(&model.TaskType{}, id).Error
}

func (r *typeRepository) FindByID(ctx context.Context, id uint) (*model.TaskType, error) {
	var taskType model.TaskType
	if err := r.db.WithContext(ctx).First(&taskType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("task type", id)
		}
		return nil, err
	}
	return &taskType, nil
}

func (r *typeRepository) Get(ctx context.Context, param *model.GetTaskTypeParam, opts ...utils.DBOption) ([]model.TaskType, int64, error) {
	var types []model.TaskType
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Model(&model.TaskType{})

	if len(param.IDs) > 0 {
		db = db.Where("id IN ?", param.IDs)
	}
	if param.TypeName != nil {
		db = db.Where("type_name LIKE ?", "%"+*param.TypeName+"%")
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

	if err := db.Order("id DESC").Find(&types).Error; err != nil {
		return nil, 0, err
	}
	return types, total, nil
}
