package repository

import (
	"context"
	"errors"
	"time"

	"golang-monitor/internal/model"
	"golang-monitor/pkg/errs"
	"golang-monitor/pkg/utils"

	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task, opts ...utils.DBOption) error
	Update(ctx context.Context, task *model.Task, opts ...utils.DBOption) error
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
	FindByID(ctx context.Context, id uint) (*model.Task, error)
	Get(ctx context.Context, param *model.GetTaskParam, opts ...utils.DBOption) ([]model.Task, int64, error)
	FindDue(ctx context.Context, now time.Time, opts ...utils.DBOption) ([]model.Task, error)
	CountByTypeID(ctx context.Context, typeID uint) (int64, error)
	UpdateExecTimes(ctx context.Context, id uint, lastExec time.Time, nextExec *time.Time, opts ...utils.DBOption) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(task).Error
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(task).Error
}

func (r *taskRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Delete(&model.Task{}, id).Error
}

func (r *taskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("task", id)
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Get(ctx context.Context, param *model.GetTaskParam, opts ...utils.DBOption) ([]model.Task, int64, error) {
	var tasks []model.Task
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Model(&model.Task{})

	if len(param.IDs) > 0 {
		db = db.Where("id IN ?", param.IDs)
	}
	if param.TaskName != nil {
		db = db.Where("task_name LIKE ?", "%"+*param.TaskName+"%")
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

	if err := db.Order("id DESC").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *taskRepository) FindDue(ctx context.Context, now time.Time, opts ...utils.DBOption) ([]model.Task, error) {
	var tasks []model.Task
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("status = ? AND cron_expression <> '' AND (next_exec_time IS NULL OR next_exec_time <= ?)",
			model.TaskStatusEnabled, now).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) CountByTypeID(ctx context.Context, typeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Where("type_id = ?", typeID).Count(&count).Error
	return count, err
}

func (r *taskRepository) UpdateExecTimes(ctx context.Context, id uint, lastExec time.Time, nextExec *time.Time, opts ...utils.DBOption) error {
	updates := map[string]interface{}{"last_exec_time": lastExec}
	if nextExec != nil {
		updates["next_exec_time"] = *nextExec
	}
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Task{}).Where("id = ?", id).Updates(updates).Error
}
