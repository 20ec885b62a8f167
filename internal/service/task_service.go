package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang-monitor/internal/dto"
	"golang-monitor/internal/model"
	"golang-monitor/internal/repository"
	"golang-monitor/pkg/errs"
	"golang-monitor/pkg/logger"
	"golang-monitor/pkg/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"
)

// cronParser accepts standard five-field expressions plus @-descriptors.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

type TaskService interface {
	Create(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskView, error)
	Update(ctx context.Context, id uint, req *dto.UpdateTaskRequest) (*dto.TaskView, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*dto.TaskView, error)
	List(ctx context.Context, q *dto.ListTasksQuery) (*dto.PagedResult, error)
}

type taskService struct {
	logger   *logger.Logger
	taskRepo repository.TaskRepository
	typeRepo repository.TypeRepository
}

func NewTaskService(log *logger.Logger, repo *repository.Repository) TaskService {
	return &taskService{
		logger:   log,
		taskRepo: repo.TaskRepo,
		typeRepo: repo.TypeRepo,
	}
}

func (s *taskService) Create(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskView, error) {
	if _, err := s.typeRepo.FindByID(ctx, req.TypeID); err != nil {
		return nil, err
	}

	task := &model.Task{
		TypeID:         req.TypeID,
		TaskName:       req.TaskName,
		Description:    req.Description,
		CronExpression: req.CronExpression,
		Status:         model.TaskStatusEnabled,
	}

	if req.CronExpression != "" {
		next, err := nextCronTime(req.CronExpression, utils.TimeNow())
		if err != nil {
			return nil, errs.NewValidation(fmt.Sprintf("invalid cron expression: %v", err))
		}
		task.NextExecTime.Time = next
		task.NextExecTime.Valid = true
	}
	if req.QueryCondition != nil {
		data, err := json.Marshal(req.QueryCondition)
		if err != nil {
			return nil, errs.NewValidation("query condition is not serializable")
		}
		task.QueryCondition = datatypes.JSON(data)
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "task created", logger.IntField("task_id", int(task.ID)))
	return toTaskView(task), nil
}

func (s *taskService) Update(ctx context.Context, id uint, req *dto.UpdateTaskRequest) (*dto.TaskView, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TypeID != nil {
		if _, err := s.typeRepo.FindByID(ctx, *req.TypeID); err != nil {
			return nil, err
		}
		task.TypeID = *req.TypeID
	}
	if req.TaskName != nil {
		task.TaskName = *req.TaskName
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.CronExpression != nil {
		task.CronExpression = *req.CronExpression
		if *req.CronExpression != "" {
			next, err := nextCronTime(*req.CronExpression, utils.TimeNow())
			if err != nil {
				return nil, errs.NewValidation(fmt.Sprintf("invalid cron expression: %v", err))
			}
			task.NextExecTime.Time = next
			task.NextExecTime.Valid = true
		} else {
			task.NextExecTime.Valid = false
		}
	}
	if req.QueryCondition != nil {
		data, err := json.Marshal(req.QueryCondition)
		if err != nil {
			return nil, errs.NewValidation("query condition is not serializable")
		}
		task.QueryCondition = datatypes.JSON(data)
	}
	if req.Status != nil {
		status, err := parseTaskStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		task.Status = status
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return toTaskView(task), nil
}

func (s *taskService) Delete(ctx context.Context, id uint) error {
	if _, err := s.taskRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, id)
}

func (s *taskService) Get(ctx context.Context, id uint) (*dto.TaskView, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTaskView(task), nil
}

func (s *taskService) List(ctx context.Context, q *dto.ListTasksQuery) (*dto.PagedResult, error) {
	pageNum, pageSize := normalizePage(q.PageNum, q.PageSize)
	param := &model.GetTaskParam{
		TaskName: q.TaskName,
		PageNum:  &pageNum,
		PageSize: &pageSize,
	}
	if q.Status != nil {
		status, err := parseTaskStatus(*q.Status)
		if err != nil {
			return nil, err
		}
		param.Status = &status
	}

	tasks, total, err := s.taskRepo.Get(ctx, param)
	if err != nil {
		return nil, err
	}

	views := make([]*dto.TaskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, toTaskView(&tasks[i]))
	}
	return &dto.PagedResult{Total: total, PageNum: pageNum, PageSize: pageSize, List: views}, nil
}

func nextCronTime(expr string, after time.Time) (time.Time, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(after), nil
}

func parseTaskStatus(status string) (model.TaskStatus, error) {
	switch status {
	case "enabled":
		return model.TaskStatusEnabled, nil
	case "disabled":
		return model.TaskStatusDisabled, nil
	default:
		return 0, errs.NewValidation(fmt.Sprintf("unknown task status: %s", status))
	}
}

func taskStatusLabel(status model.TaskStatus) string {
	if status == model.TaskStatusEnabled {
		return "enabled"
	}
	return "disabled"
}

func toTaskView(task *model.Task) *dto.TaskView {
	view := &dto.TaskView{
		ID:             task.ID,
		TypeID:         task.TypeID,
		TaskName:       task.TaskName,
		Description:    task.Description,
		CronExpression: task.CronExpression,
		Status:         taskStatusLabel(task.Status),
		CreatedAt:      task.CreatedAt,
	}
	if len(task.QueryCondition) > 0 {
		_ = json.Unmarshal(task.QueryCondition, &view.QueryCondition)
	}
	if task.LastExecTime.Valid {
		view.LastExecTime = utils.ToPointer(task.LastExecTime.Time)
	}
	if task.NextExecTime.Valid {
		view.NextExecTime = utils.ToPointer(task.NextExecTime.Time)
	}
	return view
}
