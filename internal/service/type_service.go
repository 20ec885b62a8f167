package service

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-monitor/internal/dto"
	"golang-monitor/internal/model"
	"golang-monitor/internal/query"
	"golang-monitor/internal/repository"
	"golang-monitor/pkg/cache"
	"golang-monitor/pkg/errs"
	"golang-monitor/pkg/logger"
	"golang-monitor/pkg/utils"

	"gorm.io/datatypes"
)

type TypeService interface {
	Create(ctx context.Context, req *dto.CreateTypeRequest) (*dto.TypeView, error)
	Update(ctx context.Context, id uint, req *dto.UpdateTypeRequest) (*dto.TypeView, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*dto.TypeView, error)
	List(ctx context.Context, q *dto.ListTypesQuery) (*dto.PagedResult, error)
	Import(ctx context.Context, reqs []dto.CreateTypeRequest) (int, error)
}

type typeService struct {
	logger   *logger.Logger
	typeRepo repository.TypeRepository
	taskRepo repository.TaskRepository
	uow      repository.UnitOfWork
	cache    cache.Cache
}

func NewTypeService(log *logger.Logger, repo *repository.Repository, inmemoryCache cache.Cache) TypeService {
	return &typeService{
		logger:   log,
		typeRepo: repo.TypeRepo,
		taskRepo: repo.TaskRepo,
		uow:      repo.UnitOfWork,
		cache:    inmemoryCache,
	}
}

func (s *typeService) Create(ctx context.Context, req *dto.CreateTypeRequest) (*dto.TypeView, error) {
	taskType, err := s.buildType(req)
	if err != nil {
		return nil, err
	}
	if err := s.typeRepo.Create(ctx, taskType); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "task type created", logger.IntField("type_id", int(taskType.ID)))
	return toTypeView(taskType), nil
}

func (s *typeService) Update(ctx context.Context, id uint, req *dto.UpdateTypeRequest) (*dto.TypeView, error) {
	taskType, err := s.typeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SQLContent != nil {
		if !query.ValidateSafety(*req.SQLContent) {
			return nil, errs.NewValidation("query template contains unsafe keywords")
		}
		taskType.SQLContent = *req.SQLContent
	}
	if req.TypeName != nil {
		taskType.TypeName = *req.TypeName
	}
	if req.Description != nil {
		taskType.Description = *req.Description
	}
	if req.FieldConfig != nil {
		data, err := json.Marshal(req.FieldConfig)
		if err != nil {
			return nil, errs.NewValidation("field config is not serializable")
		}
		taskType.FieldConfig = datatypes.JSON(data)
	}
	if req.VerifyConfig != nil {
		data, err := json.Marshal(req.VerifyConfig)
		if err != nil {
			return nil, errs.NewValidation("verify config is not serializable")
		}
		taskType.VerifyConfig = datatypes.JSON(data)
	}
	if req.Formula != nil {
		taskType.Formula = *req.Formula
	}
	if req.Status != nil {
		switch *req.Status {
		case "enabled":
			taskType.Status = 1
		case "disabled":
			taskType.Status = 0
		default:
			return nil, errs.NewValidation(fmt.Sprintf("unknown type status: %s", *req.Status))
		}
	}

	if err := s.typeRepo.Update(ctx, taskType); err != nil {
		return nil, err
	}
	// Executions cache type definitions; stale entries must go now.
	s.cache.Delete(fmt.Sprintf("task_type:%d", id))
	return toTypeView(taskType), nil
}

func (s *typeService) Delete(ctx context.Context, id uint) error {
	if _, err := s.typeRepo.FindByID(ctx, id); err != nil {
		return err
	}

	inUse, err := s.taskRepo.CountByTypeID(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return errs.NewValidation(fmt.Sprintf("type is referenced by %d task(s)", inUse))
	}

	if err := s.typeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(fmt.Sprintf("task_type:%d", id))
	return nil
}

func (s *typeService) Get(ctx context.Context, id uint) (*dto.TypeView, error) {
	taskType, err := s.typeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTypeView(taskType), nil
}

func (s *typeService) List(ctx context.Context, q *dto.ListTypesQuery) (*dto.PagedResult, error) {
	pageNum, pageSize := normalizePage(q.PageNum, q.PageSize)
	param := &model.GetTaskTypeParam{
		TypeName: q.TypeName,
		PageNum:  &pageNum,
		PageSize: &pageSize,
	}
	if q.Status != nil {
		switch *q.Status {
		case "enabled":
			param.Status = utils.ToPointer(1)
		case "disabled":
			param.Status = utils.ToPointer(0)
		default:
			return nil, errs.NewValidation(fmt.Sprintf("unknown type status: %s", *q.Status))
		}
	}

	types, total, err := s.typeRepo.Get(ctx, param)
	if err != nil {
		return nil, err
	}

	views := make([]*dto.TypeView, 0, len(types))
	for i := range types {
		views = append(views, toTypeView(&types[i]))
	}
	return &dto.PagedResult{Total: total, PageNum: pageNum, PageSize: pageSize, List: views}, nil
}

// Import creates a batch of type definitions atomically. One bad entry
// rejects the whole batch.
func (s *typeService) Import(ctx context.Context, reqs []dto.CreateTypeRequest) (int, error) {
	types := make([]*model.TaskType, 0, len(reqs))
	for i := range reqs {
		taskType, err := s.buildType(&reqs[i])
		if err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
		types = append(types, taskType)
	}

	err := s.uow.Run(func(opts ...utils.DBOption) error {
		for _, taskType := range types {
			if err := s.typeRepo.Create(ctx, taskType, opts...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(types), nil
}

func (s *typeService) buildType(req *dto.CreateTypeRequest) (*model.TaskType, error) {
	if !query.ValidateSafety(req.SQLContent) {
		return nil, errs.NewValidation("query template contains unsafe keywords")
	}

	taskType := &model.TaskType{
		TypeName:    req.TypeName,
		Description: req.Description,
		SQLContent:  req.SQLContent,
		Formula:     req.Formula,
		Status:      1,
	}
	if req.FieldConfig != nil {
		data, err := json.Marshal(req.FieldConfig)
		if err != nil {
			return nil, errs.NewValidation("field config is not serializable")
		}
		taskType.FieldConfig = datatypes.JSON(data)
	}
	if req.VerifyConfig != nil {
		data, err := json.Marshal(req.VerifyConfig)
		if err != nil {
			return nil, errs.NewValidation("verify config is not serializable")
		}
		taskType.VerifyConfig = datatypes.JSON(data)
	}
	return taskType, nil
}

func toTypeView(taskType *model.TaskType) *dto.TypeView {
	view := &dto.TypeView{
		ID:          taskType.ID,
		TypeName:    taskType.TypeName,
		Description: taskType.Description,
		SQLContent:  taskType.SQLContent,
		Formula:     taskType.Formula,
		Status:      "disabled",
		CreatedAt:   taskType.CreatedAt,
	}
	if taskType.Status == 1 {
		view.Status = "enabled"
	}
	if len(taskType.FieldConfig) > 0 {
		_ = json.Unmarshal(taskType.FieldConfig, &view.FieldConfig)
	}
	if len(taskType.VerifyConfig) > 0 {
		var cfg dto.VerifyConfig
		if err := json.Unmarshal(taskType.VerifyConfig, &cfg); err == nil {
			view.VerifyConfig = &cfg
		}
	}
	return view
}
