package service

import (
	"context"
	"encoding/json"
	"time"

	"golang-monitor/config"
	"golang-monitor/internal/dto"
	"golang-monitor/internal/model"
	"golang-monitor/internal/repository"
	"golang-monitor/pkg/logger"
	"golang-monitor/pkg/utils"
)

type SchedulerService interface {
	Run(ctx context.Context)
	Poll(ctx context.Context) error
	RunTaskNow(ctx context.Context, taskID uint) (*dto.ExecuteResult, error)
}

type schedulerService struct {
	cfg        *config.Config
	log        *logger.Logger
	taskRepo   repository.TaskRepository
	executeSvc ExecuteService
	notifySvc  NotifyService
	semaphore  chan struct{}
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	executeSvc ExecuteService,
	notifySvc NotifyService,
) SchedulerService {
	return &schedulerService{
		cfg:        cfg,
		log:        log,
		taskRepo:   repo.TaskRepo,
		executeSvc: executeSvc,
		notifySvc:  notifySvc,
		semaphore:  make(chan struct{}, cfg.Scheduler.MaxConcurrency),
	}
}

// Run polls for due tasks until the context ends.
func (s *schedulerService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Scheduler.PollInterval)
	defer ticker.Stop()

	s.log.Info("scheduler started",
		logger.Field("poll_interval", s.cfg.Scheduler.PollInterval),
		logger.IntField("max_concurrency", s.cfg.Scheduler.MaxConcurrency),
	)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			if err := s.Poll(ctx); err != nil {
				s.log.ErrorContext(ctx, "scheduler poll failed", logger.ErrorField(err))
			}
		}
	}
}

// Poll runs one scheduling pass: every enabled task whose next execution is
// due gets dispatched. Tasks are not mutually excluded across passes; a slow
// run can overlap its successor.
func (s *schedulerService) Poll(ctx context.Context) error {
	tasks, err := s.taskRepo.FindDue(ctx, utils.TimeNow())
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	s.log.InfoContext(ctx, "dispatching due tasks", logger.IntField("task_count", len(tasks)))

	for i := range tasks {
		if ctx.Err() != nil {
			s.log.WarnContext(ctx, "scheduling pass cancelled", logger.ErrorField(ctx.Err()))
			return nil
		}
		s.dispatch(ctx, &tasks[i])
	}
	return nil
}

func (s *schedulerService) dispatch(ctx context.Context, task *model.Task) {
	now := utils.TimeNow()

	// Advance the schedule before the run so a crash cannot replay the slot.
	var nextExec *time.Time
	if task.CronExpression != "" {
		next, err := nextCronTime(task.CronExpression, now)
		if err != nil {
			s.log.ErrorContext(ctx, "failed to parse cron expression",
				logger.IntField("task_id", int(task.ID)), logger.ErrorField(err))
		} else {
			nextExec = &next
		}
	}
	if err := s.taskRepo.UpdateExecTimes(ctx, task.ID, now, nextExec); err != nil {
		s.log.ErrorContext(ctx, "failed to update exec times",
			logger.IntField("task_id", int(task.ID)), logger.ErrorField(err))
	}

	taskID := task.ID
	s.semaphore <- struct{}{}
	utils.GoSafe(func() {
		defer func() { <-s.semaphore }()

		runCtx := context.Background()
		if s.cfg.Scheduler.TaskTimeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(runCtx, s.cfg.Scheduler.TaskTimeout)
			defer cancel()
		}

		result, err := s.executeSvc.Execute(runCtx, &dto.ExecuteRequest{
			TaskID:  taskID,
			Trigger: dto.TriggerScheduled,
		})
		if err != nil {
			s.log.ErrorContext(runCtx, "scheduled execution failed",
				logger.IntField("task_id", int(taskID)), logger.ErrorField(err))
			return
		}
		s.notifyIfTriggered(runCtx, result)
	})
}

// RunTaskNow executes a single task immediately with the manual trigger.
func (s *schedulerService) RunTaskNow(ctx context.Context, taskID uint) (*dto.ExecuteResult, error) {
	result, err := s.executeSvc.Execute(ctx, &dto.ExecuteRequest{
		TaskID:  taskID,
		Trigger: dto.TriggerManual,
	})
	if err != nil {
		return nil, err
	}
	s.notifyIfTriggered(ctx, result)
	return result, nil
}

func (s *schedulerService) notifyIfTriggered(ctx context.Context, result *dto.ExecuteResult) {
	if result.ThresholdViolations == 0 {
		return
	}

	task, err := s.taskRepo.FindByID(ctx, result.TaskID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to load task for notification",
			logger.IntField("task_id", int(result.TaskID)), logger.ErrorField(err))
		return
	}

	var violations []dto.ThresholdResult
	if latest, err := s.executeSvc.LatestResult(ctx, result.TaskID); err == nil && latest != nil && len(latest.ThresholdResult) > 0 {
		if err := json.Unmarshal(latest.ThresholdResult, &violations); err != nil {
			violations = nil
		}
	}

	now := utils.TimeNow()
	_, err = s.notifySvc.Send(ctx, &dto.NotifyRequest{
		TaskID:              task.ID,
		TaskName:            task.TaskName,
		NotifyType:          dto.NotifyTypeThresholdAlert,
		ThresholdViolations: violations,
		CompleteReason:      result.CompletedReason,
		NotifyTime:          &now,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "failed to dispatch notifications",
			logger.IntField("task_id", int(task.ID)), logger.ErrorField(err))
	}
}
