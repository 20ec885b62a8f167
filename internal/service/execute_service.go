package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"golang-monitor/config"
	"golang-monitor/internal/dataset"
	"golang-monitor/internal/dto"
	"golang-monitor/internal/model"
	"golang-monitor/internal/query"
	"golang-monitor/internal/repository"
	"golang-monitor/internal/rule"
	"golang-monitor/pkg/cache"
	"golang-monitor/pkg/errs"
	"golang-monitor/pkg/logger"
	"golang-monitor/pkg/utils"

	"gorm.io/datatypes"
)

const reasonFormulaParseFailed = "completion rule parse failed, defaulting to complete"

type ExecuteService interface {
	Verify(ctx context.Context, taskID uint) (*dto.VerifyResult, error)
	Execute(ctx context.Context, req *dto.ExecuteRequest) (*dto.ExecuteResult, error)
	ListLogs(ctx context.Context, q *dto.ExecutionLogQuery) (*dto.PagedResult, error)
	ListResults(ctx context.Context, taskID uint, limit int) ([]model.ExecResult, error)
	LatestResult(ctx context.Context, taskID uint) (*model.ExecResult, error)
}

type executeService struct {
	cfg            *config.Config
	logger         *logger.Logger
	taskRepo       repository.TaskRepository
	typeRepo       repository.TypeRepository
	taskLogRepo    repository.TaskLogRepository
	execResultRepo repository.ExecResultRepository
	datasetRepo    repository.DatasetRepository
	uow            repository.UnitOfWork
	cache          cache.Cache
}

func NewExecuteService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) ExecuteService {
	return &executeService{
		cfg:            cfg,
		logger:         log,
		taskRepo:       repo.TaskRepo,
		typeRepo:       repo.TypeRepo,
		taskLogRepo:    repo.TaskLogRepo,
		execResultRepo: repo.ExecResultRepo,
		datasetRepo:    repo.DatasetRepo,
		uow:            repo.UnitOfWork,
		cache:          inmemoryCache,
	}
}

// Verify runs a task's query without time range or stored condition and
// reports what an execution would find. Nothing is persisted.
func (s *executeService) Verify(ctx context.Context, taskID uint) (*dto.VerifyResult, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	taskType, err := s.resolveType(ctx, task.TypeID)
	if err != nil {
		return nil, err
	}

	if !query.ValidateSafety(taskType.SQLContent) {
		return nil, errs.NewValidation("query template contains unsafe keywords")
	}
	finalSQL := query.BuildFinalSQL(taskType.SQLContent, "", "")

	records, _, err := s.datasetRepo.Query(ctx, finalSQL)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return &dto.VerifyResult{
			Value:            0,
			Detail:           []*dataset.Record{},
			IsCompleted:      false,
			CompletedReason:  rule.ReasonNoData,
			ThresholdResults: []dto.ThresholdResult{},
		}, nil
	}

	thresholdResults := rule.EvaluateThresholds(records, s.parseThresholdRules(ctx, taskType))
	completion := s.decideCompletion(ctx, records, taskType.Formula)

	_, value, _ := records[0].First()
	return &dto.VerifyResult{
		Value:            value,
		Detail:           sampleRecords(records),
		IsCompleted:      completion.Completed,
		CompletedReason:  completion.Reason,
		ThresholdResults: thresholdResults,
	}, nil
}

// Execute runs a task for real: compiled with the request's time range and
// the task's stored condition, evaluated, then persisted. Success writes one
// log entry plus one result snapshot in a single transaction; failure writes
// a best-effort log entry outside any transaction and surfaces a
// BusinessError.
func (s *executeService) Execute(ctx context.Context, req *dto.ExecuteRequest) (*dto.ExecuteResult, error) {
	start := utils.TimeNow()
	trigger := req.Trigger
	if trigger == "" {
		trigger = dto.TriggerManual
	}

	var typeID *uint
	finalSQL := ""

	fail := func(cause error) (*dto.ExecuteResult, error) {
		s.writeFailLog(ctx, req.TaskID, typeID, trigger, finalSQL, cause, start)
		return nil, errs.NewBusiness("task execution failed", cause)
	}

	task, err := s.taskRepo.FindByID(ctx, req.TaskID)
	if err != nil {
		return fail(err)
	}
	taskType, err := s.resolveType(ctx, task.TypeID)
	if err != nil {
		return fail(err)
	}
	typeID = &taskType.ID

	if !query.ValidateSafety(taskType.SQLContent) {
		return fail(errs.NewValidation("query template contains unsafe keywords"))
	}
	finalSQL = query.BuildFinalSQL(taskType.SQLContent, req.TimeRange, s.renderCondition(ctx, task))

	records, _, err := s.datasetRepo.Query(ctx, finalSQL)
	if err != nil {
		return fail(err)
	}

	thresholdResults := rule.EvaluateThresholds(records, s.parseThresholdRules(ctx, taskType))
	completion := s.decideCompletion(ctx, records, taskType.Formula)
	violations := countViolations(thresholdResults)
	durationMs := time.Since(start).Milliseconds()

	taskLog := &model.TaskLog{
		TaskID:      task.ID,
		TypeID:      sql.NullInt64{Int64: int64(taskType.ID), Valid: true},
		ExecTime:    start,
		ExecStatus:  string(dto.ExecStatusSuccess),
		TriggerType: string(trigger),
		ExecSQL:     sql.NullString{String: finalSQL, Valid: true},
		ExecResult:  marshalJSON(sampleRecords(records)),
		DurationMs:  durationMs,
	}
	execResult := &model.ExecResult{
		TaskID:          task.ID,
		TypeID:          taskType.ID,
		ExecTime:        start,
		DataCount:       len(records),
		MetricData:      firstRecordJSON(records),
		ThresholdResult: marshalJSON(thresholdResults),
		IsCompleted:     completion.Completed,
		CompleteReason:  completion.Reason,
	}

	err = s.uow.Run(func(opts ...utils.DBOption) error {
		if err := s.taskLogRepo.Create(ctx, taskLog, opts...); err != nil {
			return fmt.Errorf("failed to create task log: %w", err)
		}
		if err := s.execResultRepo.Create(ctx, execResult, opts...); err != nil {
			return fmt.Errorf("failed to create exec result: %w", err)
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}

	s.logger.InfoContext(ctx, "task executed",
		logger.IntField("task_id", int(task.ID)),
		logger.IntField("data_count", len(records)),
		logger.IntField("violations", violations),
	)

	return &dto.ExecuteResult{
		TaskID:              task.ID,
		ExecTime:            start,
		Success:             true,
		DurationMs:          durationMs,
		DataCount:           len(records),
		ThresholdViolations: violations,
		IsCompleted:         completion.Completed,
		CompletedReason:     completion.Reason,
		Message:             "success",
	}, nil
}

func (s *executeService) ListLogs(ctx context.Context, q *dto.ExecutionLogQuery) (*dto.PagedResult, error) {
	pageNum, pageSize := normalizePage(q.PageNum, q.PageSize)
	param := &model.GetTaskLogParam{
		TaskID:     q.TaskID,
		ExecStatus: q.ExecStatus,
		StartTime:  q.StartTime,
		EndTime:    q.EndTime,
		PageNum:    &pageNum,
		PageSize:   &pageSize,
	}
	logs, total, err := s.taskLogRepo.Get(ctx, param)
	if err != nil {
		return nil, err
	}
	return &dto.PagedResult{Total: total, PageNum: pageNum, PageSize: pageSize, List: logs}, nil
}

func (s *executeService) ListResults(ctx context.Context, taskID uint, limit int) ([]model.ExecResult, error) {
	return s.execResultRepo.FindByTaskID(ctx, taskID, limit)
}

func (s *executeService) LatestResult(ctx context.Context, taskID uint) (*model.ExecResult, error) {
	return s.execResultRepo.FindLatestByTaskID(ctx, taskID)
}

// resolveType serves type definitions through a short-lived cache so
// scheduled bursts do not hammer the metadata tables.
func (s *executeService) resolveType(ctx context.Context, typeID uint) (*model.TaskType, error) {
	key := fmt.Sprintf("task_type:%d", typeID)
	if cached, ok := s.cache.Get(key); ok {
		if taskType, ok := cached.(*model.TaskType); ok {
			return taskType, nil
		}
	}

	taskType, err := s.typeRepo.FindByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, taskType, s.cfg.Cache.TypeExpiration)
	return taskType, nil
}

func (s *executeService) parseThresholdRules(ctx context.Context, taskType *model.TaskType) []dto.ThresholdRule {
	if len(taskType.VerifyConfig) == 0 {
		return nil
	}
	var cfg dto.VerifyConfig
	if err := json.Unmarshal(taskType.VerifyConfig, &cfg); err != nil {
		s.logger.WarnContext(ctx, "unreadable verify config, skipping thresholds",
			logger.IntField("type_id", int(taskType.ID)), logger.ErrorField(err))
		return nil
	}
	return cfg.Thresholds
}

// decideCompletion parses the formula column and delegates to the rule
// evaluator. An unparseable formula must not block a task, so it decays to
// completed.
func (s *executeService) decideCompletion(ctx context.Context, records []*dataset.Record, formula string) dto.CompleteResult {
	if formula == "" {
		return rule.Decide(records, nil)
	}

	var rules map[string]interface{}
	if err := json.Unmarshal([]byte(formula), &rules); err != nil {
		s.logger.WarnContext(ctx, "unreadable completion formula", logger.ErrorField(err))
		return dto.CompleteResult{
			Completed: true,
			Reason:    reasonFormulaParseFailed,
			DataCount: len(records),
		}
	}
	return rule.Decide(records, rules)
}

func (s *executeService) renderCondition(ctx context.Context, task *model.Task) string {
	if len(task.QueryCondition) == 0 {
		return ""
	}
	var cond map[string]interface{}
	if err := json.Unmarshal(task.QueryCondition, &cond); err != nil {
		s.logger.WarnContext(ctx, "unreadable query condition, ignoring",
			logger.IntField("task_id", int(task.ID)), logger.ErrorField(err))
		return ""
	}
	return query.BuildWhereClause(cond)
}

// writeFailLog records a failed run. It runs outside any transaction and its
// own error is only logged: the caller's error must survive untouched.
func (s *executeService) writeFailLog(ctx context.Context, taskID uint, typeID *uint, trigger dto.TriggerType, execSQL string, cause error, start time.Time) {
	taskLog := &model.TaskLog{
		TaskID:      taskID,
		ExecTime:    start,
		ExecStatus:  string(dto.ExecStatusFail),
		TriggerType: string(trigger),
		ErrorMsg:    sql.NullString{String: cause.Error(), Valid: true},
		DurationMs:  time.Since(start).Milliseconds(),
	}
	if typeID != nil {
		taskLog.TypeID = sql.NullInt64{Int64: int64(*typeID), Valid: true}
	}
	if execSQL != "" {
		taskLog.ExecSQL = sql.NullString{String: execSQL, Valid: true}
	}

	if err := s.taskLogRepo.Create(ctx, taskLog); err != nil {
		s.logger.ErrorContext(ctx, "failed to write failure log",
			logger.IntField("task_id", int(taskID)), logger.ErrorField(err))
	}
}

func sampleRecords(records []*dataset.Record) []*dataset.Record {
	if len(records) > dto.MaxSampleRecords {
		return records[:dto.MaxSampleRecords]
	}
	return records
}

func countViolations(results []dto.ThresholdResult) int {
	count := 0
	for _, r := range results {
		if r.Triggered {
			count++
		}
	}
	return count
}

func marshalJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func firstRecordJSON(records []*dataset.Record) datatypes.JSON {
	if len(records) == 0 {
		return nil
	}
	return marshalJSON(records[0])
}

func normalizePage(pageNum, pageSize int) (int, int) {
	if pageNum <= 0 {
		pageNum = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return pageNum, pageSize
}
