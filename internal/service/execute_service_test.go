package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-monitor/config"
	"golang-monitor/internal/dataset"
	"golang-monitor/internal/dto"
	"golang-monitor/internal/model"
	"golang-monitor/internal/repository"
	"golang-monitor/pkg/cache"
	"golang-monitor/pkg/errs"
	"golang-monitor/pkg/logger"
	"golang-monitor/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type fakeTaskRepo struct {
	repository.TaskRepository
	tasks map[uint]*model.Task
}

func (f *fakeTaskRepo) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, errs.NewNotFound("task", id)
	}
	return task, nil
}

type fakeTypeRepo struct {
	repository.TypeRepository
	types map[uint]*model.TaskType
	calls int
}

func (f *fakeTypeRepo) FindByID(ctx context.Context, id uint) (*model.TaskType, error) {
	f.calls++
	taskType, ok := f.types[id]
	if !ok {
		return nil, errs.NewNotFound("task type", id)
	}
	return taskType, nil
}

type fakeTaskLogRepo struct {
	repository.TaskLogRepository
	created  []*model.TaskLog
	optCount []int
}

func (f *fakeTaskLogRepo) Create(ctx context.Context, log *model.TaskLog, opts ...utils.DBOption) error {
	f.created = append(f.created, log)
	f.optCount = append(f.optCount, len(opts))
	return nil
}

type fakeExecResultRepo struct {
	repository.ExecResultRepository
	created []*model.ExecResult
}

func (f *fakeExecResultRepo) Create(ctx context.Context, result *model.ExecResult, opts ...utils.DBOption) error {
	f.created = append(f.created, result)
	return nil
}

type fakeDatasetRepo struct {
	records []*dataset.Record
	columns []string
	err     error
	lastSQL string
}

func (f *fakeDatasetRepo) Query(ctx context.Context, sqlText string) ([]*dataset.Record, []string, error) {
	f.lastSQL = sqlText
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.records, f.columns, nil
}

type fakeUnitOfWork struct {
	runs int
	err  error
}

func (f *fakeUnitOfWork) Run(fn func(opts ...utils.DBOption) error) error {
	f.runs++
	if f.err != nil {
		return f.err
	}
	return fn(utils.WithTx(nil))
}

type executeFixture struct {
	svc        ExecuteService
	taskLogs   *fakeTaskLogRepo
	results    *fakeExecResultRepo
	dataset    *fakeDatasetRepo
	uow        *fakeUnitOfWork
	typeRepo   *fakeTypeRepo
}

func newExecuteFixture(t *testing.T, task *model.Task, taskType *model.TaskType, data []*dataset.Record) *executeFixture {
	t.Helper()

	taskLogs := &fakeTaskLogRepo{}
	results := &fakeExecResultRepo{}
	ds := &fakeDatasetRepo{records: data}
	uow := &fakeUnitOfWork{}
	typeRepo := &fakeTypeRepo{types: map[uint]*model.TaskType{}}
	if taskType != nil {
		typeRepo.types[taskType.ID] = taskType
	}
	taskRepo := &fakeTaskRepo{tasks: map[uint]*model.Task{}}
	if task != nil {
		taskRepo.tasks[task.ID] = task
	}

	repo := &repository.Repository{
		TaskRepo:       taskRepo,
		TypeRepo:       typeRepo,
		TaskLogRepo:    taskLogs,
		ExecResultRepo: results,
		DatasetRepo:    ds,
		UnitOfWork:     uow,
	}

	cfg := &config.Config{}
	cfg.Cache.TypeExpiration = 30 * time.Second

	svc := NewExecuteService(cfg, &logger.Logger{Logger: zap.NewNop()}, repo, cache.NewCache(time.Minute, time.Minute))
	return &executeFixture{svc: svc, taskLogs: taskLogs, results: results, dataset: ds, uow: uow, typeRepo: typeRepo}
}

func monitorTask() *model.Task {
	return &model.Task{ID: 1, TypeID: 10, TaskName: "orders watch"}
}

func monitorType() *model.TaskType {
	return &model.TaskType{
		ID:           10,
		TypeName:     "orders",
		SQLContent:   "SELECT total FROM orders WHERE created_at BETWEEN ${timeRange}",
		VerifyConfig: datatypes.JSON(`{"thresholds":[{"field":"total","operator":">","threshold":10}]}`),
		Formula:      `{"threshold":1,"operator":">="}`,
	}
}

func dataRows(totals ...int64) []*dataset.Record {
	rows := make([]*dataset.Record, 0, len(totals))
	for _, total := range totals {
		r := dataset.NewRecord()
		r.Set("total", dataset.NumberFromInt(total))
		rows = append(rows, r)
	}
	return rows
}

func TestVerify(t *testing.T) {
	f := newExecuteFixture(t, monitorTask(), monitorType(), dataRows(15, 5))

	result, err := f.svc.Verify(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, result.IsCompleted)
	assert.Len(t, result.Detail, 2)
	require.Len(t, result.ThresholdResults, 2)
	assert.True(t, result.ThresholdResults[0].Triggered)
	assert.False(t, result.ThresholdResults[1].Triggered)

	// Verify compiles without a time range, so the placeholder decays to NULL.
	assert.Contains(t, f.dataset.lastSQL, "BETWEEN NULL")

	// Nothing persisted.
	assert.Zero(t, f.uow.runs)
	assert.Empty(t, f.taskLogs.created)
}

func TestVerify_NoData(t *testing.T) {
	f := newExecuteFixture(t, monitorTask(), monitorType(), nil)

	result, err := f.svc.Verify(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Value)
	assert.Empty(t, result.Detail)
	assert.False(t, result.IsCompleted)
	assert.Equal(t, "no data", result.CompletedReason)
}

func TestVerify_UnsafeTemplate(t *testing.T) {
	taskType := monitorType()
	taskType.SQLContent = "SELECT 1; DROP TABLE orders"
	f := newExecuteFixture(t, monitorTask(), taskType, nil)

	_, err := f.svc.Verify(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Empty(t, f.dataset.lastSQL)
}

func TestVerify_UnknownTask(t *testing.T) {
	f := newExecuteFixture(t, nil, nil, nil)

	_, err := f.svc.Verify(context.Background(), 99)

	assert.True(t, errs.IsNotFound(err))
}

func TestVerify_TypeCached(t *testing.T) {
	f := newExecuteFixture(t, monitorTask(), monitorType(), dataRows(1))

	_, err := f.svc.Verify(context.Background(), 1)
	require.NoError(t, err)
	_, err = f.svc.Verify(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, f.typeRepo.calls)
}

func TestVerify_FormulaParseFailureDefaultsToComplete(t *testing.T) {
	taskType := monitorType()
	taskType.Formula = "not json at all"
	f := newExecuteFixture(t, monitorTask(), taskType, dataRows(1))

	result, err := f.svc.Verify(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, result.IsCompleted)
	assert.Equal(t, "completion rule parse failed, defaulting to complete", result.CompletedReason)
}

func TestExecute(t *testing.T) {
	task := monitorTask()
	task.QueryCondition = datatypes.JSON(`{"status":1}`)
	f := newExecuteFixture(t, task, monitorType(), dataRows(15, 5))

	result, err := f.svc.Execute(context.Background(), &dto.ExecuteRequest{
		TaskID:    1,
		TimeRange: "2026-08-01 00:00:00,2026-08-02 00:00:00",
		Trigger:   dto.TriggerScheduled,
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.DataCount)
	assert.Equal(t, 1, result.ThresholdViolations)
	assert.True(t, result.IsCompleted)

	// Time range and stored condition both reach the datasource.
	assert.Contains(t, f.dataset.lastSQL, "'2026-08-01 00:00:00' AND '2026-08-02 00:00:00'")
	assert.Contains(t, f.dataset.lastSQL, "status = 1")

	// One log and one snapshot, in the same transaction.
	assert.Equal(t, 1, f.uow.runs)
	require.Len(t, f.taskLogs.created, 1)
	require.Len(t, f.results.created, 1)
	assert.Equal(t, string(dto.ExecStatusSuccess), f.taskLogs.created[0].ExecStatus)
	assert.Equal(t, string(dto.TriggerScheduled), f.taskLogs.created[0].TriggerType)
	assert.Equal(t, 1, f.taskLogs.optCount[0])
	assert.Equal(t, 2, f.results.created[0].DataCount)
}

func TestExecute_QueryFailureWritesFailLog(t *testing.T) {
	f := newExecuteFixture(t, monitorTask(), monitorType(), nil)
	f.dataset.err = errs.NewQuery(errors.New("relation does not exist"))

	_, err := f.svc.Execute(context.Background(), &dto.ExecuteRequest{TaskID: 1})

	require.Error(t, err)
	var berr *errs.BusinessError
	require.ErrorAs(t, err, &berr)
	var qerr *errs.QueryError
	assert.ErrorAs(t, err, &qerr)

	// Fail log outside any transaction.
	assert.Zero(t, f.uow.runs)
	require.Len(t, f.taskLogs.created, 1)
	failLog := f.taskLogs.created[0]
	assert.Equal(t, string(dto.ExecStatusFail), failLog.ExecStatus)
	assert.True(t, failLog.TypeID.Valid)
	assert.Contains(t, failLog.ErrorMsg.String, "relation does not exist")
	assert.Equal(t, 0, f.taskLogs.optCount[0])
}

func TestExecute_UnknownTaskLogsWithoutType(t *testing.T) {
	f := newExecuteFixture(t, nil, nil, nil)

	_, err := f.svc.Execute(context.Background(), &dto.ExecuteRequest{TaskID: 42})

	require.Error(t, err)
	require.Len(t, f.taskLogs.created, 1)
	assert.False(t, f.taskLogs.created[0].TypeID.Valid)
	assert.Equal(t, string(dto.TriggerManual), f.taskLogs.created[0].TriggerType)
}

func TestExecute_PersistenceFailureSurfacesBusinessError(t *testing.T) {
	f := newExecuteFixture(t, monitorTask(), monitorType(), dataRows(1))
	f.uow.err = errors.New("connection reset")

	_, err := f.svc.Execute(context.Background(), &dto.ExecuteRequest{TaskID: 1})

	require.Error(t, err)
	var berr *errs.BusinessError
	require.ErrorAs(t, err, &berr)
	// The success write never happened; the failure path logged instead.
	require.Len(t, f.taskLogs.created, 1)
	assert.Equal(t, string(dto.ExecStatusFail), f.taskLogs.created[0].ExecStatus)
}
