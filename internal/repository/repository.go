package repository

import (
	"golang-monitor/config"
	"golang-monitor/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	TaskRepo         TaskRepository
	TypeRepo         TypeRepository
	TaskLogRepo      TaskLogRepository
	ExecResultRepo   ExecResultRepository
	NotifyRecordRepo NotifyRecordRepository
	DatasetRepo      DatasetRepository
	LLMRepo          LLMRepository
	UnitOfWork       UnitOfWork
}

// NewRepository wires all repositories. db holds the application metadata,
// datasourceDB is the analytical database monitored queries run against.
func NewRepository(cfg *config.Config, db *gorm.DB, datasourceDB *gorm.DB, log *logger.Logger) (*Repository, error) {
	llmRepo, err := NewLLMRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		TaskRepo:         NewTaskRepository(db),
		TypeRepo:         NewTypeRepository(db),
		TaskLogRepo:      NewTaskLogRepository(db),
		ExecResultRepo:   NewExecResultRepository(db),
		NotifyRecordRepo: NewNotifyRecordRepository(db),
		DatasetRepo:      NewDatasetRepository(datasourceDB, log),
		LLMRepo:          llmRepo,
		UnitOfWork:       NewUnitOfWork(db),
	}, nil
}
