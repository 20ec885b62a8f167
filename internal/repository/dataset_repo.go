package repository

import (
	"context"

	"golang-monitor/internal/dataset"
	"golang-monitor/internal/dto"
	"golang-monitor/pkg/errs"
	"golang-monitor/pkg/logger"

	"gorm.io/gorm"
)

// DatasetRepository executes already-validated SQL against the analytical
// datasource and returns label-keyed records plus the column labels in
// select-list order. Result sets are capped at dto.MaxResultRows; reading
// stops as soon as the cap is hit.
type DatasetRepository interface {
	Query(ctx context.Context, sqlText string) ([]*dataset.Record, []string, error)
}

type datasetRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDatasetRepository(db *gorm.DB, log *logger.Logger) DatasetRepository {
	return &datasetRepository{db: db, log: log}
}

func (r *datasetRepository) Query(ctx context.Context, sqlText string) ([]*dataset.Record, []string, error) {
	rows, err := r.db.WithContext(ctx).Raw(sqlText).Rows()
	if err != nil {
		return nil, nil, errs.NewQuery(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, errs.NewQuery(err)
	}

	records := make([]*dataset.Record, 0)
	values := make([]interface{}, len(columns))
	scanArgs := make([]interface{}, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	for rows.Next() {
		if len(records) >= dto.MaxResultRows {
			r.log.WarnContext(ctx, "query result truncated",
				logger.IntField("max_rows", dto.MaxResultRows))
			break
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, nil, errs.NewQuery(err)
		}

		record := dataset.NewRecord()
		for i, col := range columns {
			// Duplicate labels keep the last value, at the first position.
			record.Set(col, dataset.FromDriverValue(values[i]))
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, errs.NewQuery(err)
	}

	return records, columns, nil
}
