package service

import (
	"context"
	"errors"
	"testing"

	"golang-monitor/internal/dto"
	"golang-monitor/internal/repository"
	"golang-monitor/pkg/errs"
	"golang-monitor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLLMRepo struct {
	names map[string]string
	err   error
}

func (f *fakeLLMRepo) SuggestFieldNames(ctx context.Context, sqlText string, fields []string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.names, nil
}

func newSqlParseFixture(ds *fakeDatasetRepo, llm *fakeLLMRepo) SqlParseService {
	repo := &repository.Repository{DatasetRepo: ds, LLMRepo: llm}
	return NewSqlParseService(&logger.Logger{Logger: zap.NewNop()}, repo)
}

func TestParse(t *testing.T) {
	svc := newSqlParseFixture(&fakeDatasetRepo{}, &fakeLLMRepo{})

	tests := []struct {
		name    string
		sql     string
		fields  []dto.SQLField
		hasStar bool
		wantErr bool
	}{
		{
			name: "plain columns",
			sql:  "SELECT id, total FROM orders",
			fields: []dto.SQLField{
				{Name: "id", Expr: "id"},
				{Name: "total", Expr: "total"},
			},
		},
		{
			name: "explicit and implicit aliases",
			sql:  "SELECT count(*) AS cnt, sum(amount) total_amount FROM orders",
			fields: []dto.SQLField{
				{Name: "cnt", Expr: "count(*)"},
				{Name: "total_amount", Expr: "sum(amount)"},
			},
		},
		{
			name: "qualified column reduces to tail",
			sql:  "SELECT o.status FROM orders o",
			fields: []dto.SQLField{
				{Name: "status", Expr: "o.status"},
			},
		},
		{
			name: "function call without alias keeps expression",
			sql:  "SELECT max(created_at) FROM orders",
			fields: []dto.SQLField{
				{Name: "max(created_at)", Expr: "max(created_at)"},
			},
		},
		{
			name: "comma inside function stays intact",
			sql:  "SELECT coalesce(total, 0) AS total FROM orders",
			fields: []dto.SQLField{
				{Name: "total", Expr: "coalesce(total, 0)"},
			},
		},
		{
			name: "nested from does not end the select list",
			sql:  "SELECT (SELECT count(*) FROM items) AS item_count, id FROM orders",
			fields: []dto.SQLField{
				{Name: "item_count", Expr: "(SELECT count(*) FROM items)"},
				{Name: "id", Expr: "id"},
			},
		},
		{
			name:    "star select",
			sql:     "SELECT * FROM orders",
			fields:  []dto.SQLField{},
			hasStar: true,
		},
		{
			name: "qualified star plus column",
			sql:  "SELECT o.*, status FROM orders o",
			fields: []dto.SQLField{
				{Name: "status", Expr: "status"},
			},
			hasStar: true,
		},
		{
			name: "distinct is skipped",
			sql:  "SELECT DISTINCT region FROM orders",
			fields: []dto.SQLField{
				{Name: "region", Expr: "region"},
			},
		},
		{name: "not a select", sql: "WITH x AS (SELECT 1) SELECT * FROM x", wantErr: true},
		{name: "missing from", sql: "SELECT 1 + 1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Parse(context.Background(), &dto.SQLParseRequest{SQLContent: tt.sql})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.fields, result.Fields)
			assert.Equal(t, tt.hasStar, result.HasStar)
		})
	}
}

func TestPreview(t *testing.T) {
	ds := &fakeDatasetRepo{records: dataRows(1, 2), columns: []string{"total"}}
	svc := newSqlParseFixture(ds, &fakeLLMRepo{})

	result, err := svc.Preview(context.Background(), &dto.SQLPreviewRequest{
		SQLContent: "SELECT total FROM orders ORDER BY total",
		Limit:      5,
	})

	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM (SELECT total FROM orders ORDER BY total) AS preview_query LIMIT 5", ds.lastSQL)
	assert.Equal(t, []string{"total"}, result.Columns)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, 5, result.Limit)
}

func TestPreview_RejectsUnsafeSQL(t *testing.T) {
	ds := &fakeDatasetRepo{}
	svc := newSqlParseFixture(ds, &fakeLLMRepo{})

	_, err := svc.Preview(context.Background(), &dto.SQLPreviewRequest{
		SQLContent: "DELETE FROM orders",
	})

	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Empty(t, ds.lastSQL)
}

func TestPreview_LimitDefaultsAndCaps(t *testing.T) {
	ds := &fakeDatasetRepo{}
	svc := newSqlParseFixture(ds, &fakeLLMRepo{})

	_, err := svc.Preview(context.Background(), &dto.SQLPreviewRequest{SQLContent: "SELECT 1 FROM t"})
	require.NoError(t, err)
	assert.Contains(t, ds.lastSQL, "LIMIT 10")

	_, err = svc.Preview(context.Background(), &dto.SQLPreviewRequest{SQLContent: "SELECT 1 FROM t", Limit: 5000})
	require.NoError(t, err)
	assert.Contains(t, ds.lastSQL, "LIMIT 100")
}

func TestSuggest(t *testing.T) {
	llm := &fakeLLMRepo{names: map[string]string{"cnt": "Order Count"}}
	svc := newSqlParseFixture(&fakeDatasetRepo{}, llm)

	result, err := svc.Suggest(context.Background(), &dto.SQLParseRequest{
		SQLContent: "SELECT count(*) AS cnt, region FROM orders",
	})

	require.NoError(t, err)
	require.Len(t, result.Fields, 2)
	assert.Equal(t, "Order Count", result.Fields[0].DisplayName)
	// No suggestion means the raw name is echoed.
	assert.Equal(t, "region", result.Fields[1].DisplayName)
}

func TestSuggest_DegradesOnModelFailure(t *testing.T) {
	llm := &fakeLLMRepo{err: errors.New("quota exceeded")}
	svc := newSqlParseFixture(&fakeDatasetRepo{}, llm)

	result, err := svc.Suggest(context.Background(), &dto.SQLParseRequest{
		SQLContent: "SELECT total FROM orders",
	})

	require.NoError(t, err)
	require.Len(t, result.Fields, 1)
	assert.Equal(t, "total", result.Fields[0].DisplayName)
}
