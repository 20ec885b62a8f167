package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSafety(t *testing.T) {
	tests := []struct {
		name string
		tpl  string
		want bool
	}{
		{name: "plain select", tpl: "SELECT id, total FROM orders", want: true},
		{name: "empty", tpl: "", want: true},
		{name: "drop uppercase", tpl: "DROP TABLE orders", want: false},
		{name: "drop lowercase", tpl: "drop table orders", want: false},
		{name: "delete mixed case", tpl: "Delete FROM orders", want: false},
		{name: "update", tpl: "UPDATE orders SET x = 1", want: false},
		{name: "insert", tpl: "INSERT INTO orders VALUES (1)", want: false},
		{name: "truncate", tpl: "TRUNCATE orders", want: false},
		{name: "statement separator", tpl: "SELECT 1; SELECT 2", want: false},
		{name: "keyword inside column name", tpl: "SELECT update_time FROM orders", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSafety(tt.tpl))
		})
	}
}

func TestResolveTimePlaceholder(t *testing.T) {
	tests := []struct {
		name      string
		tpl       string
		timeRange string
		want      string
	}{
		{
			name:      "no placeholders unchanged",
			tpl:       "SELECT * FROM orders WHERE status = 1",
			timeRange: "2024-01-01 00:00:00,2024-01-02 00:00:00",
			want:      "SELECT * FROM orders WHERE status = 1",
		},
		{
			name:      "range placeholder",
			tpl:       "SELECT * FROM orders WHERE created_at BETWEEN ${timeRange}",
			timeRange: "2024-01-01 00:00:00,2024-01-02 00:00:00",
			want:      "SELECT * FROM orders WHERE created_at BETWEEN '2024-01-01 00:00:00' AND '2024-01-02 00:00:00'",
		},
		{
			name:      "single bound placeholders",
			tpl:       "SELECT * FROM orders WHERE created_at >= ${startTime} AND created_at < ${endTime}",
			timeRange: "2024-01-01 00:00:00,2024-01-02 00:00:00",
			want:      "SELECT * FROM orders WHERE created_at >= '2024-01-01 00:00:00' AND created_at < '2024-01-02 00:00:00'",
		},
		{
			name:      "missing end bound falls back to start",
			tpl:       "SELECT * FROM orders WHERE created_at BETWEEN ${timeRange}",
			timeRange: "2024-01-01 00:00:00,",
			want:      "SELECT * FROM orders WHERE created_at BETWEEN '2024-01-01 00:00:00' AND '2024-01-01 00:00:00'",
		},
		{
			name:      "empty range degrades to NULL",
			tpl:       "SELECT * FROM orders WHERE created_at BETWEEN ${timeRange}",
			timeRange: "",
			want:      "SELECT * FROM orders WHERE created_at BETWEEN NULL",
		},
		{
			name:      "range without comma degrades to NULL",
			tpl:       "SELECT * FROM orders WHERE created_at >= ${startTime}",
			timeRange: "2024-01-01 00:00:00",
			want:      "SELECT * FROM orders WHERE created_at >= NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTimePlaceholder(tt.tpl, tt.timeRange))
		})
	}
}

func TestAppendWhere(t *testing.T) {
	tests := []struct {
		name   string
		tpl    string
		clause string
		want   string
	}{
		{
			name:   "no existing filter",
			tpl:    "SELECT * FROM orders",
			clause: "status = 1",
			want:   "SELECT * FROM orders WHERE status = 1",
		},
		{
			name:   "existing filter conjoined",
			tpl:    "SELECT * FROM orders WHERE total > 10",
			clause: "status = 1",
			want:   "SELECT * FROM orders WHERE ( total > 10) AND (status = 1)",
		},
		{
			name:   "ordering clause preserved after combined filter",
			tpl:    "SELECT * FROM orders WHERE total > 10 ORDER BY id DESC",
			clause: "status = 1",
			want:   "SELECT * FROM orders WHERE ( total > 10 ) AND (status = 1) ORDER BY id DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AppendWhere(tt.tpl, tt.clause))
		})
	}
}

func TestBuildFinalSQL(t *testing.T) {
	got := BuildFinalSQL(
		"SELECT * FROM orders WHERE created_at BETWEEN ${timeRange}",
		"2024-01-01 00:00:00,2024-01-02 00:00:00",
		"status = 1",
	)
	assert.Equal(t,
		"SELECT * FROM orders WHERE ( created_at BETWEEN '2024-01-01 00:00:00' AND '2024-01-02 00:00:00') AND (status = 1)",
		got,
	)

	assert.Equal(t, "", BuildFinalSQL("  ", "", ""))
}

func TestWrapSubQuery(t *testing.T) {
	assert.Equal(t, "(SELECT 1)", WrapSubQuery("SELECT 1"))
	assert.Equal(t, "(SELECT 1)", WrapSubQuery("(SELECT 1)"))
	assert.Equal(t, "my_table", WrapSubQuery("my_table"))
}
