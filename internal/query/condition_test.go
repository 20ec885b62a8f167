package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		condition map[string]interface{}
		want      string
	}{
		{name: "empty", condition: nil, want: ""},
		{
			name:      "simple equality",
			condition: map[string]interface{}{"status": float64(1)},
			want:      "status = 1",
		},
		{
			name:      "null value",
			condition: map[string]interface{}{"deleted_at": nil},
			want:      "deleted_at IS NULL",
		},
		{
			name:      "in list",
			condition: map[string]interface{}{"region": []interface{}{"eu", "us"}},
			want:      "region IN ('eu', 'us')",
		},
		{
			name: "operator map",
			condition: map[string]interface{}{
				"total": map[string]interface{}{"operator": ">=", "value": float64(100)},
			},
			want: "total >= 100",
		},
		{
			name: "multiple fields sorted and conjoined",
			condition: map[string]interface{}{
				"b": float64(2),
				"a": float64(1),
			},
			want: "a = 1 AND b = 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildWhereClause(tt.condition))
		})
	}
}

func TestBuildFieldCondition(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		operator string
		value    interface{}
		want     string
	}{
		{name: "default operator", field: "x", operator: "", value: float64(1), want: "x = 1"},
		{name: "not equal alias", field: "x", operator: "<>", value: float64(1), want: "x != 1"},
		{name: "like", field: "name", operator: "LIKE", value: "%ord%", want: "name LIKE '%ord%'"},
		{name: "between", field: "x", operator: "BETWEEN", value: []interface{}{float64(1), float64(5)}, want: "x BETWEEN 1 AND 5"},
		{name: "is null", field: "x", operator: "IS NULL", value: nil, want: "x IS NULL"},
		{name: "quote escaping", field: "name", operator: "=", value: "o'brien", want: "name = 'o''brien'"},
		{name: "boolean as bit", field: "active", operator: "=", value: true, want: "active = 1"},
		{name: "unknown operator falls back", field: "x", operator: "~~", value: float64(3), want: "x = 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFieldCondition(tt.field, tt.operator, tt.value))
		})
	}
}
