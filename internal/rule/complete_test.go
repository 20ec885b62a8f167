package rule

import (
	"testing"

	"golang-monitor/internal/dataset"

	"github.com/stretchr/testify/assert"
)

func makeRecords(n int) []*dataset.Record {
	records := make([]*dataset.Record, 0, n)
	for i := 0; i < n; i++ {
		r := dataset.NewRecord()
		r.Set("id", dataset.NumberFromInt(int64(i)))
		records = append(records, r)
	}
	return records
}

func TestDecide_EmptyRecordsOverridesRules(t *testing.T) {
	result := Decide(nil, map[string]interface{}{"threshold": float64(0), "operator": ">="})

	assert.False(t, result.Completed)
	assert.Equal(t, "no data", result.Reason)
	assert.Equal(t, 0, result.DataCount)
}

func TestDecide_NoRuleDefaultsToDataReady(t *testing.T) {
	result := Decide(makeRecords(3), nil)

	assert.True(t, result.Completed)
	assert.Equal(t, "data ready", result.Reason)
	assert.Equal(t, 3, result.DataCount)
}

func TestDecide_ConditionExpression(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		condition string
		want      bool
	}{
		{name: "ge met", count: 10, condition: "dataCount >= 10", want: true},
		{name: "ge not met", count: 9, condition: "dataCount >= 10", want: false},
		{name: "lt met", count: 3, condition: "dataCount < 5", want: true},
		{name: "eq met", count: 5, condition: "dataCount == 5", want: true},
		{name: "single equals", count: 5, condition: "dataCount = 5", want: true},
		{name: "ne met", count: 4, condition: "dataCount != 5", want: true},
		{name: "ne not met", count: 5, condition: "dataCount != 5", want: false},
		{name: "no whitespace", count: 11, condition: "dataCount>10", want: true},
		{name: "unrecognized expression is fail open", count: 1, condition: "sum(total) > 100", want: true},
		{name: "unknown variable is fail open", count: 1, condition: "rowCount >= 10", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Decide(makeRecords(tt.count), map[string]interface{}{"condition": tt.condition})
			assert.Equal(t, tt.want, result.Completed)
			if tt.want {
				assert.Contains(t, result.Reason, "completion condition met")
			} else {
				assert.Contains(t, result.Reason, "completion condition not met")
			}
		})
	}
}

func TestDecide_ConditionTakesPrecedenceOverThreshold(t *testing.T) {
	// Threshold alone would fail (5 < 100), the condition wins.
	result := Decide(makeRecords(5), map[string]interface{}{
		"condition": "dataCount >= 5",
		"threshold": float64(100),
		"operator":  ">=",
	})

	assert.True(t, result.Completed)
}

// Pins the known quirk: the field-based branch ignores the named field and
// always compares the record count.
func TestDecide_TargetFieldBranchUsesRecordCount(t *testing.T) {
	records := makeRecords(4)
	rules := map[string]interface{}{
		"targetField": "total",
		"threshold":   float64(3),
		"operator":    ">=",
	}

	result := Decide(records, rules)

	assert.True(t, result.Completed)
	assert.Equal(t, "field[total]=4 meets condition: >= 3", result.Reason)

	rules["threshold"] = float64(100)
	result = Decide(records, rules)
	assert.False(t, result.Completed)
	assert.Equal(t, "field[total]=4 does not meet condition: >= 100", result.Reason)
}

func TestDecide_CountThreshold(t *testing.T) {
	rules := map[string]interface{}{"threshold": float64(5), "operator": ">="}

	result := Decide(makeRecords(6), rules)
	assert.True(t, result.Completed)
	assert.Equal(t, 6, result.DataCount)

	result = Decide(makeRecords(4), rules)
	assert.False(t, result.Completed)
	assert.Equal(t, "data count=4 does not meet condition: >= 5", result.Reason)
}

func TestDecide_CountThresholdDefaultOperator(t *testing.T) {
	result := Decide(makeRecords(5), map[string]interface{}{"threshold": float64(5)})

	assert.True(t, result.Completed)
}

func TestDecide_UnrelatedRuleKeysDefaultToDataReady(t *testing.T) {
	result := Decide(makeRecords(2), map[string]interface{}{"somethingElse": "x"})

	assert.True(t, result.Completed)
	assert.Equal(t, "data ready", result.Reason)
}

func TestDecide_ReasonsRegeneratedPerDecision(t *testing.T) {
	rules := map[string]interface{}{"threshold": float64(1), "operator": ">="}

	first := Decide(makeRecords(2), rules)
	second := Decide(makeRecords(7), rules)

	assert.Equal(t, "data count=2 meets condition: >= 1", first.Reason)
	assert.Equal(t, "data count=7 meets condition: >= 1", second.Reason)
}
