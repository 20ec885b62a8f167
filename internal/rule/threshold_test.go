package rule

import (
	"testing"

	"golang-monitor/internal/dataset"
	"golang-monitor/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordWith(key string, v dataset.Value) *dataset.Record {
	r := dataset.NewRecord()
	r.Set(key, v)
	return r
}

func TestEvaluateThresholds_Triggered(t *testing.T) {
	records := []*dataset.Record{recordWith("total", dataset.NumberFromInt(15))}
	rules := []dto.ThresholdRule{{Field: "total", Operator: ">=", Threshold: float64(10)}}

	results := EvaluateThresholds(records, rules)

	require.Len(t, results, 1)
	assert.True(t, results[0].Triggered)
	assert.Equal(t, "total", results[0].Field)
	assert.Equal(t, "15", results[0].ActualValue.String())
	assert.Equal(t, "warn", results[0].Level)
	assert.Equal(t, "field[total] >= threshold[10], current[15], triggered", results[0].Message)
}

func TestEvaluateThresholds_NotTriggered(t *testing.T) {
	records := []*dataset.Record{recordWith("total", dataset.NumberFromInt(5))}
	rules := []dto.ThresholdRule{{Field: "total", Operator: ">=", Threshold: float64(10), Level: "error"}}

	results := EvaluateThresholds(records, rules)

	require.Len(t, results, 1)
	assert.False(t, results[0].Triggered)
	assert.Equal(t, "error", results[0].Level)
	assert.Equal(t, "field[total] >= threshold[10], current[5], not triggered", results[0].Message)
}

func TestEvaluateThresholds_UnresolvedFieldProducesNoOutcome(t *testing.T) {
	records := []*dataset.Record{
		recordWith("total", dataset.NumberFromInt(15)),
		recordWith("other", dataset.NumberFromInt(3)),
	}
	rules := []dto.ThresholdRule{{Field: "total", Operator: ">", Threshold: float64(1)}}

	results := EvaluateThresholds(records, rules)

	// The second record has no "total" column, so only one pairing remains.
	require.Len(t, results, 1)
	assert.Equal(t, "15", results[0].ActualValue.String())
}

func TestEvaluateThresholds_NullValueSkipped(t *testing.T) {
	records := []*dataset.Record{recordWith("total", dataset.Null())}
	rules := []dto.ThresholdRule{{Field: "total", Operator: ">", Threshold: float64(1)}}

	assert.Empty(t, EvaluateThresholds(records, rules))
}

func TestEvaluateThresholds_CoercionFailureNotTriggered(t *testing.T) {
	records := []*dataset.Record{recordWith("status", dataset.String("pending"))}
	rules := []dto.ThresholdRule{{Field: "status", Operator: ">", Threshold: float64(1)}}

	results := EvaluateThresholds(records, rules)

	require.Len(t, results, 1)
	assert.False(t, results[0].Triggered)
}

func TestEvaluateThresholds_RuleMajorOrder(t *testing.T) {
	r1 := dataset.NewRecord()
	r1.Set("a", dataset.NumberFromInt(1))
	r1.Set("b", dataset.NumberFromInt(2))
	r2 := dataset.NewRecord()
	r2.Set("a", dataset.NumberFromInt(3))
	r2.Set("b", dataset.NumberFromInt(4))

	rules := []dto.ThresholdRule{
		{Field: "b", Operator: ">", Threshold: float64(0)},
		{Field: "a", Operator: ">", Threshold: float64(0)},
	}

	results := EvaluateThresholds([]*dataset.Record{r1, r2}, rules)

	require.Len(t, results, 4)
	assert.Equal(t, []string{"b", "b", "a", "a"}, []string{
		results[0].Field, results[1].Field, results[2].Field, results[3].Field,
	})
	assert.Equal(t, "2", results[0].ActualValue.String())
	assert.Equal(t, "4", results[1].ActualValue.String())
}

func TestEvaluateThresholds_NestedFieldPath(t *testing.T) {
	inner := dataset.NewRecord()
	inner.Set("count", dataset.NumberFromInt(9))
	records := []*dataset.Record{recordWith("stats", dataset.Nested(inner))}

	rules := []dto.ThresholdRule{{Field: "stats.count", Operator: "<", Threshold: float64(10)}}

	results := EvaluateThresholds(records, rules)

	require.Len(t, results, 1)
	assert.True(t, results[0].Triggered)
}

func TestEvaluateThresholds_VerbatimMessageAndTextThreshold(t *testing.T) {
	records := []*dataset.Record{recordWith("total", dataset.String("15"))}
	rules := []dto.ThresholdRule{{Field: "total", Operator: "=", Threshold: "15", Message: "custom alert"}}

	results := EvaluateThresholds(records, rules)

	require.Len(t, results, 1)
	assert.True(t, results[0].Triggered)
	assert.Equal(t, "custom alert", results[0].Message)
}

func TestEvaluateThresholds_IncompleteRuleSkipped(t *testing.T) {
	records := []*dataset.Record{recordWith("total", dataset.NumberFromInt(1))}
	rules := []dto.ThresholdRule{
		{Field: "", Operator: ">", Threshold: float64(1)},
		{Field: "total", Operator: "", Threshold: float64(1)},
	}

	assert.Empty(t, EvaluateThresholds(records, rules))
}
