package rule

import (
	"fmt"
	"strings"

	"golang-monitor/internal/dataset"
	"golang-monitor/internal/dto"
)

const defaultLevel = "warn"

// EvaluateThresholds applies every rule to every record, rule-major so the
// configured rule order groups the outcome list. A pairing whose field path
// does not resolve (or resolves to null) produces no outcome at all.
func EvaluateThresholds(records []*dataset.Record, rules []dto.ThresholdRule) []dto.ThresholdResult {
	results := make([]dto.ThresholdResult, 0)
	if len(records) == 0 || len(rules) == 0 {
		return results
	}

	for _, r := range rules {
		field := strings.TrimSpace(r.Field)
		operator := strings.TrimSpace(r.Operator)
		if field == "" || operator == "" {
			continue
		}

		for _, record := range records {
			value, ok := record.GetPath(field)
			if !ok || value.IsNull() {
				continue
			}

			triggered := checkCondition(value, operator, r.Threshold)

			level := strings.TrimSpace(r.Level)
			if level == "" {
				level = defaultLevel
			}

			message := strings.TrimSpace(r.Message)
			if message == "" {
				message = defaultMessage(field, operator, r.Threshold, value, triggered)
			}

			results = append(results, dto.ThresholdResult{
				Field:       field,
				Operator:    operator,
				Threshold:   r.Threshold,
				ActualValue: value,
				Level:       level,
				Message:     message,
				Triggered:   triggered,
			})
		}
	}

	return results
}

// checkCondition compares a record value against the configured threshold.
// Coercion failure on either side means the rule did not trigger.
func checkCondition(value dataset.Value, operator string, threshold interface{}) bool {
	actual, err := ToDecimal(value)
	if err != nil {
		return false
	}
	thresh, err := thresholdToDecimal(threshold)
	if err != nil {
		return false
	}
	return compare(actual, thresh, operator)
}

func defaultMessage(field, operator string, threshold interface{}, actual dataset.Value, triggered bool) string {
	label := "not triggered"
	if triggered {
		label = "triggered"
	}
	return fmt.Sprintf("field[%s] %s threshold[%v], current[%s], %s", field, operator, threshold, actual, label)
}
