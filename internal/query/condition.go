package query

import (
	"fmt"
	"sort"
	"strings"
)

// BuildWhereClause renders a task's stored query condition into a SQL
// fragment (no WHERE keyword). Keys are emitted in sorted order so the
// rendered fragment is deterministic.
func BuildWhereClause(condition map[string]interface{}) string {
	if len(condition) == 0 {
		return ""
	}

	fields := make([]string, 0, len(condition))
	for f := range condition {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var sb strings.Builder
	for _, field := range fields {
		value := condition[field]

		if sb.Len() > 0 {
			sb.WriteString(" AND ")
		}

		switch v := value.(type) {
		case nil:
			sb.WriteString(field + " IS NULL")
		case []interface{}:
			sb.WriteString(field + " IN (" + formatListValue(v) + ")")
		case map[string]interface{}:
			sb.WriteString(buildCondition(field, v))
		default:
			sb.WriteString(field + " = " + formatValue(value))
		}
	}

	return sb.String()
}

func buildCondition(field string, item map[string]interface{}) string {
	op, hasOp := item["operator"]
	value, hasValue := item["value"]
	if !hasOp || !hasValue {
		return field + " = " + formatValue(item["value"])
	}
	return BuildFieldCondition(field, strings.TrimSpace(fmt.Sprintf("%v", op)), value)
}

// BuildFieldCondition renders a single field/operator/value comparison.
// Unknown operators fall back to equality.
func BuildFieldCondition(field, operator string, value interface{}) string {
	if strings.TrimSpace(operator) == "" {
		operator = "="
	}

	formatted := formatValue(value)

	switch strings.ToUpper(operator) {
	case "=", "==":
		return field + " = " + formatted
	case "!=", "<>":
		return field + " != " + formatted
	case ">":
		return field + " > " + formatted
	case ">=":
		return field + " >= " + formatted
	case "<":
		return field + " < " + formatted
	case "<=":
		return field + " <= " + formatted
	case "LIKE":
		return field + " LIKE " + formatted
	case "NOT LIKE":
		return field + " NOT LIKE " + formatted
	case "IN":
		if list, ok := value.([]interface{}); ok {
			return field + " IN (" + formatListValue(list) + ")"
		}
		return field + " IN (" + formatted + ")"
	case "NOT IN":
		if list, ok := value.([]interface{}); ok {
			return field + " NOT IN (" + formatListValue(list) + ")"
		}
		return field + " NOT IN (" + formatted + ")"
	case "BETWEEN":
		if list, ok := value.([]interface{}); ok && len(list) >= 2 {
			return field + " BETWEEN " + formatValue(list[0]) + " AND " + formatValue(list[1])
		}
		return field + " = " + formatted
	case "IS NULL":
		return field + " IS NULL"
	case "IS NOT NULL":
		return field + " IS NOT NULL"
	default:
		return field + " = " + formatted
	}
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "1"
		}
		return "0"
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", v)
	default:
		s := fmt.Sprintf("%v", v)
		s = strings.ReplaceAll(s, "'", "''")
		s = strings.ReplaceAll(s, `\`, `\\`)
		return "'" + s + "'"
	}
}

func formatListValue(list []interface{}) string {
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, formatValue(item))
	}
	return strings.Join(parts, ", ")
}
