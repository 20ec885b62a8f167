package query

import (
	"regexp"
	"strings"
)

var timePlaceholderRe = regexp.MustCompile(`\$\{timeRange\}|\$\{startTime\}|\$\{endTime\}`)

// unsafeKeywords carry a trailing space so that column names like
// "update_time" do not trip the check.
var unsafeKeywords = []string{
	"DROP ", "DELETE ", "UPDATE ", "INSERT ", "ALTER ", "TRUNCATE ", "EXEC ", "EXECUTE ",
}

// ValidateSafety reports whether a query template is free of mutating
// keywords and statement separators. Callers turn a false into a fatal
// validation failure before anything is executed.
func ValidateSafety(tpl string) bool {
	if strings.TrimSpace(tpl) == "" {
		return true
	}

	upper := strings.ToUpper(tpl)
	for _, kw := range unsafeKeywords {
		if strings.Contains(upper, kw) {
			return false
		}
	}
	return !strings.Contains(upper, ";")
}

// ResolveTimePlaceholder substitutes ${timeRange}, ${startTime} and
// ${endTime} with quoted literals taken from a "start,end" range. Without a
// usable range every placeholder becomes NULL so the template still renders
// valid SQL, at the cost of the time filter degrading.
func ResolveTimePlaceholder(tpl, timeRange string) string {
	if strings.TrimSpace(tpl) == "" {
		return tpl
	}

	if strings.TrimSpace(timeRange) == "" || !strings.Contains(timeRange, ",") {
		return timePlaceholderRe.ReplaceAllString(tpl, "NULL")
	}

	parts := strings.SplitN(timeRange, ",", 2)
	start := strings.TrimSpace(parts[0])
	end := start
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		end = strings.TrimSpace(parts[1])
	}

	return timePlaceholderRe.ReplaceAllStringFunc(tpl, func(ph string) string {
		switch ph {
		case "${timeRange}":
			return "'" + start + "' AND '" + end + "'"
		case "${startTime}":
			return "'" + start + "'"
		case "${endTime}":
			return "'" + end + "'"
		}
		return ph
	})
}

// AppendWhere conjoins an extra condition with the template's filter.
// Clause boundaries are found by case-insensitive keyword search, not by
// parsing; keywords inside string literals are a documented limitation.
func AppendWhere(tpl, clause string) string {
	if strings.TrimSpace(tpl) == "" {
		return tpl
	}

	upper := strings.ToUpper(tpl)
	whereIdx := strings.Index(upper, "WHERE")
	if whereIdx == -1 {
		return tpl + " WHERE " + clause
	}

	condStart := whereIdx + len("WHERE")
	orderIdx := strings.Index(upper, "ORDER BY")
	if orderIdx == -1 {
		return tpl[:condStart] + " (" + tpl[condStart:] + ") AND (" + clause + ")"
	}
	return tpl[:condStart] + " (" + tpl[condStart:orderIdx] + ") AND (" + clause + ") " + tpl[orderIdx:]
}

// BuildFinalSQL resolves placeholders and splices the extra condition, in
// that order. Safety validation is the caller's responsibility so that the
// violation can be reported before any substitution happens.
func BuildFinalSQL(tpl, timeRange, whereClause string) string {
	if strings.TrimSpace(tpl) == "" {
		return ""
	}

	sql := ResolveTimePlaceholder(tpl, timeRange)
	if strings.TrimSpace(whereClause) != "" {
		sql = AppendWhere(sql, whereClause)
	}
	return sql
}

// WrapSubQuery parenthesizes a SELECT so it can be embedded, e.g. for a
// preview with an outer LIMIT.
func WrapSubQuery(sql string) string {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return sql
	}
	if strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")") {
		return sql
	}
	if strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return "(" + sql + ")"
	}
	return sql
}
