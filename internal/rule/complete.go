package rule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang-monitor/internal/dataset"
	"golang-monitor/internal/dto"

	"github.com/shopspring/decimal"
)

const (
	ReasonNoData    = "no data"
	ReasonDataReady = "data ready"
)

var (
	// countExprGate recognizes the one supported expression shape,
	// a comparison of dataCount against an integer literal.
	countExprGate = regexp.MustCompile(`^dataCount\s*[><=!]+\s*\d+$`)
	countExprRe   = regexp.MustCompile(`^dataCount\s*(>=|<=|!=|==|>|<|=)\s*(\d+)$`)
)

// Decide evaluates the completion rule against the record list. Precedence:
// empty data beats everything, then the condition expression, then the
// field/threshold pair, then the bare count threshold, then "has data".
// Reasons are rebuilt on every call since they embed current counts.
func Decide(records []*dataset.Record, rules map[string]interface{}) dto.CompleteResult {
	dataCount := len(records)

	if dataCount == 0 {
		return dto.CompleteResult{Completed: false, Reason: ReasonNoData, DataCount: 0}
	}

	if len(rules) == 0 {
		return dto.CompleteResult{Completed: true, Reason: ReasonDataReady, DataCount: dataCount}
	}

	condition := stringValue(rules["condition"])
	threshold, hasThreshold := rules["threshold"]
	if threshold == nil {
		hasThreshold = false
	}
	operator := stringValue(rules["operator"])
	targetField := stringValue(rules["targetField"])

	result := dto.CompleteResult{DataCount: dataCount}

	switch {
	case condition != "":
		if evaluateCountExpression(dataCount, condition) {
			result.Completed = true
			result.Reason = "completion condition met: " + condition
		} else {
			result.Reason = "completion condition not met: " + condition
		}

	case targetField != "" && hasThreshold:
		// The field accessor deliberately reduces to the record count; the
		// named field only appears in the reason text.
		actual := dataCount
		met := evaluateCondition(decimal.NewFromInt(int64(actual)), operator, threshold)
		if met {
			result.Completed = true
			result.Reason = fmt.Sprintf("field[%s]=%d meets condition: %s %v", targetField, actual, operator, threshold)
		} else {
			result.Reason = fmt.Sprintf("field[%s]=%d does not meet condition: %s %v", targetField, actual, operator, threshold)
		}

	case hasThreshold:
		met := evaluateCondition(decimal.NewFromInt(int64(dataCount)), operator, threshold)
		if met {
			result.Completed = true
			result.Reason = fmt.Sprintf("data count=%d meets condition: %s %v", dataCount, operator, threshold)
		} else {
			result.Reason = fmt.Sprintf("data count=%d does not meet condition: %s %v", dataCount, operator, threshold)
		}

	default:
		result.Completed = true
		result.Reason = ReasonDataReady
	}

	return result
}

// evaluateCountExpression handles the restricted "dataCount <op> <int>"
// form. Anything that does not look like it is treated as satisfied: an
// unrecognized expression must not block completion.
func evaluateCountExpression(dataCount int, condition string) bool {
	expr := strings.TrimSpace(condition)
	if !countExprGate.MatchString(expr) {
		return true
	}

	m := countExprRe.FindStringSubmatch(expr)
	if m == nil {
		return false
	}

	n, err := strconv.Atoi(m[2])
	if err != nil {
		return false
	}
	return evaluateCondition(decimal.NewFromInt(int64(dataCount)), m[1], n)
}

// evaluateCondition compares an actual decimal against a configured
// threshold; the operator defaults to >= when unset.
func evaluateCondition(actual decimal.Decimal, operator string, threshold interface{}) bool {
	thresh, err := thresholdToDecimal(threshold)
	if err != nil {
		return false
	}
	if strings.TrimSpace(operator) == "" {
		operator = ">="
	}
	return compare(actual, thresh, operator)
}

func stringValue(v interface{}) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
