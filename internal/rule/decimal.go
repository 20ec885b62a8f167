package rule

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang-monitor/internal/dataset"
	"golang-monitor/pkg/errs"

	"github.com/shopspring/decimal"
)

// ToDecimal converts a record value into a decimal for rule comparison.
// Numbers pass through, text is parsed as a decimal literal, everything
// else fails with errs.ErrCoercion. Evaluators downgrade that failure to
// "condition not satisfied"; it is never surfaced to callers.
func ToDecimal(v dataset.Value) (decimal.Decimal, error) {
	switch v.Kind() {
	case dataset.KindNumber:
		d, _ := v.Decimal()
		return d, nil
	case dataset.KindString:
		s, _ := v.Text()
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return decimal.Decimal{}, errs.ErrCoercion
		}
		return d, nil
	default:
		return decimal.Decimal{}, errs.ErrCoercion
	}
}

// thresholdToDecimal coerces a configured threshold, which JSON decoding
// hands over as float64, string or json.Number depending on the source.
func thresholdToDecimal(threshold interface{}) (decimal.Decimal, error) {
	switch t := threshold.(type) {
	case nil:
		return decimal.Decimal{}, errs.ErrCoercion
	case decimal.Decimal:
		return t, nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case float32:
		return decimal.NewFromFloat(float64(t)), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Decimal{}, errs.ErrCoercion
		}
		return d, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Decimal{}, errs.ErrCoercion
		}
		return d, nil
	default:
		d, err := decimal.NewFromString(strings.TrimSpace(fmt.Sprintf("%v", t)))
		if err != nil {
			return decimal.Decimal{}, errs.ErrCoercion
		}
		return d, nil
	}
}

// compare applies a comparison operator to two decimals. Unknown operators
// are never satisfied.
func compare(actual, threshold decimal.Decimal, operator string) bool {
	switch strings.ToUpper(strings.TrimSpace(operator)) {
	case ">":
		return actual.GreaterThan(threshold)
	case ">=":
		return actual.GreaterThanOrEqual(threshold)
	case "<":
		return actual.LessThan(threshold)
	case "<=":
		return actual.LessThanOrEqual(threshold)
	case "=", "==":
		return actual.Equal(threshold)
	case "!=", "<>":
		return !actual.Equal(threshold)
	default:
		return false
	}
}
