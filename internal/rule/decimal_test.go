package rule

import (
	"testing"

	"golang-monitor/internal/dataset"
	"golang-monitor/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name    string
		in      dataset.Value
		want    string
		wantErr bool
	}{
		{name: "number passes through", in: dataset.NumberFromInt(15), want: "15"},
		{name: "float number", in: dataset.NumberFromFloat(1.25), want: "1.25"},
		{name: "numeric text parsed", in: dataset.String("12.30"), want: "12.3"},
		{name: "padded numeric text", in: dataset.String(" 7 "), want: "7"},
		{name: "non numeric text", in: dataset.String("abc"), wantErr: true},
		{name: "null", in: dataset.Null(), wantErr: true},
		{name: "bool", in: dataset.Bool(true), wantErr: true},
		{name: "nested record", in: dataset.Nested(dataset.NewRecord()), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ToDecimal(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrCoercion)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestCompare(t *testing.T) {
	ten := decimal.NewFromInt(10)
	fifteen := decimal.NewFromInt(15)

	assert.True(t, compare(fifteen, ten, ">"))
	assert.True(t, compare(fifteen, ten, ">="))
	assert.True(t, compare(ten, ten, ">="))
	assert.True(t, compare(ten, fifteen, "<"))
	assert.True(t, compare(ten, ten, "="))
	assert.True(t, compare(ten, ten, "=="))
	assert.True(t, compare(ten, fifteen, "!="))
	assert.True(t, compare(ten, fifteen, "<>"))
	assert.False(t, compare(ten, fifteen, ">"))
	assert.False(t, compare(ten, ten, "unknown"))
}

func TestThresholdToDecimal(t *testing.T) {
	d, err := thresholdToDecimal(float64(10))
	assert.NoError(t, err)
	assert.Equal(t, "10", d.String())

	d, err = thresholdToDecimal("3.5")
	assert.NoError(t, err)
	assert.Equal(t, "3.5", d.String())

	_, err = thresholdToDecimal(nil)
	assert.ErrorIs(t, err, errs.ErrCoercion)

	_, err = thresholdToDecimal("not a number")
	assert.ErrorIs(t, err, errs.ErrCoercion)
}
