package dataset

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecord_DuplicateKeyKeepsPositionOverwritesValue(t *testing.T) {
	r := NewRecord()
	r.Set("id", NumberFromInt(1))
	r.Set("total", NumberFromInt(10))
	r.Set("id", NumberFromInt(2))

	assert.Equal(t, []string{"id", "total"}, r.Keys())

	k, v, ok := r.First()
	assert.True(t, ok)
	assert.Equal(t, "id", k)
	d, _ := v.Decimal()
	assert.True(t, d.Equal(decimal.NewFromInt(2)))
}

func TestRecord_GetPath(t *testing.T) {
	inner := NewRecord()
	inner.Set("count", NumberFromInt(7))

	r := NewRecord()
	r.Set("stats", Nested(inner))
	r.Set("name", String("orders"))

	tests := []struct {
		name   string
		path   string
		wantOk bool
		want   string
	}{
		{name: "top level", path: "name", wantOk: true, want: "orders"},
		{name: "nested", path: "stats.count", wantOk: true, want: "7"},
		{name: "missing key", path: "stats.missing", wantOk: false},
		{name: "path through scalar", path: "name.sub", wantOk: false},
		{name: "empty path", path: "", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := r.GetPath(tt.path)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, v.String())
			}
		})
	}
}

func TestRecord_MarshalJSONPreservesOrder(t *testing.T) {
	r := NewRecord()
	r.Set("z", NumberFromInt(1))
	r.Set("a", String("x"))
	r.Set("m", Null())

	b, err := json.Marshal(r)
	assert.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"x","m":null}`, string(b))
}

func TestFromDriverValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want Kind
		str  string
	}{
		{name: "nil", in: nil, want: KindNull, str: "null"},
		{name: "int64", in: int64(42), want: KindNumber, str: "42"},
		{name: "float64", in: 1.5, want: KindNumber, str: "1.5"},
		{name: "bytes", in: []byte("12.30"), want: KindString, str: "12.30"},
		{name: "string", in: "hello", want: KindString, str: "hello"},
		{name: "bool", in: true, want: KindBool, str: "true"},
		{name: "time", in: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), want: KindString, str: "2024-01-02 03:04:05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := FromDriverValue(tt.in)
			assert.Equal(t, tt.want, v.Kind())
			assert.Equal(t, tt.str, v.String())
		})
	}
}
