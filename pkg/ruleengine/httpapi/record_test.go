package httpapi

import (
	"testing"

	"github.com/randalmurphal/ruleengine/pkg/ruleengine/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecord(t *testing.T) {
	record, err := DecodeRecord([]byte(`{
		"age": 35,
		"salary": 60000.0,
		"ratio": 0.5,
		"big": 18446744073709551615,
		"department": "Sales",
		"active": true,
		"manager": null,
		"tags": ["a", "b"]
	}`))
	require.NoError(t, err)

	assert.Equal(t, int64(35), record["age"])
	assert.Equal(t, 60000.0, record["salary"])
	assert.Equal(t, 0.5, record["ratio"])
	assert.IsType(t, float64(0), record["big"])
	assert.Equal(t, "Sales", record["department"])
	assert.Equal(t, true, record["active"])
	assert.Contains(t, record, "manager")
	assert.Nil(t, record["manager"])
	assert.Equal(t, []byte(`["a","b"]`), record["tags"])
}

func TestDecodeRecord_Evaluates(t *testing.T) {
	record, err := DecodeRecord([]byte(`{"age": 35, "salary": 60000.0, "big": 18446744073709551615, "tags": ["x"]}`))
	require.NoError(t, err)

	tests := []struct {
		rule string
		want bool
	}{
		{"age > 30", true},
		{"salary >= 60000", true},
		{"big > 1", false},
		{"tags = 'x'", false},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			tree, err := expr.Parse(tt.rule)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expr.Evaluate(tree, record))
		})
	}
}

func TestDecodeRecord_Errors(t *testing.T) {
	_, err := DecodeRecord([]byte(`{"age":`))
	assert.Error(t, err)

	_, err = DecodeRecord([]byte(`[1, 2]`))
	assert.ErrorIs(t, err, ErrRecordNotObject)

	_, err = DecodeRecord([]byte(`"text"`))
	assert.ErrorIs(t, err, ErrRecordNotObject)
}
