package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type configBody struct {
	Percent string `json:"percent" validate:"required,percent"`
	Level   int    `json:"level" validate:"min=1,max=6"`
}

type amountBody struct {
	Amount string `json:"amount" validate:"required,money"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(amountBody{Amount: "10.50"}))
	assert.NoError(t, Struct(configBody{Percent: "0", Level: 6}))

	tests := []struct {
		name  string
		body  interface{}
		field string
		msg   string
	}{
		{"missing amount", amountBody{}, "amount", "is required"},
		{"negative amount", amountBody{Amount: "-1"}, "amount", "must be a positive amount with at most two decimals"},
		{"three decimals", amountBody{Amount: "1.005"}, "amount", "must be a positive amount with at most two decimals"},
		{"not a number", amountBody{Amount: "ten"}, "amount", "must be a positive amount with at most two decimals"},
		{"percent over 100", configBody{Percent: "100.01", Level: 1}, "percent", "must be between 0 and 100 with at most two decimals"},
		{"level too deep", configBody{Percent: "5", Level: 7}, "level", "must be at most 6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.body)
			require.Error(t, err)
			verrs, ok := err.(Errors)
			require.True(t, ok)
			assert.Equal(t, tt.msg, verrs[tt.field])
		})
	}
}

func TestErrorsMessageIsSorted(t *testing.T) {
	err := Errors{"percent": "is required", "level": "must be at least 1"}
	assert.Equal(t, "level must be at least 1; percent is required", err.Error())
}
