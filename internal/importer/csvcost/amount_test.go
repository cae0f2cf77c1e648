package csvcost

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	type testCase struct {
		input string
		want  string
	}

	tests := []testCase{
		{input: "1.234,56", want: "1234.56"},
		{input: "-588,74", want: "-588.74"},
		{input: "10,00", want: "10"},
		{input: "1,234.56", want: "1234.56"},
		{input: "1234.56", want: "1234.56"},
		{input: "1,234,567", want: "1234567"},
		{input: "1.234.567", want: "1234567"},
		{input: "€ 12,50", want: "12.5"},
		{input: "$99", want: "99"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			require.NoError(t, err)
			assert.Truef(t, decimal.RequireFromString(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, input := range []string{"", "  ", "abc", "1,2,3x"} {
		_, err := parseAmount(input)
		assert.Error(t, err, input)
	}
}

func TestDetectComma(t *testing.T) {
	assert.Equal(t, ';', detectComma([]byte("a;b;c\n1;2,5;3\n")))
	assert.Equal(t, ',', detectComma([]byte("a,b,c\n1,2.5,3\n")))
	assert.Equal(t, ',', detectComma([]byte("")))
}
